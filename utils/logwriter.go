package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogWriter owns the optional log file opened by InitLogger
type LogWriter struct {
	file *os.File
}

// Dispose closes the log file, if any
func (lw *LogWriter) Dispose() {
	if lw == nil || lw.file == nil {
		return
	}
	lw.file.Close()
	lw.file = nil
}

type levelFileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (hook *levelFileHook) Levels() []logrus.Level {
	return hook.levels
}

func (hook *levelFileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = hook.writer.Write(line)
	return err
}

// InitLogger configures the standard logrus logger from the global config
func InitLogger() (*LogWriter, *logrus.Logger) {
	logger := logrus.StandardLogger()
	logWriter := &LogWriter{}

	outputLevel := logrus.InfoLevel
	if Config.Logging.OutputLevel != "" {
		level, err := logrus.ParseLevel(Config.Logging.OutputLevel)
		if err != nil {
			logger.Warnf("invalid output log level %q: %v", Config.Logging.OutputLevel, err)
		} else {
			outputLevel = level
		}
	}

	if Config.Logging.OutputStderr {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(os.Stdout)
	}

	if Config.Logging.FilePath != "" {
		fileLevel := outputLevel
		if Config.Logging.FileLevel != "" {
			level, err := logrus.ParseLevel(Config.Logging.FileLevel)
			if err != nil {
				logger.Warnf("invalid file log level %q: %v", Config.Logging.FileLevel, err)
			} else {
				fileLevel = level
			}
		}

		file, err := os.OpenFile(Config.Logging.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Errorf("error opening log file %v: %v", Config.Logging.FilePath, err)
		} else {
			logWriter.file = file
			logger.AddHook(&levelFileHook{
				writer:    file,
				formatter: &logrus.JSONFormatter{},
				levels:    logrus.AllLevels[:fileLevel+1],
			})
			if fileLevel > outputLevel {
				// the hook only fires for entries the logger lets through
				outputLevel = fileLevel
			}
		}
	}

	logger.SetLevel(outputLevel)
	return logWriter, logger
}
