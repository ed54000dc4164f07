package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// LogError logs an error with callstack info that skips callerSkip many levels.
// callerSkip equal to 0 gives you info directly where LogError is called.
func LogError(logger logrus.FieldLogger, err error, errorMsg interface{}, callerSkip int, additionalInfos ...map[string]interface{}) {
	logErrorInfo(logger, err, callerSkip, additionalInfos...).Error(errorMsg)
}

func logErrorInfo(logger logrus.FieldLogger, err error, callerSkip int, additionalInfos ...map[string]interface{}) logrus.FieldLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	pc, fullFilePath, line, ok := runtime.Caller(callerSkip + 2)
	if ok {
		logger = logger.WithFields(logrus.Fields{
			"_file":     filepath.Base(fullFilePath),
			"_function": runtime.FuncForPC(pc).Name(),
			"_line":     line,
		})
	} else {
		logger = logger.WithField("runtime", "Callstack cannot be read")
	}

	// innermost error of the chain
	rootErr := err
	for rootErr != nil {
		next := errors.Unwrap(rootErr)
		if next == nil {
			break
		}
		rootErr = next
	}

	if err != nil {
		logger = logger.WithField("errType", fmt.Sprintf("%T", rootErr)).WithError(err)
	}

	for _, infoMap := range additionalInfos {
		logger = logger.WithFields(infoMap)
	}

	return logger
}
