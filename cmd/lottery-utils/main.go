package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/lottery/types"
	"github.com/ethpandaops/lottery/utils"
)

var rootCmd = &cobra.Command{
	Use:   "lottery-utils",
	Short: "Lottery frontend utilities",
	Long:  "Utilities for the lottery frontend including state inspection, wallet account listing and ether unit conversion",
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the lottery config file, if empty string defaults will be used")
}

// loadConfig reads the config referenced by the --config flag into utils.Config
func loadConfig(cmd *cobra.Command) (logrus.FieldLogger, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := &types.Config{}
	err := utils.ReadConfig(cfg, configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}
	// keep stdout for command output
	cfg.Logging.OutputStderr = true
	utils.Config = cfg

	_, logger := utils.InitLogger()
	return logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
