package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/lottery/config"
	"github.com/ethpandaops/lottery/types"
)

// Config is the globally accessible configuration
var Config *types.Config

// ReadConfig will process a configuration
func ReadConfig(cfg *types.Config, path string) error {
	err := readConfigFile(cfg, path)
	if err != nil {
		return err
	}

	err = readConfigEnv(cfg)
	if err != nil {
		return fmt.Errorf("error reading config from environment: %w", err)
	}

	if cfg.ExecutionApi.Endpoint == "" {
		return fmt.Errorf("missing execution api endpoint")
	}

	if cfg.ExecutionApi.CallTimeout <= 0 {
		cfg.ExecutionApi.CallTimeout = 10 * time.Second
	}

	if !common.IsHexAddress(cfg.Contract.Address) {
		return fmt.Errorf("invalid or missing lottery contract address: %q", cfg.Contract.Address)
	}

	switch strings.ToLower(cfg.Wallet.Mode) {
	case "", "node":
		cfg.Wallet.Mode = "node"
	case "keystore":
		cfg.Wallet.Mode = "keystore"
		if cfg.Wallet.KeystoreDir == "" {
			return fmt.Errorf("wallet mode keystore requires a keystore directory")
		}
	default:
		return fmt.Errorf("unknown wallet mode: %v", cfg.Wallet.Mode)
	}

	if cfg.Wallet.DefaultAccount != "" && !common.IsHexAddress(cfg.Wallet.DefaultAccount) {
		return fmt.Errorf("invalid default wallet account: %q", cfg.Wallet.DefaultAccount)
	}

	log.WithFields(log.Fields{
		"endpoint":   cfg.ExecutionApi.Endpoint,
		"contract":   cfg.Contract.Address,
		"walletMode": cfg.Wallet.Mode,
	}).Infof("did init config")

	return nil
}

func readConfigFile(cfg *types.Config, path string) error {
	err := yaml.Unmarshal([]byte(config.DefaultConfigYml), cfg)
	if err != nil {
		return fmt.Errorf("error decoding default config: %v", err)
	}

	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file %v: %v", path, err)
	}
	defer f.Close()

	fileCfg := &types.Config{}
	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(fileCfg)
	if err != nil {
		return fmt.Errorf("error decoding config file %v: %v", path, err)
	}

	err = mergo.Merge(cfg, fileCfg, mergo.WithOverride)
	if err != nil {
		return fmt.Errorf("error merging config file %v: %v", path, err)
	}

	return nil
}

func readConfigEnv(cfg *types.Config) error {
	return envconfig.Process("", cfg)
}
