package config

import (
	_ "embed"
)

// frontend config
//
//go:embed default.config.yml
var DefaultConfigYml string
