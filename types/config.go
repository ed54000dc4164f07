package types

import "time"

// Config is a struct to hold the configuration data
type Config struct {
	Logging struct {
		OutputLevel  string `yaml:"outputLevel" envconfig:"LOGGING_OUTPUT_LEVEL"`
		OutputStderr bool   `yaml:"outputStderr" envconfig:"LOGGING_OUTPUT_STDERR"`

		FilePath  string `yaml:"filePath" envconfig:"LOGGING_FILE_PATH"`
		FileLevel string `yaml:"fileLevel" envconfig:"LOGGING_FILE_LEVEL"`
	} `yaml:"logging"`

	Server struct {
		Port string `yaml:"port" envconfig:"FRONTEND_SERVER_PORT"`
		Host string `yaml:"host" envconfig:"FRONTEND_SERVER_HOST"`
	} `yaml:"server"`

	Frontend struct {
		Enabled bool `yaml:"enabled" envconfig:"FRONTEND_ENABLED"`
		Debug   bool `yaml:"debug" envconfig:"FRONTEND_DEBUG"`
		Pprof   bool `yaml:"pprof" envconfig:"FRONTEND_PPROF"`
		Minify  bool `yaml:"minify" envconfig:"FRONTEND_MINIFY"`

		SiteName        string `yaml:"siteName" envconfig:"FRONTEND_SITE_NAME"`
		SiteSubtitle    string `yaml:"siteSubtitle" envconfig:"FRONTEND_SITE_SUBTITLE"`
		SiteDescription string `yaml:"siteDescription" envconfig:"FRONTEND_SITE_DESCRIPTION"`
		EthExplorerLink string `yaml:"ethExplorerLink" envconfig:"FRONTEND_ETH_EXPLORER_LINK"`

		CorsOrigins []string `yaml:"corsOrigins" envconfig:"FRONTEND_CORS_ORIGINS"`

		RefreshInterval  time.Duration `yaml:"refreshInterval" envconfig:"FRONTEND_REFRESH_INTERVAL"`
		HttpReadTimeout  time.Duration `yaml:"httpReadTimeout" envconfig:"FRONTEND_HTTP_READ_TIMEOUT"`
		HttpWriteTimeout time.Duration `yaml:"httpWriteTimeout" envconfig:"FRONTEND_HTTP_WRITE_TIMEOUT"`
		HttpIdleTimeout  time.Duration `yaml:"httpIdleTimeout" envconfig:"FRONTEND_HTTP_IDLE_TIMEOUT"`
	} `yaml:"frontend"`

	ExecutionApi struct {
		Endpoint    string            `yaml:"endpoint" envconfig:"EXECUTIONAPI_ENDPOINT"`
		Headers     map[string]string `yaml:"headers"`
		CallTimeout time.Duration     `yaml:"callTimeout" envconfig:"EXECUTIONAPI_CALL_TIMEOUT"`
	} `yaml:"executionapi"`

	Contract struct {
		Address            string        `yaml:"address" envconfig:"CONTRACT_ADDRESS"`
		MinimumEntry       string        `yaml:"minimumEntry" envconfig:"CONTRACT_MINIMUM_ENTRY"`
		TransactionTimeout time.Duration `yaml:"transactionTimeout" envconfig:"CONTRACT_TRANSACTION_TIMEOUT"`
	} `yaml:"contract"`

	Wallet struct {
		Mode           string `yaml:"mode" envconfig:"WALLET_MODE"`
		KeystoreDir    string `yaml:"keystoreDir" envconfig:"WALLET_KEYSTORE_DIR"`
		Passphrase     string `yaml:"passphrase" envconfig:"WALLET_PASSPHRASE"`
		DefaultAccount string `yaml:"defaultAccount" envconfig:"WALLET_DEFAULT_ACCOUNT"`
	} `yaml:"wallet"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
		Public  bool   `yaml:"public" envconfig:"METRICS_PUBLIC"`
		Host    string `yaml:"host" envconfig:"METRICS_HOST"`
		Port    string `yaml:"port" envconfig:"METRICS_PORT"`
	} `yaml:"metrics"`

	RateLimit struct {
		Enabled    bool `yaml:"enabled" envconfig:"RATELIMIT_ENABLED"`
		ProxyCount uint `yaml:"proxyCount" envconfig:"RATELIMIT_PROXY_COUNT"`
		Rate       uint `yaml:"rate" envconfig:"RATELIMIT_RATE"`
		Burst      uint `yaml:"burst" envconfig:"RATELIMIT_BURST"`
	} `yaml:"rateLimit"`
}
