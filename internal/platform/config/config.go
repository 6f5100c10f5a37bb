package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config is used to hold all runtime configuration.
type Config struct {
	Agent struct {
		IssuerSeed     string `envconfig:"ISSUER_SEED"`
		OperatorName   string `default:"Standalone" envconfig:"OPERATOR_NAME"`
		Version        string `default:"unversioned" envconfig:"VERSION"`
		RequestTimeout uint64 `default:"60000000000" envconfig:"REQUEST_TIMEOUT"` // Nanoseconds, default 1 minute
	}
	Ledger struct {
		Endpoint      string `default:"wss://s.altnet.rippletest.net:51233" envconfig:"LEDGER_ENDPOINT"`
		HandshakeWait int    `default:"10" envconfig:"LEDGER_HANDSHAKE_WAIT"`  // Seconds
		ExpiryLedgers uint32 `default:"20" envconfig:"LEDGER_EXPIRY_LEDGERS"`  // Ledgers until a tx expires
		PollInterval  int    `default:"1000" envconfig:"LEDGER_POLL_INTERVAL"` // Milliseconds between confirmation polls
		BaseFeeDrops  string `default:"10" envconfig:"LEDGER_BASE_FEE"`        // Fallback fee when the node reports none
	}
	Oracle struct {
		RefreshMinutes int     `default:"30" envconfig:"ORACLE_REFRESH_MINUTES"`
		DefaultPrice   float64 `default:"1.0" envconfig:"ORACLE_DEFAULT_PRICE"`
		HistoryLimit   int     `default:"100" envconfig:"ORACLE_HISTORY_LIMIT"`
	}
	AWS struct {
		Region          string `default:"ap-southeast-2" envconfig:"AWS_REGION" json:"AWS_REGION"`
		AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" json:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" json:"AWS_SECRET_ACCESS_KEY"`
	}
	Storage struct {
		Bucket string `default:"standalone" envconfig:"STORAGE_BUCKET"`
		Root   string `default:"./tmp" envconfig:"STORAGE_ROOT"`
	}
}

// SafeConfig masks sensitive config values
func SafeConfig(cfg Config) *Config {
	cfgSafe := cfg

	if len(cfgSafe.Agent.IssuerSeed) > 0 {
		cfgSafe.Agent.IssuerSeed = "*** Masked ***"
	}
	if len(cfgSafe.AWS.AccessKeyID) > 0 {
		cfgSafe.AWS.AccessKeyID = "*** Masked ***"
	}
	if len(cfgSafe.AWS.SecretAccessKey) > 0 {
		cfgSafe.AWS.SecretAccessKey = "*** Masked ***"
	}

	return &cfgSafe
}

// Environment returns configuration sourced from environment variables
func Environment() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("AGENT", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
