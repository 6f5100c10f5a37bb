package config

import (
	"os"
	"testing"
)

func TestEnvironment_defaults(t *testing.T) {
	cfg, err := Environment()
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if cfg.Ledger.Endpoint != "wss://s.altnet.rippletest.net:51233" {
		t.Errorf("Got %v, want testnet endpoint", cfg.Ledger.Endpoint)
	}
	if cfg.Ledger.ExpiryLedgers != 20 {
		t.Errorf("Got %v, want 20", cfg.Ledger.ExpiryLedgers)
	}
	if cfg.Ledger.BaseFeeDrops != "10" {
		t.Errorf("Got %v, want 10", cfg.Ledger.BaseFeeDrops)
	}
	if cfg.Agent.RequestTimeout != 60000000000 {
		t.Errorf("Got %v, want one minute in nanoseconds", cfg.Agent.RequestTimeout)
	}
	if cfg.Oracle.RefreshMinutes != 30 {
		t.Errorf("Got %v, want 30", cfg.Oracle.RefreshMinutes)
	}
	if cfg.Oracle.DefaultPrice != 1.0 {
		t.Errorf("Got %v, want 1.0", cfg.Oracle.DefaultPrice)
	}
	if cfg.Storage.Bucket != "standalone" {
		t.Errorf("Got %v, want standalone", cfg.Storage.Bucket)
	}
}

func TestEnvironment_override(t *testing.T) {
	os.Setenv("AGENT_LEDGER_ENDPOINT", "wss://node.example.com:51233")
	defer os.Unsetenv("AGENT_LEDGER_ENDPOINT")

	cfg, err := Environment()
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if cfg.Ledger.Endpoint != "wss://node.example.com:51233" {
		t.Errorf("Got %v, want the override", cfg.Ledger.Endpoint)
	}
}

func TestSafeConfig(t *testing.T) {
	var cfg Config
	cfg.Agent.IssuerSeed = "sn259rEFXrQrWyx3Q7XneWcwV6dfL"
	cfg.AWS.AccessKeyID = "AKIA123"
	cfg.AWS.SecretAccessKey = "secret"

	safe := SafeConfig(cfg)

	if safe.Agent.IssuerSeed != "*** Masked ***" {
		t.Errorf("Got %v, want masked", safe.Agent.IssuerSeed)
	}
	if safe.AWS.AccessKeyID != "*** Masked ***" {
		t.Errorf("Got %v, want masked", safe.AWS.AccessKeyID)
	}
	if safe.AWS.SecretAccessKey != "*** Masked ***" {
		t.Errorf("Got %v, want masked", safe.AWS.SecretAccessKey)
	}

	// The original is untouched.
	if cfg.Agent.IssuerSeed == "*** Masked ***" {
		t.Error("Expected the original config to keep its values")
	}

	// Empty values stay empty rather than implying a secret exists.
	empty := SafeConfig(Config{})
	if len(empty.Agent.IssuerSeed) != 0 {
		t.Errorf("Got %v, want empty", empty.Agent.IssuerSeed)
	}
}
