package models

import "time"

// Config represents the application configuration
type Config struct {
	Network NetworkConfig
	Relayer RelayerConfig
	Poller  PollerConfig
	// AssetsFile optionally overrides the built-in asset registry.
	AssetsFile string
}

// NetworkConfig identifies the target ledger network.
type NetworkConfig struct {
	Name        string // "testnet" or "pubnet"
	Passphrase  string
	HorizonURL  string
	ExplorerURL string
}

// RelayerConfig holds the fee-sponsoring relayer endpoint settings.
// When APIKey is set, calls route through the authenticated proxy
// (bearer token + chain-selector header) instead of the relayer directly.
type RelayerConfig struct {
	BaseURL       string
	ProxyURL      string
	APIKey        string
	SubmitTimeout time.Duration
	HTTPTimeout   time.Duration
}

// PollerConfig holds periodic refresh settings for the cmd tools.
type PollerConfig struct {
	BalanceInterval time.Duration
	HealthInterval  time.Duration
	ClaimsInterval  time.Duration
}
