package config

import "time"

// ClientConfig is the root configuration for the trading platform client.
type ClientConfig struct {
	API    APIConfig    `yaml:"api"`
	State  StateConfig  `yaml:"state"`
	Market MarketConfig `yaml:"market"`
	Poller PollerConfig `yaml:"poller"`
}

// APIConfig holds backend REST settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// StateConfig holds persisted session state settings.
type StateConfig struct {
	// Path of the session state file. Empty selects in-memory state that
	// does not survive the process.
	Path string `yaml:"path"`
}

// MarketConfig holds market workflow settings.
type MarketConfig struct {
	PopularSymbols   []string `yaml:"popular_symbols"`
	QuoteConcurrency int64    `yaml:"quote_concurrency"`
}

// PollerConfig holds background quote refresher settings.
type PollerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int64         `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}
