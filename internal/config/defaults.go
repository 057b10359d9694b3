package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL          = "http://localhost:8080/api"
	DefaultAPITimeout       = 30 * time.Second
	DefaultMaxRetries       = 3
	DefaultRetryBackoff     = 1 * time.Second
	DefaultQuoteConcurrency = 8
	DefaultPollInterval     = 1 * time.Minute
	DefaultPollConcurrency  = 4
	DefaultPollCycleTimeout = 30 * time.Second
	DefaultStatePath        = ".tradedesk/session.json"
)

// DefaultPopularSymbols are applied when the config names none.
var DefaultPopularSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META"}

func (c *ClientConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Market defaults
	if len(c.Market.PopularSymbols) == 0 {
		c.Market.PopularSymbols = append([]string(nil), DefaultPopularSymbols...)
	}
	if c.Market.QuoteConcurrency == 0 {
		c.Market.QuoteConcurrency = DefaultQuoteConcurrency
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollCycleTimeout
	}
}
