package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/tradedesk/tradedesk-go/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	if len(c.Market.PopularSymbols) == 0 {
		return errors.New("market.popular_symbols must not be empty")
	}
	for _, sym := range c.Market.PopularSymbols {
		if model.NormalizeSymbol(sym) == "" {
			return errors.New("market.popular_symbols contains a blank symbol")
		}
	}
	if c.Market.QuoteConcurrency < 1 {
		return errors.New("market.quote_concurrency must be >= 1")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	return nil
}
