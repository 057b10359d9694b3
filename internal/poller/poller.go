// Package poller keeps watchlist quotes fresh in the background.
//
// The headless client has no page navigations to trigger re-loads, so a
// poller periodically re-fetches one quote per watchlist entry and publishes
// the combined snapshot into a quote cache for UI surfaces to read.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tradedesk/tradedesk-go/internal/batch"
	"github.com/tradedesk/tradedesk-go/internal/cache"
	"github.com/tradedesk/tradedesk-go/internal/model"
)

// WatchlistSource provides the symbols to refresh.
type WatchlistSource interface {
	CurrentWatchlist() []model.WatchlistItem
}

// QuoteFetcher fetches a single quote.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (*model.Quote, error)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int64         // Max concurrent requests (default: 4)
	Timeout     time.Duration // Per-cycle timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// Poller periodically fetches quotes for the current watchlist.
type Poller struct {
	cfg    Config
	api    QuoteFetcher
	source WatchlistSource
	logger *slog.Logger

	quotes *cache.Live[map[string]model.Quote]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, api QuoteFetcher, source WatchlistSource, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Poller{
		cfg:    cfg,
		api:    api,
		source: source,
		logger: logger,
		quotes: cache.NewLive[map[string]model.Quote](),
	}
}

// Quotes returns the last published quote snapshot, keyed by symbol.
func (p *Poller) Quotes() map[string]model.Quote {
	return p.quotes.Current()
}

// SubscribeQuotes returns the quote snapshot stream with replay-latest
// semantics.
func (p *Poller) SubscribeQuotes() (<-chan map[string]model.Quote, func()) {
	return p.quotes.Subscribe()
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("quote poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("quote poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollOnce()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce()
		}
	}
}

// pollOnce fetches quotes for every watchlist symbol and publishes the
// combined snapshot.
func (p *Poller) pollOnce() {
	items := p.source.CurrentWatchlist()
	if len(items) == 0 {
		p.logger.Debug("empty watchlist, nothing to poll")
		return
	}

	symbols := make([]string, 0, len(items))
	for _, item := range items {
		symbols = append(symbols, model.NormalizeSymbol(item.Symbol))
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	result := batch.AllN(ctx, symbols, p.cfg.Concurrency, p.api.GetQuote)

	snapshot := make(map[string]model.Quote, len(result))
	var failed int
	for symbol, outcome := range result {
		if outcome.Err != nil {
			p.logger.Warn("failed to refresh quote", "symbol", symbol, "err", outcome.Err)
			failed++
			continue
		}
		snapshot[symbol] = *outcome.Value
	}

	if len(snapshot) > 0 {
		p.quotes.Set(snapshot)
	}

	p.logger.Info("quote poll cycle complete",
		"symbols", len(symbols),
		"fetched", len(snapshot),
		"errors", failed,
		"duration", time.Since(start),
	)
}
