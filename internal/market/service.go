// Package market implements the market-data workflows: quote and company
// reads, symbol search, and the watchlist.
//
// The Service owns the watchlist cache. Watchlist mutations return no
// authoritative post-state, so every add or remove is followed by an
// unconditional read-through to repopulate the cache; between the two there
// is a short window where the cache reflects stale membership.
package market

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tradedesk/tradedesk-go/internal/batch"
	"github.com/tradedesk/tradedesk-go/internal/cache"
	"github.com/tradedesk/tradedesk-go/internal/model"
	"github.com/tradedesk/tradedesk-go/internal/session"
)

// DefaultPopularSymbols are the quotes shown before any personalization.
var DefaultPopularSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META"}

// MarketAPI is the slice of the REST client used by the market workflows.
type MarketAPI interface {
	GetQuote(ctx context.Context, symbol string) (*model.Quote, error)
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Search(ctx context.Context, keywords string) ([]model.SearchResult, error)
	GetCompany(ctx context.Context, symbol string) (*model.CompanyDetails, error)
	GetWatchlist(ctx context.Context, userID int64) ([]model.WatchlistItem, error)
	AddToWatchlist(ctx context.Context, userID int64, symbol string) (*model.WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, userID int64, symbol string) error
}

// Identity resolves the acting user for session-gated operations.
type Identity interface {
	Current() *model.User
}

// Service orchestrates market-data operations under the session's identity.
type Service struct {
	api     MarketAPI
	session Identity
	logger  *slog.Logger

	popular     []string
	concurrency int64

	watchlist *cache.Live[[]model.WatchlistItem]
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPopularSymbols overrides the popular quote set.
func WithPopularSymbols(symbols []string) ServiceOption {
	return func(s *Service) {
		normalized := make([]string, 0, len(symbols))
		for _, sym := range symbols {
			normalized = append(normalized, model.NormalizeSymbol(sym))
		}
		s.popular = normalized
	}
}

// WithConcurrency bounds concurrent quote fetches in batch loads.
func WithConcurrency(n int64) ServiceOption {
	return func(s *Service) {
		s.concurrency = n
	}
}

// NewService creates the market service.
func NewService(marketAPI MarketAPI, ident Identity, opts ...ServiceOption) *Service {
	s := &Service{
		api:         marketAPI,
		session:     ident,
		logger:      slog.Default(),
		popular:     DefaultPopularSymbols,
		concurrency: batch.DefaultConcurrency,
		watchlist:   cache.NewLive[[]model.WatchlistItem](),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// user returns the acting user or ErrNotAuthenticated.
func (s *Service) user() (*model.User, error) {
	u := s.session.Current()
	if u == nil {
		return nil, session.ErrNotAuthenticated
	}
	return u, nil
}

// Quote fetches a live quote for one symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	return s.api.GetQuote(ctx, symbol)
}

// Price fetches the bare last price for one symbol.
func (s *Service) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return s.api.GetPrice(ctx, symbol)
}

// Search looks up symbols matching the keywords.
func (s *Service) Search(ctx context.Context, keywords string) ([]model.SearchResult, error) {
	return s.api.Search(ctx, keywords)
}

// Company fetches company fundamentals for one symbol.
func (s *Service) Company(ctx context.Context, symbol string) (*model.CompanyDetails, error) {
	return s.api.GetCompany(ctx, symbol)
}

// CurrentWatchlist returns the last known watchlist membership.
func (s *Service) CurrentWatchlist() []model.WatchlistItem {
	return s.watchlist.Current()
}

// SubscribeWatchlist returns the watchlist stream with replay-latest
// semantics.
func (s *Service) SubscribeWatchlist() (<-chan []model.WatchlistItem, func()) {
	return s.watchlist.Subscribe()
}

// IsInWatchlist reports membership against the cache, case-insensitively.
func (s *Service) IsInWatchlist(symbol string) bool {
	symbol = model.NormalizeSymbol(symbol)
	for _, item := range s.watchlist.Current() {
		if model.NormalizeSymbol(item.Symbol) == symbol {
			return true
		}
	}
	return false
}

// RefreshWatchlist is the watchlist read-through: fetch the acting user's
// watchlist, normalize symbols, publish, return.
func (s *Service) RefreshWatchlist(ctx context.Context) ([]model.WatchlistItem, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}

	items, err := s.api.GetWatchlist(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Symbol = model.NormalizeSymbol(items[i].Symbol)
	}
	s.watchlist.Set(items)
	return items, nil
}

// AddToWatchlist adds a symbol, then re-fetches the full watchlist: the
// mutation endpoints report no post-state, so read-through is the only way
// to repopulate the cache. A failed mutation leaves the cache untouched.
func (s *Service) AddToWatchlist(ctx context.Context, symbol string) error {
	user, err := s.user()
	if err != nil {
		return err
	}

	symbol = model.NormalizeSymbol(symbol)
	if _, err := s.api.AddToWatchlist(ctx, user.ID, symbol); err != nil {
		return err
	}

	s.logger.Debug("symbol added to watchlist", "symbol", symbol, "user_id", user.ID)
	_, err = s.RefreshWatchlist(ctx)
	return err
}

// RemoveFromWatchlist removes a symbol, with the same cache discipline as
// AddToWatchlist.
func (s *Service) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	user, err := s.user()
	if err != nil {
		return err
	}

	symbol = model.NormalizeSymbol(symbol)
	if err := s.api.RemoveFromWatchlist(ctx, user.ID, symbol); err != nil {
		return err
	}

	s.logger.Debug("symbol removed from watchlist", "symbol", symbol, "user_id", user.ID)
	_, err = s.RefreshWatchlist(ctx)
	return err
}

// ToggleWatchlist adds the symbol if absent, removes it if present, and
// reports whether it ended up added. Concurrent toggles of the same symbol
// race on the membership check; last write wins.
func (s *Service) ToggleWatchlist(ctx context.Context, symbol string) (added bool, err error) {
	if s.IsInWatchlist(symbol) {
		return false, s.RemoveFromWatchlist(ctx, symbol)
	}
	return true, s.AddToWatchlist(ctx, symbol)
}

// PopularQuotes loads the configured popular symbols as one batch. Per-key
// failures are part of the result; the batch always settles completely.
func (s *Service) PopularQuotes(ctx context.Context) batch.Result[string, *model.Quote] {
	return batch.AllN(ctx, s.popular, s.concurrency, s.api.GetQuote)
}

// WatchlistQuotes re-fetches the watchlist, then loads one quote per entry
// as a batch.
func (s *Service) WatchlistQuotes(ctx context.Context) (batch.Result[string, *model.Quote], error) {
	items, err := s.RefreshWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(items))
	for _, item := range items {
		symbols = append(symbols, item.Symbol)
	}
	return batch.AllN(ctx, symbols, s.concurrency, s.api.GetQuote), nil
}
