// Package wallet implements the wallet workflows.
//
// The Service owns the balance cache: it is the single writer, every other
// surface only reads or subscribes. Mutations (deposit, withdraw) publish
// the server-reported post-transaction balance directly — the mutation
// response is authoritative, so no re-fetch follows. Failed mutations leave
// the cache exactly as it was.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tradedesk/tradedesk-go/internal/api"
	"github.com/tradedesk/tradedesk-go/internal/cache"
	"github.com/tradedesk/tradedesk-go/internal/model"
	"github.com/tradedesk/tradedesk-go/internal/session"
)

// DefaultCurrency is assumed until the server reports one.
const DefaultCurrency = "USD"

// WalletAPI is the slice of the REST client used by the wallet workflows.
type WalletAPI interface {
	GetWallet(ctx context.Context, userID int64) (*model.Wallet, error)
	CreateWallet(ctx context.Context, userID int64, role string) (*model.Wallet, error)
	GetBalance(ctx context.Context, userID int64) (*model.BalanceSnapshot, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*model.Transaction, error)
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, userID int64) ([]model.Transaction, error)
}

// Identity resolves the acting user for session-gated operations.
type Identity interface {
	Current() *model.User
}

// Service orchestrates wallet operations under the session's identity.
type Service struct {
	api     WalletAPI
	session Identity
	logger  *slog.Logger

	balance *cache.Live[model.BalanceSnapshot]
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the wallet service.
func NewService(walletAPI WalletAPI, ident Identity, opts ...ServiceOption) *Service {
	s := &Service{
		api:     walletAPI,
		session: ident,
		logger:  slog.Default(),
		balance: cache.NewLive[model.BalanceSnapshot](),
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

// Balance returns the last known balance (zero before the first load).
func (s *Service) Balance() model.BalanceSnapshot {
	return s.balance.Current()
}

// SubscribeBalance returns the balance stream with replay-latest semantics.
func (s *Service) SubscribeBalance() (<-chan model.BalanceSnapshot, func()) {
	return s.balance.Subscribe()
}

// LoadWallet fetches the acting user's wallet. A user who has never had a
// wallet gets one created transparently: the not-found classification
// triggers exactly one create attempt and never reaches the caller.
func (s *Service) LoadWallet(ctx context.Context) (*model.Wallet, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}

	w, err := s.api.GetWallet(ctx, user.ID)
	if api.IsNotFound(err) {
		s.logger.Info("wallet missing, creating", "user_id", user.ID)
		w, err = s.api.CreateWallet(ctx, user.ID, user.Role)
	}
	if err != nil {
		return nil, err
	}

	s.publishBalance(w.Balance, w.Currency)
	return w, nil
}

// RefreshBalance is the balance read-through: fetch, publish, return.
func (s *Service) RefreshBalance(ctx context.Context) (model.BalanceSnapshot, error) {
	user, err := s.user()
	if err != nil {
		return model.BalanceSnapshot{}, err
	}

	snap, err := s.api.GetBalance(ctx, user.ID)
	if err != nil {
		return model.BalanceSnapshot{}, err
	}

	s.publishBalance(snap.Amount, snap.Currency)
	return s.balance.Current(), nil
}

// Deposit adds funds. On success the server-reported post-transaction
// balance is published directly into the cache; on failure the cache is
// left untouched and the classified error is returned.
func (s *Service) Deposit(ctx context.Context, amount decimal.Decimal, description string) (*model.Transaction, error) {
	return s.mutate(ctx, amount, description, s.api.Deposit)
}

// Withdraw removes funds, with the same cache discipline as Deposit.
func (s *Service) Withdraw(ctx context.Context, amount decimal.Decimal, description string) (*model.Transaction, error) {
	return s.mutate(ctx, amount, description, s.api.Withdraw)
}

type mutateFunc func(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*model.Transaction, error)

func (s *Service) mutate(ctx context.Context, amount decimal.Decimal, description string, op mutateFunc) (*model.Transaction, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}

	tx, err := op(ctx, user.ID, amount, description)
	if err != nil {
		return nil, err
	}

	s.publishBalance(tx.BalanceAfter, "")
	s.logger.Info("balance mutated",
		"user_id", user.ID,
		"type", tx.TransactionType,
		"amount", amount.String(),
		"balance_after", tx.BalanceAfter.String(),
	)
	return tx, nil
}

// Transactions fetches the acting user's ledger, newest first.
func (s *Service) Transactions(ctx context.Context) ([]model.Transaction, error) {
	user, err := s.user()
	if err != nil {
		return nil, err
	}

	txs, err := s.api.GetTransactions(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

// publishBalance updates the cache, carrying the previous currency forward
// when the source (a transaction response) does not name one.
func (s *Service) publishBalance(amount decimal.Decimal, currency string) {
	if currency == "" {
		currency = s.balance.Current().Currency
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	s.balance.Set(model.BalanceSnapshot{Amount: amount, Currency: currency})
}
