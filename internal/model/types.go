package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Identity Types
// -----------------------------------------------------------------------------

// User is the authenticated identity, constructed once from a successful
// auth response and never mutated afterwards.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthResponse is returned by POST /auth/login and POST /auth/register.
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type,omitempty"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// User builds the identity carried by the response.
func (r *AuthResponse) User() *User {
	return &User{
		ID:       r.UserID,
		Username: r.Username,
		Email:    r.Email,
		Role:     r.Role,
	}
}

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Quote is a live stock quote.
type Quote struct {
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"companyName"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Open          decimal.Decimal `json:"open"`
	DayHigh       decimal.Decimal `json:"dayHigh"`
	DayLow        decimal.Decimal `json:"dayLow"`
	Volume        int64           `json:"volume"`
	LastUpdated   string          `json:"lastUpdated"`
}

// SearchResult is a single hit from GET /market/search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// CompanyDetails holds fundamentals for a single company.
type CompanyDetails struct {
	Symbol        string          `json:"symbol"`
	CompanyName   string          `json:"companyName"`
	Exchange      string          `json:"exchange"`
	Sector        string          `json:"sector"`
	Industry      string          `json:"industry"`
	MarketCap     decimal.Decimal `json:"marketCap"`
	PERatio       decimal.Decimal `json:"peRatio"`
	DividendYield decimal.Decimal `json:"dividendYield"`
	Week52High    decimal.Decimal `json:"week52High"`
	Week52Low     decimal.Decimal `json:"week52Low"`
	Description   string          `json:"description"`
}

// WatchlistItem is one row of a user's watchlist.
type WatchlistItem struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"addedAt"`
}

// NormalizeSymbol canonicalizes a stock symbol. Symbol identity is
// case-insensitive everywhere; all lookups and wire calls use this form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// -----------------------------------------------------------------------------
// Wallet Types
// -----------------------------------------------------------------------------

// Wallet is a user's wallet as reported by GET /wallet/user/{userId}.
type Wallet struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BalanceSnapshot is the last known wallet balance.
type BalanceSnapshot struct {
	Amount   decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Transaction is a single wallet ledger entry. BalanceAfter is the
// server-reported balance once the transaction settled.
type Transaction struct {
	ID              int64           `json:"id"`
	WalletID        int64           `json:"walletId"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"createdAt"`
}
