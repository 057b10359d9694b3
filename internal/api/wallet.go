package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tradedesk/tradedesk-go/internal/model"
)

func walletPath(userID int64) string {
	return "/wallet/user/" + strconv.FormatInt(userID, 10)
}

// GetWallet fetches a user's wallet. A user without a wallet yields a
// KindNotFound error.
func (c *Client) GetWallet(ctx context.Context, userID int64) (*model.Wallet, error) {
	var resp model.Wallet
	if err := c.get(ctx, walletPath(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get wallet for user %d: %w", userID, err)
	}
	return &resp, nil
}

// createWalletRequest is the payload for POST /wallet/create.
type createWalletRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role,omitempty"`
}

// CreateWallet creates a wallet for the given user.
func (c *Client) CreateWallet(ctx context.Context, userID int64, role string) (*model.Wallet, error) {
	var resp model.Wallet
	err := c.post(ctx, "/wallet/create", createWalletRequest{
		UserID: userID,
		Role:   role,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create wallet for user %d: %w", userID, err)
	}
	return &resp, nil
}

// GetBalance fetches the current balance for a user's wallet.
func (c *Client) GetBalance(ctx context.Context, userID int64) (*model.BalanceSnapshot, error) {
	var resp model.BalanceSnapshot
	if err := c.get(ctx, walletPath(userID)+"/balance", nil, &resp); err != nil {
		return nil, fmt.Errorf("get balance for user %d: %w", userID, err)
	}
	return &resp, nil
}

// transactionRequest is the payload for deposit and withdraw.
type transactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// Deposit adds funds to a user's wallet. The returned transaction carries
// the authoritative post-transaction balance.
func (c *Client) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*model.Transaction, error) {
	var resp model.Transaction
	err := c.post(ctx, walletPath(userID)+"/deposit", transactionRequest{
		Amount:      amount,
		Description: description,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("deposit for user %d: %w", userID, err)
	}
	return &resp, nil
}

// Withdraw removes funds from a user's wallet. The returned transaction
// carries the authoritative post-transaction balance.
func (c *Client) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*model.Transaction, error) {
	var resp model.Transaction
	err := c.post(ctx, walletPath(userID)+"/withdraw", transactionRequest{
		Amount:      amount,
		Description: description,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("withdraw for user %d: %w", userID, err)
	}
	return &resp, nil
}

// GetTransactions fetches a user's transaction history.
func (c *Client) GetTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	var resp []model.Transaction
	if err := c.get(ctx, walletPath(userID)+"/transactions", nil, &resp); err != nil {
		return nil, fmt.Errorf("get transactions for user %d: %w", userID, err)
	}
	return resp, nil
}
