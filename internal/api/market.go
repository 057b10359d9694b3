package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tradedesk/tradedesk-go/internal/model"
)

// GetQuote fetches a live quote for a single symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	symbol = model.NormalizeSymbol(symbol)

	var resp model.Quote
	if err := c.get(ctx, "/market/quote/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, fmt.Errorf("get quote %s: %w", symbol, err)
	}
	return &resp, nil
}

// GetPrice fetches the bare last price for a symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = model.NormalizeSymbol(symbol)

	var price decimal.Decimal
	if err := c.get(ctx, "/market/price/"+url.PathEscape(symbol), nil, &price); err != nil {
		return decimal.Zero, fmt.Errorf("get price %s: %w", symbol, err)
	}
	return price, nil
}

// Search looks up symbols matching the given keywords.
func (c *Client) Search(ctx context.Context, keywords string) ([]model.SearchResult, error) {
	query := url.Values{}
	query.Set("keywords", keywords)

	var resp []model.SearchResult
	if err := c.get(ctx, "/market/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", keywords, err)
	}
	return resp, nil
}

// GetCompany fetches company fundamentals for a symbol.
func (c *Client) GetCompany(ctx context.Context, symbol string) (*model.CompanyDetails, error) {
	symbol = model.NormalizeSymbol(symbol)

	var resp model.CompanyDetails
	if err := c.get(ctx, "/market/company/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, fmt.Errorf("get company %s: %w", symbol, err)
	}
	return &resp, nil
}

// GetWatchlist fetches a user's watchlist.
func (c *Client) GetWatchlist(ctx context.Context, userID int64) ([]model.WatchlistItem, error) {
	var resp []model.WatchlistItem
	if err := c.get(ctx, "/market/watchlist/"+strconv.FormatInt(userID, 10), nil, &resp); err != nil {
		return nil, fmt.Errorf("get watchlist for user %d: %w", userID, err)
	}
	return resp, nil
}

// addWatchlistRequest is the payload for POST /market/watchlist.
type addWatchlistRequest struct {
	UserID int64  `json:"userId"`
	Symbol string `json:"symbol"`
}

// AddToWatchlist adds a symbol to a user's watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, userID int64, symbol string) (*model.WatchlistItem, error) {
	symbol = model.NormalizeSymbol(symbol)

	var resp model.WatchlistItem
	err := c.post(ctx, "/market/watchlist", addWatchlistRequest{
		UserID: userID,
		Symbol: symbol,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("add %s to watchlist: %w", symbol, err)
	}
	return &resp, nil
}

// RemoveFromWatchlist removes a symbol from a user's watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, userID int64, symbol string) error {
	symbol = model.NormalizeSymbol(symbol)

	path := "/market/watchlist/" + strconv.FormatInt(userID, 10) + "/" + url.PathEscape(symbol)
	if err := c.del(ctx, path); err != nil {
		return fmt.Errorf("remove %s from watchlist: %w", symbol, err)
	}
	return nil
}
