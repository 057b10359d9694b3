// Package api provides the typed REST client for the trading platform backend.
//
// Endpoint groups:
//   - /auth: login, register
//   - /market: quotes, search, company details, watchlist
//   - /wallet: wallet lifecycle, balance, deposit/withdraw, transactions
//
// Every failure crossing this boundary is an *Error carrying a Kind
// classification (network, client, not-found, server) so callers can tell
// "retry might help" from "input is invalid" without parsing message text.
package api
