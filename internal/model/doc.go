// Package model defines shared data types used across the trading platform client.
//
// Conventions:
//   - Monetary amounts: decimal.Decimal, never floats
//   - Symbols: uppercase; normalize with NormalizeSymbol before any comparison
//   - Timestamps: time.Time, RFC 3339 on the wire
package model
