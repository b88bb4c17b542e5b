// Package provider defines the interface for fetching daily price history from
// an external market data source.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/SzaboCristian/stock-market/internal/models"
)

// ErrSymbolNotFound is returned by Lookup when the source does not know the
// symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// StockInfo is descriptive metadata for a symbol.
type StockInfo struct {
	Symbol         string
	Name           string
	Exchange       string
	Currency       string
	InstrumentType string
}

// Provider fetches daily bars from a market data source.
type Provider interface {
	// Name returns the provider's display name (e.g., "Yahoo Finance").
	Name() string

	// FetchHistory returns the daily bars of symbol whose date lies in
	// [from, to], sorted by date ascending. A symbol without data yields an
	// empty slice and a nil error; transport and decoding failures are errors.
	FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)

	// Lookup returns metadata for symbol, or ErrSymbolNotFound.
	Lookup(ctx context.Context, symbol string) (*StockInfo, error)
}
