// Package pricesync keeps the stored price history of every registered
// symbol current against a market data provider. A Tracker holds the
// per-symbol watermark, a Gate decides whether a sync is worth running, an
// Ingestor performs one pass of fetch and batched writes and a Daemon drives
// the three in a loop until its context is cancelled.
package pricesync

import (
	"context"
	"iter"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/store"
)

// Store is the part of the price store the sync components need.
type Store interface {
	Search(ctx context.Context, q store.PriceQuery) ([]models.PricePoint, error)
	Symbols(ctx context.Context) iter.Seq2[string, error]
	Bulk(ctx context.Context, actions []store.BulkAction, chunkSize, maxRetries int) (store.BulkResult, error)
}

var _ Store = (*store.Store)(nil)
