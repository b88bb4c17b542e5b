// Package store is the persistence layer: the price time series, the stock
// registry scan and the portfolio documents, all backed by one GORM handle
// that callers construct once and inject.
package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/SzaboCristian/stock-market/internal/models"
)

// ErrNotFound is returned when a keyed lookup matches nothing.
var ErrNotFound = errors.New("store: record not found")

// Order is the sort direction on the date field.
type Order int

const (
	Ascending Order = iota
	Descending
)

// PriceQuery selects price points. Zero From/To leave that side of the range
// open; both bounds are inclusive calendar days. Limit <= 0 means no limit.
type PriceQuery struct {
	Symbol string
	From   time.Time
	To     time.Time
	Order  Order
	Limit  int
}

// ActionType is the kind of a bulk action.
type ActionType int

const (
	// ActionIndex upserts a point keyed by (symbol, date).
	ActionIndex ActionType = iota
	// ActionDelete removes the point stored under (symbol, date).
	ActionDelete
)

// BulkAction is one write in a bulk request.
type BulkAction struct {
	Type  ActionType
	Point models.PricePoint
}

// IndexAction builds an upsert action.
func IndexAction(p models.PricePoint) BulkAction {
	return BulkAction{Type: ActionIndex, Point: p}
}

// DeleteAction builds a delete action for the given key.
func DeleteAction(symbol string, date time.Time) BulkAction {
	return BulkAction{Type: ActionDelete, Point: models.PricePoint{Symbol: symbol, Date: date}}
}

// BulkItemError reports one action that could not be applied.
type BulkItemError struct {
	Symbol string
	Date   time.Time
	Err    error
}

func (e BulkItemError) Error() string {
	return fmt.Sprintf("%s@%s: %v", e.Symbol, e.Date.Format(time.DateOnly), e.Err)
}

// BulkResult summarizes a bulk request.
type BulkResult struct {
	Succeeded int
	Failed    []BulkItemError
}

// PriceStore is the time-series side of the store.
type PriceStore interface {
	Search(ctx context.Context, q PriceQuery) ([]models.PricePoint, error)
	Scroll(ctx context.Context, q PriceQuery) iter.Seq2[models.PricePoint, error]
	Symbols(ctx context.Context) iter.Seq2[string, error]
	Bulk(ctx context.Context, actions []BulkAction, chunkSize, maxRetries int) (BulkResult, error)
}

// PortfolioStore persists portfolio documents.
type PortfolioStore interface {
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID string) ([]models.Portfolio, error)
	CreatePortfolio(ctx context.Context, p *models.Portfolio) error
	UpdatePortfolio(ctx context.Context, p *models.Portfolio) error
	DeletePortfolio(ctx context.Context, id string) error
}
