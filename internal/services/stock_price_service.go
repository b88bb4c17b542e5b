package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/store"
	"github.com/SzaboCristian/stock-market/internal/timerange"
)

const (
	deleteBatchSize  = 1000
	deleteMaxRetries = 3
)

// HistorySyncer fetches and stores the missing history of one symbol.
type HistorySyncer interface {
	SyncSymbol(ctx context.Context, symbol string) (int, error)
}

// stockPriceService handles the price history endpoints.
type stockPriceService struct {
	db     *gorm.DB
	prices store.PriceStore
	syncer HistorySyncer
	now    func() time.Time
}

// NewStockPriceService creates a new StockPriceServicer.
func NewStockPriceService(db *gorm.DB, prices store.PriceStore, syncer HistorySyncer) StockPriceServicer {
	return &stockPriceService{
		db:     db,
		prices: prices,
		syncer: syncer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetHistory retrieves the stored points of a symbol, newest first
func (s *stockPriceService) GetHistory(ctx context.Context, symbol string, q HistoryQuery) ([]models.PricePoint, error) {
	symbol = normalizeSymbol(symbol)
	now := s.now()

	end := q.To
	if end.IsZero() {
		end = now
	}
	start := q.From
	if start.IsZero() {
		name := q.Range
		if name == "" {
			name = timerange.Default
		}
		var err error
		if start, err = timerange.Start(name, end); err != nil {
			return nil, apperrors.ErrInvalidTimeRange
		}
	}
	if !start.IsZero() && start.After(end) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidTimeRange, "Invalid time range: start is after end")
	}

	points, err := s.prices.Search(ctx, store.PriceQuery{
		Symbol: symbol,
		From:   start,
		To:     end,
		Order:  store.Descending,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(points) == 0 {
		return nil, apperrors.WithMessagef(apperrors.ErrNoPriceHistory,
			"No price history for ticker %s for specified time range.", symbol)
	}
	return points, nil
}

// AddHistory fetches the missing history of a registered symbol on demand
func (s *stockPriceService) AddHistory(ctx context.Context, symbol string) (int, error) {
	symbol = normalizeSymbol(symbol)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Stock{}).Where("symbol = ?", symbol).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return 0, apperrors.WithMessagef(apperrors.ErrStockNotFound, "No stock for ticker %s.", symbol)
	}

	written, err := s.syncer.SyncSymbol(ctx, symbol)
	if err != nil {
		return written, apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	if written == 0 {
		return 0, apperrors.WithMessagef(apperrors.ErrNoPriceHistory, "No price history found for ticker %s.", symbol)
	}
	return written, nil
}

// DeleteHistory removes every stored point of a symbol
func (s *stockPriceService) DeleteHistory(ctx context.Context, symbol string) (int, error) {
	symbol = normalizeSymbol(symbol)

	// Collect the keys before deleting: the scroll pages by offset.
	var actions []store.BulkAction
	for p, err := range s.prices.Scroll(ctx, store.PriceQuery{Symbol: symbol}) {
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		actions = append(actions, store.DeleteAction(p.Symbol, p.Date))
	}
	if len(actions) == 0 {
		return 0, apperrors.WithMessagef(apperrors.ErrNoPriceHistory, "No price history found for ticker %s", symbol)
	}

	res, err := s.prices.Bulk(ctx, actions, deleteBatchSize, deleteMaxRetries)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(res.Failed) > 0 {
		logger.Get().Errorw("price history delete incomplete",
			"symbol", symbol, "deleted", res.Succeeded, "failed", len(res.Failed))
		return res.Succeeded, apperrors.Wrap(apperrors.ErrInternalServer, errors.Join(bulkErrors(res.Failed)...))
	}

	logger.Get().Infow("price history deleted", "symbol", symbol, "points", res.Succeeded)
	return res.Succeeded, nil
}

func bulkErrors(failed []store.BulkItemError) []error {
	errs := make([]error, len(failed))
	for i, f := range failed {
		errs[i] = f
	}
	return errs
}
