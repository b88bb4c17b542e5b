package store

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SzaboCristian/stock-market/internal/models"
)

const (
	defaultPageSize     = 500
	defaultRetryBackoff = 200 * time.Millisecond
)

// Store implements PriceStore and PortfolioStore on GORM.
type Store struct {
	db           *gorm.DB
	pageSize     int
	retryBackoff time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithPageSize sets the page size used by Scroll and Symbols.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRetryBackoff sets the base delay between bulk chunk retries. The delay
// doubles on every attempt.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Store) { s.retryBackoff = d }
}

// New creates a Store over db.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, pageSize: defaultPageSize, retryBackoff: defaultRetryBackoff}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ PriceStore     = (*Store)(nil)
	_ PortfolioStore = (*Store)(nil)
)

func (s *Store) priceQuery(ctx context.Context, q PriceQuery) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.PricePoint{})
	if q.Symbol != "" {
		tx = tx.Where("symbol = ?", strings.ToUpper(q.Symbol))
	}
	if !q.From.IsZero() {
		tx = tx.Where("date >= ?", models.Day(q.From))
	}
	if !q.To.IsZero() {
		tx = tx.Where("date <= ?", models.Day(q.To))
	}
	if q.Order == Descending {
		return tx.Order("date DESC").Order("symbol ASC")
	}
	return tx.Order("date ASC").Order("symbol ASC")
}

// Search returns the points matching q in one round trip.
func (s *Store) Search(ctx context.Context, q PriceQuery) ([]models.PricePoint, error) {
	tx := s.priceQuery(ctx, q)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var points []models.PricePoint
	if err := tx.Find(&points).Error; err != nil {
		return nil, fmt.Errorf("search prices: %w", err)
	}
	return points, nil
}

// Scroll streams the points matching q page by page. Iteration stops at the
// first error, which is yielded with a zero point.
func (s *Store) Scroll(ctx context.Context, q PriceQuery) iter.Seq2[models.PricePoint, error] {
	return func(yield func(models.PricePoint, error) bool) {
		emitted := 0
		for offset := 0; ; offset += s.pageSize {
			limit := s.pageSize
			if q.Limit > 0 {
				limit = min(limit, q.Limit-emitted)
			}
			var page []models.PricePoint
			if err := s.priceQuery(ctx, q).Offset(offset).Limit(limit).Find(&page).Error; err != nil {
				yield(models.PricePoint{}, fmt.Errorf("scroll prices: %w", err))
				return
			}
			for _, p := range page {
				if !yield(p, nil) {
					return
				}
				emitted++
			}
			if len(page) < limit || (q.Limit > 0 && emitted >= q.Limit) {
				return
			}
		}
	}
}

// Symbols streams every symbol of the stock registry in lexical order.
func (s *Store) Symbols(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for offset := 0; ; offset += s.pageSize {
			var page []string
			err := s.db.WithContext(ctx).Model(&models.Stock{}).
				Order("symbol ASC").Offset(offset).Limit(s.pageSize).
				Pluck("symbol", &page).Error
			if err != nil {
				yield("", fmt.Errorf("scroll symbols: %w", err))
				return
			}
			for _, sym := range page {
				if !yield(sym, nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
		}
	}
}

// Bulk applies actions in chunks of chunkSize. Each chunk is one transaction,
// retried up to maxRetries times with exponential backoff. A chunk that still
// fails is replayed item by item so only the offending actions are reported
// in Failed. The returned error is reserved for invalid arguments.
func (s *Store) Bulk(ctx context.Context, actions []BulkAction, chunkSize, maxRetries int) (BulkResult, error) {
	if chunkSize <= 0 {
		return BulkResult{}, fmt.Errorf("bulk: chunk size must be positive, got %d", chunkSize)
	}

	var res BulkResult
	valid := make([]BulkAction, 0, len(actions))
	for _, a := range actions {
		a.Point.Symbol = strings.ToUpper(strings.TrimSpace(a.Point.Symbol))
		if a.Point.Symbol == "" || a.Point.Date.IsZero() {
			res.Failed = append(res.Failed, BulkItemError{
				Symbol: a.Point.Symbol, Date: a.Point.Date,
				Err: fmt.Errorf("action needs a symbol and a date"),
			})
			continue
		}
		a.Point.Date = models.Day(a.Point.Date)
		valid = append(valid, a)
	}

	for start := 0; start < len(valid); start += chunkSize {
		chunk := valid[start:min(start+chunkSize, len(valid))]
		if err := s.retry(ctx, maxRetries, func() error { return s.applyChunk(ctx, chunk) }); err == nil {
			res.Succeeded += len(chunk)
			continue
		}
		for _, a := range chunk {
			if err := s.applyChunk(ctx, []BulkAction{a}); err != nil {
				res.Failed = append(res.Failed, BulkItemError{Symbol: a.Point.Symbol, Date: a.Point.Date, Err: err})
				continue
			}
			res.Succeeded++
		}
	}
	return res, nil
}

func (s *Store) retry(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(s.retryBackoff << (attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// applyChunk writes a chunk in one transaction. Upserts go first, then
// deletes; within the upserts the last action for a key wins.
func (s *Store) applyChunk(ctx context.Context, chunk []BulkAction) error {
	type key struct {
		symbol string
		date   time.Time
	}
	var (
		upserts []models.PricePoint
		index   = make(map[key]int)
		deletes []models.PricePoint
	)
	for _, a := range chunk {
		switch a.Type {
		case ActionIndex:
			k := key{a.Point.Symbol, a.Point.Date}
			p := a.Point
			p.ID = ""
			if i, ok := index[k]; ok {
				upserts[i] = p
				continue
			}
			index[k] = len(upserts)
			upserts = append(upserts, p)
		case ActionDelete:
			deletes = append(deletes, a.Point)
		default:
			return fmt.Errorf("unknown bulk action type %d", a.Type)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(upserts) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"open", "close", "high", "low", "volume"}),
			}).Create(&upserts).Error
			if err != nil {
				return fmt.Errorf("upsert prices: %w", err)
			}
		}
		for _, d := range deletes {
			if err := tx.Where("symbol = ? AND date = ?", d.Symbol, d.Date).Delete(&models.PricePoint{}).Error; err != nil {
				return fmt.Errorf("delete price %s@%s: %w", d.Symbol, d.Date.Format(time.DateOnly), err)
			}
		}
		return nil
	})
}
