package pricesync

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/store"
)

// DefaultEpoch is the watermark of a symbol with no stored history.
var DefaultEpoch = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultRefreshTTL bounds how long a watermark map is reused.
const DefaultRefreshTTL = 72 * time.Hour

// TrackerConfig configures a Tracker. Zero values select the defaults.
type TrackerConfig struct {
	Epoch time.Time
	TTL   time.Duration
}

// Tracker caches the newest stored date per symbol. The cache is rebuilt from
// the store when it is empty or older than the TTL; in between, the ingestor
// moves entries forward with Advance.
type Tracker struct {
	store Store
	epoch time.Time
	ttl   time.Duration
	log   *zap.SugaredLogger
	now   func() time.Time

	mu          sync.Mutex
	watermarks  map[string]time.Time
	refreshedAt time.Time
}

// NewTracker creates a Tracker over st.
func NewTracker(st Store, cfg TrackerConfig, log *zap.SugaredLogger) *Tracker {
	if cfg.Epoch.IsZero() {
		cfg.Epoch = DefaultEpoch
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultRefreshTTL
	}
	return &Tracker{
		store:      st,
		epoch:      models.Day(cfg.Epoch),
		ttl:        cfg.TTL,
		log:        log,
		now:        time.Now,
		watermarks: make(map[string]time.Time),
	}
}

// Epoch returns the watermark used for symbols without history.
func (t *Tracker) Epoch() time.Time { return t.epoch }

// ListSymbols returns every symbol of the stock registry.
func (t *Tracker) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	for sym, err := range t.store.Symbols(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list symbols: %w", err)
		}
		symbols = append(symbols, strings.ToUpper(sym))
	}
	return symbols, nil
}

// LastDate returns the date of the newest stored point of symbol. The epoch
// is returned when there is none, when the store fails, or when the newest
// hit belongs to a different symbol.
func (t *Tracker) LastDate(ctx context.Context, symbol string) time.Time {
	points, err := t.store.Search(ctx, store.PriceQuery{
		Symbol: symbol,
		Order:  store.Descending,
		Limit:  1,
	})
	if err != nil {
		t.log.Warnw("watermark lookup failed, using epoch", "symbol", symbol, "error", err)
		return t.epoch
	}
	if len(points) == 0 || !strings.EqualFold(points[0].Symbol, symbol) {
		return t.epoch
	}
	return models.Day(points[0].Date)
}

// Watermarks returns a snapshot of the watermark map, refreshing it first when
// the cache is empty or expired.
func (t *Tracker) Watermarks(ctx context.Context) (map[string]time.Time, error) {
	t.mu.Lock()
	stale := len(t.watermarks) == 0 || t.now().Sub(t.refreshedAt) >= t.ttl
	t.mu.Unlock()

	if stale {
		if err := t.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.watermarks), nil
}

// Refresh rebuilds the watermark map from the store, replacing every cached
// entry. A purged symbol falls back to the epoch. A registry with no symbols
// leaves the previous map and refresh time untouched.
func (t *Tracker) Refresh(ctx context.Context) error {
	symbols, err := t.ListSymbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		t.log.Warnw("stock registry is empty, keeping cached watermarks")
		return nil
	}

	fresh := make(map[string]time.Time, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		fresh[sym] = t.LastDate(ctx, sym)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.watermarks = fresh
	t.refreshedAt = t.now()
	t.log.Infow("watermarks refreshed", "symbols", len(fresh))
	return nil
}

// Advance moves the watermark of symbol to date if date is later.
func (t *Tracker) Advance(symbol string, date time.Time) {
	symbol = strings.ToUpper(symbol)
	date = models.Day(date)

	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.watermarks[symbol]; ok && !date.After(cur) {
		return
	}
	t.watermarks[symbol] = date
}
