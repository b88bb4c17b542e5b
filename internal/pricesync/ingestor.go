package pricesync

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/store"
)

const (
	DefaultBatchSize    = 1000
	DefaultMaxRetries   = 3
	DefaultFetchTimeout = 30 * time.Second
)

var errWriteFailed = errors.New("write failed, watermark kept")

// IngestorConfig configures an Ingestor. A zero BatchSize or FetchTimeout
// selects the default; a negative MaxRetries does too.
type IngestorConfig struct {
	BatchSize    int
	MaxRetries   int
	FetchTimeout time.Duration
}

// SymbolError records a symbol that failed during a pass.
type SymbolError struct {
	Symbol string
	Err    error
}

// PassResult contains the outcome of one ingest pass.
type PassResult struct {
	SymbolsChecked int
	SymbolsUpdated int
	SymbolsSkipped int
	SymbolsFailed  int
	PointsWritten  int
	PointsFailed   int
	Errors         []SymbolError
	Duration       time.Duration
}

// Ingestor fetches new daily bars for every tracked symbol and writes them to
// the store in batches.
type Ingestor struct {
	store    Store
	provider provider.Provider
	tracker  *Tracker
	cfg      IngestorConfig
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewIngestor creates a new Ingestor.
func NewIngestor(st Store, p provider.Provider, tracker *Tracker, cfg IngestorConfig, log *zap.SugaredLogger) *Ingestor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &Ingestor{store: st, provider: p, tracker: tracker, cfg: cfg, log: log, now: time.Now}
}

// pass holds the write buffer of one Pass. A symbol's watermark waits in
// pending until the flush carrying its last row has completed.
type pass struct {
	*Ingestor
	result  *PassResult
	buf     []store.BulkAction
	pending map[string]time.Time
	failed  map[string]bool
}

// Pass runs one ingest cycle over every tracked symbol. Per-symbol failures
// are recorded in the result and do not stop the pass. Cancellation is
// observed between symbols and between batches: the buffered rows are
// flushed and the context error is returned with the partial result.
func (in *Ingestor) Pass(ctx context.Context) (*PassResult, error) {
	start := in.now()
	result := &PassResult{}

	marks, err := in.tracker.Watermarks(ctx)
	if err != nil {
		return nil, err
	}
	symbols := slices.Sorted(maps.Keys(marks))

	p := &pass{
		Ingestor: in,
		result:   result,
		pending:  make(map[string]time.Time),
		failed:   make(map[string]bool),
	}
	today := models.Day(start)

	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			p.flush(ctx)
			result.Duration = in.now().Sub(start)
			return result, err
		}
		result.SymbolsChecked++

		watermark := marks[sym]
		if !watermark.Before(today) {
			result.SymbolsSkipped++
			continue
		}

		rows, err := in.fetch(ctx, sym, watermark, today)
		if err != nil {
			in.log.Warnw("price fetch failed", "symbol", sym, "error", err)
			result.SymbolsFailed++
			result.Errors = append(result.Errors, SymbolError{Symbol: sym, Err: err})
			continue
		}
		if len(rows) == 0 {
			result.SymbolsSkipped++
			continue
		}

		// Date order lets a cancelled symbol keep the prefix it already wrote.
		slices.SortFunc(rows, func(a, b models.PricePoint) int { return a.Date.Compare(b.Date) })

		var last time.Time
		for _, row := range rows {
			p.buf = append(p.buf, store.IndexAction(row))
			last = row.Date
			if len(p.buf) >= in.cfg.BatchSize {
				p.flush(ctx)
				if err := ctx.Err(); err != nil {
					p.pending[sym] = last
					p.flush(ctx)
					result.Duration = in.now().Sub(start)
					return result, err
				}
			}
		}
		p.pending[sym] = last
	}

	p.flush(ctx)
	result.Duration = in.now().Sub(start)
	return result, nil
}

// flush writes the buffer and then applies the pending watermarks of symbols
// with no failed item. The write is not interrupted by cancellation.
func (p *pass) flush(ctx context.Context) {
	if len(p.buf) > 0 {
		res, err := p.store.Bulk(context.WithoutCancel(ctx), p.buf, p.cfg.BatchSize, p.cfg.MaxRetries)
		if err != nil {
			p.log.Errorw("bulk write failed", "actions", len(p.buf), "error", err)
			for _, a := range p.buf {
				p.failed[strings.ToUpper(a.Point.Symbol)] = true
			}
			p.result.PointsFailed += len(p.buf)
		} else {
			p.result.PointsWritten += res.Succeeded
			p.result.PointsFailed += len(res.Failed)
			for _, f := range res.Failed {
				p.log.Warnw("bulk item failed", "symbol", f.Symbol, "date", f.Date.Format(time.DateOnly), "error", f.Err)
				p.failed[strings.ToUpper(f.Symbol)] = true
			}
		}
		p.buf = p.buf[:0]
	}

	for sym, date := range p.pending {
		if p.failed[sym] {
			p.result.SymbolsFailed++
			p.result.Errors = append(p.result.Errors, SymbolError{Symbol: sym, Err: errWriteFailed})
		} else {
			p.tracker.Advance(sym, date)
			p.result.SymbolsUpdated++
		}
		delete(p.pending, sym)
	}
}

func (in *Ingestor) fetch(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	fctx, cancel := context.WithTimeout(ctx, in.cfg.FetchTimeout)
	defer cancel()
	return in.provider.FetchHistory(fctx, symbol, from, to)
}

// SyncSymbol fetches and stores the history of one symbol from its stored
// watermark through today, and returns the number of points written. Unlike
// Pass it always fetches, and the watermark is read from the store rather
// than the cache.
func (in *Ingestor) SyncSymbol(ctx context.Context, symbol string) (int, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	from := in.tracker.LastDate(ctx, symbol)
	today := models.Day(in.now())

	rows, err := in.fetch(ctx, symbol, from, today)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	actions := make([]store.BulkAction, 0, len(rows))
	var last time.Time
	for _, row := range rows {
		actions = append(actions, store.IndexAction(row))
		if row.Date.After(last) {
			last = row.Date
		}
	}

	res, err := in.store.Bulk(ctx, actions, in.cfg.BatchSize, in.cfg.MaxRetries)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", symbol, err)
	}
	if len(res.Failed) > 0 {
		return res.Succeeded, fmt.Errorf("write %s: %d of %d points failed: %w",
			symbol, len(res.Failed), len(actions), res.Failed[0])
	}

	in.tracker.Advance(symbol, last)
	in.log.Infow("symbol synced", "symbol", symbol, "from", from.Format(time.DateOnly), "points", res.Succeeded)
	return res.Succeeded, nil
}
