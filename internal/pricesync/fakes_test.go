package pricesync

import (
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/store"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func nopLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func point(symbol string, date time.Time, c float64) models.PricePoint {
	return models.PricePoint{Symbol: symbol, Date: date, Open: c, Close: c, High: c, Low: c, Volume: 1}
}

// fakeStore is an in-memory Store. searchFn and bulkFn override the default
// behavior when set.
type fakeStore struct {
	mu         sync.Mutex
	symbols    []string
	symbolsErr error
	points     map[string]map[time.Time]models.PricePoint
	searchFn   func(q store.PriceQuery) ([]models.PricePoint, error)
	bulkFn     func(actions []store.BulkAction) (store.BulkResult, error)
	bulkCalls  [][]store.BulkAction
}

var _ Store = (*fakeStore)(nil)

func newFakeStore(symbols ...string) *fakeStore {
	return &fakeStore{symbols: symbols, points: make(map[string]map[time.Time]models.PricePoint)}
}

func (s *fakeStore) put(p models.PricePoint) {
	sym := strings.ToUpper(p.Symbol)
	if s.points[sym] == nil {
		s.points[sym] = make(map[time.Time]models.PricePoint)
	}
	p.Symbol = sym
	s.points[sym][models.Day(p.Date)] = p
}

func (s *fakeStore) count(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points[symbol])
}

func (s *fakeStore) Search(_ context.Context, q store.PriceQuery) ([]models.PricePoint, error) {
	if s.searchFn != nil {
		return s.searchFn(q)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.PricePoint
	for _, p := range s.points[strings.ToUpper(q.Symbol)] {
		if (!q.From.IsZero() && p.Date.Before(models.Day(q.From))) || (!q.To.IsZero() && p.Date.After(models.Day(q.To))) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Order == store.Descending {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeStore) Symbols(_ context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.symbolsErr != nil {
			yield("", s.symbolsErr)
			return
		}
		s.mu.Lock()
		symbols := append([]string(nil), s.symbols...)
		s.mu.Unlock()
		for _, sym := range symbols {
			if !yield(sym, nil) {
				return
			}
		}
	}
}

func (s *fakeStore) Bulk(_ context.Context, actions []store.BulkAction, _, _ int) (store.BulkResult, error) {
	// The ingestor reuses its buffer, keep a copy.
	batch := append([]store.BulkAction(nil), actions...)
	s.mu.Lock()
	s.bulkCalls = append(s.bulkCalls, batch)
	s.mu.Unlock()

	if s.bulkFn != nil {
		return s.bulkFn(batch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range batch {
		if a.Type == store.ActionIndex {
			s.put(a.Point)
		} else {
			delete(s.points[strings.ToUpper(a.Point.Symbol)], models.Day(a.Point.Date))
		}
	}
	return store.BulkResult{Succeeded: len(batch)}, nil
}

type fetchCall struct {
	symbol   string
	from, to time.Time
}

// mockProvider implements provider.Provider for testing.
type mockProvider struct {
	mu      sync.Mutex
	fetchFn func(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)
	calls   []fetchCall
}

var _ provider.Provider = (*mockProvider)(nil)

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) FetchHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fetchCall{symbol: symbol, from: from, to: to})
	m.mu.Unlock()
	if m.fetchFn == nil {
		return nil, nil
	}
	return m.fetchFn(ctx, symbol, from, to)
}

func (m *mockProvider) Lookup(_ context.Context, symbol string) (*provider.StockInfo, error) {
	return &provider.StockInfo{Symbol: symbol}, nil
}

// historyProvider serves fixed per-symbol bars filtered to the requested window.
func historyProvider(bars map[string][]models.PricePoint) *mockProvider {
	return &mockProvider{fetchFn: func(_ context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
		var out []models.PricePoint
		for _, b := range bars[symbol] {
			if !b.Date.Before(from) && !b.Date.After(to) {
				out = append(out, b)
			}
		}
		return out, nil
	}}
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
