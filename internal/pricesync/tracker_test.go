package pricesync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/store"
)

func TestTracker_LastDate(t *testing.T) {
	ctx := context.Background()

	t.Run("no_history_returns_epoch", func(t *testing.T) {
		tr := NewTracker(newFakeStore("AAPL"), TrackerConfig{}, nopLogger())
		if got := tr.LastDate(ctx, "AAPL"); !got.Equal(DefaultEpoch) {
			t.Errorf("expected epoch, got %v", got)
		}
	})

	t.Run("returns_newest_date", func(t *testing.T) {
		st := newFakeStore("AAPL")
		st.put(point("AAPL", day(2024, 1, 2), 1))
		st.put(point("AAPL", day(2024, 1, 5), 1))
		st.put(point("AAPL", day(2024, 1, 3), 1))
		tr := NewTracker(st, TrackerConfig{}, nopLogger())

		if got := tr.LastDate(ctx, "aapl"); !got.Equal(day(2024, 1, 5)) {
			t.Errorf("expected 2024-01-05, got %v", got)
		}
	})

	t.Run("unrelated_match_returns_epoch", func(t *testing.T) {
		st := newFakeStore("AAPL")
		st.searchFn = func(q store.PriceQuery) ([]models.PricePoint, error) {
			if q.Order != store.Descending || q.Limit != 1 {
				t.Errorf("expected newest-first single hit query, got %+v", q)
			}
			return []models.PricePoint{point("AAPL.MX", day(2024, 1, 5), 1)}, nil
		}
		tr := NewTracker(st, TrackerConfig{}, nopLogger())

		if got := tr.LastDate(ctx, "AAPL"); !got.Equal(DefaultEpoch) {
			t.Errorf("expected epoch for a loose match, got %v", got)
		}
	})

	t.Run("store_error_returns_epoch", func(t *testing.T) {
		st := newFakeStore("AAPL")
		st.searchFn = func(store.PriceQuery) ([]models.PricePoint, error) {
			return nil, errors.New("connection refused")
		}
		epoch := day(2015, 6, 1)
		tr := NewTracker(st, TrackerConfig{Epoch: epoch}, nopLogger())

		if got := tr.LastDate(ctx, "AAPL"); !got.Equal(epoch) {
			t.Errorf("expected configured epoch, got %v", got)
		}
	})
}

func TestTracker_Watermarks(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore("AAPL", "TSLA")
	st.put(point("AAPL", day(2024, 1, 5), 1))

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(st, TrackerConfig{TTL: 72 * time.Hour}, nopLogger())
	tr.now = func() time.Time { return now }

	marks, err := tr.Watermarks(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !marks["AAPL"].Equal(day(2024, 1, 5)) || !marks["TSLA"].Equal(DefaultEpoch) {
		t.Fatalf("unexpected watermarks %v", marks)
	}

	t.Run("returns_a_copy", func(t *testing.T) {
		marks["AAPL"] = day(2030, 1, 1)
		again, _ := tr.Watermarks(ctx)
		if !again["AAPL"].Equal(day(2024, 1, 5)) {
			t.Errorf("cache mutated through snapshot: %v", again)
		}
	})

	t.Run("cached_within_ttl", func(t *testing.T) {
		st.put(point("TSLA", day(2024, 1, 8), 1))
		now = now.Add(48 * time.Hour)
		marks, _ := tr.Watermarks(ctx)
		if !marks["TSLA"].Equal(DefaultEpoch) {
			t.Errorf("expected cached TSLA watermark, got %v", marks["TSLA"])
		}
	})

	t.Run("refreshed_after_ttl", func(t *testing.T) {
		now = now.Add(25 * time.Hour)
		marks, _ := tr.Watermarks(ctx)
		if !marks["TSLA"].Equal(day(2024, 1, 8)) {
			t.Errorf("expected refreshed TSLA watermark, got %v", marks["TSLA"])
		}
	})
}

func TestTracker_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("empty_registry_keeps_cache", func(t *testing.T) {
		st := newFakeStore("AAPL")
		tr := NewTracker(st, TrackerConfig{}, nopLogger())
		if err := tr.Refresh(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		st.symbols = nil
		if err := tr.Refresh(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		marks, _ := tr.Watermarks(ctx)
		if _, ok := marks["AAPL"]; !ok {
			t.Errorf("expected previous map kept, got %v", marks)
		}
	})

	t.Run("registry_error", func(t *testing.T) {
		st := newFakeStore()
		st.symbolsErr = errors.New("boom")
		tr := NewTracker(st, TrackerConfig{}, nopLogger())
		if _, err := tr.Watermarks(ctx); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("refresh_after_purge_returns_epoch", func(t *testing.T) {
		st := newFakeStore("AAPL")
		st.put(point("AAPL", day(2024, 1, 2), 1))
		st.put(point("AAPL", day(2024, 1, 9), 2))
		now := day(2024, 1, 10)
		tr := NewTracker(st, TrackerConfig{Epoch: day(2010, 1, 1), TTL: time.Hour}, nopLogger())
		tr.now = func() time.Time { return now }

		marks, err := tr.Watermarks(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !marks["AAPL"].Equal(day(2024, 1, 9)) {
			t.Fatalf("expected 2024-01-09, got %v", marks["AAPL"])
		}

		_, err = st.Bulk(ctx, []store.BulkAction{
			store.DeleteAction("AAPL", day(2024, 1, 2)),
			store.DeleteAction("AAPL", day(2024, 1, 9)),
		}, 100, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		now = now.Add(2 * time.Hour)
		marks, err = tr.Watermarks(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !marks["AAPL"].Equal(day(2010, 1, 1)) {
			t.Errorf("expected epoch after purge, got %v", marks["AAPL"])
		}
	})

	t.Run("refresh_replaces_advanced_entry", func(t *testing.T) {
		st := newFakeStore("AAPL")
		st.put(point("AAPL", day(2024, 1, 2), 1))
		tr := NewTracker(st, TrackerConfig{}, nopLogger())
		tr.Advance("AAPL", day(2024, 1, 9))

		if err := tr.Refresh(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		marks, _ := tr.Watermarks(ctx)
		if !marks["AAPL"].Equal(day(2024, 1, 2)) {
			t.Errorf("expected stored max date, got %v", marks["AAPL"])
		}
	})

	t.Run("drops_unregistered_symbols", func(t *testing.T) {
		st := newFakeStore("AAPL", "TSLA")
		tr := NewTracker(st, TrackerConfig{}, nopLogger())
		_ = tr.Refresh(ctx)

		st.symbols = []string{"AAPL"}
		_ = tr.Refresh(ctx)
		marks, _ := tr.Watermarks(ctx)
		if _, ok := marks["TSLA"]; ok || len(marks) != 1 {
			t.Errorf("expected only AAPL, got %v", marks)
		}
	})
}

func TestTracker_Advance(t *testing.T) {
	tr := NewTracker(newFakeStore(), TrackerConfig{}, nopLogger())

	tr.Advance("aapl", time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC))
	tr.Advance("AAPL", day(2024, 1, 3))

	tr.mu.Lock()
	got := tr.watermarks["AAPL"]
	tr.mu.Unlock()
	if !got.Equal(day(2024, 1, 5)) {
		t.Errorf("expected forward-only watermark 2024-01-05, got %v", got)
	}
}
