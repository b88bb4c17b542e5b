package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/store"
	"github.com/SzaboCristian/stock-market/internal/testutil"
	"github.com/SzaboCristian/stock-market/internal/timerange"
)

type stubSyncer struct {
	written int
	err     error
	symbols []string
}

func (s *stubSyncer) SyncSymbol(_ context.Context, symbol string) (int, error) {
	s.symbols = append(s.symbols, symbol)
	return s.written, s.err
}

func newStockPriceService(db *gorm.DB, syncer HistorySyncer, now time.Time) *stockPriceService {
	svc := NewStockPriceService(db, store.New(db, store.WithPageSize(2)), syncer).(*stockPriceService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	svc := newStockPriceService(db, &stubSyncer{}, now)
	ctx := context.Background()

	testutil.CreateTestPrices(t, db, "AAPL", map[time.Time]float64{
		testutil.Date(2024, 3, 14): 172,
		testutil.Date(2024, 3, 11): 170,
		testutil.Date(2024, 3, 1):  179,
		testutil.Date(2023, 12, 29): 192,
	})

	t.Run("default_window_newest_first", func(t *testing.T) {
		points, err := svc.GetHistory(ctx, "aapl", HistoryQuery{})
		testutil.AssertNoError(t, err)
		if len(points) != 2 {
			t.Fatalf("expected 2 points in the last week, got %d", len(points))
		}
		if !points[0].Date.Equal(testutil.Date(2024, 3, 14)) || !points[1].Date.Equal(testutil.Date(2024, 3, 11)) {
			t.Errorf("expected newest first, got %v then %v", points[0].Date, points[1].Date)
		}
	})

	t.Run("year_to_date", func(t *testing.T) {
		points, err := svc.GetHistory(ctx, "AAPL", HistoryQuery{Range: timerange.YearToDate})
		testutil.AssertNoError(t, err)
		if len(points) != 3 {
			t.Errorf("expected 3 points, got %d", len(points))
		}
	})

	t.Run("all", func(t *testing.T) {
		points, err := svc.GetHistory(ctx, "AAPL", HistoryQuery{Range: timerange.All})
		testutil.AssertNoError(t, err)
		if len(points) != 4 {
			t.Errorf("expected 4 points, got %d", len(points))
		}
	})

	t.Run("explicit_bounds", func(t *testing.T) {
		points, err := svc.GetHistory(ctx, "AAPL", HistoryQuery{From: testutil.Date(2024, 3, 1), To: testutil.Date(2024, 3, 11)})
		testutil.AssertNoError(t, err)
		if len(points) != 2 {
			t.Errorf("expected 2 points, got %d", len(points))
		}
	})

	t.Run("invalid_range", func(t *testing.T) {
		_, err := svc.GetHistory(ctx, "AAPL", HistoryQuery{Range: "LAST_CENTURY"})
		testutil.AssertAppErrorMessage(t, err, "INVALID_TIME_RANGE", "Invalid time range")
	})

	t.Run("inverted_bounds", func(t *testing.T) {
		_, err := svc.GetHistory(ctx, "AAPL", HistoryQuery{From: testutil.Date(2024, 3, 11), To: testutil.Date(2024, 3, 1)})
		testutil.AssertAppError(t, err, "INVALID_TIME_RANGE")
	})

	t.Run("no_points", func(t *testing.T) {
		_, err := svc.GetHistory(ctx, "MSFT", HistoryQuery{})
		testutil.AssertAppErrorMessage(t, err, "NO_PRICE_HISTORY",
			"No price history for ticker MSFT for specified time range.")
	})
}

func TestAddHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	t.Run("syncs_registered_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		syncer := &stubSyncer{written: 12}
		svc := newStockPriceService(db, syncer, now)
		testutil.CreateTestStock(t, db, "AAPL")

		n, err := svc.AddHistory(context.Background(), "aapl")
		testutil.AssertNoError(t, err)
		if n != 12 {
			t.Errorf("expected 12 points, got %d", n)
		}
		if len(syncer.symbols) != 1 || syncer.symbols[0] != "AAPL" {
			t.Errorf("expected one sync of AAPL, got %v", syncer.symbols)
		}
	})

	t.Run("unknown_stock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		syncer := &stubSyncer{written: 12}
		svc := newStockPriceService(db, syncer, now)

		_, err := svc.AddHistory(context.Background(), "AAPL")
		testutil.AssertAppErrorMessage(t, err, "STOCK_NOT_FOUND", "No stock for ticker AAPL.")
		if len(syncer.symbols) != 0 {
			t.Error("expected no sync for an unregistered stock")
		}
	})

	t.Run("nothing_new", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newStockPriceService(db, &stubSyncer{}, now)
		testutil.CreateTestStock(t, db, "AAPL")

		_, err := svc.AddHistory(context.Background(), "AAPL")
		testutil.AssertAppErrorMessage(t, err, "NO_PRICE_HISTORY", "No price history found for ticker AAPL.")
	})

	t.Run("provider_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newStockPriceService(db, &stubSyncer{err: errors.New("fetch AAPL: 503")}, now)
		testutil.CreateTestStock(t, db, "AAPL")

		_, err := svc.AddHistory(context.Background(), "AAPL")
		testutil.AssertAppError(t, err, "UPSTREAM_ERROR")
	})
}

func TestDeleteHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newStockPriceService(db, &stubSyncer{}, time.Now().UTC())
	ctx := context.Background()

	closes := map[time.Time]float64{}
	for d := 1; d <= 5; d++ {
		closes[testutil.Date(2024, 3, d)] = float64(100 + d)
	}
	testutil.CreateTestPrices(t, db, "AAPL", closes)
	testutil.CreateTestPrices(t, db, "MSFT", map[time.Time]float64{testutil.Date(2024, 3, 1): 400})

	n, err := svc.DeleteHistory(ctx, "aapl")
	testutil.AssertNoError(t, err)
	if n != 5 {
		t.Errorf("expected 5 deleted, got %d", n)
	}

	var remaining []models.PricePoint
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("query remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Symbol != "MSFT" {
		t.Errorf("expected only MSFT to remain, got %v", remaining)
	}

	_, err = svc.DeleteHistory(ctx, "AAPL")
	testutil.AssertAppErrorMessage(t, err, "NO_PRICE_HISTORY", "No price history found for ticker AAPL")
}
