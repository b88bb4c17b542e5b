package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/pagination"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/testutil"
)

type stubLookup struct {
	infos map[string]provider.StockInfo
	err   error
	calls int
}

func (l *stubLookup) Lookup(_ context.Context, symbol string) (*provider.StockInfo, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	info, ok := l.infos[symbol]
	if !ok {
		return nil, provider.ErrSymbolNotFound
	}
	return &info, nil
}

func appleLookup() *stubLookup {
	return &stubLookup{infos: map[string]provider.StockInfo{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NMS", Currency: "USD", InstrumentType: "EQUITY"},
	}}
}

func TestCreateStock(t *testing.T) {
	t.Run("registers_from_lookup", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStockService(db, appleLookup())

		stock, created, err := svc.CreateStock(context.Background(), " aapl ")
		testutil.AssertNoError(t, err)
		if !created {
			t.Error("expected created=true")
		}
		if stock.Symbol != "AAPL" || stock.Name != "Apple Inc." || stock.Exchange != "NMS" {
			t.Errorf("unexpected stock %+v", stock)
		}
	})

	t.Run("existing_returns_stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		lookup := appleLookup()
		svc := NewStockService(db, lookup)
		stored := testutil.CreateTestStock(t, db, "AAPL")

		stock, created, err := svc.CreateStock(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)
		if created {
			t.Error("expected created=false")
		}
		if stock.Name != stored.Name {
			t.Errorf("expected stored name %s, got %s", stored.Name, stock.Name)
		}
		if lookup.calls != 0 {
			t.Errorf("expected no lookup, got %d", lookup.calls)
		}
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStockService(db, appleLookup())

		_, _, err := svc.CreateStock(context.Background(), "NOPE")
		testutil.AssertAppErrorMessage(t, err, "UNKNOWN_SYMBOL", "Could not get info for ticker NOPE")
	})

	t.Run("provider_down", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStockService(db, &stubLookup{err: errors.New("connection reset")})

		_, _, err := svc.CreateStock(context.Background(), "AAPL")
		testutil.AssertAppError(t, err, "UPSTREAM_ERROR")
	})

	t.Run("malformed_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStockService(db, appleLookup())

		_, _, err := svc.CreateStock(context.Background(), "AA PL")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListStocks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStockService(db, appleLookup())
	ctx := context.Background()

	for _, sym := range []string{"MSFT", "AAPL", "NVDA"} {
		testutil.CreateTestStock(t, db, sym)
	}
	bank := testutil.CreateTestStock(t, db, "JPM")
	if err := db.Model(bank).Updates(map[string]any{"sector": "financial", "exchange": "NYQ"}).Error; err != nil {
		t.Fatalf("update fixture: %v", err)
	}

	t.Run("paginates_by_symbol", func(t *testing.T) {
		res, err := svc.ListStocks(ctx, StockFilter{}, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if res.TotalItems != 4 || res.TotalPages != 2 {
			t.Errorf("expected 4 items in 2 pages, got %d in %d", res.TotalItems, res.TotalPages)
		}
		if len(res.Items) != 2 || res.Items[0].Symbol != "AAPL" || res.Items[1].Symbol != "JPM" {
			t.Errorf("unexpected first page %v", res.Items)
		}
	})

	t.Run("filters_case_insensitively", func(t *testing.T) {
		res, err := svc.ListStocks(ctx, StockFilter{Sector: "Financial", Exchange: "nyq"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if len(res.Items) != 1 || res.Items[0].Symbol != "JPM" {
			t.Errorf("expected only JPM, got %v", res.Items)
		}
	})

	t.Run("empty_filter_result", func(t *testing.T) {
		_, err := svc.ListStocks(ctx, StockFilter{Industry: "mining"}, pagination.PageRequest{})
		testutil.AssertAppErrorMessage(t, err, "STOCK_NOT_FOUND", "No stocks found for specified filter.")
	})
}

func TestUpdateStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStockService(db, appleLookup())
	ctx := context.Background()
	testutil.CreateTestStock(t, db, "AAPL")

	t.Run("partial_update", func(t *testing.T) {
		website := "https://www.apple.com"
		stock, err := svc.UpdateStock(ctx, "aapl", StockUpdate{Website: &website})
		testutil.AssertNoError(t, err)
		if stock.Website != website {
			t.Errorf("expected website %s, got %s", website, stock.Website)
		}
		if stock.Sector != "technology" {
			t.Errorf("expected sector untouched, got %s", stock.Sector)
		}
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		name := "x"
		_, err := svc.UpdateStock(ctx, "MSFT", StockUpdate{Name: &name})
		testutil.AssertAppErrorMessage(t, err, "STOCK_NOT_FOUND",
			"Ticker MSFT not in db. Please use POST API to insert new ticker.")
	})
}

func TestImportStocks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStockService(db, appleLookup())
	ctx := context.Background()
	testutil.CreateTestStock(t, db, "AAPL")

	n, err := svc.ImportStocks(ctx, []models.Stock{
		{Symbol: "aapl", Name: "Apple"},
		{Symbol: "MSFT", Name: "Microsoft"},
		{Symbol: "msft", Name: "Microsoft again"},
		{Symbol: "SAP.DE", Name: "SAP"},
	})
	testutil.AssertNoError(t, err)
	if n != 2 {
		t.Errorf("expected 2 inserted, got %d", n)
	}

	stock, err := svc.GetStock(ctx, "msft")
	testutil.AssertNoError(t, err)
	if stock.Name != "Microsoft" {
		t.Errorf("expected first record to win, got %s", stock.Name)
	}

	_, err = svc.ImportStocks(ctx, []models.Stock{{Symbol: "bad symbol"}})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
