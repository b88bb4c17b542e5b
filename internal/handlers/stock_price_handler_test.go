package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/timerange"
)

// --- mock stock price service ---

type mockStockPriceService struct {
	getHistoryFn    func(symbol string, q services.HistoryQuery) ([]models.PricePoint, error)
	addHistoryFn    func(symbol string) (int, error)
	deleteHistoryFn func(symbol string) (int, error)
}

var _ services.StockPriceServicer = (*mockStockPriceService)(nil)

func (m *mockStockPriceService) GetHistory(_ context.Context, symbol string, q services.HistoryQuery) ([]models.PricePoint, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(symbol, q)
	}
	return nil, apperrors.ErrNoPriceHistory
}

func (m *mockStockPriceService) AddHistory(_ context.Context, symbol string) (int, error) {
	if m.addHistoryFn != nil {
		return m.addHistoryFn(symbol)
	}
	return 0, nil
}

func (m *mockStockPriceService) DeleteHistory(_ context.Context, symbol string) (int, error) {
	if m.deleteHistoryFn != nil {
		return m.deleteHistoryFn(symbol)
	}
	return 0, nil
}

// --- router setup ---

func setupStockPriceRouter(handler *StockPriceHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks/:symbol/prices", handler.GetHistory)
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/stocks/:symbol/prices", handler.AddHistory)
	auth.DELETE("/stocks/:symbol/prices", handler.DeleteHistory)
	return r
}

// --- tests ---

func TestStockPriceHandler_GetHistory(t *testing.T) {
	t.Run("parses_named_window", func(t *testing.T) {
		var got services.HistoryQuery
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{
			getHistoryFn: func(symbol string, q services.HistoryQuery) ([]models.PricePoint, error) {
				got = q
				return []models.PricePoint{{Symbol: symbol, Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Close: 172}}, nil
			},
		}))

		rec := doRequest(r, http.MethodGet, "/stocks/AAPL/prices?start=ytd", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Range != timerange.YearToDate {
			t.Errorf("expected YTD, got %q", got.Range)
		}
		prices, _ := dataOf(t, parseJSON(t, rec))["prices"].([]interface{})
		if len(prices) != 1 {
			t.Errorf("expected 1 price, got %v", prices)
		}
	})

	t.Run("parses_timestamps", func(t *testing.T) {
		var got services.HistoryQuery
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{
			getHistoryFn: func(_ string, q services.HistoryQuery) ([]models.PricePoint, error) {
				got = q
				return []models.PricePoint{{}}, nil
			},
		}))

		doRequest(r, http.MethodGet, "/stocks/AAPL/prices?start_ts=1704067200&end_ts=1706745600", "")

		if !got.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !got.To.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected window %v - %v", got.From, got.To)
		}
	})

	t.Run("rejects_unknown_window", func(t *testing.T) {
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{}))

		rec := doRequest(r, http.MethodGet, "/stocks/AAPL/prices?start=FOREVER", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_TIME_RANGE")
		if result["message"] != "Invalid time range" {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("returns_404_empty", func(t *testing.T) {
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{
			getHistoryFn: func(symbol string, _ services.HistoryQuery) ([]models.PricePoint, error) {
				return nil, apperrors.WithMessagef(apperrors.ErrNoPriceHistory,
					"No price history for ticker %s for specified time range.", symbol)
			},
		}))

		rec := doRequest(r, http.MethodGet, "/stocks/MSFT/prices", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_PRICE_HISTORY")
	})
}

func TestStockPriceHandler_AddAndDelete(t *testing.T) {
	t.Run("add_reports_count", func(t *testing.T) {
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{
			addHistoryFn: func(string) (int, error) { return 42, nil },
		}))

		rec := doRequest(r, http.MethodPost, "/stocks/AAPL/prices", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if dataOf(t, result)["points_written"] != 42.0 {
			t.Errorf("unexpected body %v", result)
		}
		if result["message"] != "Added 42 price points." {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("add_upstream_failure", func(t *testing.T) {
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{
			addHistoryFn: func(string) (int, error) {
				return 0, apperrors.Wrap(apperrors.ErrUpstream, context.DeadlineExceeded)
			},
		}))

		rec := doRequest(r, http.MethodPost, "/stocks/AAPL/prices", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UPSTREAM_ERROR")
	})

	t.Run("delete_reports_count", func(t *testing.T) {
		r := setupStockPriceRouter(NewStockPriceHandler(&mockStockPriceService{
			deleteHistoryFn: func(string) (int, error) { return 7, nil },
		}))

		rec := doRequest(r, http.MethodDelete, "/stocks/AAPL/prices", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if dataOf(t, parseJSON(t, rec))["points_deleted"] != 7.0 {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})
}
