package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/pagination"
	"github.com/SzaboCristian/stock-market/internal/services"
)

// --- mock stock service ---

type mockStockService struct {
	createStockFn  func(symbol string) (*models.Stock, bool, error)
	getStockFn     func(symbol string) (*models.Stock, error)
	listStocksFn   func(filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	updateStockFn  func(symbol string, update services.StockUpdate) (*models.Stock, error)
	importStocksFn func(stocks []models.Stock) (int, error)
}

var _ services.StockServicer = (*mockStockService)(nil)

func (m *mockStockService) CreateStock(_ context.Context, symbol string) (*models.Stock, bool, error) {
	if m.createStockFn != nil {
		return m.createStockFn(symbol)
	}
	return &models.Stock{Symbol: symbol}, true, nil
}

func (m *mockStockService) GetStock(_ context.Context, symbol string) (*models.Stock, error) {
	if m.getStockFn != nil {
		return m.getStockFn(symbol)
	}
	return &models.Stock{Symbol: symbol}, nil
}

func (m *mockStockService) ListStocks(_ context.Context, filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	if m.listStocksFn != nil {
		return m.listStocksFn(filter, page)
	}
	page.Defaults()
	resp := pagination.NewPageResponse([]models.Stock{}, page, 0)
	return &resp, nil
}

func (m *mockStockService) UpdateStock(_ context.Context, symbol string, update services.StockUpdate) (*models.Stock, error) {
	if m.updateStockFn != nil {
		return m.updateStockFn(symbol, update)
	}
	return &models.Stock{Symbol: symbol}, nil
}

func (m *mockStockService) ImportStocks(_ context.Context, stocks []models.Stock) (int, error) {
	if m.importStocksFn != nil {
		return m.importStocksFn(stocks)
	}
	return len(stocks), nil
}

// --- router setup ---

func setupStockRouter(handler *StockHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks", handler.ListStocks)
	r.GET("/stocks/:symbol", handler.GetStock)
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/stocks", handler.CreateStock)
	auth.PUT("/stocks/:symbol", handler.UpdateStock)
	return r
}

// --- tests ---

func TestStockHandler_CreateStock(t *testing.T) {
	t.Run("returns_201_when_registered", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{
			createStockFn: func(symbol string) (*models.Stock, bool, error) {
				return &models.Stock{Symbol: "AAPL", Name: "Apple Inc."}, true, nil
			},
		}))

		rec := doRequest(r, http.MethodPost, "/stocks", `{"symbol":"aapl"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if dataOf(t, parseJSON(t, rec))["name"] != "Apple Inc." {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("returns_200_when_present", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{
			createStockFn: func(symbol string) (*models.Stock, bool, error) {
				return &models.Stock{Symbol: "AAPL"}, false, nil
			},
		}))

		rec := doRequest(r, http.MethodPost, "/stocks", `{"symbol":"AAPL"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns_400_unknown_ticker", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{
			createStockFn: func(symbol string) (*models.Stock, bool, error) {
				return nil, false, apperrors.WithMessagef(apperrors.ErrUnknownSymbol, "Could not get info for ticker %s", symbol)
			},
		}))

		rec := doRequest(r, http.MethodPost, "/stocks", `{"symbol":"NOPE"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "UNKNOWN_SYMBOL")
		if result["message"] != "Could not get info for ticker NOPE" {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("returns_400_missing_symbol", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}))

		rec := doRequest(r, http.MethodPost, "/stocks", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestStockHandler_ListStocks(t *testing.T) {
	t.Run("binds_filter_and_page", func(t *testing.T) {
		var gotFilter services.StockFilter
		var gotPage pagination.PageRequest
		r := setupStockRouter(NewStockHandler(&mockStockService{
			listStocksFn: func(filter services.StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
				gotFilter, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.Stock{{Symbol: "AAPL"}}, pagination.PageRequest{Page: 2, PageSize: 5}, 6)
				return &resp, nil
			},
		}))

		rec := doRequest(r, http.MethodGet, "/stocks?sector=technology&exchange=NMS&page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Sector != "technology" || gotFilter.Exchange != "NMS" || gotFilter.Industry != "" {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if dataOf(t, parseJSON(t, rec))["total_pages"] != 2.0 {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("rejects_oversized_page", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}))

		rec := doRequest(r, http.MethodGet, "/stocks?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockHandler_GetAndUpdate(t *testing.T) {
	t.Run("get_rejects_bad_symbol", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{}))

		rec := doRequest(r, http.MethodGet, "/stocks/$$$", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update_unknown", func(t *testing.T) {
		r := setupStockRouter(NewStockHandler(&mockStockService{
			updateStockFn: func(symbol string, _ services.StockUpdate) (*models.Stock, error) {
				return nil, apperrors.WithMessagef(apperrors.ErrStockNotFound,
					"Ticker %s not in db. Please use POST API to insert new ticker.", symbol)
			},
		}))

		rec := doRequest(r, http.MethodPut, "/stocks/MSFT", `{"sector":"technology"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STOCK_NOT_FOUND")
	})

	t.Run("update_passes_only_given_fields", func(t *testing.T) {
		var got services.StockUpdate
		r := setupStockRouter(NewStockHandler(&mockStockService{
			updateStockFn: func(symbol string, update services.StockUpdate) (*models.Stock, error) {
				got = update
				return &models.Stock{Symbol: symbol}, nil
			},
		}))

		rec := doRequest(r, http.MethodPut, "/stocks/AAPL", `{"sector":"technology"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Sector == nil || *got.Sector != "technology" || got.Name != nil {
			t.Errorf("unexpected update %+v", got)
		}
	})
}
