package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/pagination"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/validator"
)

// StockHandler handles stock registry requests.
type StockHandler struct {
	stockService services.StockServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateStockRequest represents the request payload for registering a stock.
type CreateStockRequest struct {
	Symbol string `json:"symbol" binding:"required,ticker"`
}

// UpdateStockRequest represents the editable fields of a stock.
type UpdateStockRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Sector      *string `json:"sector" binding:"omitempty,max=100"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
	Website     *string `json:"website" binding:"omitempty,url"`
}

// StockListQuery holds the filter query parameters of ListStocks.
type StockListQuery struct {
	Sector   string `form:"sector"`
	Industry string `form:"industry"`
	Exchange string `form:"exchange"`
}

func symbolParam(c *gin.Context) (string, error) {
	symbol := c.Param("symbol")
	if !validator.IsTicker(symbol) {
		return "", apperrors.WithMessagef(apperrors.ErrInvalidInput, "Invalid ticker %q", symbol)
	}
	return symbol, nil
}

// CreateStock handles registering a stock.
// @Summary     Register stock
// @Description Register a ticker using the market data provider's metadata
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateStockRequest true "Ticker"
// @Success     201 {object} services.Result "Stock registered"
// @Success     200 {object} services.Result "Stock already registered"
// @Failure     400 {object} ErrorResponse "Unknown ticker"
// @Failure     502 {object} ErrorResponse "Provider unavailable"
// @Router      /stocks [post]
func (h *StockHandler) CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stock, created, err := h.stockService.CreateStock(c.Request.Context(), req.Symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !created {
		respond(c, http.StatusOK, stock, "Ticker "+stock.Symbol+" already in db.")
		return
	}
	respond(c, http.StatusCreated, stock, "Ticker "+stock.Symbol+" added.")
}

// ListStocks handles listing the registry.
// @Summary     List stocks
// @Description Get a paginated list of registered stocks, optionally filtered
// @Tags        stocks
// @Produce     json
// @Param       sector    query string false "Sector"
// @Param       industry  query string false "Industry"
// @Param       exchange  query string false "Exchange"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} services.Result "Paginated stocks"
// @Failure     404 {object} ErrorResponse "No stocks found"
// @Router      /stocks [get]
func (h *StockHandler) ListStocks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var q StockListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.stockService.ListStocks(c.Request.Context(), services.StockFilter(q), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, result, "OK")
}

// GetStock handles retrieving one stock.
// @Summary     Get stock
// @Tags        stocks
// @Produce     json
// @Param       symbol path string true "Ticker"
// @Success     200 {object} services.Result "Stock"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /stocks/{symbol} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	symbol, err := symbolParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stock, err := h.stockService.GetStock(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, stock, "OK")
}

// UpdateStock handles editing a registered stock.
// @Summary     Update stock
// @Tags        stocks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       symbol  path string             true "Ticker"
// @Param       request body UpdateStockRequest true "Fields to change"
// @Success     200 {object} services.Result "Stock updated"
// @Failure     404 {object} ErrorResponse "Stock not registered"
// @Router      /stocks/{symbol} [put]
func (h *StockHandler) UpdateStock(c *gin.Context) {
	symbol, err := symbolParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stock, err := h.stockService.UpdateStock(c.Request.Context(), symbol, services.StockUpdate(req))
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, stock, "Ticker "+stock.Symbol+" updated.")
}
