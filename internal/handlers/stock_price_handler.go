package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/timerange"
)

// StockPriceHandler handles price history requests.
type StockPriceHandler struct {
	priceService services.StockPriceServicer
}

// NewStockPriceHandler creates a new StockPriceHandler.
func NewStockPriceHandler(priceService services.StockPriceServicer) *StockPriceHandler {
	return &StockPriceHandler{priceService: priceService}
}

// PriceHistoryQuery holds the window query parameters of GetHistory.
type PriceHistoryQuery struct {
	Start string `form:"start" binding:"omitempty,time_range"`
}

// GetHistory handles reading a symbol's stored history.
// @Summary     Get price history
// @Description Daily bars of a ticker, newest first. start_ts/end_ts override the named window.
// @Tags        prices
// @Produce     json
// @Param       symbol   path  string true  "Ticker"
// @Param       start    query string false "LAST_DAY, LAST_WEEK (default), LAST_MONTH, MTD, LAST_YEAR, YTD, LAST_5_YEARS or ALL"
// @Param       start_ts query int    false "Window start, unix seconds"
// @Param       end_ts   query int    false "Window end, unix seconds"
// @Success     200 {object} services.Result "Price history"
// @Failure     400 {object} ErrorResponse "Invalid time range"
// @Failure     404 {object} ErrorResponse "No price history"
// @Router      /stocks/{symbol}/prices [get]
func (h *StockPriceHandler) GetHistory(c *gin.Context) {
	symbol, err := symbolParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q PriceHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.ErrInvalidTimeRange)
		return
	}
	var query services.HistoryQuery
	if q.Start != "" {
		query.Range, _ = timerange.Parse(q.Start)
	}
	if query.From, err = parseUnixQuery(c, "start_ts"); err != nil {
		respondWithError(c, err)
		return
	}
	if query.To, err = parseUnixQuery(c, "end_ts"); err != nil {
		respondWithError(c, err)
		return
	}

	points, err := h.priceService.GetHistory(c.Request.Context(), symbol, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"prices": points}, "OK")
}

// AddHistory handles fetching a symbol's missing history on demand.
// @Summary     Fetch price history
// @Description Fetch the bars missing since the last stored date of a registered ticker
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker"
// @Success     200 {object} services.Result "Points written"
// @Failure     404 {object} ErrorResponse "Stock not registered or no data"
// @Failure     502 {object} ErrorResponse "Provider unavailable"
// @Router      /stocks/{symbol}/prices [post]
func (h *StockPriceHandler) AddHistory(c *gin.Context) {
	symbol, err := symbolParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	written, err := h.priceService.AddHistory(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"points_written": written},
		fmt.Sprintf("Added %d price points.", written))
}

// DeleteHistory handles removing a symbol's stored history.
// @Summary     Delete price history
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker"
// @Success     200 {object} services.Result "Points deleted"
// @Failure     404 {object} ErrorResponse "No price history"
// @Router      /stocks/{symbol}/prices [delete]
func (h *StockPriceHandler) DeleteHistory(c *gin.Context) {
	symbol, err := symbolParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.priceService.DeleteHistory(c.Request.Context(), symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"points_deleted": deleted},
		fmt.Sprintf("Deleted %d price points.", deleted))
}
