package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/portfolio"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/uuid"
)

// PortfolioHandler handles portfolio-related requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// AllocationRequest is one (ticker, percentage) entry of a portfolio body.
type AllocationRequest struct {
	Ticker     string  `json:"ticker" binding:"required,ticker"`
	Percentage float64 `json:"percentage" binding:"required"`
}

// PortfolioRequest represents the payload for creating or updating a portfolio.
type PortfolioRequest struct {
	Name        string              `json:"portfolio_name" binding:"max=200"`
	Allocations []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

func (r PortfolioRequest) allocations() []portfolio.Allocation {
	out := make([]portfolio.Allocation, len(r.Allocations))
	for i, a := range r.Allocations {
		out[i] = portfolio.Allocation{Ticker: a.Ticker, Percentage: a.Percentage}
	}
	return out
}

// GetPortfolios handles listing the user's portfolios.
// @Summary     List portfolios
// @Description Get all portfolios of the authenticated user, or only the one named by portfolio_id
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       portfolio_id query string false "Portfolio ID"
// @Success     200 {object} services.Result "Portfolios"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios [get]
func (h *PortfolioHandler) GetPortfolios(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID := c.Query("portfolio_id")
	if portfolioID != "" && !uuid.IsValid(portfolioID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid portfolio_id"))
		return
	}

	portfolios, err := h.portfolioService.GetPortfolios(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"portfolios": portfolios}, "OK")
}

// CreatePortfolio handles creating a portfolio.
// @Summary     Create portfolio
// @Description Create a portfolio whose allocations sum to 100
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PortfolioRequest true "Portfolio"
// @Success     201 {object} services.Result "Portfolio created"
// @Failure     400 {object} ErrorResponse "Invalid allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolios [post]
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := h.portfolioService.CreatePortfolio(c.Request.Context(), userID, req.Name, req.allocations())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"portfolio_id": p.ID}, "Portfolio created.")
}

// UpdatePortfolio handles replacing a portfolio's allocations.
// @Summary     Update portfolio
// @Description Replace the allocations and optionally rename a portfolio
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Portfolio ID"
// @Param       request body PortfolioRequest true "Portfolio"
// @Success     200 {object} services.Result "Portfolio updated"
// @Failure     400 {object} ErrorResponse "Invalid allocation"
// @Failure     403 {object} ErrorResponse "Portfolio belongs to another user"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [put]
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := h.portfolioService.UpdatePortfolio(c.Request.Context(), userID, id, req.Name, req.allocations())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"portfolio": p}, "Portfolio updated.")
}

// DeletePortfolio handles deleting a portfolio.
// @Summary     Delete portfolio
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Portfolio ID"
// @Success     200 {object} services.Result "Portfolio deleted"
// @Failure     403 {object} ErrorResponse "Portfolio belongs to another user"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [delete]
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolioService.DeletePortfolio(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"portfolio_id": id}, "Portfolio deleted.")
}

// Backtest handles running a portfolio over a past window.
// @Summary     Backtest portfolio
// @Description Compute the return of a portfolio between start_ts and end_ts (default: last 5 years)
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id       path  string true  "Portfolio ID"
// @Param       start_ts query int    false "Window start, unix seconds"
// @Param       end_ts   query int    false "Window end, unix seconds"
// @Success     200 {object} services.Result "Backtest result"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Failure     403 {object} ErrorResponse "Portfolio belongs to another user"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/backtest [get]
func (h *PortfolioHandler) Backtest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, err := parseUnixQuery(c, "start_ts")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseUnixQuery(c, "end_ts")
	if err != nil {
		respondWithError(c, err)
		return
	}

	res, err := h.portfolioService.Backtest(c.Request.Context(), userID, id, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, res, "OK")
}
