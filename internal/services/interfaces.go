package services

import (
	"context"
	"time"

	"github.com/SzaboCristian/stock-market/internal/backtest"
	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/pagination"
	"github.com/SzaboCristian/stock-market/internal/portfolio"
	"github.com/SzaboCristian/stock-market/internal/timerange"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// PortfolioServicer defines the contract for portfolio management.
type PortfolioServicer interface {
	// GetPortfolios returns the user's portfolios, or only portfolioID when
	// it is set.
	GetPortfolios(ctx context.Context, userID, portfolioID string) ([]*portfolio.Portfolio, error)
	CreatePortfolio(ctx context.Context, userID, name string, allocations []portfolio.Allocation) (*portfolio.Portfolio, error)
	// UpdatePortfolio replaces the allocations and, when name is not empty,
	// renames the portfolio.
	UpdatePortfolio(ctx context.Context, userID, portfolioID, name string, allocations []portfolio.Allocation) (*portfolio.Portfolio, error)
	DeletePortfolio(ctx context.Context, userID, portfolioID string) error
	// Backtest runs the portfolio over [start, end]; zero bounds default to
	// the last five years up to now.
	Backtest(ctx context.Context, userID, portfolioID string, start, end time.Time) (*backtest.Result, error)
}

// StockFilter holds optional filter parameters for listing stocks.
type StockFilter struct {
	Sector   string
	Industry string
	Exchange string
}

// StockUpdate holds the editable descriptive fields of a stock. Nil fields
// are left unchanged.
type StockUpdate struct {
	Name        *string
	Description *string
	Sector      *string
	Industry    *string
	Website     *string
}

// StockServicer defines the contract for the stock registry.
type StockServicer interface {
	// CreateStock registers symbol using the provider's metadata. created is
	// false when the symbol was already registered; the stored record is
	// returned then.
	CreateStock(ctx context.Context, symbol string) (stock *models.Stock, created bool, err error)
	GetStock(ctx context.Context, symbol string) (*models.Stock, error)
	ListStocks(ctx context.Context, filter StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	UpdateStock(ctx context.Context, symbol string, update StockUpdate) (*models.Stock, error)
	// ImportStocks registers the given records as-is, skipping symbols
	// already present, and returns the number inserted.
	ImportStocks(ctx context.Context, stocks []models.Stock) (int, error)
}

// HistoryQuery selects a price window. A non-zero From overrides Range; a
// zero To means now.
type HistoryQuery struct {
	Range timerange.Name
	From  time.Time
	To    time.Time
}

// StockPriceServicer defines the contract for the price history endpoints.
type StockPriceServicer interface {
	// GetHistory returns the stored points of symbol in the window, newest
	// first.
	GetHistory(ctx context.Context, symbol string, q HistoryQuery) ([]models.PricePoint, error)
	// AddHistory fetches and stores the missing history of a registered
	// symbol, returning the number of points written.
	AddHistory(ctx context.Context, symbol string) (int, error)
	// DeleteHistory removes every stored point of symbol and returns how
	// many were removed.
	DeleteHistory(ctx context.Context, symbol string) (int, error)
}
