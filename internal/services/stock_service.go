package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/pagination"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/validator"
)

const importBatchSize = 100

// SymbolLookup resolves descriptive metadata for a ticker.
type SymbolLookup interface {
	Lookup(ctx context.Context, symbol string) (*provider.StockInfo, error)
}

// stockService handles the stock registry.
type stockService struct {
	db     *gorm.DB
	lookup SymbolLookup
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB, lookup SymbolLookup) StockServicer {
	return &stockService{db: db, lookup: lookup}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// CreateStock registers a new ticker using provider metadata
func (s *stockService) CreateStock(ctx context.Context, symbol string) (*models.Stock, bool, error) {
	symbol = normalizeSymbol(symbol)
	if !validator.IsTicker(symbol) {
		return nil, false, apperrors.WithMessagef(apperrors.ErrInvalidInput, "Invalid ticker %q", symbol)
	}

	existing, err := s.find(ctx, symbol)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrStockNotFound) {
		return nil, false, err
	}

	info, err := s.lookup.Lookup(ctx, symbol)
	if errors.Is(err, provider.ErrSymbolNotFound) {
		return nil, false, apperrors.WithMessagef(apperrors.ErrUnknownSymbol, "Could not get info for ticker %s", symbol)
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	stock := &models.Stock{
		Symbol:         symbol,
		Name:           info.Name,
		Exchange:       info.Exchange,
		Currency:       info.Currency,
		InstrumentType: info.InstrumentType,
	}
	if err := s.db.WithContext(ctx).Create(stock).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Registered concurrently; return the winner's record.
			existing, ferr := s.find(ctx, symbol)
			if ferr == nil {
				return existing, false, nil
			}
		}
		return nil, false, apperrors.WithMessagef(apperrors.Wrap(apperrors.ErrInternalServer, err), "Could not save info for ticker %s", symbol)
	}

	logger.Get().Infow("stock registered", "symbol", symbol, "exchange", stock.Exchange)
	return stock, true, nil
}

// GetStock retrieves a registered stock by symbol
func (s *stockService) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	return s.find(ctx, normalizeSymbol(symbol))
}

// ListStocks retrieves a filtered, paginated page of the registry
func (s *stockService) ListStocks(ctx context.Context, filter StockFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	page.Defaults()

	query := s.db.WithContext(ctx).Model(&models.Stock{})
	if filter.Sector != "" {
		query = query.Where("LOWER(sector) = ?", strings.ToLower(filter.Sector))
	}
	if filter.Industry != "" {
		query = query.Where("LOWER(industry) = ?", strings.ToLower(filter.Industry))
	}
	if filter.Exchange != "" {
		query = query.Where("UPPER(exchange) = ?", strings.ToUpper(filter.Exchange))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if total == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrStockNotFound, "No stocks found for specified filter.")
	}

	var stocks []models.Stock
	if err := query.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(stocks, page, total)
	return &resp, nil
}

// UpdateStock edits the descriptive fields of a registered stock
func (s *stockService) UpdateStock(ctx context.Context, symbol string, update StockUpdate) (*models.Stock, error) {
	symbol = normalizeSymbol(symbol)
	stock, err := s.find(ctx, symbol)
	if errors.Is(err, apperrors.ErrStockNotFound) {
		return nil, apperrors.WithMessagef(apperrors.ErrStockNotFound,
			"Ticker %s not in db. Please use POST API to insert new ticker.", symbol)
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Sector != nil {
		updates["sector"] = *update.Sector
	}
	if update.Industry != nil {
		updates["industry"] = *update.Industry
	}
	if update.Website != nil {
		updates["website"] = *update.Website
	}
	if len(updates) == 0 {
		return stock, nil
	}

	if err := s.db.WithContext(ctx).Model(stock).Updates(updates).Error; err != nil {
		return nil, apperrors.WithMessagef(apperrors.Wrap(apperrors.ErrInternalServer, err), "Could not save info for ticker %s", symbol)
	}
	return s.find(ctx, symbol)
}

// ImportStocks inserts registry records, ignoring symbols already present
func (s *stockService) ImportStocks(ctx context.Context, stocks []models.Stock) (int, error) {
	if len(stocks) == 0 {
		return 0, nil
	}

	rows := make([]models.Stock, 0, len(stocks))
	seen := make(map[string]struct{}, len(stocks))
	for _, st := range stocks {
		st.Symbol = normalizeSymbol(st.Symbol)
		if !validator.IsTicker(st.Symbol) {
			return 0, apperrors.WithMessagef(apperrors.ErrInvalidInput, "Invalid ticker %q", st.Symbol)
		}
		if _, dup := seen[st.Symbol]; dup {
			continue
		}
		seen[st.Symbol] = struct{}{}
		rows = append(rows, st)
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "symbol"}}, DoNothing: true}).
		CreateInBatches(&rows, importBatchSize)
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}

	logger.Get().Infow("stocks imported", "requested", len(stocks), "inserted", res.RowsAffected)
	return int(res.RowsAffected), nil
}

func (s *stockService) find(ctx context.Context, symbol string) (*models.Stock, error) {
	var stock models.Stock
	if err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessagef(apperrors.ErrStockNotFound, "No stock for ticker %s.", symbol)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}
