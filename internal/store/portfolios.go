package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SzaboCristian/stock-market/internal/models"
)

func preloadAllocations(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// GetPortfolio loads a portfolio with its allocations.
func (s *Store) GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	err := s.db.WithContext(ctx).Preload("Allocations", preloadAllocations).
		Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get portfolio %s: %w", id, err)
	}
	return &p, nil
}

// ListPortfolios loads every portfolio owned by userID, oldest first.
func (s *Store) ListPortfolios(ctx context.Context, userID string) ([]models.Portfolio, error) {
	var out []models.Portfolio
	err := s.db.WithContext(ctx).Preload("Allocations", preloadAllocations).
		Where("user_id = ?", userID).Order("created_at ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list portfolios for %s: %w", userID, err)
	}
	return out, nil
}

// CreatePortfolio inserts the portfolio and its allocations. The generated id
// is written back to p.
func (s *Store) CreatePortfolio(ctx context.Context, p *models.Portfolio) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	return nil
}

// UpdatePortfolio rewrites name, modification time and the full allocation
// set in one transaction.
func (s *Store) UpdatePortfolio(ctx context.Context, p *models.Portfolio) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Portfolio{}).Where("id = ?", p.ID).
			Updates(map[string]any{"name": p.Name, "modified_at": p.ModifiedAt})
		if res.Error != nil {
			return fmt.Errorf("update portfolio %s: %w", p.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("portfolio_id = ?", p.ID).Delete(&models.PortfolioAllocation{}).Error; err != nil {
			return fmt.Errorf("clear allocations of %s: %w", p.ID, err)
		}
		for i := range p.Allocations {
			p.Allocations[i].ID = ""
			p.Allocations[i].PortfolioID = p.ID
		}
		if len(p.Allocations) > 0 {
			if err := tx.Create(&p.Allocations).Error; err != nil {
				return fmt.Errorf("write allocations of %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// DeletePortfolio removes a portfolio and its allocations.
func (s *Store) DeletePortfolio(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", id).Delete(&models.PortfolioAllocation{}).Error; err != nil {
			return fmt.Errorf("delete allocations of %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Portfolio{})
		if res.Error != nil {
			return fmt.Errorf("delete portfolio %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
