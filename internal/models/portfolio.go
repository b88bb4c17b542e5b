package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/SzaboCristian/stock-market/internal/uuid"
)

// Portfolio is the persisted form of a user's allocation set. Rows are only
// written from a validated domain portfolio.
type Portfolio struct {
	ID          string                `gorm:"type:uuid;primaryKey"`
	UserID      string                `gorm:"type:uuid;not null;index"`
	Name        string                `gorm:"not null"`
	CreatedAt   time.Time             `gorm:"not null"`
	ModifiedAt  time.Time             `gorm:"not null"`
	Allocations []PortfolioAllocation `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// PortfolioAllocation is one (ticker, percentage) row of a portfolio.
type PortfolioAllocation struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	PortfolioID string  `gorm:"type:uuid;not null;uniqueIndex:uq_portfolio_allocations_ticker,priority:1"`
	Ticker      string  `gorm:"size:16;not null;uniqueIndex:uq_portfolio_allocations_ticker,priority:2"`
	Percentage  float64 `gorm:"not null"`
	Position    int     `gorm:"not null;default:0"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (a *PortfolioAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New()
	}
	return nil
}
