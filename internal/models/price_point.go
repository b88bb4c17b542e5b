package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/SzaboCristian/stock-market/internal/uuid"
)

// PricePoint is one daily OHLCV bar. This is immutable time-series data keyed
// by (symbol, date): re-writing the same key overwrites the bar, nothing else
// updates it.
type PricePoint struct {
	ID     string    `gorm:"type:uuid;primaryKey" json:"-"`
	Symbol string    `gorm:"size:16;not null;uniqueIndex:uq_stock_prices_symbol_date,priority:1" json:"symbol"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uq_stock_prices_symbol_date,priority:2" json:"date"`
	Open   float64   `gorm:"not null" json:"open"`
	Close  float64   `gorm:"not null" json:"close"`
	High   float64   `gorm:"not null" json:"high"`
	Low    float64   `gorm:"not null" json:"low"`
	Volume int64     `gorm:"not null" json:"volume"`
}

// TableName overrides the default table name.
func (PricePoint) TableName() string { return "stock_prices" }

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PricePoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
