package models

import "time"

// Stock is an entry of the stock registry. Its symbol is the key the sync
// daemon enumerates and the key price points are stored under.
type Stock struct {
	Symbol         string    `gorm:"primaryKey;size:16" json:"symbol"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Sector         string    `gorm:"index" json:"sector,omitempty"`
	Industry       string    `gorm:"index" json:"industry,omitempty"`
	Exchange       string    `gorm:"index" json:"exchange,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	InstrumentType string    `json:"instrument_type,omitempty"`
	Website        string    `json:"website,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
