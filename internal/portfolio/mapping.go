package portfolio

import (
	"fmt"

	"github.com/SzaboCristian/stock-market/internal/models"
)

// ToModel maps a portfolio to its persisted rows.
func ToModel(p *Portfolio) *models.Portfolio {
	m := &models.Portfolio{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		CreatedAt:   p.CreatedAt,
		ModifiedAt:  p.ModifiedAt,
		Allocations: make([]models.PortfolioAllocation, len(p.allocations)),
	}
	for i, a := range p.allocations {
		m.Allocations[i] = models.PortfolioAllocation{
			PortfolioID: p.ID,
			Ticker:      a.Ticker,
			Percentage:  a.Percentage,
			Position:    i,
		}
	}
	return m
}

// FromModel rebuilds a portfolio from stored rows, re-checking the invariants
// so a corrupt row surfaces as an error instead of an invalid value.
func FromModel(m *models.Portfolio) (*Portfolio, error) {
	allocations := make([]Allocation, len(m.Allocations))
	for i, a := range m.Allocations {
		allocations[i] = Allocation{Ticker: a.Ticker, Percentage: a.Percentage}
	}
	p, err := New(m.Name, m.UserID, allocations, m.CreatedAt, m.ModifiedAt)
	if err != nil {
		return nil, fmt.Errorf("stored portfolio %s is invalid: %w", m.ID, err)
	}
	p.ID = m.ID
	return p, nil
}
