// Package portfolio is the allocation model: a named set of (ticker,
// percentage) pairs owned by a user. A Portfolio value can only be obtained
// through New, so every value in the program satisfies the allocation
// invariants: at least one allocation, unique tickers, percentages in (0, 100]
// summing to exactly 100.
package portfolio

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultName is used when a portfolio is created without a name.
const DefaultName = "user_portfolio_default"

var hundred = decimal.NewFromInt(100)

// Allocation is the share of a portfolio assigned to one ticker.
type Allocation struct {
	Ticker     string  `json:"ticker"`
	Percentage float64 `json:"percentage"`
}

// AllocationError reports an invalid or duplicate allocation.
type AllocationError struct {
	Ticker     string
	Percentage float64
	Reason     string
}

func (e *AllocationError) Error() string { return e.Reason }

// PortfolioError reports a portfolio-level invariant violation.
type PortfolioError struct {
	Reason string
}

func (e *PortfolioError) Error() string { return e.Reason }

// NewAllocation normalizes the ticker (trimmed, upper case) and checks the
// percentage lies in (0, 100].
func NewAllocation(ticker string, percentage float64) (Allocation, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Allocation{}, &AllocationError{Percentage: percentage, Reason: "Invalid allocation: no ticker set."}
	}
	if !(percentage > 0 && percentage <= 100) {
		return Allocation{}, &AllocationError{
			Ticker:     ticker,
			Percentage: percentage,
			Reason:     fmt.Sprintf("Invalid allocation for ticker %s: percentage must be greater than 0 and at most 100.", ticker),
		}
	}
	return Allocation{Ticker: ticker, Percentage: percentage}, nil
}

// Portfolio is a validated allocation set.
type Portfolio struct {
	ID         string
	Name       string
	UserID     string
	CreatedAt  time.Time
	ModifiedAt time.Time

	allocations []Allocation
}

// New validates its arguments in a fixed order and returns the first
// violation: owner, name, allocations present, each allocation valid, unique
// tickers, sum of exactly 100, timestamps.
func New(name, userID string, allocations []Allocation, createdAt, modifiedAt time.Time) (*Portfolio, error) {
	if userID == "" {
		return nil, &PortfolioError{Reason: "No user id set."}
	}
	if strings.TrimSpace(name) == "" {
		return nil, &PortfolioError{Reason: "No portfolio name set."}
	}
	normalized, err := validateAllocations(allocations)
	if err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, &PortfolioError{Reason: "No created timestamp set."}
	}
	if modifiedAt.IsZero() {
		return nil, &PortfolioError{Reason: "No modified timestamp set."}
	}
	return &Portfolio{
		Name:        strings.TrimSpace(name),
		UserID:      userID,
		CreatedAt:   createdAt,
		ModifiedAt:  modifiedAt,
		allocations: normalized,
	}, nil
}

func validateAllocations(allocations []Allocation) ([]Allocation, error) {
	if len(allocations) == 0 {
		return nil, &PortfolioError{Reason: "No allocations set."}
	}

	out := make([]Allocation, 0, len(allocations))
	seen := make(map[string]struct{}, len(allocations))
	total := decimal.Zero
	for _, a := range allocations {
		alloc, err := NewAllocation(a.Ticker, a.Percentage)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[alloc.Ticker]; dup {
			return nil, &AllocationError{
				Ticker:     alloc.Ticker,
				Percentage: alloc.Percentage,
				Reason:     "Duplicate ticker " + alloc.Ticker,
			}
		}
		seen[alloc.Ticker] = struct{}{}
		total = total.Add(decimal.NewFromFloat(alloc.Percentage))
		out = append(out, alloc)
	}

	if !total.Equal(hundred) {
		return nil, &PortfolioError{Reason: "Total allocation percentage must be 100%."}
	}
	return out, nil
}

// Allocations returns a copy of the allocation list.
func (p *Portfolio) Allocations() []Allocation {
	return slices.Clone(p.allocations)
}

// Tickers returns the allocated tickers in allocation order.
func (p *Portfolio) Tickers() []string {
	out := make([]string, len(p.allocations))
	for i, a := range p.allocations {
		out[i] = a.Ticker
	}
	return out
}

// SetAllocations replaces the whole allocation list. On error the previous
// list is kept.
func (p *Portfolio) SetAllocations(allocations []Allocation) error {
	normalized, err := validateAllocations(allocations)
	if err != nil {
		return err
	}
	p.allocations = normalized
	return nil
}

// Rename sets a new non-empty name.
func (p *Portfolio) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &PortfolioError{Reason: "No portfolio name set."}
	}
	p.Name = name
	return nil
}

// Touch records a modification at now.
func (p *Portfolio) Touch(now time.Time) {
	p.ModifiedAt = now
}

// OwnedBy reports whether userID owns the portfolio.
func (p *Portfolio) OwnedBy(userID string) bool {
	return p.UserID == userID
}

type portfolioJSON struct {
	ID          string       `json:"portfolio_id,omitempty"`
	Name        string       `json:"portfolio_name"`
	UserID      string       `json:"user_id"`
	Allocations []Allocation `json:"allocations"`
	CreatedAt   time.Time    `json:"created_at"`
	ModifiedAt  time.Time    `json:"modified_at"`
}

// MarshalJSON renders the portfolio document.
func (p *Portfolio) MarshalJSON() ([]byte, error) {
	return json.Marshal(portfolioJSON{
		ID:          p.ID,
		Name:        p.Name,
		UserID:      p.UserID,
		Allocations: p.allocations,
		CreatedAt:   p.CreatedAt,
		ModifiedAt:  p.ModifiedAt,
	})
}
