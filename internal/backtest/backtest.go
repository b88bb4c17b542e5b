// Package backtest computes the historical return a portfolio would have had
// over a date window, from the daily closes in the price store.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/portfolio"
	"github.com/SzaboCristian/stock-market/internal/store"
)

// ErrInvalidWindow is returned when start is not before end.
var ErrInvalidWindow = errors.New("backtest start must be before end")

// Reasons a holding is incomplete.
const (
	ReasonNoStartPrice   = "no price on or after start date"
	ReasonNoEndPrice     = "no price on or before end date"
	ReasonEmptyWindow    = "no price inside the window"
	ReasonZeroStartPrice = "start price is zero"
)

var hundred = decimal.NewFromInt(100)

// PriceSearcher is the store query the engine runs.
type PriceSearcher interface {
	Search(ctx context.Context, q store.PriceQuery) ([]models.PricePoint, error)
}

// Holding is the return of one allocation. An incomplete holding has a
// Reason, a zero return and contributes nothing to the total.
type Holding struct {
	Ticker              string    `json:"ticker"`
	Percentage          float64   `json:"percentage"`
	StartDate           time.Time `json:"start_date,omitzero"`
	StartPrice          float64   `json:"start_price"`
	EndDate             time.Time `json:"end_date,omitzero"`
	EndPrice            float64   `json:"end_price"`
	ReturnValuePerShare float64   `json:"return_value_per_share"`
	ReturnPercentage    float64   `json:"return_percentage"`
	Complete            bool      `json:"complete"`
	Reason              string    `json:"reason,omitempty"`
}

// Result is the outcome of a backtest.
type Result struct {
	PortfolioID           string    `json:"portfolio_id"`
	Start                 time.Time `json:"start"`
	End                   time.Time `json:"end"`
	Holdings              []Holding `json:"holdings"`
	TotalReturnPercentage float64   `json:"total_return_percentage"`
}

// Engine runs backtests against a price store.
type Engine struct {
	prices PriceSearcher
}

// NewEngine creates a new Engine.
func NewEngine(prices PriceSearcher) *Engine {
	return &Engine{prices: prices}
}

// Run backtests p over [start, end]. For every allocation it takes the first
// close on or after start and the last close on or before end. The total is
// the allocation-weighted sum of the holding returns, rounded to two decimals.
func (e *Engine) Run(ctx context.Context, p *portfolio.Portfolio, start, end time.Time) (*Result, error) {
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	result := &Result{PortfolioID: p.ID, Start: start, End: end}
	total := decimal.Zero
	for _, a := range p.Allocations() {
		h, err := e.holding(ctx, a, start, end)
		if err != nil {
			return nil, err
		}
		if h.Complete {
			weight := decimal.NewFromFloat(a.Percentage).Div(hundred)
			total = total.Add(weight.Mul(decimal.NewFromFloat(h.ReturnPercentage)))
		}
		result.Holdings = append(result.Holdings, h)
	}
	result.TotalReturnPercentage = total.Round(2).InexactFloat64()
	return result, nil
}

func (e *Engine) holding(ctx context.Context, a portfolio.Allocation, start, end time.Time) (Holding, error) {
	h := Holding{Ticker: a.Ticker, Percentage: a.Percentage}

	first, err := e.prices.Search(ctx, store.PriceQuery{Symbol: a.Ticker, From: start, Order: store.Ascending, Limit: 1})
	if err != nil {
		return h, fmt.Errorf("first price of %s: %w", a.Ticker, err)
	}
	last, err := e.prices.Search(ctx, store.PriceQuery{Symbol: a.Ticker, To: end, Order: store.Descending, Limit: 1})
	if err != nil {
		return h, fmt.Errorf("last price of %s: %w", a.Ticker, err)
	}

	switch {
	case len(first) == 0:
		h.Reason = ReasonNoStartPrice
		return h, nil
	case len(last) == 0:
		h.Reason = ReasonNoEndPrice
		return h, nil
	}

	h.StartDate, h.StartPrice = first[0].Date, first[0].Close
	h.EndDate, h.EndPrice = last[0].Date, last[0].Close
	switch {
	case h.StartDate.After(h.EndDate):
		h.Reason = ReasonEmptyWindow
		return h, nil
	case h.StartPrice == 0:
		h.Reason = ReasonZeroStartPrice
		return h, nil
	}

	startClose := decimal.NewFromFloat(h.StartPrice)
	endClose := decimal.NewFromFloat(h.EndPrice)
	h.ReturnValuePerShare = endClose.Sub(startClose).InexactFloat64()
	h.ReturnPercentage = hundred.Mul(endClose).Div(startClose).Sub(hundred).InexactFloat64()
	h.Complete = true
	return h, nil
}
