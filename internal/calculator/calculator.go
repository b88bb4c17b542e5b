// Package calculator implements the investment calculator endpoints' math.
package calculator

import (
	"errors"
	"math"
)

// ErrInvalidLength is returned for an investment shorter than one year.
var ErrInvalidLength = errors.New("investment length must be greater or equal to 1")

// CompoundInterestInput describes a yearly compounded investment.
type CompoundInterestInput struct {
	StartingAmount               float64
	YearlyReturnRate             float64 // percent
	Years                        int
	AdditionalYearlyContribution float64
	// ContributionAtEndOfYear adds the contribution after the year's growth
	// instead of before it.
	ContributionAtEndOfYear bool
}

// CompoundInterestResult is the outcome of CompoundInterest.
type CompoundInterestResult struct {
	StartingAmount         float64 `json:"starting_amount"`
	AdditionalContribution float64 `json:"additional_contribution"`
	CompoundInterest       float64 `json:"compound_interest"`
	FinalAmount            float64 `json:"final_amount"`
}

// CompoundInterest computes the final amount of the investment and the
// interest earned on top of the money put in.
func CompoundInterest(in CompoundInterestInput) (CompoundInterestResult, error) {
	if in.Years < 1 {
		return CompoundInterestResult{}, ErrInvalidLength
	}

	growth := 1 + in.YearlyReturnRate/100
	final := in.StartingAmount
	if in.AdditionalYearlyContribution == 0 {
		final = in.StartingAmount * math.Pow(growth, float64(in.Years))
	} else {
		for range in.Years {
			if in.ContributionAtEndOfYear {
				final = growth*final + in.AdditionalYearlyContribution
			} else {
				final = growth * (final + in.AdditionalYearlyContribution)
			}
		}
	}

	contributed := float64(in.Years) * in.AdditionalYearlyContribution
	return CompoundInterestResult{
		StartingAmount:         in.StartingAmount,
		AdditionalContribution: contributed,
		CompoundInterest:       final - (in.StartingAmount + contributed),
		FinalAmount:            final,
	}, nil
}
