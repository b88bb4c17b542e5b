package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SzaboCristian/stock-market/internal/calculator"
	apperrors "github.com/SzaboCristian/stock-market/internal/errors"
)

// CalculatorHandler serves the investment calculator.
type CalculatorHandler struct{}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// CompoundInterestQuery holds the calculator query parameters.
type CompoundInterestQuery struct {
	StartingAmount               float64 `form:"starting_amount" binding:"gte=0"`
	YearlyReturnRate             float64 `form:"yearly_return_rate"`
	Years                        int     `form:"years"`
	AdditionalYearlyContribution float64 `form:"additional_yearly_contribution" binding:"gte=0"`
	ContributionAtEndOfYear      bool    `form:"contribution_at_end_of_year"`
}

// CompoundInterest handles the compound interest calculation.
// @Summary     Compound interest
// @Description Final amount of a yearly compounded investment with optional yearly contributions
// @Tags        calculator
// @Produce     json
// @Param       starting_amount                query number  false "Initial investment"
// @Param       yearly_return_rate             query number  false "Yearly return, percent"
// @Param       years                          query int     true  "Investment length in years"
// @Param       additional_yearly_contribution query number  false "Contribution added every year"
// @Param       contribution_at_end_of_year    query boolean false "Add the contribution after the year's growth"
// @Success     200 {object} services.Result "Calculation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /calculator/compound-interest [get]
func (h *CalculatorHandler) CompoundInterest(c *gin.Context) {
	var q CompoundInterestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	res, err := calculator.CompoundInterest(calculator.CompoundInterestInput(q))
	if errors.Is(err, calculator.ErrInvalidLength) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Investment length must be greater or equal to 1"))
		return
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, res, "OK")
}
