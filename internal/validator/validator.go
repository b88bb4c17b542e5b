// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SzaboCristian/stock-market/internal/timerange"
)

// tickerRegex accepts exchange-suffixed symbols and index/currency forms
// such as BRK-B, SAP.DE, ^GSPC and EURUSD=X.
var tickerRegex = regexp.MustCompile(`^\^?[A-Za-z0-9][A-Za-z0-9.\-=]{0,15}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("time_range", validateTimeRange)
	}
}

// IsTicker reports whether s is a well-formed ticker symbol.
func IsTicker(s string) bool {
	return tickerRegex.MatchString(strings.TrimSpace(s))
}

func validateTicker(fl validator.FieldLevel) bool {
	return IsTicker(fl.Field().String())
}

func validateTimeRange(fl validator.FieldLevel) bool {
	_, err := timerange.Parse(fl.Field().String())
	return err == nil
}
