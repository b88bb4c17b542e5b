package pricesync

import (
	"fmt"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// ExchangeCalendar is a holiday-aware TradingCalendar for one exchange.
type ExchangeCalendar struct {
	cal *calendar.Calendar
}

// NewExchangeCalendar loads the calendar of the exchange identified by its
// ISO 10383 MIC (e.g. "xnys", "xfra").
func NewExchangeCalendar(mic string) (*ExchangeCalendar, error) {
	cal := calendar.GetCalendar(strings.ToLower(mic))
	if cal == nil {
		return nil, fmt.Errorf("no trading calendar for MIC %q", mic)
	}
	return &ExchangeCalendar{cal: cal}, nil
}

// IsBusinessDay reports whether the exchange trades on the calendar date of t.
// The date is taken as-is and checked at noon exchange time, so callers in a
// different timezone ask about the day they mean.
func (c *ExchangeCalendar) IsBusinessDay(t time.Time) bool {
	y, m, d := t.Date()
	return c.cal.IsBusinessDay(time.Date(y, m, d, 12, 0, 0, 0, c.cal.Loc))
}
