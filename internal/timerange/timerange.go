// Package timerange resolves the named look-back windows accepted by the
// price history endpoints.
package timerange

import (
	"fmt"
	"strings"
	"time"
)

// Name identifies a look-back window.
type Name string

const (
	LastDay     Name = "LAST_DAY"
	LastWeek    Name = "LAST_WEEK"
	LastMonth   Name = "LAST_MONTH"
	MonthToDate Name = "MTD"
	LastYear    Name = "LAST_YEAR"
	YearToDate  Name = "YTD"
	Last5Years  Name = "LAST_5_YEARS"
	All         Name = "ALL"
)

// Default is used when a request names no window.
const Default = LastWeek

const day = 24 * time.Hour

// Names lists every accepted window.
var Names = []Name{LastDay, LastWeek, LastMonth, MonthToDate, LastYear, YearToDate, Last5Years, All}

// Parse accepts a window name case-insensitively.
func Parse(s string) (Name, error) {
	n := Name(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// Start returns the first instant covered by the window ending at now. All
// returns the zero time, meaning unbounded. Month and year windows count
// whole days: LAST_MONTH spans the length of the current month and
// LAST_YEAR and LAST_5_YEARS use 365-day years.
func Start(name Name, now time.Time) (time.Time, error) {
	switch name {
	case LastDay:
		return now.Add(-day), nil
	case LastWeek:
		return now.Add(-7 * day), nil
	case LastMonth:
		return now.Add(-time.Duration(daysIn(now.Year(), now.Month())) * day), nil
	case MonthToDate:
		return now.Add(-time.Duration(now.Day()-1) * day), nil
	case LastYear:
		return now.Add(-365 * day), nil
	case YearToDate:
		return now.Add(-time.Duration(now.YearDay()-1) * day), nil
	case Last5Years:
		return now.Add(-5 * 365 * day), nil
	case All:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unknown time range %q", name)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
