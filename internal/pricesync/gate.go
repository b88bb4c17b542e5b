package pricesync

import "time"

// TradingCalendar reports exchange business days.
type TradingCalendar interface {
	IsBusinessDay(t time.Time) bool
}

// Gate decides whether a sync pass is worth running now. It is a freshness
// hint only: a run on a closed day writes nothing new.
type Gate struct {
	loc      *time.Location
	openHour int
	cal      TradingCalendar
}

// NewGate creates a Gate for the given local timezone and market open hour.
// cal may be nil, in which case every weekday counts as a trading day.
func NewGate(loc *time.Location, openHour int, cal TradingCalendar) *Gate {
	if loc == nil {
		loc = time.UTC
	}
	return &Gate{loc: loc, openHour: openHour, cal: cal}
}

// ShouldSync reports whether a pass should run at now, and the reason when
// it should not.
func (g *Gate) ShouldSync(now time.Time) (bool, string) {
	local := now.In(g.loc)
	if !g.tradingDay(local.AddDate(0, 0, -1)) {
		return false, "markets were closed yesterday"
	}
	if g.tradingDay(local) && local.Hour() >= g.openHour {
		return false, "markets are open"
	}
	return true, ""
}

func (g *Gate) tradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return g.cal == nil || g.cal.IsBusinessDay(t)
}
