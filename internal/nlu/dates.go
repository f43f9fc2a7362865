package nlu

import (
	"strings"
	"time"
)

// DateRange is a half-open search window [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Span() time.Duration { return r.End.Sub(r.Start) }

// SameMonth reports whether both bounds fall in one calendar month.
func (r DateRange) SameMonth() bool {
	return r.Start.Year() == r.End.Year() && r.Start.Month() == r.End.Month()
}

// ParseDateRange resolves a relative-date phrase against the parser clock.
// First match wins: weekend, today, tomorrow, next week, this month; anything
// else is the next 30 days.
func (p *Parser) ParseDateRange(text string) DateRange {
	t := strings.ToLower(text)
	now := p.now()

	switch {
	case strings.Contains(t, "weekend"):
		// Friday at or after today; Saturday and Sunday roll to next Friday.
		ahead := int(time.Friday - now.Weekday())
		if ahead < 0 {
			ahead += 7
		}
		start := now.AddDate(0, 0, ahead)
		return DateRange{Start: start, End: start.AddDate(0, 0, 2)}
	case strings.Contains(t, "today"):
		return DateRange{Start: now, End: now.AddDate(0, 0, 1)}
	case strings.Contains(t, "tomorrow"):
		start := now.AddDate(0, 0, 1)
		return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
	case strings.Contains(t, "next week"):
		start := now.AddDate(0, 0, 7)
		return DateRange{Start: start, End: start.AddDate(0, 0, 7)}
	case strings.Contains(t, "this month"):
		// First of the month plus 32 days; may spill a few days into the next month.
		first := time.Date(now.Year(), now.Month(), 1, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
		return DateRange{Start: now, End: first.AddDate(0, 0, 32)}
	}
	return DateRange{Start: now, End: now.AddDate(0, 0, 30)}
}
