package loan

import (
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// DefaultFrequency applies to loans whose stored frequency is missing or unrecognised.
const DefaultFrequency = FrequencyBiweekly

const biweeklyDays = 15

var frequencyAliases = map[string]Frequency{
	"daily":     FrequencyDaily,
	"diario":    FrequencyDaily,
	"weekly":    FrequencyWeekly,
	"semanal":   FrequencyWeekly,
	"biweekly":  FrequencyBiweekly,
	"quincenal": FrequencyBiweekly,
	"monthly":   FrequencyMonthly,
	"mensual":   FrequencyMonthly,
}

// LookupFrequency resolves a user supplied frequency, reporting whether it was recognised.
func LookupFrequency(s string) (Frequency, bool) {
	f, ok := frequencyAliases[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}

// ParseFrequency never fails; unknown values fall back to DefaultFrequency.
func ParseFrequency(s string) Frequency {
	if f, ok := LookupFrequency(s); ok {
		return f
	}
	return DefaultFrequency
}

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// NextDueDate advances base by one period of f.
//
// Monthly steps keep the day of month, clamped to the last day of the target
// month, so Jan 31 becomes Feb 29 in a leap year. The time of day and
// location of base are preserved.
func NextDueDate(base time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyDaily:
		return base.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return base.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonthClamped(base)
	default:
		return base.AddDate(0, 0, biweeklyDays)
	}
}

func addMonthClamped(base time.Time) time.Time {
	year, month, day := base.Date()
	hour, minute, sec := base.Clock()

	lastDay := daysIn(year, month+1, base.Location())
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month+1, day, hour, minute, sec, base.Nanosecond(), base.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
