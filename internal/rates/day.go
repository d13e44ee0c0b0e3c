// Package rates defines the snapshot model shared by the cache, store, and
// provider layers, together with the error taxonomy of the sync pipeline.
package rates

import (
	"fmt"
	"time"
)

// DayFormat is the ISO-8601 layout used for all date keys.
const DayFormat = "2006-01-02"

// Day is a UTC calendar day in ISO-8601 form ("2025-12-01"). It is used as
// the addressing key for both storage tiers.
type Day string

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(DayFormat))
}

// Today returns the current UTC calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay validates s as an ISO-8601 date and returns it as a Day.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayFormat, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

func (d Day) String() string { return string(d) }
