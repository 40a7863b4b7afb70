// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DayNames are the keys used by a location's opening hours, indexed by time.Weekday.
var DayNames = [7]string{
	"zondag",
	"maandag",
	"dinsdag",
	"woensdag",
	"donderdag",
	"vrijdag",
	"zaterdag",
}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayNameFor returns the opening-hours key for a YYYY-MM-DD date.
// The weekday is computed on the proleptic Gregorian calendar, independent of locale and zone.
func DayNameFor(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return DayNames[d.Weekday()], nil
}

// IsDayName reports whether name is one of the seven opening-hours keys.
func IsDayName(name string) bool {
	for _, d := range DayNames {
		if d == name {
			return true
		}
	}
	return false
}

// TodayIn returns the civil date of now in loc, as YYYY-MM-DD.
func TodayIn(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}
