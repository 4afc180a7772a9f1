// Package dateutils provides the calendar arithmetic used by the payment-cycle
// calculator. All helpers work on civil dates: times are truncated to midnight
// UTC before any comparison or subtraction.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date layouts
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is the list of layouts tried by ParseDate, in order.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05Z07:00",
	DateLayoutEuropean,
	DateLayoutUS,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate parses a date string using CommonFormats and returns it as a
// civil date.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("unable to parse date: empty string")
	}
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return Civil(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// Civil truncates t to midnight UTC on the same calendar day.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate returns the given day of the month, clamped to the month's last
// day (day 31 in February becomes the 28th or 29th). Days below 1 clamp to 1.
// Month values outside 1..12 roll over into adjacent years.
func ClampedDate(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := DaysInMonth(first.Year(), first.Month())
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped moves date by n calendar months and places it on day,
// clamped to the target month's length.
func AddMonthsClamped(date time.Time, n int, day int) time.Time {
	return ClampedDate(date.Year(), date.Month()+time.Month(n), day)
}

// DaysBetween returns the signed number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Civil(b).Sub(Civil(a)).Hours() / 24)
}

// CompareDates compares two dates ignoring the time of day and returns -1, 0
// or 1.
func CompareDates(date1, date2 time.Time) int {
	date1 = Civil(date1)
	date2 = Civil(date2)

	switch {
	case date1.Before(date2):
		return -1
	case date1.After(date2):
		return 1
	default:
		return 0
	}
}
