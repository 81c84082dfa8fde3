// internal/app/contrib/daterange.go
package contrib

import (
	"fmt"
	"time"
)

// All date arithmetic in this package is done on UTC calendar days. A
// "date" is always the 10-character ISO prefix (YYYY-MM-DD); times of day
// never enter the math, so a timestamp at 23:59 UTC stays on its own day.

const isoDate = "2006-01-02"

// ToISODate formats a time as a UTC calendar date string.
func ToISODate(t time.Time) string {
	return t.UTC().Format(isoDate)
}

// ParseISODate parses the 10-character ISO prefix of value into a UTC
// midnight time. Malformed input is a caller bug and fails loudly here
// rather than degrading like an external-platform failure would.
func ParseISODate(value string) (time.Time, error) {
	if len(value) > len(isoDate) {
		value = value[:len(isoDate)]
	}
	t, err := time.ParseInLocation(isoDate, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO date %q: %w", value, err)
	}
	return t, nil
}

// EnsureRangeOrder normalizes both endpoints to date-only strings and swaps
// them if the caller supplied them reversed.
func EnsureRangeOrder(start, end string) (string, string, error) {
	s, err := ParseISODate(start)
	if err != nil {
		return "", "", err
	}
	e, err := ParseISODate(end)
	if err != nil {
		return "", "", err
	}
	if e.Before(s) {
		s, e = e, s
	}
	return ToISODate(s), ToISODate(e), nil
}

// DaysBetween returns the number of whole calendar days from start to end.
// Both arguments must be date-only strings; start <= end yields >= 0.
func DaysBetween(start, end string) (int, error) {
	s, err := ParseISODate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseISODate(end)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(s).Hours() / 24), nil
}

// GenerateRange returns every calendar date from start to end inclusive in
// ascending order. Leap years and month/year boundaries come from the
// calendar itself (AddDate), not fixed month lengths.
func GenerateRange(start, end string) ([]string, error) {
	start, end, err := EnsureRangeOrder(start, end)
	if err != nil {
		return nil, err
	}
	s, _ := ParseISODate(start)
	e, _ := ParseISODate(end)

	days := int(e.Sub(s).Hours()/24) + 1
	dates := make([]string, 0, days)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, ToISODate(d))
	}
	return dates, nil
}

// YearOf extracts the calendar year of a date string.
func YearOf(date string) (int, error) {
	t, err := ParseISODate(date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

// CurrentYearUTC returns the current calendar year in UTC.
func CurrentYearUTC() int {
	return time.Now().UTC().Year()
}

// YearBounds returns Jan 1 and Dec 31 of a year as date strings.
func YearBounds(year int) (string, string) {
	return ToISODate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		ToISODate(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
}
