package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-patro/internal/config"
)

const secondsPerDay = 24 * 60 * 60

// Date is a Bikram Sambat calendar date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf(config.FormatISODate, d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ParseDate parses YYYY-MM-DD (or YYYY/MM/DD) into a Date.
// Only the shape is checked; use Converter.Validate for table bounds.
func ParseDate(s string) (Date, error) {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '-' || r == '/'
	})
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%s: %q", config.ErrDateParse, s)
	}

	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%s: %q: %w", config.ErrDateParse, s, err)
		}
		vals[i] = n
	}
	return Date{Year: vals[0], Month: vals[1], Day: vals[2]}, nil
}

// ParseGregorian parses a YYYY-MM-DD Gregorian date as UTC midnight.
func ParseGregorian(s string) (time.Time, error) {
	t, err := time.Parse(config.DateFormatFullDash, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Join(errors.New(config.ErrDateParse), err)
	}
	return t, nil
}

// Civil drops the clock and zone of t, keeping the calendar date t shows in
// its own location, as UTC midnight.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayIndex counts whole days since 1970-01-01 for the calendar date of t.
func dayIndex(t time.Time) int64 {
	return Civil(t).Unix() / secondsPerDay
}
