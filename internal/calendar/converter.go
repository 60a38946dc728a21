// Package calendar converts dates between the Gregorian and the Bikram Sambat
// (BS) calendars.
//
// BS month lengths have no closed-form rule, so they are looked up in a Table
// covering a bounded range of years. Conversions count whole days from a
// single Anchor and walk the table month by month. Outside the table,
// months are 30 days and years 365 days; results there drift from the real
// calendar and are not round-trip exact.
//
// A Converter is immutable after New and safe for concurrent use.
package calendar

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-patro/internal/config"
)

// Converter is the conversion engine bound to one table, anchor and holiday set.
type Converter struct {
	table    *Table
	anchor   Anchor
	holidays *HolidayTable
	clock    Clock
}

// Option customizes a Converter.
type Option func(*Converter)

// WithTable replaces the built-in year table.
func WithTable(t *Table) Option {
	return func(c *Converter) { c.table = t }
}

// WithAnchor replaces the built-in anchor.
func WithAnchor(a Anchor) Option {
	return func(c *Converter) { c.anchor = a }
}

// WithHolidays replaces the built-in holiday table.
func WithHolidays(h *HolidayTable) Option {
	return func(c *Converter) { c.holidays = h }
}

// WithClock sets the source of "today".
func WithClock(clk Clock) Option {
	return func(c *Converter) { c.clock = clk }
}

// New builds a Converter. Without options it uses DefaultTable, DefaultAnchor,
// DefaultHolidays and RealClock. The anchor is validated against the table.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		table:    DefaultTable(),
		anchor:   DefaultAnchor(),
		holidays: DefaultHolidays(),
		clock:    RealClock{},
	}
	for _, opt := range opts {
		opt(c)
	}

	a, err := NewAnchor(c.anchor.Gregorian, c.anchor.Nepali, c.table)
	if err != nil {
		return nil, err
	}
	c.anchor = a
	return c, nil
}

// Table returns the year table.
func (c *Converter) Table() *Table { return c.table }

// Anchor returns the anchor.
func (c *Converter) Anchor() Anchor { return c.anchor }

// DaysInMonth returns the length of a BS month (fallback 30 outside the table).
func (c *Converter) DaysInMonth(year, month int) int {
	return c.table.DaysInMonth(year, month)
}

// DaysInYear returns the length of a BS year (fallback 365 outside the table).
func (c *Converter) DaysInYear(year int) int {
	return c.table.DaysInYear(year)
}

// ToNepali converts the calendar date of t (in t's own location) to BS.
func (c *Converter) ToNepali(t time.Time) Date {
	diff := int(dayIndex(t) - dayIndex(c.anchor.Gregorian))
	y, m, d := c.anchor.Nepali.Year, c.anchor.Nepali.Month, c.anchor.Nepali.Day

	if diff >= 0 {
		d += diff
		for d > c.table.DaysInMonth(y, m) {
			if m == 1 && d > c.table.monthsTotal(y) {
				d -= c.table.monthsTotal(y)
				y++
				continue
			}
			d -= c.table.DaysInMonth(y, m)
			m++
			if m > MonthsPerYear {
				m = 1
				y++
			}
		}
	} else {
		d += diff
		for d < 1 {
			if m == 1 && -d >= c.table.monthsTotal(y-1) {
				d += c.table.monthsTotal(y - 1)
				y--
				continue
			}
			m--
			if m < 1 {
				m = MonthsPerYear
				y--
			}
			d += c.table.DaysInMonth(y, m)
		}
	}
	return Date{Year: y, Month: m, Day: d}
}

// ToGregorian converts a BS date to its Gregorian date at UTC midnight.
// It returns an *InvalidDateError when year, month or day is out of range.
func (c *Converter) ToGregorian(year, month, day int) (time.Time, error) {
	if err := c.Validate(year, month, day); err != nil {
		return time.Time{}, err
	}
	offset := c.daysFromAnchor(Date{Year: year, Month: month, Day: day})
	return c.anchor.Gregorian.AddDate(0, 0, offset), nil
}

// daysFromAnchor returns the signed number of days from the anchor to d:
// whole months of the boundary years, whole years strictly between, then
// the day term.
func (c *Converter) daysFromAnchor(d Date) int {
	a := c.anchor.Nepali
	total := 0

	switch {
	case d.Year > a.Year:
		for m := a.Month; m <= MonthsPerYear; m++ {
			total += c.table.DaysInMonth(a.Year, m)
		}
		total += c.table.daysInYears(a.Year+1, d.Year)
		for m := 1; m < d.Month; m++ {
			total += c.table.DaysInMonth(d.Year, m)
		}
	case d.Year < a.Year:
		for m := d.Month; m <= MonthsPerYear; m++ {
			total -= c.table.DaysInMonth(d.Year, m)
		}
		total -= c.table.daysInYears(d.Year+1, a.Year)
		for m := 1; m < a.Month; m++ {
			total -= c.table.DaysInMonth(a.Year, m)
		}
	default:
		for m := a.Month; m < d.Month; m++ {
			total += c.table.DaysInMonth(d.Year, m)
		}
		for m := d.Month; m < a.Month; m++ {
			total -= c.table.DaysInMonth(d.Year, m)
		}
	}

	return total + d.Day - a.Day
}

// Now returns the clock's current time.
func (c *Converter) Now() time.Time {
	return c.clock.Now()
}

// Today returns the BS date of the clock's current day.
func (c *Converter) Today() Date {
	return c.ToNepali(c.clock.Now())
}

// Validate returns an *InvalidDateError if (year, month, day) is not a BS date.
func (c *Converter) Validate(year, month, day int) error {
	return validate(c.table, year, month, day)
}

// IsValid reports whether (year, month, day) is a BS date.
func (c *Converter) IsValid(year, month, day int) bool {
	return c.Validate(year, month, day) == nil
}

// Weekday returns the day of the week of a BS date.
func (c *Converter) Weekday(d Date) (time.Weekday, error) {
	g, err := c.ToGregorian(d.Year, d.Month, d.Day)
	if err != nil {
		return 0, err
	}
	return g.Weekday(), nil
}

func validate(t *Table, year, month, day int) error {
	if year < MinYear || year > MaxYear {
		return &InvalidDateError{
			Year: year, Month: month, Day: day,
			Reason: fmt.Sprintf("%s (%d..%d)", config.ErrYearRange, MinYear, MaxYear),
		}
	}
	if month < 1 || month > MonthsPerYear {
		return invalidMonth(year, month, day)
	}
	if n := t.DaysInMonth(year, month); day < 1 || day > n {
		return &InvalidDateError{
			Year: year, Month: month, Day: day,
			Reason: fmt.Sprintf("%s (1..%d)", config.ErrDayRange, n),
		}
	}
	return nil
}
