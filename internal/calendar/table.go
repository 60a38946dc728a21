package calendar

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tartampluch/go-patro/internal/config"
)

const (
	// MonthsPerYear is the number of months in a BS year.
	MonthsPerYear = 12

	// MinMonthDays and MaxMonthDays bound every tabulated month length.
	MinMonthDays = 29
	MaxMonthDays = 32

	// FallbackMonthDays and FallbackYearDays are returned for untabulated years.
	// They are not consistent with each other (12*30 != 365): calendars for
	// those years drift from the real BS calendar.
	FallbackMonthDays = 30
	FallbackYearDays  = 365

	// MinYear and MaxYear bound the BS years a Converter accepts. The range
	// covers every four-digit Gregorian year.
	MinYear = 1
	MaxYear = 10500
)

// Source tells whether a length comes from the table or from the fallback.
type Source int

const (
	// Fallback marks a fixed default returned for an untabulated year.
	Fallback Source = iota
	// Tabulated marks an exact value from the table.
	Tabulated
)

func (s Source) String() string {
	if s == Tabulated {
		return "tabulated"
	}
	return "fallback"
}

// Length is the result of a table lookup.
type Length struct {
	Days   int
	Source Source
}

// Tabulated reports whether the length is exact.
func (l Length) Tabulated() bool {
	return l.Source == Tabulated
}

// Table maps BS years to their month lengths.
// A Table is immutable once built and safe for concurrent use.
type Table struct {
	first int
	rows  [][MonthsPerYear]int
	years []int // cached year totals
}

// NewTable builds a table whose first row describes year first.
// Rows are copied; every month must be within [MinMonthDays, MaxMonthDays].
func NewTable(first int, rows [][MonthsPerYear]int) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New(config.ErrEmptyTable)
	}

	t := &Table{
		first: first,
		rows:  make([][MonthsPerYear]int, len(rows)),
		years: make([]int, len(rows)),
	}
	for i, row := range rows {
		total := 0
		for m, days := range row {
			if days < MinMonthDays || days > MaxMonthDays {
				return nil, fmt.Errorf("%s: year %d month %d has %d days", config.ErrMonthLength, first+i, m+1, days)
			}
			total += days
		}
		t.rows[i] = row
		t.years[i] = total
	}
	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable(firstTabulatedYear, monthLengths)
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTable returns the built-in table (1978-2099 BS).
func DefaultTable() *Table {
	return defaultTable()
}

// FirstYear returns the first tabulated year.
func (t *Table) FirstYear() int { return t.first }

// LastYear returns the last tabulated year.
func (t *Table) LastYear() int { return t.first + len(t.rows) - 1 }

// Contains reports whether year is tabulated.
func (t *Table) Contains(year int) bool {
	return year >= t.first && year <= t.LastYear()
}

// MonthLength returns the length of (year, month).
// Untabulated years and months outside 1..12 yield FallbackMonthDays.
func (t *Table) MonthLength(year, month int) Length {
	if !t.Contains(year) || month < 1 || month > MonthsPerYear {
		return Length{Days: FallbackMonthDays, Source: Fallback}
	}
	return Length{Days: t.rows[year-t.first][month-1], Source: Tabulated}
}

// YearLength returns the length of year.
func (t *Table) YearLength(year int) Length {
	if !t.Contains(year) {
		return Length{Days: FallbackYearDays, Source: Fallback}
	}
	return Length{Days: t.years[year-t.first], Source: Tabulated}
}

// DaysInMonth is MonthLength without the source.
func (t *Table) DaysInMonth(year, month int) int {
	return t.MonthLength(year, month).Days
}

// DaysInYear is YearLength without the source.
func (t *Table) DaysInYear(year int) int {
	return t.YearLength(year).Days
}

// daysInYears returns the total length of the years from..to-1. Untabulated
// stretches are counted in one step.
func (t *Table) daysInYears(from, to int) int {
	if to <= from {
		return 0
	}
	total := (to - from) * FallbackYearDays
	for y := max(from, t.first); y < min(to, t.LastYear()+1); y++ {
		total += t.years[y-t.first] - FallbackYearDays
	}
	return total
}

// monthsTotal returns the sum of the month lengths of year. It differs from
// DaysInYear only for untabulated years (360 against 365).
func (t *Table) monthsTotal(year int) int {
	if !t.Contains(year) {
		return MonthsPerYear * FallbackMonthDays
	}
	return t.years[year-t.first]
}

// Anomalies lists tabulated years whose total is neither 365 nor 366 days.
func (t *Table) Anomalies() []int {
	var years []int
	for i, total := range t.years {
		if total != 365 && total != 366 {
			years = append(years, t.first+i)
		}
	}
	return years
}
