package calendar

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-patro/internal/config"
)

// Anchor is a verified correspondence between a Gregorian and a BS date.
// Every conversion counts days from it.
type Anchor struct {
	Gregorian time.Time
	Nepali    Date
}

// NewAnchor validates nepali against table and normalizes gregorian to UTC midnight.
func NewAnchor(gregorian time.Time, nepali Date, table *Table) (Anchor, error) {
	if err := validate(table, nepali.Year, nepali.Month, nepali.Day); err != nil {
		return Anchor{}, fmt.Errorf("%s: %w", config.ErrInvalidAnchor, err)
	}
	return Anchor{Gregorian: Civil(gregorian), Nepali: nepali}, nil
}

// DefaultAnchor pairs 1 Shrawan 2082 BS with Thursday 17 July 2025.
// It is consistent with DefaultTable: 1 Baisakh 2080 falls on 14 April 2023.
func DefaultAnchor() Anchor {
	return Anchor{
		Gregorian: time.Date(2025, time.July, 17, 0, 0, 0, 0, time.UTC),
		Nepali:    Date{Year: 2082, Month: 4, Day: 1},
	}
}

func (a Anchor) String() string {
	return a.Gregorian.Format(config.DateFormatFullDash) + "=" + a.Nepali.String()
}
