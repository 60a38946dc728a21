package calendar

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-patro/internal/config"
)

// ErrInvalidDate matches every *InvalidDateError with errors.Is.
var ErrInvalidDate = errors.New("invalid BS date")

// InvalidDateError reports a month or day outside the valid range for its year.
type InvalidDateError struct {
	Year, Month, Day int
	Reason           string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidDate, Date{e.Year, e.Month, e.Day}, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDate) work.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

func invalidMonth(year, month, day int) error {
	return &InvalidDateError{Year: year, Month: month, Day: day, Reason: config.ErrMonthRange}
}
