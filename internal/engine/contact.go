package engine

import (
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-patro/internal/calendar"
)

// BirthdayEntry is a contact reduced to what the birthday listing needs.
type BirthdayEntry struct {
	// UID is a stable hash of name and birth date.
	UID string `json:"uid"`

	Name string `json:"name"`

	// DateOfBirth is the Gregorian date read from the vCard.
	DateOfBirth time.Time `json:"dateOfBirth"`

	// Birth is DateOfBirth on the BS calendar.
	Birth calendar.Date `json:"birth"`

	// Next is the next BS anniversary on or after today, clamped to the
	// last day of the month when that year's month is shorter.
	Next calendar.Date `json:"next"`

	// NextGregorian is Next on the Gregorian calendar.
	NextGregorian time.Time `json:"nextGregorian"`

	// AgeNext is the age reached on Next, in BS years.
	AgeNext int `json:"ageNext"`
}

// SortByNext orders entries by upcoming anniversary, then by name.
func SortByNext(entries []BirthdayEntry) {
	slices.SortStableFunc(entries, func(a, b BirthdayEntry) int {
		if c := a.Next.Compare(b.Next); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
