package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-patro/internal/calendar"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		value     string
		want      time.Time
		yearKnown bool
	}{
		{"1990-05-01", time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"19900501", time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"1990-05-01T00:00:00Z", time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"--0501", time.Date(0, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"--05-01", time.Date(0, 5, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, yearKnown, err := parseDate(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, tt.yearKnown, yearKnown)
		})
	}

	_, _, err := parseDate("May 1st")
	assert.Error(t, err)
}

func TestNextAnniversary(t *testing.T) {
	conv, err := calendar.New()
	require.NoError(t, err)
	g := &Generator{Converter: conv}

	birth := calendar.Date{Year: 2050, Month: 3, Day: 32}
	tests := []struct {
		name  string
		today calendar.Date
		want  calendar.Date
	}{
		{"Later this year", calendar.Date{Year: 2082, Month: 1, Day: 1}, calendar.Date{Year: 2082, Month: 3, Day: 32}},
		{"On the day", calendar.Date{Year: 2082, Month: 3, Day: 32}, calendar.Date{Year: 2082, Month: 3, Day: 32}},
		{"Passed", calendar.Date{Year: 2082, Month: 4, Day: 1}, calendar.Date{Year: 2083, Month: 3, Day: 32}},
		// Asar 2080 has 31 days.
		{"Clamped", calendar.Date{Year: 2080, Month: 3, Day: 1}, calendar.Date{Year: 2080, Month: 3, Day: 31}},
		{"Clamped and passed", calendar.Date{Year: 2080, Month: 3, Day: 31}, calendar.Date{Year: 2080, Month: 3, Day: 31}},
		{"Untabulated year", calendar.Date{Year: 2120, Month: 1, Day: 1}, calendar.Date{Year: 2120, Month: 3, Day: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gregorian, err := g.nextAnniversary(tt.today, birth)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if conv.Table().Contains(got.Year) {
				assert.Equal(t, got, conv.ToNepali(gregorian))
			}
		})
	}
}

func TestSortByNext(t *testing.T) {
	entries := []BirthdayEntry{
		{Name: "C", Next: calendar.Date{Year: 2083, Month: 1, Day: 1}},
		{Name: "B", Next: calendar.Date{Year: 2082, Month: 5, Day: 2}},
		{Name: "A", Next: calendar.Date{Year: 2082, Month: 5, Day: 2}},
	}
	SortByNext(entries)
	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "B", entries[1].Name)
	assert.Equal(t, "C", entries[2].Name)
}
