package calendar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-patro/internal/calendar"
)

func TestDefaultTable_Range(t *testing.T) {
	table := calendar.DefaultTable()

	assert.Equal(t, 1978, table.FirstYear())
	assert.Equal(t, 2099, table.LastYear())
	assert.True(t, table.Contains(2082))
	assert.False(t, table.Contains(1977))
	assert.False(t, table.Contains(2100))
}

func TestDefaultTable_Consistency(t *testing.T) {
	table := calendar.DefaultTable()

	for year := table.FirstYear(); year <= table.LastYear(); year++ {
		sum := 0
		for month := 1; month <= calendar.MonthsPerYear; month++ {
			l := table.MonthLength(year, month)
			assert.True(t, l.Tabulated(), "%d-%d should be tabulated", year, month)
			assert.GreaterOrEqual(t, l.Days, calendar.MinMonthDays)
			assert.LessOrEqual(t, l.Days, calendar.MaxMonthDays)
			sum += l.Days
		}
		assert.Equal(t, sum, table.DaysInYear(year), "year %d", year)
		assert.True(t, table.YearLength(year).Tabulated())
	}
}

func TestDefaultTable_KnownRows(t *testing.T) {
	table := calendar.DefaultTable()

	assert.Equal(t, 365, table.DaysInYear(2080))
	assert.Equal(t, 366, table.DaysInYear(2081))
	assert.Equal(t, 32, table.DaysInMonth(2082, 3))
	assert.Equal(t, 31, table.DaysInMonth(2082, 4))
	assert.Equal(t, 30, table.DaysInMonth(2080, 12))
}

// TestDefaultTable_Anomalies pins the one row whose total is not 365/366.
func TestDefaultTable_Anomalies(t *testing.T) {
	assert.Equal(t, []int{2096}, calendar.DefaultTable().Anomalies())
	assert.Equal(t, 364, calendar.DefaultTable().DaysInYear(2096))
}

func TestTable_Fallback(t *testing.T) {
	table := calendar.DefaultTable()

	for _, year := range []int{1900, 1977, 2100, 2200} {
		for month := 1; month <= calendar.MonthsPerYear; month++ {
			l := table.MonthLength(year, month)
			assert.Equal(t, calendar.FallbackMonthDays, l.Days)
			assert.Equal(t, calendar.Fallback, l.Source)
			assert.False(t, l.Tabulated())
		}
		assert.Equal(t, 365, table.DaysInYear(year))
		assert.Equal(t, calendar.Fallback, table.YearLength(year).Source)
	}

	// Months outside 1..12 never index the table.
	assert.Equal(t, calendar.Fallback, table.MonthLength(2082, 0).Source)
	assert.Equal(t, calendar.Fallback, table.MonthLength(2082, 13).Source)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "tabulated", calendar.Tabulated.String())
	assert.Equal(t, "fallback", calendar.Fallback.String())
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name string
		rows [][calendar.MonthsPerYear]int
	}{
		{"Empty", nil},
		{"Month too short", [][calendar.MonthsPerYear]int{{28, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}}},
		{"Month too long", [][calendar.MonthsPerYear]int{{31, 33, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}}},
		{"Zero month", [][calendar.MonthsPerYear]int{{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := calendar.NewTable(2080, tt.rows)
			assert.Error(t, err)
			assert.Nil(t, table)
		})
	}
}

func TestNewTable_CopiesRows(t *testing.T) {
	rows := [][calendar.MonthsPerYear]int{{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}}
	table, err := calendar.NewTable(2080, rows)
	require.NoError(t, err)

	rows[0][0] = 29
	assert.Equal(t, 31, table.DaysInMonth(2080, 1), "Table must not alias caller data")
	assert.Equal(t, 2080, table.LastYear())
}
