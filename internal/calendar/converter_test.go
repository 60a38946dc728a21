package calendar_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-patro/internal/calendar"
)

// MockClock controls "today" for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// d is a test helper to construct Gregorian dates.
func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newConverter(t *testing.T, opts ...calendar.Option) *calendar.Converter {
	t.Helper()
	c, err := calendar.New(opts...)
	require.NoError(t, err)
	return c
}

func TestAnchorFidelity(t *testing.T) {
	c := newConverter(t)
	a := c.Anchor()

	assert.Equal(t, a.Nepali, c.ToNepali(a.Gregorian))

	g, err := c.ToGregorian(a.Nepali.Year, a.Nepali.Month, a.Nepali.Day)
	require.NoError(t, err)
	assert.Equal(t, a.Gregorian, g)
	assert.Equal(t, time.Thursday, g.Weekday())
}

func TestToNepali_KnownDates(t *testing.T) {
	c := newConverter(t)

	tests := []struct {
		name string
		ad   time.Time
		bs   calendar.Date
	}{
		{"Anchor", d(2025, time.July, 17), calendar.Date{Year: 2082, Month: 4, Day: 1}},
		{"Day before anchor", d(2025, time.July, 16), calendar.Date{Year: 2082, Month: 3, Day: 32}},
		{"New Year 2080", d(2023, time.April, 14), calendar.Date{Year: 2080, Month: 1, Day: 1}},
		{"Last day of 2080", d(2024, time.April, 12), calendar.Date{Year: 2080, Month: 12, Day: 30}},
		{"New Year 2081", d(2024, time.April, 13), calendar.Date{Year: 2081, Month: 1, Day: 1}},
		{"New Year 2082", d(2025, time.April, 14), calendar.Date{Year: 2082, Month: 1, Day: 1}},
		{"New Year 2000", d(1943, time.April, 14), calendar.Date{Year: 2000, Month: 1, Day: 1}},
		{"First tabulated day", d(1921, time.April, 13), calendar.Date{Year: 1978, Month: 1, Day: 1}},
		{"Last tabulated day", d(2043, time.April, 14), calendar.Date{Year: 2099, Month: 12, Day: 31}},
		{"Holiday 2082-04-15", d(2025, time.July, 31), calendar.Date{Year: 2082, Month: 4, Day: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bs, c.ToNepali(tt.ad))

			g, err := c.ToGregorian(tt.bs.Year, tt.bs.Month, tt.bs.Day)
			require.NoError(t, err)
			assert.Equal(t, tt.ad, g)
		})
	}
}

// TestToNepali_IgnoresClockAndZone checks that only the calendar date shown
// in the value's own location matters.
func TestToNepali_IgnoresClockAndZone(t *testing.T) {
	c := newConverter(t)
	want := calendar.Date{Year: 2082, Month: 4, Day: 1}

	kathmandu := time.FixedZone("NPT", 5*3600+45*60)
	hawaii := time.FixedZone("HST", -10*3600)

	assert.Equal(t, want, c.ToNepali(time.Date(2025, time.July, 17, 0, 0, 1, 0, kathmandu)))
	assert.Equal(t, want, c.ToNepali(time.Date(2025, time.July, 17, 23, 59, 59, 0, kathmandu)))
	assert.Equal(t, want, c.ToNepali(time.Date(2025, time.July, 17, 23, 30, 0, 0, hawaii)))

	// Same instant, different calendar date in Kathmandu.
	instant := time.Date(2025, time.July, 16, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, calendar.Date{Year: 2082, Month: 3, Day: 32}, c.ToNepali(instant))
	assert.Equal(t, want, c.ToNepali(instant.In(kathmandu)))
}

// TestScenario_AlternateAnchor reproduces the 1 Baisakh 2080 = 13 April 2023
// anchor with a table whose 2080 row has 366 days.
func TestScenario_AlternateAnchor(t *testing.T) {
	table, err := calendar.NewTable(2080, [][calendar.MonthsPerYear]int{
		{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
		{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31},
		{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	})
	require.NoError(t, err)

	anchor, err := calendar.NewAnchor(d(2023, time.April, 13), calendar.Date{Year: 2080, Month: 1, Day: 1}, table)
	require.NoError(t, err)

	c := newConverter(t, calendar.WithTable(table), calendar.WithAnchor(anchor))

	assert.Equal(t, calendar.Date{Year: 2080, Month: 1, Day: 1}, c.ToNepali(d(2023, time.April, 13)))

	g, err := c.ToGregorian(2080, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, d(2023, time.April, 13), g)

	assert.Equal(t, calendar.Date{Year: 2082, Month: 4, Day: 1}, c.ToNepali(d(2025, time.July, 17)))
}

func TestToGregorian_InvalidDates(t *testing.T) {
	c := newConverter(t)

	tests := []struct {
		name             string
		year, month, day int
	}{
		{"Month 13", 2082, 13, 1},
		{"Month 0", 2082, 0, 1},
		{"Day 0", 2082, 1, 0},
		{"Negative day", 2082, 1, -3},
		{"Day past month end", 2082, 4, 32},
		{"Day past fallback month", 2150, 1, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := c.ToGregorian(tt.year, tt.month, tt.day)
			require.Error(t, err)
			assert.True(t, g.IsZero())
			assert.ErrorIs(t, err, calendar.ErrInvalidDate)

			var invalid *calendar.InvalidDateError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.month, invalid.Month)
			assert.Equal(t, tt.day, invalid.Day)

			assert.False(t, c.IsValid(tt.year, tt.month, tt.day))
		})
	}
}

func TestIsValid(t *testing.T) {
	c := newConverter(t)

	assert.True(t, c.IsValid(2082, 3, 32), "Asar 2082 has 32 days")
	assert.False(t, c.IsValid(2082, 4, 32), "Shrawan 2082 has 31 days")
	assert.True(t, c.IsValid(2150, 6, 30), "Untabulated months have 30 days")
	assert.False(t, c.IsValid(2150, 6, 31))
}

// TestRoundTrip converts every tabulated BS date to AD and back.
func TestRoundTrip(t *testing.T) {
	c := newConverter(t)
	table := c.Table()

	for year := table.FirstYear(); year <= table.LastYear(); year++ {
		for month := 1; month <= calendar.MonthsPerYear; month++ {
			for day := 1; day <= table.DaysInMonth(year, month); day++ {
				g, err := c.ToGregorian(year, month, day)
				require.NoError(t, err)

				want := calendar.Date{Year: year, Month: month, Day: day}
				if got := c.ToNepali(g); got != want {
					t.Fatalf("round trip %s -> %s -> %s", want, g.Format(time.DateOnly), got)
				}
			}
		}
	}
}

// TestMonotonicStep walks the whole table one Gregorian day at a time.
func TestMonotonicStep(t *testing.T) {
	c := newConverter(t)
	table := c.Table()

	start, err := c.ToGregorian(table.FirstYear(), 1, 1)
	require.NoError(t, err)
	end, err := c.ToGregorian(table.LastYear(), 12, table.DaysInMonth(table.LastYear(), 12))
	require.NoError(t, err)

	prev := c.ToNepali(start)
	steps := 0
	for g := start.AddDate(0, 0, 1); !g.After(end); g = g.AddDate(0, 0, 1) {
		want := calendar.Date{Year: prev.Year, Month: prev.Month, Day: prev.Day + 1}
		if want.Day > table.DaysInMonth(prev.Year, prev.Month) {
			want.Day = 1
			want.Month++
			if want.Month > calendar.MonthsPerYear {
				want.Month = 1
				want.Year++
			}
		}

		got := c.ToNepali(g)
		if got != want {
			t.Fatalf("%s: got %s, want %s", g.Format(time.DateOnly), got, want)
		}
		prev = got
		steps++
	}

	total := 0
	for y := table.FirstYear(); y <= table.LastYear(); y++ {
		total += table.DaysInYear(y)
	}
	assert.Equal(t, total-1, steps)
}

func TestYearRollover(t *testing.T) {
	c := newConverter(t)

	// One full BS year after 1 Baisakh 2081 must be 1 Baisakh 2082, never month 13.
	start := d(2024, time.April, 13)
	got := c.ToNepali(start.AddDate(0, 0, c.DaysInYear(2081)))
	assert.Equal(t, calendar.Date{Year: 2082, Month: 1, Day: 1}, got)

	got = c.ToNepali(start.AddDate(0, 0, -1))
	assert.Equal(t, calendar.Date{Year: 2080, Month: 12, Day: 30}, got, "Stepping back never yields month 0")
}

func TestToNepali_Untabulated(t *testing.T) {
	c := newConverter(t)

	// Beyond 2099 every month is 30 days, so results stay well-formed.
	first, err := c.ToGregorian(2100, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, d(2043, time.April, 15), first)

	got := c.ToNepali(first.AddDate(0, 0, 45))
	assert.Equal(t, calendar.Date{Year: 2100, Month: 2, Day: 16}, got)

	// Before 1978 the walk also uses 30-day months.
	got = c.ToNepali(d(1921, time.April, 12))
	assert.Equal(t, calendar.Date{Year: 1977, Month: 12, Day: 30}, got)
}

func TestToGregorian_YearBounds(t *testing.T) {
	c := newConverter(t)

	tests := []struct {
		name string
		year int
	}{
		{"Year zero", 0},
		{"Negative year", -2082},
		{"Past last supported year", calendar.MaxYear + 1},
		{"Huge year", math.MaxInt64},
		{"Huge negative year", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ToGregorian(tt.year, 1, 1)
			require.ErrorIs(t, err, calendar.ErrInvalidDate)

			var invalid *calendar.InvalidDateError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.year, invalid.Year)
			assert.False(t, c.IsValid(tt.year, 1, 1))

			_, err = c.MonthGrid(tt.year, 1, calendar.English)
			assert.ErrorIs(t, err, calendar.ErrInvalidDate)
			_, err = c.MonthHolidays(tt.year, 1, calendar.English)
			assert.ErrorIs(t, err, calendar.ErrInvalidDate)
		})
	}

	for _, year := range []int{calendar.MinYear, calendar.MaxYear} {
		_, err := c.ToGregorian(year, 1, 1)
		assert.NoError(t, err, "year %d", year)
	}
}

// TestToGregorian_FallbackYears checks that untabulated years count 365 days.
func TestToGregorian_FallbackYears(t *testing.T) {
	c := newConverter(t)
	day := 24 * time.Hour

	after2100, err := c.ToGregorian(2100, 1, 1)
	require.NoError(t, err)
	after2150, err := c.ToGregorian(2150, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 50*365*day, after2150.Sub(after2100))

	last, err := c.ToGregorian(calendar.MaxYear, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(calendar.MaxYear-2150)*365*day, last.Sub(after2150))

	before1977, err := c.ToGregorian(1977, 1, 1)
	require.NoError(t, err)
	first1978, err := c.ToGregorian(1978, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 365*day, first1978.Sub(before1977))
}

// TestToNepali_StepAcrossTableEdges walks day by day where the table starts
// and ends: the fallback months join the tabulated ones without gaps.
func TestToNepali_StepAcrossTableEdges(t *testing.T) {
	c := newConverter(t)
	table := c.Table()

	for _, span := range [][2]time.Time{
		{d(1905, time.January, 1), d(1925, time.January, 1)},
		{d(2038, time.January, 1), d(2058, time.January, 1)},
	} {
		prev := c.ToNepali(span[0])
		for g := span[0].AddDate(0, 0, 1); !g.After(span[1]); g = g.AddDate(0, 0, 1) {
			want := calendar.Date{Year: prev.Year, Month: prev.Month, Day: prev.Day + 1}
			if want.Day > table.DaysInMonth(prev.Year, prev.Month) {
				want.Day = 1
				want.Month++
				if want.Month > calendar.MonthsPerYear {
					want.Month = 1
					want.Year++
				}
			}

			got := c.ToNepali(g)
			if got != want {
				t.Fatalf("%s: got %s, want %s", g.Format(time.DateOnly), got, want)
			}
			prev = got
		}
	}
}

func TestToNepali_GregorianExtremes(t *testing.T) {
	c := newConverter(t)

	for _, g := range []time.Time{d(1, time.January, 1), d(9999, time.December, 31)} {
		got := c.ToNepali(g)
		assert.GreaterOrEqual(t, got.Year, calendar.MinYear, g.Format(time.DateOnly))
		assert.LessOrEqual(t, got.Year, calendar.MaxYear, g.Format(time.DateOnly))
		assert.True(t, c.IsValid(got.Year, got.Month, got.Day))
	}
}

func TestToday(t *testing.T) {
	clk := MockClock{CurrentTime: time.Date(2025, time.April, 14, 9, 30, 0, 0, time.UTC)}
	c := newConverter(t, calendar.WithClock(clk))

	assert.Equal(t, calendar.Date{Year: 2082, Month: 1, Day: 1}, c.Today())
}

func TestWeekday(t *testing.T) {
	c := newConverter(t)

	w, err := c.Weekday(calendar.Date{Year: 2082, Month: 1, Day: 1})
	require.NoError(t, err)
	assert.Equal(t, time.Monday, w)

	_, err = c.Weekday(calendar.Date{Year: 2082, Month: 1, Day: 40})
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestNew_RejectsInvalidAnchor(t *testing.T) {
	bad := calendar.Anchor{Gregorian: d(2025, time.July, 17), Nepali: calendar.Date{Year: 2082, Month: 4, Day: 32}}

	_, err := calendar.New(calendar.WithAnchor(bad))
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestNewAnchor_NormalizesToUTCMidnight(t *testing.T) {
	kathmandu := time.FixedZone("NPT", 5*3600+45*60)
	a, err := calendar.NewAnchor(time.Date(2025, time.July, 17, 3, 0, 0, 0, kathmandu),
		calendar.Date{Year: 2082, Month: 4, Day: 1}, calendar.DefaultTable())
	require.NoError(t, err)

	assert.Equal(t, d(2025, time.July, 17), a.Gregorian)
	assert.Equal(t, "2025-07-17=2082-04-01", a.String())
}
