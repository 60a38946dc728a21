package calendar

const (
	// GridRows and GridColumns shape a month view (weeks start on Sunday).
	GridRows    = 6
	GridColumns = 7
	GridCells   = GridRows * GridColumns
)

// Cell is one day of a month view.
type Cell struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Day            int    `json:"day"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsToday        bool   `json:"isToday"`
	Holiday        string `json:"holiday,omitempty"`
}

// Date returns the BS date of the cell.
func (c Cell) Date() Date {
	return Date{Year: c.Year, Month: c.Month, Day: c.Day}
}

// MonthGrid returns the 42-cell view of a BS month: the tail of the previous
// month up to the weekday of day 1, the month itself, then the head of the
// next month. Months of untabulated years use fallback lengths.
func (c *Converter) MonthGrid(year, month int, locale Locale) ([]Cell, error) {
	first, err := c.ToGregorian(year, month, 1)
	if err != nil {
		return nil, err
	}

	days := c.DaysInMonth(year, month)
	today := c.Today()
	cells := make([]Cell, 0, GridCells)

	prevYear, prevMonth := shiftMonth(year, month, -1)
	prevDays := c.DaysInMonth(prevYear, prevMonth)
	for i := int(first.Weekday()) - 1; i >= 0; i-- {
		cells = append(cells, Cell{Year: prevYear, Month: prevMonth, Day: prevDays - i})
	}

	for day := 1; day <= days; day++ {
		cell := Cell{
			Year:           year,
			Month:          month,
			Day:            day,
			IsCurrentMonth: true,
			IsToday:        today == Date{Year: year, Month: month, Day: day},
		}
		cell.Holiday, _ = c.HolidayOn(month, day, locale)
		cells = append(cells, cell)
	}

	nextYear, nextMonth := shiftMonth(year, month, 1)
	for day := 1; len(cells) < GridCells; day++ {
		cells = append(cells, Cell{Year: nextYear, Month: nextMonth, Day: day})
	}
	return cells, nil
}

// shiftMonth moves (year, month) by delta months, wrapping at year boundaries.
func shiftMonth(year, month, delta int) (int, int) {
	idx := year*MonthsPerYear + (month - 1) + delta
	y := idx / MonthsPerYear
	m := idx%MonthsPerYear + 1
	if m < 1 {
		m += MonthsPerYear
		y--
	}
	return y, m
}

// HolidayOn returns the holiday name of (month, day) in any year.
func (c *Converter) HolidayOn(month, day int, locale Locale) (string, bool) {
	if c.holidays == nil {
		return "", false
	}
	return c.holidays.Lookup(month, day, locale)
}

// MonthHolidays lists the holidays of a BS month in day order.
func (c *Converter) MonthHolidays(year, month int, locale Locale) ([]Holiday, error) {
	if err := validate(c.table, year, month, 1); err != nil {
		return nil, err
	}

	var out []Holiday
	for day := 1; day <= c.DaysInMonth(year, month); day++ {
		name, ok := c.HolidayOn(month, day, locale)
		if !ok {
			continue
		}
		out = append(out, Holiday{
			Day:  day,
			Name: name,
			Date: Format(Date{Year: year, Month: month, Day: day}, locale),
		})
	}
	return out, nil
}
