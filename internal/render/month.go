// Package render draws BS month grids for the terminal.
package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-patro/internal/calendar"
)

const cellWidth = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Width(cellWidth * calendar.GridColumns).
			Align(lipgloss.Center).
			MarginBottom(1)

	weekdayHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("117")).
				Width(cellWidth).
				Align(lipgloss.Right)

	dayStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Right)

	adjacentDayStyle = dayStyle.
				Foreground(lipgloss.Color("241")).
				Faint(true)

	holidayDayStyle = dayStyle.
			Foreground(lipgloss.Color("203"))

	todayDayStyle = dayStyle.
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("205"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// Month renders a month grid: the title, a weekday header, the 42 cells in
// six rows and, when present, one note per line below.
// Saturdays and holidays are highlighted; days of adjacent months are dimmed.
func Month(title string, locale calendar.Locale, cells []calendar.Cell, notes []string) string {
	header := make([]string, 0, calendar.GridColumns)
	for w := time.Sunday; w <= time.Saturday; w++ {
		header = append(header, weekdayHeaderStyle.Render(calendar.ShortWeekdayName(w, locale)))
	}

	blocks := []string{
		titleStyle.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Top, header...),
	}

	for row := 0; row+calendar.GridColumns <= len(cells); row += calendar.GridColumns {
		line := make([]string, 0, calendar.GridColumns)
		for col, cell := range cells[row : row+calendar.GridColumns] {
			line = append(line, styleFor(cell, time.Weekday(col)).Render(strconv.Itoa(cell.Day)))
		}
		blocks = append(blocks, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}

	if len(notes) > 0 {
		blocks = append(blocks, noteStyle.Render(strings.Join(notes, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func styleFor(cell calendar.Cell, w time.Weekday) lipgloss.Style {
	switch {
	case !cell.IsCurrentMonth:
		return adjacentDayStyle
	case cell.IsToday:
		return todayDayStyle
	case cell.Holiday != "" || w == time.Saturday:
		return holidayDayStyle
	default:
		return dayStyle
	}
}
