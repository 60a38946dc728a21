package calendar

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-patro/internal/config"
)

var monthNames = map[Locale][MonthsPerYear]string{
	English: {
		"Baisakh", "Jestha", "Asar", "Shrawan", "Bhadra", "Ashoj",
		"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
	},
	Nepali: {
		"बैशाख", "जेठ", "असार", "श्रावण", "भदौ", "असोज",
		"कार्तिक", "मंसिर", "पुष", "माघ", "फाल्गुन", "चैत",
	},
}

var weekdayNames = map[Locale][7]string{
	English: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	Nepali:  {"आइतबार", "सोमबार", "मंगलबार", "बुधबार", "बिहिबार", "शुक्रबार", "शनिबार"},
}

var weekdayShortNames = map[Locale][7]string{
	English: {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Nepali:  {"आइत", "सोम", "मंगल", "बुध", "बिहि", "शुक्र", "शनि"},
}

// MonthName returns the name of month (1..12), or "" when out of range.
func MonthName(month int, locale Locale) string {
	if month < 1 || month > MonthsPerYear {
		return ""
	}
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames[English]
	}
	return names[month-1]
}

// WeekdayName returns the name of w.
func WeekdayName(w time.Weekday, locale Locale) string {
	if w < time.Sunday || w > time.Saturday {
		return ""
	}
	names, ok := weekdayNames[locale]
	if !ok {
		names = weekdayNames[English]
	}
	return names[w]
}

// ShortWeekdayName returns the abbreviated name of w used in grid headers.
func ShortWeekdayName(w time.Weekday, locale Locale) string {
	if w < time.Sunday || w > time.Saturday {
		return ""
	}
	names, ok := weekdayShortNames[locale]
	if !ok {
		names = weekdayShortNames[English]
	}
	return names[w]
}

// Format renders d as "{day} {month name} {year}", e.g. "1 Shrawan 2082".
func Format(d Date, locale Locale) string {
	return fmt.Sprintf(config.FormatNepaliDate, d.Day, MonthName(d.Month, locale), d.Year)
}
