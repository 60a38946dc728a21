package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
)

// HolidayFeed renders every holiday of the BS years from span years before
// the current one to span years after it. span is clamped to
// 0..config.MaxFeedSpan. It returns the ICS data and the number of events.
func (g *Generator) HolidayFeed(span int) ([]byte, int, error) {
	if g.Converter == nil {
		return nil, 0, errors.New(config.ErrConverterNil)
	}
	span = max(0, min(span, config.MaxFeedSpan))

	name := g.HolidayCalName
	if name == "" {
		name = config.FallbackHolidayName
	}
	now := g.now()
	cal, dtStamp := newCalendar(name, now)
	current := g.Converter.ToNepali(now).Year

	for y := current - span; y <= current+span; y++ {
		for m := 1; m <= calendar.MonthsPerYear; m++ {
			list, err := g.Converter.MonthHolidays(y, m, g.Locale)
			if err != nil {
				return nil, 0, err
			}
			for _, h := range list {
				event, err := g.holidayEvent(calendar.Date{Year: y, Month: m, Day: h.Day}, h.Name)
				if err != nil {
					return nil, 0, err
				}
				event.Props.Set(dtStamp)
				cal.Children = append(cal.Children, event.Component)
			}
		}
	}

	ics, err := encode(cal)
	if err != nil {
		return nil, 0, err
	}

	slog.Info(config.MsgHolidayFeed,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyFrom, current-span,
		config.LogKeyTo, current+span,
		config.LogKeyCount, len(cal.Children),
	)
	return ics, len(cal.Children), nil
}

func (g *Generator) holidayEvent(d calendar.Date, name string) (*ical.Event, error) {
	gregorian, err := g.Converter.ToGregorian(d.Year, d.Month, d.Day)
	if err != nil {
		return nil, err
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatHolidayID, d.String(), config.ICalDomain))
	event.Props.SetText(config.PropSummary, name)
	event.Props.SetText(config.PropDescription, g.description(d))
	event.Props.SetText(config.PropCategories, config.CategoryHoliday)
	event.Props.SetText(config.PropTransp, config.ICalTransp)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(gregorian)
	event.Props.Set(dtStart)
	return event, nil
}
