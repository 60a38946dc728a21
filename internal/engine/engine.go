// Package engine turns the calendar into iCalendar feeds: the BS holiday
// feed and a birthday feed built from vCards with anniversaries on the BS
// calendar.
package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
)

// SyncConfig describes where the birthday vCards come from.
type SyncConfig struct {
	Mode            string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath       string // Path to a .vcf file
	WebURL          string // CardDAV or WebDAV URL
	WebUser         string // HTTP Basic Auth user name
	WebPass         string // HTTP Basic Auth password
	ReminderTrigger string // ISO8601 duration, e.g. "-P1D"
}

// Generator renders feeds for one converter and one locale.
type Generator struct {
	Clock     calendar.Clock
	Converter *calendar.Converter
	Fetcher   VCardFetcher
	Locale    calendar.Locale

	// Feed display names. Empty names fall back to English defaults.
	HolidayCalName  string
	BirthdayCalName string

	// FormatSummary localizes birthday event titles.
	FormatSummary func(name string, age int, yearKnown bool) string

	// FormatDescription localizes the BS date placed in event descriptions.
	FormatDescription func(d calendar.Date) string
}

// syncStats counts what a birthday sync saw.
type syncStats struct{ processed, withBday, today int }

// RunSync reads the configured vCard source and renders the birthday feed.
// It returns the ICS data, the contacts found, how many have their BS
// birthday today, and any error.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []BirthdayEntry, int, error) {
	if g.Converter == nil {
		return nil, nil, 0, errors.New(config.ErrConverterNil)
	}

	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	ics, contacts, count, err := g.generateBirthdays(ctx, reader, cfg.ReminderTrigger)
	if err == nil {
		log.Debug("Sync finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return ics, contacts, count, err
}

func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, AddressBook{URL: cfg.WebURL, User: cfg.WebUser, Pass: cfg.WebPass})
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// generateBirthdays decodes vCards one by one. Malformed cards, unparsable
// dates and birthdays without a year are skipped, not fatal.
func (g *Generator) generateBirthdays(ctx context.Context, r io.Reader, reminderTrigger string) ([]byte, []BirthdayEntry, int, error) {
	name := g.BirthdayCalName
	if name == "" {
		name = config.FallbackBirthdayName
	}
	now := g.now()
	cal, dtStamp := newCalendar(name, now)
	today := g.Converter.ToNepali(now)

	decoder := vcard.NewDecoder(r)
	var stats syncStats
	var contacts []BirthdayEntry

	for {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}
		if !yearKnown {
			slog.Debug(config.MsgSkippedNoYear,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		contactName := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			contactName = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			contactName = n.Value
		}

		input := fmt.Sprintf(config.FormatHashInput, contactName, birthDate.Format(time.RFC3339), config.UIDSalt)
		hash := sha256.Sum256([]byte(input))
		uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

		birth := g.Converter.ToNepali(birthDate)
		next, nextGregorian, err := g.nextAnniversary(today, birth)
		if err != nil {
			return nil, nil, 0, err
		}

		contacts = append(contacts, BirthdayEntry{
			UID:           uidBase,
			Name:          contactName,
			DateOfBirth:   birthDate,
			Birth:         birth,
			Next:          next,
			NextGregorian: nextGregorian,
			AgeNext:       next.Year - birth.Year,
		})

		events, isToday, err := g.birthdayEvents(contactName, birth, today, reminderTrigger, uidBase)
		if err != nil {
			return nil, nil, 0, err
		}
		if isToday {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, contactName,
				config.LogKeyDOB, birth.String())
		}

		for _, e := range events {
			e.Props.Set(dtStamp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	SortByNext(contacts)

	ics, err := encode(cal)
	if err != nil {
		return nil, nil, 0, err
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
	return ics, contacts, stats.today, nil
}

// anniversary returns the BS anniversary of birth in year and its Gregorian
// date. A day past the end of that year's month moves to the month's last day.
func (g *Generator) anniversary(birth calendar.Date, year int) (calendar.Date, time.Time, error) {
	d := calendar.Date{
		Year:  year,
		Month: birth.Month,
		Day:   min(birth.Day, g.Converter.DaysInMonth(year, birth.Month)),
	}
	t, err := g.Converter.ToGregorian(d.Year, d.Month, d.Day)
	return d, t, err
}

// nextAnniversary finds the first anniversary on or after today.
func (g *Generator) nextAnniversary(today, birth calendar.Date) (calendar.Date, time.Time, error) {
	d, t, err := g.anniversary(birth, today.Year)
	if err != nil {
		return calendar.Date{}, time.Time{}, err
	}
	if d.Before(today) {
		return g.anniversary(birth, today.Year+1)
	}
	return d, t, nil
}

// birthdayEvents builds one all-day event per BS year from last year to
// next year, skipping years before the birth.
func (g *Generator) birthdayEvents(name string, birth, today calendar.Date, reminderTrigger, uidBase string) ([]*ical.Event, bool, error) {
	var events []*ical.Event
	isToday := false

	for _, y := range []int{today.Year - 1, today.Year, today.Year + 1} {
		if y < birth.Year {
			continue
		}

		day, gregorian, err := g.anniversary(birth, y)
		if err != nil {
			return nil, false, err
		}
		if day == today {
			isToday = true
		}

		age := y - birth.Year
		summary := g.summary(name, age)

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropDescription, g.description(day))
		event.Props.SetText(config.PropCategories, config.CategoryBirthday)
		event.Props.SetText(config.PropTransp, config.ICalTransp)

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(gregorian)
		event.Props.Set(dtStart)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events, isToday, nil
}

func (g *Generator) summary(name string, age int) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(name, age, true)
	}
	if age == 0 {
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	}
	return fmt.Sprintf(config.FallbackSummaryAge, name, age)
}

func (g *Generator) description(d calendar.Date) string {
	if g.FormatDescription != nil {
		return g.FormatDescription(d)
	}
	return fmt.Sprintf(config.FallbackDescription, calendar.Format(d, g.Locale))
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}

// newCalendar creates a VCALENDAR with the standard headers and returns the
// DTSTAMP property shared by its events.
func newCalendar(name string, now time.Time) (*ical.Calendar, *ical.Prop) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, name)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())
	return cal, dtStamp
}

// encode serializes cal. A calendar without events becomes a minimal stub,
// which clients accept where an encoder error would not.
func encode(cal *ical.Calendar) ([]byte, error) {
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value keeps the encoder from adding VALUE=TEXT.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// parseDate reads a vCard BDAY value. yearKnown is false for --MM-DD forms.
func parseDate(value string) (time.Time, bool, error) {
	for _, f := range []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	} {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return t, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
