package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
	"github.com/tartampluch/go-patro/internal/engine"
)

// DateResponse describes one day on both calendars.
type DateResponse struct {
	AD        string        `json:"ad"`
	BS        calendar.Date `json:"bs"`
	Formatted string        `json:"formatted"`
	Weekday   string        `json:"weekday"`
	Holiday   string        `json:"holiday,omitempty"`
}

// MonthResponse is the 42-cell grid of a BS month.
type MonthResponse struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Name  string          `json:"name"`
	Days  int             `json:"days"`
	Cells []calendar.Cell `json:"cells"`
}

// HolidaysResponse lists the holidays of a BS month.
type HolidaysResponse struct {
	Year     int                `json:"year"`
	Month    int                `json:"month"`
	Name     string             `json:"name"`
	Holidays []calendar.Holiday `json:"holidays"`
}

// ContactLister supplies the contacts of the last birthday sync.
type ContactLister interface {
	Contacts() []engine.BirthdayEntry
}

// BirthdayResponse is a contact with its next anniversary spelled out.
type BirthdayResponse struct {
	engine.BirthdayEntry
	NextFormatted string `json:"nextFormatted"`
	NextWeekday   string `json:"nextWeekday"`
}

// BirthdaysResponse lists the synced contacts, soonest anniversary first.
type BirthdaysResponse struct {
	Birthdays []BirthdayResponse `json:"birthdays"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRoute, r.URL.Path,
			config.LogKeyError, err,
		)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.Debug(config.MsgAPIBadRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, r.URL.Path,
		config.LogKeyError, err,
	)
	writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// requestLocale prefers ?locale= over Accept-Language.
func requestLocale(r *http.Request) calendar.Locale {
	if l := r.URL.Query().Get(config.QueryLocale); l != "" {
		return calendar.ParseLocale(l)
	}
	return calendar.ParseLocale(r.Header.Get(config.HeaderAcceptLanguage))
}

// yearMonth reads ?year=&month=, defaulting both to the current BS month.
func (s *CalendarServer) yearMonth(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	ys, ms := q.Get(config.QueryYear), q.Get(config.QueryMonth)
	if ys == "" && ms == "" {
		today := s.converter.Today()
		return today.Year, today.Month, nil
	}

	year, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, errors.New(config.ErrArgYearMonth)
	}
	month, err := strconv.Atoi(ms)
	if err != nil {
		return 0, 0, errors.New(config.ErrArgYearMonth)
	}
	return year, month, nil
}

func (s *CalendarServer) describe(g time.Time, bs calendar.Date, locale calendar.Locale) DateResponse {
	holiday, _ := s.converter.HolidayOn(bs.Month, bs.Day, locale)
	return DateResponse{
		AD:        g.Format(time.DateOnly),
		BS:        bs,
		Formatted: calendar.Format(bs, locale),
		Weekday:   calendar.WeekdayName(g.Weekday(), locale),
		Holiday:   holiday,
	}
}

// handleToday answers with today's date on both calendars.
func (s *CalendarServer) handleToday(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	now := s.converter.Now()
	writeJSON(w, r, http.StatusOK, s.describe(now, s.converter.ToNepali(now), requestLocale(r)))
}

// handleConvert converts ?ad=YYYY-MM-DD to BS or ?bs=YYYY-MM-DD to AD.
func (s *CalendarServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	q := r.URL.Query()
	locale := requestLocale(r)

	switch {
	case q.Get(config.QueryAD) != "":
		g, err := calendar.ParseGregorian(q.Get(config.QueryAD))
		if err != nil {
			badRequest(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, s.describe(g, s.converter.ToNepali(g), locale))

	case q.Get(config.QueryBS) != "":
		bs, err := calendar.ParseDate(q.Get(config.QueryBS))
		if err != nil {
			badRequest(w, r, err)
			return
		}
		g, err := s.converter.ToGregorian(bs.Year, bs.Month, bs.Day)
		if err != nil {
			badRequest(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, s.describe(g, bs, locale))

	default:
		badRequest(w, r, errors.New(config.ErrQueryMissing))
	}
}

// handleMonth returns the month grid.
func (s *CalendarServer) handleMonth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	year, month, err := s.yearMonth(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	locale := requestLocale(r)

	cells, err := s.converter.MonthGrid(year, month, locale)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, MonthResponse{
		Year:  year,
		Month: month,
		Name:  calendar.MonthName(month, locale),
		Days:  s.converter.DaysInMonth(year, month),
		Cells: cells,
	})
}

// handleHolidays returns the holidays of a month.
func (s *CalendarServer) handleHolidays(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	year, month, err := s.yearMonth(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	locale := requestLocale(r)

	list, err := s.converter.MonthHolidays(year, month, locale)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if list == nil {
		list = []calendar.Holiday{}
	}
	writeJSON(w, r, http.StatusOK, HolidaysResponse{
		Year:     year,
		Month:    month,
		Name:     calendar.MonthName(month, locale),
		Holidays: list,
	})
}

// handleBirthdays lists the contacts of the last birthday sync.
func (s *CalendarServer) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	locale := requestLocale(r)

	contacts := s.Contacts.Contacts()
	out := BirthdaysResponse{Birthdays: make([]BirthdayResponse, 0, len(contacts))}
	for _, c := range contacts {
		out.Birthdays = append(out.Birthdays, BirthdayResponse{
			BirthdayEntry: c,
			NextFormatted: calendar.Format(c.Next, locale),
			NextWeekday:   calendar.WeekdayName(c.NextGregorian.Weekday(), locale),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}
