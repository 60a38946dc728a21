package calendar

// MonthDay keys the holiday table. Holidays do not depend on the year.
type MonthDay struct {
	Month, Day int
}

// HolidayTable maps a (month, day) to its localized holiday name.
//
// The same day is a holiday in every year. Real lunar holidays move from
// year to year, so this is an approximation and not a per-year almanac.
type HolidayTable struct {
	names map[MonthDay]map[Locale]string
}

// Holiday is one entry of a month listing.
type Holiday struct {
	Day  int    `json:"day"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// NewHolidayTable copies entries into an immutable table.
func NewHolidayTable(entries map[MonthDay]map[Locale]string) *HolidayTable {
	h := &HolidayTable{names: make(map[MonthDay]map[Locale]string, len(entries))}
	for k, byLocale := range entries {
		cp := make(map[Locale]string, len(byLocale))
		for l, name := range byLocale {
			cp[l] = name
		}
		h.names[k] = cp
	}
	return h
}

// DefaultHolidays returns the built-in holiday table.
func DefaultHolidays() *HolidayTable {
	return NewHolidayTable(map[MonthDay]map[Locale]string{
		{1, 1}:   {English: "Nepali New Year", Nepali: "नेपाली नयाँ वर्ष"},
		{1, 11}:  {English: "Loktantra Diwas", Nepali: "लोकतन्त्र दिवस"},
		{1, 15}:  {English: "Buddha Jayanti", Nepali: "बुद्ध जयन्ती"},
		{2, 15}:  {English: "Buddha Purnima", Nepali: "बुद्ध पूर्णिमा"},
		{3, 15}:  {English: "Guru Purnima", Nepali: "गुरु पूर्णिमा"},
		{4, 15}:  {English: "Krishna Janmashtami", Nepali: "कृष्ण जन्माष्टमी"},
		{5, 15}:  {English: "Indra Jatra", Nepali: "इन्द्र जात्रा"},
		{6, 15}:  {English: "Dashain", Nepali: "दशैं"},
		{7, 15}:  {English: "Tihar", Nepali: "तिहार"},
		{8, 15}:  {English: "Chhath", Nepali: "छठ"},
		{9, 15}:  {English: "Maghe Sankranti", Nepali: "माघे संक्रान्ति"},
		{10, 15}: {English: "Maha Shivaratri", Nepali: "महा शिवरात्रि"},
		{11, 15}: {English: "Holi", Nepali: "होली"},
		{12, 15}: {English: "Ram Navami", Nepali: "राम नवमी"},
	})
}

// Lookup returns the holiday name of (month, day) in locale.
// A name missing in locale falls back to English.
func (h *HolidayTable) Lookup(month, day int, locale Locale) (string, bool) {
	byLocale, ok := h.names[MonthDay{month, day}]
	if !ok {
		return "", false
	}
	if name, ok := byLocale[locale]; ok {
		return name, true
	}
	name, ok := byLocale[English]
	return name, ok
}

// Len returns the number of holiday days.
func (h *HolidayTable) Len() int {
	return len(h.names)
}
