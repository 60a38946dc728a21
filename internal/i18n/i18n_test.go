package i18n_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
	"github.com/tartampluch/go-patro/internal/i18n"
)

var translationKeys = []string{
	config.TKeyAppTitle,
	config.TKeyToday,
	config.TKeyConvertToBS,
	config.TKeyConvertToAD,
	config.TKeyHolidayCount,
	config.TKeyNoHolidays,
	config.TKeyHolidayLine,
	config.TKeyLegendToday,
	config.TKeyFeedName,
	config.TKeyFeedBirthdays,
	config.TKeyEvtSummary,
	config.TKeyEvtSummaryAge,
	config.TKeyEvtSummaryBirth,
	config.TKeyEvtDescription,
	config.TKeyContactLine,
	config.TKeyContactsNone,
	config.TKeyErrInvalidDate,
	config.TKeyServerListening,
}

// TestI18nIntegrity ensures every translation key defined in config exists
// in each locale file, and flags keys that nothing references.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			path := filepath.Join(config.LocalesDir, config.LocaleFilePrefix+lang+config.LocaleFileSuffix)
			content, err := os.ReadFile(path)
			require.NoError(t, err, "Must load %s", path)

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' is missing in %s", key, path)
			}

			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				assert.Truef(t, defined[jsonKey], "Key '%s' in %s is not defined in config", jsonKey, path)
			}
		})
	}
}

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator()
	require.NoError(t, err)
	return tr
}

func TestNewTranslator_Languages(t *testing.T) {
	tr := newTranslator(t)
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages())
}

func TestMsg(t *testing.T) {
	tr := newTranslator(t)

	got := tr.Msg(calendar.English, config.TKeyHolidayLine, map[string]any{
		config.TemplateKeyDate: "15 Asoj 2082",
		config.TemplateKeyName: "Dashain",
	})
	assert.Equal(t, "15 Asoj 2082: Dashain", got)

	assert.Equal(t, "Go Patro", tr.Msg(calendar.English, config.TKeyAppTitle, nil))
	assert.NotEqual(t, tr.Msg(calendar.English, config.TKeyFeedName, nil), tr.Msg(calendar.Nepali, config.TKeyFeedName, nil))
}

func TestMsg_Fallbacks(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "no_such_key", tr.Msg(calendar.English, "no_such_key", nil))
	assert.Equal(t, "Nepali Holidays", tr.Msg(calendar.Locale("fr"), config.TKeyFeedName, nil))
}

func TestPlural(t *testing.T) {
	tr := newTranslator(t)
	data := map[string]any{config.TemplateKeyMonth: "Asoj"}

	assert.Equal(t, "1 holiday in Asoj", tr.Plural(calendar.English, config.TKeyHolidayCount, 1, data))
	assert.Equal(t, "3 holidays in Asoj", tr.Plural(calendar.English, config.TKeyHolidayCount, 3, data))
}

func TestSummaryFormatter(t *testing.T) {
	format := newTranslator(t).SummaryFormatter(calendar.English)

	assert.Equal(t, "Birthday: Ram", format("Ram", 0, false))
	assert.Equal(t, "Birthday: Ram (birth)", format("Ram", 0, true))
	assert.Equal(t, "Birthday: Ram (30)", format("Ram", 30, true))
}
