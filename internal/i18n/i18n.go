// Package i18n loads the embedded message catalogs and localizes the strings
// shown by the CLI, the feeds and the HTTP API.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator localizes message IDs. It is immutable after NewTranslator and
// safe for concurrent use.
type Translator struct {
	bundle     *goi18n.Bundle
	languages  []string
	localizers map[calendar.Locale]*goi18n.Localizer
}

// NewTranslator initializes the translation bundle from the embedded locales.
// Malformed file names are skipped; a file that fails to parse is an error.
func NewTranslator() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc(config.LocaleFormatJSON, json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	var detectedLangs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocaleFilePrefix) || !strings.HasSuffix(name, config.LocaleFileSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocaleFilePrefix), config.LocaleFileSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		path := config.LocalesDir + "/" + name
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		detectedLangs = append(detectedLangs, langCode)

		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	t := &Translator{
		bundle:     bundle,
		languages:  detectedLangs,
		localizers: make(map[calendar.Locale]*goi18n.Localizer),
	}
	for _, l := range calendar.Locales() {
		t.localizers[l] = goi18n.NewLocalizer(bundle, string(l), config.DefaultLanguage)
	}
	return t, nil
}

// Languages returns the language codes found in the embedded locales.
func (t *Translator) Languages() []string {
	return append([]string(nil), t.languages...)
}

// Msg translates key in locale with optional template data.
// A missing key yields the key itself so output never goes blank.
func (t *Translator) Msg(locale calendar.Locale, key string, data map[string]any) string {
	return t.localize(locale, &goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates a key that has plural forms selected by count.
// count is also exposed to the template as {{.Count}}.
func (t *Translator) Plural(locale calendar.Locale, key string, count int, data map[string]any) string {
	merged := map[string]any{config.TemplateKeyCount: count}
	for k, v := range data {
		merged[k] = v
	}
	return t.localize(locale, &goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: merged,
		PluralCount:  count,
	})
}

func (t *Translator) localize(locale calendar.Locale, lc *goi18n.LocalizeConfig) string {
	loc, ok := t.localizers[locale]
	if !ok {
		loc = t.localizers[calendar.English]
	}

	msg, err := loc.Localize(lc)
	if err != nil {
		var notFound *goi18n.MessageNotFoundErr
		level := slog.LevelDebug
		if !errors.As(err, &notFound) {
			level = slog.LevelWarn
		}
		slog.Log(context.Background(), level, config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		if msg == "" {
			return lc.MessageID
		}
	}
	return msg
}

// SummaryFormatter returns a closure that localizes birthday event summaries.
// age 0 with a known year means the birth itself.
func (t *Translator) SummaryFormatter(locale calendar.Locale) func(name string, age int, yearKnown bool) string {
	return func(name string, age int, yearKnown bool) string {
		data := map[string]any{config.TemplateKeyName: name, config.TemplateKeyAge: age}
		switch {
		case !yearKnown:
			return t.Msg(locale, config.TKeyEvtSummary, data)
		case age == 0:
			return t.Msg(locale, config.TKeyEvtSummaryBirth, data)
		default:
			return t.Msg(locale, config.TKeyEvtSummaryAge, data)
		}
	}
}
