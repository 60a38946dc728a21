package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-patro/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := config.Load(config.NewViper(), "")
	require.NoError(t, err, "A missing default config file is not an error")

	assert.Equal(t, config.DefaultLanguage, s.Locale)
	assert.Equal(t, config.DefaultPort, s.Server.Port)
	assert.Equal(t, config.DefaultFeedSpan, s.Feed.SpanYears)
	assert.Equal(t, time.Duration(config.DefaultRefreshMin)*time.Minute, s.Sync.RefreshInterval)
	assert.Empty(t, s.Sync.Mode)
}

func TestLoad_DefaultFileInHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(
		filepath.Join(home, config.ConfigFileName+"."+config.ConfigFileType),
		[]byte("locale: ne\n"), config.FilePermUserRW))

	s, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "ne", s.Locale)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
locale: ne
server:
  port: "9000"
feed:
  span_years: 3
sync:
  mode: web
  web_url: https://dav.example.com/addressbooks/me/contacts/
  web_user: alice
  reminder: -PT9H
  refresh_interval: 15m
`)

	s, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "ne", s.Locale)
	assert.Equal(t, "9000", s.Server.Port)
	assert.Equal(t, 3, s.Feed.SpanYears)
	assert.Equal(t, config.SourceModeWeb, s.Sync.Mode)
	assert.Equal(t, "alice", s.Sync.WebUser)
	assert.Equal(t, "-PT9H", s.Sync.Reminder)
	assert.Equal(t, 15*time.Minute, s.Sync.RefreshInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "settings.yaml", "server:\n  port: \"9000\"\n")
	t.Setenv("GOPATRO_SERVER_PORT", "9100")
	t.Setenv("GOPATRO_LOCALE", "ne")

	s, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "9100", s.Server.Port)
	assert.Equal(t, "ne", s.Locale)
}

func TestLoad_SetOverridesEverything(t *testing.T) {
	v := config.NewViper()
	v.Set(config.KeyFeedSpan, 5)

	s, err := config.Load(v, writeFile(t, "settings.yaml", "feed:\n  span_years: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Feed.SpanYears)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(config.NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, config.ErrConfigRead, "An explicit config file must exist")

	_, err = config.Load(config.NewViper(), writeFile(t, "broken.yaml", "locale: [\n"))
	assert.ErrorContains(t, err, config.ErrConfigRead)

	_, err = config.Load(config.NewViper(), writeFile(t, "bad.yaml", "feed:\n  span_years: many\n"))
	assert.ErrorContains(t, err, config.ErrConfigDecode)
}

func TestValidate(t *testing.T) {
	valid := func() config.Settings {
		return config.Settings{
			Locale: "en",
			Server: config.ServerSettings{Port: config.DefaultPort},
			Feed:   config.FeedSettings{SpanYears: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr bool
	}{
		{"Defaults", func(*config.Settings) {}, false},
		{"Unknown locale", func(s *config.Settings) { s.Locale = "fr" }, true},
		{"Empty port", func(s *config.Settings) { s.Server.Port = "" }, true},
		{"Non numeric port", func(s *config.Settings) { s.Server.Port = "http" }, true},
		{"Port zero", func(s *config.Settings) { s.Server.Port = "0" }, true},
		{"Port too high", func(s *config.Settings) { s.Server.Port = "65536" }, true},
		{"Negative span", func(s *config.Settings) { s.Feed.SpanYears = -1 }, true},
		{"Span too wide", func(s *config.Settings) { s.Feed.SpanYears = config.MaxFeedSpan + 1 }, true},
		{"Unknown mode", func(s *config.Settings) { s.Sync.Mode = "ftp" }, true},
		{"Local without path", func(s *config.Settings) { s.Sync.Mode = config.SourceModeLocal }, true},
		{"Local with path", func(s *config.Settings) {
			s.Sync.Mode = config.SourceModeLocal
			s.Sync.LocalPath = "contacts.vcf"
		}, false},
		{"Web without URL", func(s *config.Settings) { s.Sync.Mode = config.SourceModeWeb }, true},
		{"Web with bad URL", func(s *config.Settings) {
			s.Sync.Mode = config.SourceModeWeb
			s.Sync.WebURL = "not a url"
		}, true},
		{"Web with URL", func(s *config.Settings) {
			s.Sync.Mode = config.SourceModeWeb
			s.Sync.WebURL = "https://dav.example.com/contacts"
		}, false},
		{"Reminder before", func(s *config.Settings) { s.Sync.Reminder = "-P1D" }, false},
		{"Reminder after", func(s *config.Settings) { s.Sync.Reminder = "PT1H" }, false},
		{"Bad reminder", func(s *config.Settings) { s.Sync.Reminder = "1 day" }, true},
		{"Negative refresh", func(s *config.Settings) { s.Sync.RefreshInterval = -time.Minute }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, config.ErrConfigInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
