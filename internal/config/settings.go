package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings holds the user-tunable configuration of the application.
// Secrets are not part of it: the address book password lives in the OS keyring.
type Settings struct {
	Locale string         `mapstructure:"locale" validate:"oneof=en ne"`
	Server ServerSettings `mapstructure:"server"`
	Feed   FeedSettings   `mapstructure:"feed"`
	Sync   SyncSettings   `mapstructure:"sync"`
}

// ServerSettings configures the local HTTP server.
type ServerSettings struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
}

// FeedSettings configures the holiday feed.
type FeedSettings struct {
	// SpanYears is the number of BS years published before and after the current one.
	SpanYears int `mapstructure:"span_years" validate:"gte=0,lte=10"`
}

// SyncSettings configures the birthday source and the refresh schedule.
type SyncSettings struct {
	Mode            string        `mapstructure:"mode" validate:"omitempty,oneof=local web"`
	LocalPath       string        `mapstructure:"local_path" validate:"required_if=Mode local"`
	WebURL          string        `mapstructure:"web_url" validate:"required_if=Mode web,omitempty,url"`
	WebUser         string        `mapstructure:"web_user"`
	Reminder        string        `mapstructure:"reminder" validate:"omitempty,startswith=P|startswith=-P"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"gte=0"`
}

// NewViper returns a viper instance with defaults and environment binding applied.
// A dedicated instance is used instead of the global one so tests stay isolated.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLocale, DefaultLanguage)
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyFeedSpan, DefaultFeedSpan)
	v.SetDefault(KeyRefreshInterval, time.Duration(DefaultRefreshMin)*time.Minute)
	v.SetDefault(KeySourceMode, "")
	v.SetDefault(KeyLocalPath, "")
	v.SetDefault(KeyWebURL, "")
	v.SetDefault(KeyWebUser, "")
	v.SetDefault(KeyReminder, "")
	return v
}

// Load reads the settings from cfgFile (or $HOME/.go-patro.yaml when empty),
// the environment and the defaults, then validates them.
// A missing default config file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Settings, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrHomeDir, err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileType)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: %w", ErrConfigRead, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrConfigDecode, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks struct constraints and the port range.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%s: %w", ErrConfigInvalid, err)
	}

	port, err := strconv.Atoi(s.Server.Port)
	if err != nil || port < MinPort || port > MaxPort {
		return fmt.Errorf("%s: port %q must be between %d and %d", ErrConfigInvalid, s.Server.Port, MinPort, MaxPort)
	}
	return nil
}
