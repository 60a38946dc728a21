package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
	"github.com/tartampluch/go-patro/internal/engine"
	"github.com/tartampluch/go-patro/internal/i18n"
)

// flagKeys maps command-line flags to the settings they override.
var flagKeys = map[string]string{
	config.FlagLocale:   config.KeyLocale,
	config.FlagPort:     config.KeyServerPort,
	config.FlagSpan:     config.KeyFeedSpan,
	config.FlagSource:   config.KeySourceMode,
	config.FlagPath:     config.KeyLocalPath,
	config.FlagURL:      config.KeyWebURL,
	config.FlagUser:     config.KeyWebUser,
	config.FlagReminder: config.KeyReminder,
}

// app carries the state shared by every command once PersistentPreRunE ran.
type app struct {
	v       *viper.Viper
	cfgFile string
	debug   bool
	version bool

	clock   calendar.Clock
	fetcher engine.VCardFetcher
	stdin   io.Reader

	settings *config.Settings
	conv     *calendar.Converter
	tr       *i18n.Translator
	locale   calendar.Locale

	logCloser io.Closer
}

func newApp() *app {
	return &app{
		v:       config.NewViper(),
		clock:   calendar.RealClock{},
		fetcher: engine.NewHTTPFetcher(),
		stdin:   os.Stdin,
	}
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CmdUse,
		Short:         config.CmdShort,
		Long:          config.CmdLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, config.FlagConfig, "", config.FlagDescConfig)
	pf.BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)
	pf.String(config.FlagLocale, config.DefaultLanguage, config.FlagDescLocale)
	root.Flags().BoolVar(&a.version, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(
		newTodayCmd(a),
		newConvertCmd(a),
		newMonthCmd(a),
		newHolidaysCmd(a),
		newFeedCmd(a),
		newBirthdaysCmd(a),
		newServeCmd(a),
		newPasswordCmd(a),
	)
	return root
}

// init sets up logging, settings, the converter and the translator.
// The server logs to stdout like a daemon; other commands keep stdout for
// their output and log to stderr.
func (a *app) init(cmd *cobra.Command) error {
	console := cmd.ErrOrStderr()
	if cmd.Name() == config.CmdServe {
		console = cmd.OutOrStdout()
	}
	a.logCloser = setupLogging(a.debug, console)
	logStartupInfo(cmd.Name())

	// Flags are bound here, for the running command only, since several
	// commands declare the same flag.
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	settings, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.settings = settings
	if used := a.v.ConfigFileUsed(); used != "" {
		slog.Debug(config.MsgConfigLoaded, config.LogKeyComponent, config.CompConfig, config.LogKeyFile, used)
	} else {
		slog.Debug(config.MsgConfigMissing, config.LogKeyComponent, config.CompConfig)
	}

	conv, err := calendar.New(calendar.WithClock(a.clock))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrEngineInit, err)
	}
	a.conv = conv

	table := conv.Table()
	for _, year := range table.Anomalies() {
		slog.Warn(config.MsgTableAnomaly,
			config.LogKeyComponent, config.CompCalendar,
			config.LogKeyYear, year,
			config.LogKeyDays, table.DaysInYear(year),
		)
	}
	slog.Debug(config.MsgEngineReady,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyAnchor, conv.Anchor().String(),
		slog.Group(config.LogKeyTable,
			slog.Int(config.LogKeyFrom, table.FirstYear()),
			slog.Int(config.LogKeyTo, table.LastYear()),
		),
	)

	tr, err := i18n.NewTranslator()
	if err != nil {
		return err
	}
	a.tr = tr
	a.locale = calendar.ParseLocale(settings.Locale)
	return nil
}

// generator builds a feed generator localized for the configured locale.
func (a *app) generator() *engine.Generator {
	return &engine.Generator{
		Clock:           a.conv,
		Converter:       a.conv,
		Fetcher:         a.fetcher,
		Locale:          a.locale,
		HolidayCalName:  a.tr.Msg(a.locale, config.TKeyFeedName, nil),
		BirthdayCalName: a.tr.Msg(a.locale, config.TKeyFeedBirthdays, nil),
		FormatSummary:   a.tr.SummaryFormatter(a.locale),
		FormatDescription: func(d calendar.Date) string {
			return a.tr.Msg(a.locale, config.TKeyEvtDescription, map[string]any{
				config.TemplateKeyDate: calendar.Format(d, a.locale),
			})
		},
	}
}

// syncConfig maps the settings to a birthday sync. It returns nil when no
// birthday source is configured.
func (a *app) syncConfig() *engine.SyncConfig {
	s := a.settings.Sync
	if s.Mode == "" {
		return nil
	}
	cfg := &engine.SyncConfig{
		Mode:            s.Mode,
		LocalPath:       s.LocalPath,
		WebURL:          s.WebURL,
		WebUser:         s.WebUser,
		ReminderTrigger: s.Reminder,
	}
	if s.Mode == config.SourceModeWeb {
		cfg.WebPass = engine.ResolvePassword(s.WebUser)
	}
	return cfg
}
