package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
	"github.com/tartampluch/go-patro/internal/engine"
	"github.com/tartampluch/go-patro/internal/render"
	"github.com/tartampluch/go-patro/internal/server"
)

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdToday,
		Short: config.CmdTodayShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.conv.Now()
			today := a.conv.ToNepali(now)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, a.tr.Msg(a.locale, config.TKeyToday, map[string]any{
				config.TemplateKeyWeekday: calendar.WeekdayName(now.Weekday(), a.locale),
				config.TemplateKeyDate:    calendar.Format(today, a.locale),
			}))
			if name, ok := a.conv.HolidayOn(today.Month, today.Day, a.locale); ok {
				a.printHoliday(out, today, name)
			}
			return nil
		},
	}
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdConvertUse,
		Short: config.CmdConvertShort,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New(config.ErrArgCount)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			switch strings.ToLower(args[0]) {
			case config.ArgAD:
				g, err := calendar.ParseGregorian(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, a.tr.Msg(a.locale, config.TKeyConvertToBS, map[string]any{
					config.TemplateKeyFrom: g.Format(time.DateOnly),
					config.TemplateKeyTo:   calendar.Format(a.conv.ToNepali(g), a.locale),
				}))
				return nil

			case config.ArgBS:
				d, err := calendar.ParseDate(args[1])
				if err != nil {
					return err
				}
				g, err := a.conv.ToGregorian(d.Year, d.Month, d.Day)
				if err != nil {
					msg := a.tr.Msg(a.locale, config.TKeyErrInvalidDate, map[string]any{config.TemplateKeyDate: d.String()})
					return fmt.Errorf("%s: %w", msg, err)
				}
				fmt.Fprintln(out, a.tr.Msg(a.locale, config.TKeyConvertToAD, map[string]any{
					config.TemplateKeyFrom:    calendar.Format(d, a.locale),
					config.TemplateKeyTo:      g.Format(time.DateOnly),
					config.TemplateKeyWeekday: calendar.WeekdayName(g.Weekday(), a.locale),
				}))
				return nil

			default:
				return errors.New(config.ErrArgDirection)
			}
		},
	}
}

func newMonthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdMonthUse,
		Short: config.CmdMonthShort,
		Args:  yearMonthArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := a.yearMonth(args)
			if err != nil {
				return err
			}
			cells, err := a.conv.MonthGrid(year, month, a.locale)
			if err != nil {
				return err
			}
			holidays, err := a.conv.MonthHolidays(year, month, a.locale)
			if err != nil {
				return err
			}

			var notes []string
			for _, h := range holidays {
				notes = append(notes, a.holidayLine(h))
			}
			if today := a.conv.Today(); today.Year == year && today.Month == month {
				notes = append(notes, a.tr.Msg(a.locale, config.TKeyLegendToday, map[string]any{
					config.TemplateKeyDate: calendar.Format(today, a.locale),
				}))
			}

			title := calendar.MonthName(month, a.locale) + " " + strconv.Itoa(year)
			fmt.Fprintln(cmd.OutOrStdout(), render.Month(title, a.locale, cells, notes))
			return nil
		},
	}
}

func newHolidaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdHolidaysUse,
		Short: config.CmdHolidaysShort,
		Args:  yearMonthArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := a.yearMonth(args)
			if err != nil {
				return err
			}
			holidays, err := a.conv.MonthHolidays(year, month, a.locale)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			data := map[string]any{config.TemplateKeyMonth: calendar.MonthName(month, a.locale) + " " + strconv.Itoa(year)}
			if len(holidays) == 0 {
				fmt.Fprintln(out, a.tr.Msg(a.locale, config.TKeyNoHolidays, data))
				return nil
			}
			fmt.Fprintln(out, a.tr.Plural(a.locale, config.TKeyHolidayCount, len(holidays), data))
			for _, h := range holidays {
				fmt.Fprintln(out, a.holidayLine(h))
			}
			return nil
		},
	}
}

func newFeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdFeed,
		Short: config.CmdFeedShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ics, _, err := a.generator().HolidayFeed(a.settings.Feed.SpanYears)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString(config.FlagOutput)
			return writeFeed(cmd.OutOrStdout(), output, ics)
		},
	}
	cmd.Flags().StringP(config.FlagOutput, "o", "", config.FlagDescOutput)
	cmd.Flags().Int(config.FlagSpan, config.DefaultFeedSpan, config.FlagDescSpan)
	return cmd
}

func newBirthdaysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdBirthdays,
		Short: config.CmdBirthdaysShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.syncConfig()
			if cfg == nil {
				return fmt.Errorf("%s: %q", config.ErrModeUnsupport, a.settings.Sync.Mode)
			}

			ics, contacts, _, err := a.generator().RunSync(cmd.Context(), *cfg)
			if err != nil {
				return err
			}

			if output, _ := cmd.Flags().GetString(config.FlagOutput); output != "" {
				return writeFeed(cmd.OutOrStdout(), output, ics)
			}

			out := cmd.OutOrStdout()
			if len(contacts) == 0 {
				fmt.Fprintln(out, a.tr.Msg(a.locale, config.TKeyContactsNone, nil))
				return nil
			}
			for _, c := range contacts {
				fmt.Fprintln(out, a.tr.Msg(a.locale, config.TKeyContactLine, map[string]any{
					config.TemplateKeyName:  c.Name,
					config.TemplateKeyBirth: calendar.Format(c.Birth, a.locale),
					config.TemplateKeyNext:  calendar.Format(c.Next, a.locale),
					config.TemplateKeyAge:   c.AgeNext,
				}))
			}
			return nil
		},
	}
	cmd.Flags().StringP(config.FlagOutput, "o", "", config.FlagDescOutput)
	addSourceFlags(cmd)
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			srv := server.NewCalendarServer(a.settings.Server.Port, a.conv)

			refresher := &engine.Refresher{
				Generator: a.generator(),
				Publisher: srv,
				Sync:      a.syncConfig(),
				Span:      a.settings.Feed.SpanYears,
				Interval:  a.settings.Sync.RefreshInterval,
			}
			if refresher.Sync != nil {
				srv.Contacts = refresher
			}
			go refresher.Run(ctx)

			url := config.SchemeHTTP + "://" + config.LocalhostBindAddr + config.AddrSeparator + a.settings.Server.Port
			fmt.Fprintln(cmd.ErrOrStderr(), a.tr.Msg(a.locale, config.TKeyServerListening, map[string]any{
				config.TemplateKeyURL: url,
			}))

			if err := srv.Start(ctx); err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
	cmd.Flags().String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	cmd.Flags().Int(config.FlagSpan, config.DefaultFeedSpan, config.FlagDescSpan)
	addSourceFlags(cmd)
	return cmd
}

func newPasswordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdPassword,
		Short: config.CmdPasswordShort,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			user := a.settings.Sync.WebUser
			if user == "" {
				return errors.New(config.ErrUserRequired)
			}

			line, err := bufio.NewReader(a.stdin).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			pass := strings.TrimRight(line, "\r\n")
			if pass == "" {
				return errors.New(config.ErrPasswordEmpty)
			}

			if err := engine.StorePassword(user, pass); err != nil {
				return err
			}
			slog.Info(config.MsgPasswordStored,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyUser, user)
			return nil
		},
	}
	cmd.Flags().String(config.FlagUser, "", config.FlagDescUser)
	return cmd
}

func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(config.FlagSource, "", config.FlagDescSource)
	f.String(config.FlagPath, "", config.FlagDescPath)
	f.String(config.FlagURL, "", config.FlagDescURL)
	f.String(config.FlagUser, "", config.FlagDescUser)
	f.String(config.FlagReminder, "", config.FlagDescReminder)
}

// yearMonthArgs accepts no arguments or a year and a month.
func yearMonthArgs(_ *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return errors.New(config.ErrArgCount)
	}
	return nil
}

// yearMonth parses optional [year month] arguments, defaulting to the
// current BS month.
func (a *app) yearMonth(args []string) (int, int, error) {
	if len(args) == 0 {
		today := a.conv.Today()
		return today.Year, today.Month, nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, errors.New(config.ErrArgYearMonth)
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, errors.New(config.ErrArgYearMonth)
	}
	return year, month, nil
}

func (a *app) holidayLine(h calendar.Holiday) string {
	return a.tr.Msg(a.locale, config.TKeyHolidayLine, map[string]any{
		config.TemplateKeyDate: h.Date,
		config.TemplateKeyName: h.Name,
	})
}

func (a *app) printHoliday(w io.Writer, d calendar.Date, name string) {
	fmt.Fprintln(w, a.tr.Msg(a.locale, config.TKeyHolidayLine, map[string]any{
		config.TemplateKeyDate: calendar.Format(d, a.locale),
		config.TemplateKeyName: name,
	}))
}

// writeFeed writes ics to path, or to w when path is empty.
func writeFeed(w io.Writer, path string, ics []byte) error {
	if path == "" {
		_, err := w.Write(ics)
		return err
	}
	if err := os.WriteFile(path, ics, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrFeedWrite, err)
	}
	slog.Info(config.MsgFeedWritten,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, path,
		config.LogKeySizeBytes, len(ics),
	)
	return nil
}
