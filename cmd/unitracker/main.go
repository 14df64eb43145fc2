package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appI18n "github.com/pavelanni/unitracker/internal/i18n"
	"github.com/pavelanni/unitracker/internal/model"
	"github.com/pavelanni/unitracker/internal/store"
	"github.com/pavelanni/unitracker/internal/validate"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "unitracker",
		Short:         "Track university exams, averages and graduation targets",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd)
		},
	}
	f := root.PersistentFlags()
	f.String("db", "unitracker.db", "SQLite database path")
	f.StringP("lang", "l", "it", "Output language (it, en)")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	root.AddCommand(
		examCmd(),
		statsCmd(),
		targetsCmd(),
		predictCmd(),
		calendarCmd(),
		sessionCmd(),
		settingsCmd(),
		exportCmd(),
		importCmd(),
		backupCmd(),
		resetCmd(),
		reportCmd(),
	)
	return root
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("UNITRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("unitracker")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/unitracker")
	v.AddConfigPath("/etc/unitracker")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// app is what every command works with: an open store, the degree settings,
// a localised context and an input validator.
type app struct {
	v        *viper.Viper
	db       *store.Store
	settings model.Settings
	ctx      context.Context
	check    *validate.Validator
	out      io.Writer
}

func openApp(cmd *cobra.Command) (*app, error) {
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init("en"); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLang(cmd.Context(), lang)

	check, err := validate.New(lang)
	if err != nil {
		return nil, fmt.Errorf("init validator: %w", err)
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	settings, err := db.LoadSettings()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &app{v: v, db: db, settings: settings, ctx: ctx, check: check, out: cmd.OutOrStdout()}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// say prints a translated line.
func (a *app) say(msgID string, data map[string]any) {
	if data == nil {
		fmt.Fprintln(a.out, appI18n.T(a.ctx, msgID))
		return
	}
	fmt.Fprintln(a.out, appI18n.Td(a.ctx, msgID, data))
}

func (a *app) num(v float64) string {
	return appI18n.Num(a.ctx, v, 2)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

// withApp opens the app for the duration of run.
func withApp(run func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(a, cmd, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
