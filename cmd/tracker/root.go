package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/account"
	"github.com/microacademy/tracker/internal/actions"
	"github.com/microacademy/tracker/internal/config"
	"github.com/microacademy/tracker/internal/kv"
	"github.com/microacademy/tracker/internal/state"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Tracker - local-first learning goal tracker",
	Long:          "Track learning goals and completed actions locally, syncing to the account service when signed in.",
	SilenceUsage:  true,
	SilenceErrors: false,
	Version:       Version,
}

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(devserverCmd)
}

// app bundles the wired components every command needs. Close releases the
// underlying database.
type app struct {
	cfg     *config.Config
	db      *kv.SQLiteStore
	client  *account.Client
	actions *actions.Store
	sync    *state.Synchronizer
}

// newApp loads configuration, initializes the logger, and opens the local
// database. Callers must Close() the returned app.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	initLogger(cfg)

	db, err := kv.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}

	client := account.New(cfg.API.BaseURL, db)

	return &app{
		cfg:     cfg,
		db:      db,
		client:  client,
		actions: actions.NewStore(db),
		sync:    state.NewSynchronizer(db, client),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// initLogger configures the process-wide slog default. Logs go to stderr so
// command output on stdout stays machine-readable.
func initLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)}

	var handler slog.Handler
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
