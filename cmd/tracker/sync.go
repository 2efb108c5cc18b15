package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/worker"
)

var syncWatch bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push pending changes to the account service",
	Long:  "Drain the pending sync queue once, or keep draining on an interval with --watch.",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "Keep syncing on the configured interval until interrupted")
}

func runSync(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if syncWatch {
		return runSyncWatch(app)
	}

	ctx := cmd.Context()
	intent, err := app.sync.PendingSync(ctx)
	if err != nil {
		return err
	}
	if intent == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to sync.")
		return nil
	}

	if err := app.sync.Flush(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Synced.")
	return nil
}

// runSyncWatch runs the background coordinator until SIGINT or SIGTERM.
func runSyncWatch(app *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	coordinator := worker.NewSyncCoordinator(app.sync,
		time.Duration(app.cfg.Sync.Interval), app.cfg.Sync.MaxRetries)
	coordinator.Run(ctx)
	return nil
}
