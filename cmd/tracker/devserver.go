package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/config"
	"github.com/microacademy/tracker/internal/devserver"
)

var devserverAddr string

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory account service for development",
	Long:  "Serve the account API backed by in-memory storage. All data is lost on exit.",
	Args:  cobra.NoArgs,
	RunE:  runDevserver,
}

func init() {
	devserverCmd.Flags().StringVar(&devserverAddr, "addr", ":8000", "Listen address")
}

func runDevserver(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	initLogger(cfg)

	srv := &http.Server{
		Addr:         devserverAddr,
		Handler:      devserver.New().Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("devserver starting", "address", devserverAddr)
		// ErrServerClosed is the expected error when Shutdown() is called
		// gracefully. Anything else is a real failure.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("devserver error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("devserver shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
