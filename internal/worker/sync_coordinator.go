// Package worker contains the background loops that run alongside the
// tracker: currently the sync coordinator draining pending remote pushes.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Flusher is the synchronizer operation the coordinator drives.
type Flusher interface {
	Flush(ctx context.Context) error
}

// SyncCoordinator drains the pending sync intent on an interval, retrying
// each cycle with exponential backoff so a brief remote outage does not
// cost a whole interval.
type SyncCoordinator struct {
	sync        Flusher
	interval    time.Duration
	baseBackoff time.Duration
	maxRetries  uint64
}

// NewSyncCoordinator creates a coordinator flushing via sync every interval,
// retrying up to maxRetries times per cycle.
func NewSyncCoordinator(sync Flusher, interval time.Duration, maxRetries int) *SyncCoordinator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SyncCoordinator{
		sync:        sync,
		interval:    interval,
		baseBackoff: time.Second,
		maxRetries:  uint64(maxRetries),
	}
}

// Run starts the coordinator loop. Blocks until ctx is cancelled.
func (c *SyncCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "sync-coordinator",
		"action", "worker_started",
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Drain immediately on start, then on each tick
	c.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "sync-coordinator",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.drain(ctx)
		}
	}
}

// drain attempts the flush with capped exponential backoff. A cycle that
// still fails leaves the intent queued for the next tick.
func (c *SyncCoordinator) drain(ctx context.Context) {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.baseBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.sync.Flush(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return // Graceful shutdown, not a sync failure
		}
		slog.Warn("sync cycle incomplete",
			"component", "worker",
			"worker", "sync-coordinator",
			"action", "sync_failed",
			"error", err,
		)
		return
	}

	slog.Debug("sync cycle completed",
		"component", "worker",
		"worker", "sync-coordinator",
		"action", "cycle_complete",
	)
}
