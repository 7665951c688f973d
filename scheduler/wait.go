package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultPollInterval paces squeue queries when no interval is configured.
const DefaultPollInterval = 60 * time.Second

// StatusPoller answers whether a submitted batch still has live jobs.
type StatusPoller interface {
	BatchActive(ctx context.Context, batchID string) (bool, error)
}

// CompletionWaiter blocks until a batch has drained. Cancelling the context
// stops the waiting, never the submitted jobs.
type CompletionWaiter interface {
	WaitForCompletion(ctx context.Context, batchID string) error
}

// PollWaiter polls a StatusPoller at a constant interval. There is no
// internal timeout; bounding total run time is the operator's job.
type PollWaiter struct {
	Poller   StatusPoller
	Interval time.Duration
	Logger   *slog.Logger
}

var errStillActive = errors.New("batch still has queued or running jobs")

func (w *PollWaiter) WaitForCompletion(ctx context.Context, batchID string) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	poll := func() error {
		active, err := w.Poller.BatchActive(ctx, batchID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if active {
			if w.Logger != nil {
				w.Logger.Info("BATCH STILL RUNNING", "BATCH", batchID)
			}
			return errStillActive
		}
		return nil
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	return backoff.Retry(poll, b)
}
