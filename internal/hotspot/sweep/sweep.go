// Package sweep runs periodic cache maintenance in the background.
package sweep

import (
	"context"
	"time"

	"github.com/colonyops/hotspot/internal/core/logging"
)

// Task is one maintenance step. Run returns the number of removed items.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// Start runs every task once immediately and then on each interval tick.
// It blocks until the context is cancelled.
func Start(ctx context.Context, interval time.Duration, tasks ...Task) {
	RunOnce(ctx, tasks...)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunOnce(ctx, tasks...)
		}
	}
}

// RunOnce runs each task in order. Failures are logged and do not stop the
// remaining tasks.
func RunOnce(ctx context.Context, tasks ...Task) {
	log := logging.Component("sweep")
	for _, t := range tasks {
		n, err := t.Run(ctx)
		if err != nil {
			log.Debug().Err(err).Str("task", t.Name).Msg("sweep failed")
			continue
		}
		if n > 0 {
			log.Debug().Str("task", t.Name).Int("removed", n).Msg("sweep removed entries")
		}
	}
}
