// Package worker runs the background side of the panel: the command queue
// consumer, the split-request sweeper, scheduled backups, queue compaction
// and the health snapshot writer.
package worker

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

type task struct {
	name string
	run  func(ctx context.Context)
}

// Supervisor owns a set of named background loops and runs them until the
// context is cancelled.
type Supervisor struct {
	logger *logging.Logger
	tasks  []task
}

func NewSupervisor(logger *logging.Logger) *Supervisor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Supervisor{logger: logger.With("component", "worker")}
}

// Add registers a long-running loop. The loop must return when ctx is done.
func (s *Supervisor) Add(name string, run func(ctx context.Context)) {
	s.tasks = append(s.tasks, task{name: name, run: run})
}

// AddPeriodic registers a tick function invoked once per interval. Errors are
// logged and the loop keeps ticking.
func (s *Supervisor) AddPeriodic(name string, interval time.Duration, tick func(ctx context.Context) error) {
	if interval <= 0 {
		interval = time.Minute
	}
	s.Add(name, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := tick(ctx); err != nil {
					s.logger.ErrorContext(ctx, "periodic task failed", "task", name, "error", err)
				}
			}
		}
	})
}

// Run starts every registered task and blocks until all of them return.
func (s *Supervisor) Run(ctx context.Context) {
	var wg conc.WaitGroup
	for _, item := range s.tasks {
		item := item
		wg.Go(func() {
			s.logger.InfoContext(ctx, "task started", "task", item.name)
			item.run(ctx)
			s.logger.InfoContext(ctx, "task stopped", "task", item.name)
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		s.logger.Error("task panicked", "error", recovered.AsError())
	}
}
