package worker

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/docstore"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

// QueueSizer reports the current byte size of the command queue file.
type QueueSizer interface {
	Size() int64
}

// HealthWriter periodically snapshots process vitals into the document store
// so the panel can show them without touching the process directly.
type HealthWriter struct {
	repo    *docstore.HealthRepository
	queue   QueueSizer
	logPath string
	logger  *logging.Logger
	started time.Time
	now     func() time.Time
}

// NewHealthWriter builds a writer that saves snapshots through repo and,
// when logPath is non-empty, mirrors each one as a plain-text line.
func NewHealthWriter(repo *docstore.HealthRepository, queue QueueSizer, logPath string, logger *logging.Logger) *HealthWriter {
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthWriter{
		repo:    repo,
		queue:   queue,
		logPath: logPath,
		logger:  logger.With("component", "health_writer"),
		started: time.Now(),
		now:     time.Now,
	}
}

// Tick writes one snapshot. Suitable for Supervisor.AddPeriodic.
func (w *HealthWriter) Tick(ctx context.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	var queueBytes int64
	if w.queue != nil {
		queueBytes = w.queue.Size()
	}

	now := w.now()
	snapshot := docstore.Health{
		Timestamp:  now.Unix(),
		UptimeSecs: now.Sub(w.started).Seconds(),
		Goroutines: runtime.NumGoroutine(),
		HeapBytes:  mem.HeapAlloc,
		QueueBytes: queueBytes,
	}
	if err := w.repo.Save(ctx, snapshot); err != nil {
		return err
	}
	w.appendLine(ctx, now, snapshot)
	return nil
}

func (w *HealthWriter) appendLine(ctx context.Context, now time.Time, snapshot docstore.Health) {
	if w.logPath == "" {
		return
	}
	line := fmt.Sprintf("%s goroutines=%d heap_bytes=%d queue_bytes=%d uptime_secs=%.0f\n",
		now.UTC().Format(time.RFC3339), snapshot.Goroutines, snapshot.HeapBytes, snapshot.QueueBytes, snapshot.UptimeSecs)
	file, err := os.OpenFile(w.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		w.logger.WarnContext(ctx, "health log unavailable", "path", w.logPath, "error", err)
		return
	}
	defer file.Close()
	if _, err := file.WriteString(line); err != nil {
		w.logger.WarnContext(ctx, "health log write failed", "path", w.logPath, "error", err)
	}
}
