package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

// Compaction thresholds: only rewrite once every consumer is past a
// meaningful chunk, both in absolute bytes and as a share of the file.
const (
	compactMinBytes = 64 * 1024
)

// Compactor trims fully-consumed bytes off the front of the queue file
// and shifts every consumer offset down to match.
type Compactor struct {
	baseDir   string
	queuePath string
	logger    *logging.Logger
}

func NewCompactor(baseDir string, logger *logging.Logger) *Compactor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Compactor{
		baseDir:   baseDir,
		queuePath: filepath.Join(baseDir, FileName),
		logger:    logger.With("component", "queue_compactor"),
	}
}

// Compact rewrites the queue when the minimum consumer offset clears the
// thresholds. State-file rewrites that fail are left alone; the affected
// consumer sees an offset past EOF on its next tick and resets to zero,
// which is safe because only consumed bytes were removed.
func (c *Compactor) Compact(_ context.Context) error {
	info, err := os.Stat(c.queuePath)
	if err != nil {
		return nil
	}
	size := info.Size()

	states, err := stateFiles(c.baseDir)
	if err != nil || len(states) == 0 {
		return nil
	}

	cut := int64(-1)
	for _, path := range states {
		offset := readState(path).Offset
		if offset > size {
			offset = size
		}
		if cut < 0 || offset < cut {
			cut = offset
		}
	}
	if cut < compactMinBytes || cut*2 < size {
		return nil
	}

	data, err := os.ReadFile(c.queuePath)
	if err != nil {
		return fmt.Errorf("%w: read queue: %v", usecase.ErrStorageUnavailable, err)
	}
	if cut > int64(len(data)) {
		cut = int64(len(data))
	}

	tmp := c.queuePath + ".tmp"
	if err := os.WriteFile(tmp, data[cut:], 0o644); err != nil {
		return fmt.Errorf("%w: write compacted queue: %v", usecase.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, c.queuePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace queue: %v", usecase.ErrStorageUnavailable, err)
	}

	for consumer, path := range states {
		offset := readState(path).Offset - cut
		if offset < 0 {
			offset = 0
		}
		if err := writeState(path, consumerState{Offset: offset}); err != nil {
			c.logger.Warn("offset rewrite failed, consumer will reset", "consumer", consumer, "error", err)
		}
	}

	c.logger.Info("queue compacted", "removed_bytes", cut, "remaining_bytes", int64(len(data))-cut)
	return nil
}
