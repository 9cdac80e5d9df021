// Package queue implements the append-only command log: newline-delimited
// JSON records with per-consumer byte offsets and periodic compaction.
package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

// FileName is the queue file under the store root.
const FileName = "bot_commands.jsonl"

// Appender writes command records to the queue file. Each record goes out
// as one JSON line in a single write call, so in-process producers never
// interleave partial lines.
type Appender struct {
	mu   sync.Mutex
	path string
}

// NewAppender creates an appender for the queue file under baseDir.
func NewAppender(baseDir string) *Appender {
	return &Appender{path: filepath.Join(baseDir, FileName)}
}

// Path returns the queue file location.
func (a *Appender) Path() string { return a.path }

// Size returns the current queue file size, zero when the file does not
// exist yet.
func (a *Appender) Size() int64 {
	info, err := os.Stat(a.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Enqueue appends one record and flushes it to disk.
func (a *Appender) Enqueue(_ context.Context, record command.Record) error {
	raw, err := sonic.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode command: %v", usecase.ErrStorageUnavailable, err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.Write(raw)
	buf.WriteByte('\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open queue: %v", usecase.ErrStorageUnavailable, err)
	}
	if _, err := file.Write(buf.B); err != nil {
		file.Close()
		return fmt.Errorf("%w: append queue: %v", usecase.ErrStorageUnavailable, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("%w: flush queue: %v", usecase.ErrStorageUnavailable, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close queue: %v", usecase.ErrStorageUnavailable, err)
	}
	return nil
}

var _ command.Enqueuer = (*Appender)(nil)
