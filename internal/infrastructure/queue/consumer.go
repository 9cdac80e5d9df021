package queue

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

// DefaultPollInterval is how often a consumer checks for new records.
const DefaultPollInterval = 2 * time.Second

// Consumer tails the queue file from its own persisted byte offset and
// hands each parsed record to the handler. Handler errors are logged and
// skipped; a poison record never wedges the queue.
type Consumer struct {
	name      string
	queuePath string
	statePath string
	interval  time.Duration
	handler   command.Handler
	logger    *logging.Logger

	offset int64
}

// NewConsumer builds a consumer named name reading the queue under
// baseDir. The name keys the consumer's offset state file.
func NewConsumer(name, baseDir string, interval time.Duration, handler command.Handler, logger *logging.Logger) *Consumer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Consumer{
		name:      name,
		queuePath: NewAppender(baseDir).Path(),
		statePath: statePath(baseDir, name),
		interval:  interval,
		handler:   handler,
		logger:    logger.With("component", "queue_consumer", "consumer", name),
	}
}

// Run drains the queue until the context is cancelled, persisting the
// offset after every batch and once more on shutdown.
func (c *Consumer) Run(ctx context.Context) {
	c.offset = readState(c.statePath).Offset
	c.logger.Info("queue consumer started", "offset", c.offset)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			c.persist()
			c.logger.Info("queue consumer stopped", "offset", c.offset)
			return
		case <-ticker.C:
			c.drain(ctx)
		}
	}
}

// drain reads every record past the current offset and dispatches them in
// append order.
func (c *Consumer) drain(ctx context.Context) {
	info, err := os.Stat(c.queuePath)
	if err != nil {
		return
	}
	size := info.Size()
	if size < c.offset {
		// Compaction (or a restore) shrank the file underneath us.
		c.logger.Warn("queue shorter than stored offset, resetting", "offset", c.offset, "size", size)
		c.offset = 0
	}
	if size == c.offset {
		return
	}

	file, err := os.Open(c.queuePath)
	if err != nil {
		c.logger.Error("open queue", "error", err)
		return
	}
	defer file.Close()

	if _, err := file.Seek(c.offset, io.SeekStart); err != nil {
		c.logger.Error("seek queue", "offset", c.offset, "error", err)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		c.logger.Error("read queue", "error", err)
		return
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var record command.Record
		if err := sonic.Unmarshal(line, &record); err != nil {
			c.logger.Warn("skipping malformed queue record", "error", err)
			continue
		}
		if err := c.handler(ctx, record); err != nil {
			c.logger.Error("command handler failed", "kind", record.Kind, "error", err)
		}
	}

	c.offset += int64(len(data))
	c.persist()
}

func (c *Consumer) persist() {
	if err := writeState(c.statePath, consumerState{Offset: c.offset}); err != nil {
		c.logger.Error("persist consumer state", "error", err)
	}
}
