package command

import "context"

// Enqueuer appends commands for the chat event worker to consume.
type Enqueuer interface {
	Enqueue(ctx context.Context, record Record) error
}

// Handler processes one dispatched command.
type Handler func(ctx context.Context, record Record) error
