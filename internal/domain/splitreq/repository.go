package splitreq

import "context"

// Repository persists pending requests (keyed by request id) and the
// append-only resolution log.
type Repository interface {
	Pending(ctx context.Context) (map[string]Request, error)
	SavePending(ctx context.Context, pending map[string]Request) error

	Log(ctx context.Context) ([]LogRecord, error)
	AppendLog(ctx context.Context, record LogRecord) error
}
