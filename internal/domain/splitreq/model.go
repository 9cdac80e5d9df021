package splitreq

import (
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// Request is a pending proposal by RequesterID to co-own Team currently held
// by MainOwnerID. ExpiresAt is unix seconds; the periodic sweep moves expired
// requests to the log.
type Request struct {
	RequesterID flexid.ID `json:"requester_id"`
	MainOwnerID flexid.ID `json:"main_owner_id"`
	Team        string    `json:"team"`
	ExpiresAt   int64     `json:"expires_at"`
}

// Resolution states recorded in the split request log.
const (
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusExpired  = "expired"
)

// LogRecord is one resolved request. The log is append-only.
type LogRecord struct {
	Timestamp   int64     `json:"timestamp"`
	Status      string    `json:"status"`
	RequestID   string    `json:"request_id"`
	Team        string    `json:"team"`
	MainOwnerID flexid.ID `json:"main_owner_id"`
	RequesterID flexid.ID `json:"requester_id"`
	ResolvedBy  flexid.ID `json:"resolved_by,omitempty"`
}

// TTLSeconds is how long a request stays open: 48 hours.
const TTLSeconds = 48 * 60 * 60
