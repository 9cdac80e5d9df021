package fanzone

import "context"

// Repository persists fan-zone votes and declared results.
type Repository interface {
	Votes(ctx context.Context) (Votes, error)
	SaveVotes(ctx context.Context, votes Votes) error

	Winners(ctx context.Context) (Winners, error)
	SaveWinners(ctx context.Context, winners Winners) error
}
