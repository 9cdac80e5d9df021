package bet

import "context"

// Repository persists the ordered bet sequence.
type Repository interface {
	List(ctx context.Context) ([]Bet, error)
	Save(ctx context.Context, bets []Bet) error
}
