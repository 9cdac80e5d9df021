package roster

import "context"

// Repository describes Players document persistence.
type Repository interface {
	Load(ctx context.Context) (Roster, error)
	Save(ctx context.Context, r Roster) error
}
