package verify

import "context"

// Repository persists verified users and pending verification codes.
type Repository interface {
	Verified(ctx context.Context) (Registry, error)
	SaveVerified(ctx context.Context, registry Registry) error

	Codes(ctx context.Context) (CodeBook, error)
	SaveCodes(ctx context.Context, codes CodeBook) error
}
