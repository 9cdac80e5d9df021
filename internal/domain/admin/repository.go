package admin

import "context"

// Repository persists the admin settings document.
type Repository interface {
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}
