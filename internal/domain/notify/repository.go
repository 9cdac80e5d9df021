package notify

import "context"

// Repository persists notification preferences and the three event feeds.
type Repository interface {
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error

	BetResults(ctx context.Context) (Feed, error)
	SaveBetResults(ctx context.Context, feed Feed) error

	StageNotifications(ctx context.Context) (Feed, error)
	SaveStageNotifications(ctx context.Context, feed Feed) error

	FanZoneResults(ctx context.Context) (Feed, error)
	SaveFanZoneResults(ctx context.Context, feed Feed) error
}
