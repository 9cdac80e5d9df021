package team

import "context"

// Repository describes team reference data and stage state persistence.
type Repository interface {
	// List returns the ordered canonical team names.
	List(ctx context.Context) ([]string, error)
	SaveList(ctx context.Context, teams []string) error

	// ISOCodes maps team name to its 2-letter code for flag lookups.
	ISOCodes(ctx context.Context) (map[string]string, error)
	SaveISOCodes(ctx context.Context, codes map[string]string) error

	// Stages maps team name to its current stage. Missing teams have no
	// recorded stage yet.
	Stages(ctx context.Context) (map[string]Stage, error)
	SaveStages(ctx context.Context, stages map[string]Stage) error
}
