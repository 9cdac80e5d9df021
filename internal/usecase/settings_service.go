package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
)

// SettingsService reads and updates the admin settings document.
type SettingsService struct {
	adminRepo admin.Repository
	queue     command.Enqueuer
	now       func() time.Time
}

func NewSettingsService(adminRepo admin.Repository, queue command.Enqueuer) *SettingsService {
	return &SettingsService{
		adminRepo: adminRepo,
		queue:     queue,
		now:       time.Now,
	}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (admin.Settings, error) {
	settings, err := s.adminRepo.Settings(ctx)
	if err != nil {
		return admin.Settings{}, fmt.Errorf("load admin settings: %w", err)
	}
	return settings, nil
}

// Update replaces the settings. Turning maintenance mode on enqueues an
// announcement command for the chat worker.
func (s *SettingsService) Update(ctx context.Context, next admin.Settings) (admin.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "SettingsService.Update")
	defer span.End()

	if next.AutoBackupIntervalHours < admin.MinBackupIntervalHours {
		next.AutoBackupIntervalHours = admin.MinBackupIntervalHours
	}

	current, err := s.adminRepo.Settings(ctx)
	if err != nil {
		return admin.Settings{}, fmt.Errorf("load admin settings: %w", err)
	}

	// The schedule's last-run marker is engine-owned, not caller-supplied.
	next.AutoBackupLastTS = current.AutoBackupLastTS

	if err := s.adminRepo.SaveSettings(ctx, next); err != nil {
		return admin.Settings{}, fmt.Errorf("save admin settings: %w", err)
	}

	if next.MaintenanceMode && !current.MaintenanceMode {
		if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindMaintenanceModeEnabled, map[string]any{
			"enabled_at": s.now().Unix(),
		})); err != nil {
			return admin.Settings{}, fmt.Errorf("enqueue maintenance announcement: %w", err)
		}
	}
	return next, nil
}

// MaintenanceActive reports whether the panel is in maintenance mode.
// Non-admin mutations are refused while it is on.
func (s *SettingsService) MaintenanceActive(ctx context.Context) (bool, error) {
	settings, err := s.adminRepo.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("load admin settings: %w", err)
	}
	return settings.MaintenanceMode, nil
}
