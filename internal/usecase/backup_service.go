package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/backup"
)

// BackupService fronts the archive engine and owns the auto-backup
// schedule stored in admin settings.
type BackupService struct {
	engine    *backup.Engine
	adminRepo admin.Repository
	now       func() time.Time
}

func NewBackupService(engine *backup.Engine, adminRepo admin.Repository) *BackupService {
	return &BackupService{
		engine:    engine,
		adminRepo: adminRepo,
		now:       time.Now,
	}
}

// Create takes an on-demand backup and records the run timestamp.
func (s *BackupService) Create(ctx context.Context) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "BackupService.Create")
	defer span.End()

	name, err := s.engine.Create(ctx, s.now())
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	s.markRun(ctx)
	return name, nil
}

// List returns stored backups, newest first.
func (s *BackupService) List(ctx context.Context) ([]backup.Info, error) {
	backups, err := s.engine.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return backups, nil
}

// Path resolves a backup name for download.
func (s *BackupService) Path(name string) (string, error) {
	return s.engine.Path(name)
}

// Restore extracts the named archive over the live documents.
func (s *BackupService) Restore(ctx context.Context, name string) error {
	ctx, span := startUsecaseSpan(ctx, "BackupService.Restore")
	defer span.End()

	if err := s.engine.Restore(ctx, name); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}

// AutoBackupTick runs one scheduled backup when the interval has elapsed.
// Returns true when a backup was taken.
func (s *BackupService) AutoBackupTick(ctx context.Context) (bool, error) {
	settings, err := s.adminRepo.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("load admin settings: %w", err)
	}
	if !settings.BackupDue(s.now()) {
		return false, nil
	}
	if _, err := s.engine.Create(ctx, s.now()); err != nil {
		return false, fmt.Errorf("auto backup: %w", err)
	}
	s.markRun(ctx)
	return true, nil
}

// markRun best-effort persists the last-run timestamp; a failed write only
// means the next tick fires early.
func (s *BackupService) markRun(ctx context.Context) {
	settings, err := s.adminRepo.Settings(ctx)
	if err != nil {
		return
	}
	settings.AutoBackupLastTS = s.now().Unix()
	_ = s.adminRepo.SaveSettings(ctx, settings)
}
