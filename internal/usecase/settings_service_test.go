package usecase

import (
	"context"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
)

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("enabling maintenance mode announces once", func(t *testing.T) {
		store := newMemStore()
		queue := &captureQueue{}
		service := NewSettingsService(memAdmin{store}, queue)
		service.now = fixedClock(1_750_000_000)

		next := admin.Settings{MaintenanceMode: true, AutoBackupIntervalHours: 6}
		if _, err := service.Update(ctx, next); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if kinds := queue.kinds(); len(kinds) != 1 || kinds[0] != command.KindMaintenanceModeEnabled {
			t.Fatalf("unexpected queue: %v", kinds)
		}

		// Saving again with the flag still on does not re-announce.
		if _, err := service.Update(ctx, next); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(queue.records) != 1 {
			t.Fatalf("re-announced: %v", queue.kinds())
		}
	})

	t.Run("interval is clamped", func(t *testing.T) {
		store := newMemStore()
		service := NewSettingsService(memAdmin{store}, &captureQueue{})

		saved, err := service.Update(ctx, admin.Settings{AutoBackupIntervalHours: 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.AutoBackupIntervalHours != admin.MinBackupIntervalHours {
			t.Fatalf("interval not clamped: %v", saved.AutoBackupIntervalHours)
		}
	})

	t.Run("last run timestamp is preserved", func(t *testing.T) {
		store := newMemStore()
		store.adminConfig.AutoBackupLastTS = 1_749_000_000
		service := NewSettingsService(memAdmin{store}, &captureQueue{})

		saved, err := service.Update(ctx, admin.Settings{AutoBackupLastTS: 42, AutoBackupIntervalHours: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.AutoBackupLastTS != 1_749_000_000 {
			t.Fatalf("caller overwrote the schedule marker: %d", saved.AutoBackupLastTS)
		}
	})
}
