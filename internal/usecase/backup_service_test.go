package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/backup"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

func newBackupFixture(t *testing.T) (*BackupService, *memStore) {
	t.Helper()
	baseDir := t.TempDir()
	docDir := filepath.Join(baseDir, "JSON")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(docDir, "teams.json"), []byte(`["Brazil"]`), 0o644); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	store := newMemStore()
	service := NewBackupService(backup.NewEngine(baseDir, docDir, logging.NewNop()), memAdmin{store})
	service.now = fixedClock(1_750_000_000)
	return service, store
}

func TestAutoBackupTick(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled does nothing", func(t *testing.T) {
		service, _ := newBackupFixture(t)
		ran, err := service.AutoBackupTick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ran {
			t.Fatal("auto backup ran while disabled")
		}
	})

	t.Run("due backup runs and stamps the schedule", func(t *testing.T) {
		service, store := newBackupFixture(t)
		store.adminConfig.AutoBackupEnabled = true
		store.adminConfig.AutoBackupIntervalHours = 1
		store.adminConfig.AutoBackupLastTS = 1_750_000_000 - 7200

		ran, err := service.AutoBackupTick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ran {
			t.Fatal("due backup did not run")
		}
		if store.adminConfig.AutoBackupLastTS != 1_750_000_000 {
			t.Fatalf("last run not stamped: %d", store.adminConfig.AutoBackupLastTS)
		}

		backups, err := service.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(backups) != 1 {
			t.Fatalf("unexpected backup count: %d", len(backups))
		}

		// Immediately after, nothing is due.
		ran, err = service.AutoBackupTick(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ran {
			t.Fatal("backup ran before interval elapsed")
		}
	})
}
