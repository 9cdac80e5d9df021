package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

func seedStore(t *testing.T) (baseDir, docDir string) {
	t.Helper()
	baseDir = t.TempDir()
	docDir = filepath.Join(baseDir, "JSON")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(docDir, "players.json"), []byte(`{"100":{"display_name":"Alice","teams":[]}}`), 0o644); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return baseDir, docDir
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	baseDir, docDir := seedStore(t)
	engine := NewEngine(baseDir, docDir, logging.NewNop())

	now := time.Date(2026, time.June, 14, 18, 30, 0, 0, time.UTC)
	name, err := engine.Create(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "14-06_18-30-00.zip" {
		t.Fatalf("unexpected backup name: %s", name)
	}

	// Same second again: collision suffix instead of overwrite.
	second, err := engine.Create(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != "14-06_18-30-00_01.zip" {
		t.Fatalf("unexpected collision name: %s", second)
	}

	backups, err := engine.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("unexpected backup count: %d", len(backups))
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	baseDir, docDir := seedStore(t)
	engine := NewEngine(baseDir, docDir, logging.NewNop())

	name, err := engine.Create(ctx, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Wreck the live document, then restore.
	playersPath := filepath.Join(docDir, "players.json")
	if err := os.WriteFile(playersPath, []byte("{}"), 0o644); err != nil {
		t.Fatalf("overwrite document: %v", err)
	}
	if err := engine.Restore(ctx, name); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(playersPath)
	if err != nil {
		t.Fatalf("read restored document: %v", err)
	}
	if !strings.Contains(string(raw), "Alice") {
		t.Fatalf("document not restored: %s", raw)
	}
}

func TestRestoreRejectsBadName(t *testing.T) {
	ctx := context.Background()
	baseDir, docDir := seedStore(t)
	engine := NewEngine(baseDir, docDir, logging.NewNop())

	for _, name := range []string{"", "../evil.zip", "notes.txt", "missing.zip"} {
		if err := engine.Restore(ctx, name); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
}

func TestRetention(t *testing.T) {
	ctx := context.Background()
	baseDir, docDir := seedStore(t)
	engine := NewEngine(baseDir, docDir, logging.NewNop())

	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxBackups+3; i++ {
		if _, err := engine.Create(ctx, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	backups, err := engine.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) > MaxBackups {
		t.Fatalf("retention not enforced: %d backups", len(backups))
	}
}
