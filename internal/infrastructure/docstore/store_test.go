package docstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/bet"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/roster"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), logging.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store
}

func TestLenientReads(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("missing file yields zero value", func(t *testing.T) {
		doc, err := NewRosterRepository(store).Load(ctx)
		if err != nil {
			t.Fatalf("readers must not fail: %v", err)
		}
		if doc == nil || len(doc) != 0 {
			t.Fatalf("expected empty roster, got %v", doc)
		}
	})

	t.Run("corrupt file yields zero value", func(t *testing.T) {
		path := filepath.Join(store.DocDir(), fileBets)
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("seed corrupt file: %v", err)
		}

		bets, err := NewBetRepository(store).List(ctx)
		if err != nil {
			t.Fatalf("readers must not fail: %v", err)
		}
		if len(bets) != 0 {
			t.Fatalf("expected empty bet list, got %d entries", len(bets))
		}
	})
}

func TestWriteThenRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewRosterRepository(store)

	doc := roster.Roster{
		"100": {
			DisplayName: "Alice",
			Teams: []roster.TeamEntry{
				{Team: "Brazil", Ownership: &roster.Ownership{MainOwner: flexid.ID("100")}},
			},
		},
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["100"].DisplayName != "Alice" || got["100"].Teams[0].Team != "Brazil" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// No tmp file may survive a completed write.
	if _, err := os.Stat(filepath.Join(store.DocDir(), filePlayers+".tmp")); !os.IsNotExist(err) {
		t.Fatal("tmp file left behind after write")
	}
}

func TestNumericIDsNormalizedOnRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Mixed-source files store snowflake ids as bare numbers; readers must
	// see canonical strings.
	raw := `[{"bet_id":"00042","message_id":123456789012345678,"bet_title":"Final","wager":"10c",` +
		`"option1":"Brazil","option2":"France","option1_user_id":100,"option1_user_name":"Alice",` +
		`"channel_id":"987","winner":""}]`
	if err := os.WriteFile(filepath.Join(store.DocDir(), fileBets), []byte(raw), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	bets, err := NewBetRepository(store).List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected one bet, got %d", len(bets))
	}
	if got := bets[0].MessageID.String(); got != "123456789012345678" {
		t.Fatalf("message_id not normalized: %s", got)
	}
	if got := bets[0].Option1UserID.String(); got != "100" {
		t.Fatalf("option1_user_id not normalized: %s", got)
	}
}

func TestSaveIsAtomicReplace(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewBetRepository(store)

	first := []bet.Bet{{BetID: "00001", Title: "Opener"}}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := []bet.Bet{{BetID: "00001", Title: "Opener"}, {BetID: "00002", Title: "Final"}}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].BetID != "00002" {
		t.Fatalf("replace lost data: %+v", got)
	}
}
