package team

import "testing"

func TestStageRank(t *testing.T) {
	if got := Rank(StageEliminated); got != 0 {
		t.Fatalf("unexpected rank: got=%d want=0", got)
	}
	if got := Rank(StageWinner); got != len(StageOrder)-1 {
		t.Fatalf("unexpected rank: got=%d want=%d", got, len(StageOrder)-1)
	}
	if got := Rank(Stage("Playoffs")); got != -1 {
		t.Fatalf("unknown stage should rank -1, got=%d", got)
	}
}

func TestProgressed(t *testing.T) {
	t.Run("forward move counts", func(t *testing.T) {
		if !Progressed(StageGroup, StageQuarterFinals) {
			t.Fatal("expected progression")
		}
	})

	t.Run("same stage does not count", func(t *testing.T) {
		if Progressed(StageGroup, StageGroup) {
			t.Fatal("unexpected progression")
		}
	})

	t.Run("moving to eliminated does not count", func(t *testing.T) {
		if Progressed(StageGroup, StageEliminated) {
			t.Fatal("unexpected progression")
		}
	})

	t.Run("unknown previous stage does not count", func(t *testing.T) {
		if Progressed(Stage("Playoffs"), StageFinal) {
			t.Fatal("unexpected progression")
		}
	})
}

func TestEliminated(t *testing.T) {
	if !Eliminated(StageRoundOf16, StageEliminated) {
		t.Fatal("expected elimination")
	}
	if Eliminated(StageEliminated, StageEliminated) {
		t.Fatal("already-eliminated team should not re-trigger")
	}
}
