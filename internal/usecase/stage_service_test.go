package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/roster"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/team"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

func newStageFixture() (*StageService, *memStore, *captureQueue) {
	store := newMemStore()
	queue := &captureQueue{}
	service := NewStageService(store, store, memNotify{store}, memAdmin{store}, queue)
	service.now = fixedClock(1_750_000_000)
	return service, store, queue
}

func TestSetStageFanOut(t *testing.T) {
	ctx := context.Background()
	service, store, queue := newStageFixture()

	store.teams = []string{"Argentina"}
	store.stages = map[string]team.Stage{"Argentina": team.StageGroup}
	store.roster = roster.Roster{
		"A": {DisplayName: "Alice", Teams: []roster.TeamEntry{{
			Team:      "Argentina",
			Ownership: &roster.Ownership{MainOwner: "A", SplitWith: []flexid.ID{}},
		}}},
	}

	if err := service.SetStage(ctx, "Argentina", team.StageQuarterFinals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.stages["Argentina"] != team.StageQuarterFinals {
		t.Fatalf("stage not written: %s", store.stages["Argentina"])
	}
	if len(store.stageFeed.Events) != 1 {
		t.Fatalf("unexpected feed size: %d", len(store.stageFeed.Events))
	}
	if got := store.stageFeed.Events[0].ID; got != "stage:Argentina:Quarter-finals:A" {
		t.Fatalf("unexpected event id: %s", got)
	}
	if len(queue.records) != 1 || queue.records[0].Kind != command.KindTeamStageProgress {
		t.Fatalf("unexpected queue: %v", queue.kinds())
	}
}

func TestSetStagePreferencePartition(t *testing.T) {
	ctx := context.Background()
	service, store, queue := newStageFixture()

	store.teams = []string{"Argentina"}
	store.stages = map[string]team.Stage{"Argentina": team.StageGroup}
	store.roster = roster.Roster{
		"A": {Teams: []roster.TeamEntry{{
			Team:      "Argentina",
			Ownership: &roster.Ownership{MainOwner: "A", SplitWith: []flexid.ID{"B"}},
		}}},
		"B": {Teams: []roster.TeamEntry{{
			Team:      "Argentina",
			Ownership: &roster.Ownership{MainOwner: "A", SplitWith: []flexid.ID{}},
		}}},
	}
	store.settings["B"] = notify.Preference{
		Channel:    notify.ChannelDMs,
		Categories: notify.DefaultPreference().Categories,
	}

	if err := service.SetStage(ctx, "Argentina", team.StageQuarterFinals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A (default prefs) gets a bell event; B (dms only) does not.
	if len(store.stageFeed.Events) != 1 || store.stageFeed.Events[0].DiscordID.String() != "A" {
		t.Fatalf("unexpected feed: %+v", store.stageFeed.Events)
	}
	// Both A and B are in the DM set.
	ownerIDs := queue.records[0].Strings("owner_ids")
	if len(ownerIDs) != 2 || ownerIDs[0] != "A" || ownerIDs[1] != "B" {
		t.Fatalf("unexpected dm set: %v", ownerIDs)
	}
}

func TestSetStageIdempotentRepost(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newStageFixture()

	store.teams = []string{"Argentina"}
	store.stages = map[string]team.Stage{"Argentina": team.StageGroup}
	store.roster = roster.Roster{
		"A": {Teams: []roster.TeamEntry{{
			Team:      "Argentina",
			Ownership: &roster.Ownership{MainOwner: "A", SplitWith: []flexid.ID{}},
		}}},
	}

	if err := service.SetStage(ctx, "Argentina", team.StageQuarterFinals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Re-post the same progression from a lower stage.
	store.stages["Argentina"] = team.StageGroup
	if err := service.SetStage(ctx, "Argentina", team.StageQuarterFinals); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.stageFeed.Events) != 1 {
		t.Fatalf("duplicate bell event: %+v", store.stageFeed.Events)
	}
}

func TestSetStageNoFanOutWithoutProgression(t *testing.T) {
	ctx := context.Background()
	service, store, queue := newStageFixture()

	store.teams = []string{"Argentina"}
	store.stages = map[string]team.Stage{"Argentina": team.StageQuarterFinals}
	store.roster = roster.Roster{
		"A": {Teams: []roster.TeamEntry{{
			Team:      "Argentina",
			Ownership: &roster.Ownership{MainOwner: "A", SplitWith: []flexid.ID{}},
		}}},
	}

	// Moving backwards writes the stage but stays quiet.
	if err := service.SetStage(ctx, "Argentina", team.StageGroup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stageFeed.Events) != 0 || len(queue.records) != 0 {
		t.Fatal("regression must not notify")
	}
}

func TestSetStageElimination(t *testing.T) {
	ctx := context.Background()
	service, store, queue := newStageFixture()

	store.teams = []string{"Argentina"}
	store.stages = map[string]team.Stage{"Argentina": team.StageRoundOf16}
	store.roster = roster.Roster{
		"A": {Teams: []roster.TeamEntry{{
			Team:      "Argentina",
			Ownership: &roster.Ownership{MainOwner: "A", SplitWith: []flexid.ID{}},
		}}},
	}

	if err := service.SetStage(ctx, "Argentina", team.StageEliminated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stageFeed.Events) != 1 {
		t.Fatalf("elimination should notify: %+v", store.stageFeed.Events)
	}
	if len(queue.records) != 1 {
		t.Fatalf("elimination should enqueue: %v", queue.kinds())
	}
}

func TestSetStageValidation(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newStageFixture()
	store.teams = []string{"Argentina"}

	if err := service.SetStage(ctx, "Argentina", team.Stage("Playoffs")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.SetStage(ctx, "Spain", team.StageFinal); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}
