package worker

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

type fakeGateway struct {
	mu        sync.Mutex
	dms       map[string][]string
	announced map[string][]string
	roles     []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		dms:       map[string][]string{},
		announced: map[string][]string{},
	}
}

func (g *fakeGateway) SendDM(_ context.Context, userID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dms[userID] = append(g.dms[userID], content)
	return nil
}

func (g *fakeGateway) Announce(_ context.Context, channelID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.announced[channelID] = append(g.announced[channelID], content)
	return nil
}

func (g *fakeGateway) GrantRole(_ context.Context, _, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roles = append(g.roles, userID+":"+roleID)
	return nil
}

func (g *fakeGateway) dmRecipients() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.dms))
	for userID := range g.dms {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out
}

func newTestDispatcher(t *testing.T, gateway ChatGateway) *ChatDispatcher {
	t.Helper()
	dispatcher, err := NewChatDispatcher(ChatDispatcherConfig{
		Gateway:         gateway,
		GuildID:         "guild-1",
		VerifiedRoleID:  "role-verified",
		FallbackChannel: "chan-general",
		Logger:          logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}
	t.Cleanup(dispatcher.Close)
	return dispatcher
}

func TestHandleStageProgress_AnnouncesAndFansOut(t *testing.T) {
	gateway := newFakeGateway()
	dispatcher := newTestDispatcher(t, gateway)

	record := command.Record{
		Kind: command.KindTeamStageProgress,
		Data: map[string]any{
			"team":             "Brazil",
			"stage":            "Quarter-finals",
			"eliminated":       false,
			"owner_ids":        []any{"100", "200"},
			"announce_channel": "chan-stage",
		},
	}
	if err := dispatcher.Handle(context.Background(), record); err != nil {
		t.Fatalf("handle: %v", err)
	}

	posts := gateway.announced["chan-stage"]
	if len(posts) != 1 {
		t.Fatalf("expected one announcement, got=%d", len(posts))
	}
	if posts[0] != "Brazil have progressed to the Quarter-finals!" {
		t.Fatalf("unexpected announcement: %q", posts[0])
	}

	recipients := gateway.dmRecipients()
	if len(recipients) != 2 || recipients[0] != "100" || recipients[1] != "200" {
		t.Fatalf("expected dms to 100 and 200, got=%v", recipients)
	}
}

func TestHandleStageProgress_EliminationMessage(t *testing.T) {
	gateway := newFakeGateway()
	dispatcher := newTestDispatcher(t, gateway)

	record := command.Record{
		Kind: command.KindTeamStageProgress,
		Data: map[string]any{
			"team":       "Wales",
			"stage":      "",
			"eliminated": true,
			"owner_ids":  []any{"300"},
		},
	}
	if err := dispatcher.Handle(context.Background(), record); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// No announce_channel in the record, so the fallback channel is used.
	posts := gateway.announced["chan-general"]
	if len(posts) != 1 {
		t.Fatalf("expected fallback announcement, got=%v", gateway.announced)
	}
	dms := gateway.dms["300"]
	if len(dms) != 1 || dms[0] != "Wales have been knocked out of the World Cup." {
		t.Fatalf("unexpected dm: %v", dms)
	}
}

func TestHandleBetWinner_UsesRecordChannel(t *testing.T) {
	gateway := newFakeGateway()
	dispatcher := newTestDispatcher(t, gateway)

	record := command.Record{
		Kind: command.KindBetWinnerDeclared,
		Data: map[string]any{
			"bet_id":     "00042",
			"winner":     "option1",
			"channel_id": "chan-bets",
			"owner_ids":  []any{"100"},
		},
	}
	if err := dispatcher.Handle(context.Background(), record); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(gateway.announced["chan-bets"]) != 1 {
		t.Fatalf("expected bet announcement, got=%v", gateway.announced)
	}
	if len(gateway.dms["100"]) != 1 {
		t.Fatalf("expected bet dm, got=%v", gateway.dms)
	}
}

func TestHandleUserVerified_GrantsRoleAndDMs(t *testing.T) {
	gateway := newFakeGateway()
	dispatcher := newTestDispatcher(t, gateway)

	record := command.Record{
		Kind: command.KindUserVerified,
		Data: map[string]any{
			"discord_id": "555",
			"habbo_name": "habbofan99",
		},
	}
	if err := dispatcher.Handle(context.Background(), record); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(gateway.roles) != 1 || gateway.roles[0] != "555:role-verified" {
		t.Fatalf("expected role grant, got=%v", gateway.roles)
	}
	if len(gateway.dms["555"]) != 1 {
		t.Fatalf("expected welcome dm, got=%v", gateway.dms)
	}
}

func TestHandleSplitLifecycleMessages(t *testing.T) {
	gateway := newFakeGateway()
	dispatcher := newTestDispatcher(t, gateway)
	ctx := context.Background()

	requested := command.Record{
		Kind: command.KindSplitRequested,
		Data: map[string]any{"team": "France", "main_owner_id": "100", "requester_id": "200"},
	}
	accepted := command.Record{
		Kind: command.KindSplitAccept,
		Data: map[string]any{"team": "France", "main_owner_id": "100", "requester_id": "200"},
	}
	for _, record := range []command.Record{requested, accepted} {
		if err := dispatcher.Handle(ctx, record); err != nil {
			t.Fatalf("handle %s: %v", record.Kind, err)
		}
	}

	if len(gateway.dms["100"]) != 1 {
		t.Fatalf("expected one dm to the main owner, got=%v", gateway.dms["100"])
	}
	if len(gateway.dms["200"]) != 1 {
		t.Fatalf("expected one dm to the requester, got=%v", gateway.dms["200"])
	}
}

func TestHandleUnknownKind_IsNotFatal(t *testing.T) {
	gateway := newFakeGateway()
	dispatcher := newTestDispatcher(t, gateway)

	record := command.Record{Kind: "something_new", Data: map[string]any{}}
	if err := dispatcher.Handle(context.Background(), record); err != nil {
		t.Fatalf("unknown kinds must be skipped, got=%v", err)
	}
}
