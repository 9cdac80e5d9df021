package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/bet"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
)

func newBetFixture() (*BetService, *memStore, *captureQueue) {
	store := newMemStore()
	queue := &captureQueue{}
	service := NewBetService(memBets{store}, memNotify{store}, queue)
	service.now = fixedClock(1_750_000_000)
	return service, store, queue
}

func TestBetLifecycle(t *testing.T) {
	ctx := context.Background()
	service, store, queue := newBetFixture()

	created, err := service.Create(ctx, CreateBetInput{
		Title:     "Group winner",
		Wager:     "10c",
		Option1:   "Brazil",
		Option2:   "France",
		CreatorID: "A",
		Creator:   "Alice",
		ChannelID: "555",
	})
	require.NoError(t, err)
	require.Equal(t, "00001", created.BetID)
	require.False(t, created.Claimed())

	claimed, err := service.Claim(ctx, created.BetID, "B", "Bob")
	require.NoError(t, err)
	require.True(t, claimed.Claimed())

	settled, err := service.DeclareWinner(ctx, created.BetID, bet.WinnerOption1)
	require.NoError(t, err)
	require.True(t, settled.Settled())

	// One event per participant, win for A, lose for B.
	require.Len(t, store.betFeed.Events, 2)
	byID := map[string]string{}
	for _, event := range store.betFeed.Events {
		byID[event.ID] = event.Result
	}
	require.Equal(t, "win", byID["bet:00001:A"])
	require.Equal(t, "lose", byID["bet:00001:B"])

	require.Equal(t, []string{command.KindBetWinnerDeclared}, queue.kinds())
}

func TestBetIDsAreSequential(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newBetFixture()

	for _, want := range []string{"00001", "00002", "00003"} {
		created, err := service.Create(ctx, CreateBetInput{
			Title: "t", Wager: "w", Option1: "x", Option2: "y", CreatorID: "A",
		})
		require.NoError(t, err)
		require.Equal(t, want, created.BetID)
	}
}

func TestClaimPreconditions(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newBetFixture()

	created, err := service.Create(ctx, CreateBetInput{
		Title: "t", Wager: "w", Option1: "x", Option2: "y", CreatorID: "A",
	})
	require.NoError(t, err)

	t.Run("cannot claim own bet", func(t *testing.T) {
		_, err := service.Claim(ctx, created.BetID, "A", "Alice")
		require.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("cannot claim twice", func(t *testing.T) {
		_, err := service.Claim(ctx, created.BetID, "B", "Bob")
		require.NoError(t, err)
		_, err = service.Claim(ctx, created.BetID, "C", "Cara")
		require.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("unknown bet", func(t *testing.T) {
		_, err := service.Claim(ctx, "99999", "B", "Bob")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeclareWinnerPreconditions(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newBetFixture()

	created, err := service.Create(ctx, CreateBetInput{
		Title: "t", Wager: "w", Option1: "x", Option2: "y", CreatorID: "A",
	})
	require.NoError(t, err)

	_, err = service.DeclareWinner(ctx, created.BetID, "draw")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.DeclareWinner(ctx, created.BetID, bet.WinnerOption1)
	require.NoError(t, err)

	// Settled is terminal.
	_, err = service.DeclareWinner(ctx, created.BetID, bet.WinnerOption2)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestDeclareWinnerUnclaimedBet(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newBetFixture()

	created, err := service.Create(ctx, CreateBetInput{
		Title: "t", Wager: "w", Option1: "x", Option2: "y", CreatorID: "A",
	})
	require.NoError(t, err)

	_, err = service.DeclareWinner(ctx, created.BetID, bet.WinnerOption2)
	require.NoError(t, err)

	// Only the creator side exists, so only one event.
	require.Len(t, store.betFeed.Events, 1)
	require.Equal(t, "bet:00001:A", store.betFeed.Events[0].ID)
	require.Equal(t, "lose", store.betFeed.Events[0].Result)
}

func TestCancelBet(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newBetFixture()

	created, err := service.Create(ctx, CreateBetInput{
		Title: "t", Wager: "w", Option1: "x", Option2: "y", CreatorID: "A",
	})
	require.NoError(t, err)

	t.Run("only the creator can cancel", func(t *testing.T) {
		err := service.Cancel(ctx, created.BetID, "B")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("creator cancels an unclaimed bet", func(t *testing.T) {
		require.NoError(t, service.Cancel(ctx, created.BetID, "A"))

		bets, err := service.List(ctx)
		require.NoError(t, err)
		require.Empty(t, bets)
	})

	t.Run("claimed bets cannot be cancelled", func(t *testing.T) {
		claimed, err := service.Create(ctx, CreateBetInput{
			Title: "t", Wager: "w", Option1: "x", Option2: "y", CreatorID: "A",
		})
		require.NoError(t, err)
		_, err = service.Claim(ctx, claimed.BetID, "B", "Bob")
		require.NoError(t, err)

		err = service.Cancel(ctx, claimed.BetID, "A")
		require.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("unknown bet", func(t *testing.T) {
		err := service.Cancel(ctx, "99999", "A")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
