package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
)

func TestPreferencesDefaultAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := NewNotificationService(memNotify{store})

	pref, err := service.Preferences(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, notify.DefaultPreference(), pref)

	update := notify.Preference{
		Channel:    notify.ChannelBell,
		Categories: notify.Categories{Bets: true},
	}
	require.NoError(t, service.UpdatePreferences(ctx, "A", update))

	pref, err = service.Preferences(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, update, pref)

	err = service.UpdatePreferences(ctx, "A", notify.Preference{Channel: "pigeon"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeedsAreScopedPerUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := NewNotificationService(memNotify{store})

	store.stageFeed.Push(notify.Event{ID: "stage:Brazil:sf:A", DiscordID: "A", Title: "Brazil"})
	store.stageFeed.Push(notify.Event{ID: "stage:Brazil:sf:B", DiscordID: "B", Title: "Brazil"})

	events, err := service.StageFeed(ctx, "A")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "stage:Brazil:sf:A", events[0].ID)
}

func TestClearFeed(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := NewNotificationService(memNotify{store})

	store.betFeed.Push(notify.Event{ID: "bet:00001:A", DiscordID: "A"})
	store.betFeed.Push(notify.Event{ID: "bet:00001:B", DiscordID: "B"})

	require.NoError(t, service.ClearFeed(ctx, "A", FeedBets))

	events, err := service.BetFeed(ctx, "A")
	require.NoError(t, err)
	require.Empty(t, events)

	// The other participant's events survive.
	events, err = service.BetFeed(ctx, "B")
	require.NoError(t, err)
	require.Len(t, events, 1)

	t.Run("unknown feed", func(t *testing.T) {
		require.ErrorIs(t, service.ClearFeed(ctx, "A", "everything"), ErrInvalidInput)
	})

	t.Run("missing user", func(t *testing.T) {
		require.ErrorIs(t, service.ClearFeed(ctx, "", FeedBets), ErrInvalidInput)
	})
}
