package usecase

import (
	"context"
	"fmt"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
)

// NotificationService exposes per-user preferences and the three event
// feeds the web UI renders.
type NotificationService struct {
	notifyRepo notify.Repository
}

func NewNotificationService(notifyRepo notify.Repository) *NotificationService {
	return &NotificationService{notifyRepo: notifyRepo}
}

// Preferences returns the user's stored preference or the default.
func (s *NotificationService) Preferences(ctx context.Context, userID string) (notify.Preference, error) {
	settings, err := s.notifyRepo.Settings(ctx)
	if err != nil {
		return notify.Preference{}, fmt.Errorf("load notification settings: %w", err)
	}
	return settings.For(userID), nil
}

// UpdatePreferences stores a user's delivery preference.
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, pref notify.Preference) error {
	ctx, span := startUsecaseSpan(ctx, "NotificationService.UpdatePreferences")
	defer span.End()

	if userID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	switch pref.Channel {
	case notify.ChannelBoth, notify.ChannelBell, notify.ChannelDMs:
	default:
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, pref.Channel)
	}

	settings, err := s.notifyRepo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}
	settings[userID] = pref
	if err := s.notifyRepo.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save notification settings: %w", err)
	}
	return nil
}

// userEvents filters a feed down to one user's entries, preserving the
// newest-first order.
func userEvents(feed notify.Feed, userID string) []notify.Event {
	out := make([]notify.Event, 0)
	for _, event := range feed.Events {
		if event.DiscordID.String() == userID {
			out = append(out, event)
		}
	}
	return out
}

// StageFeed returns the user's stage events.
func (s *NotificationService) StageFeed(ctx context.Context, userID string) ([]notify.Event, error) {
	feed, err := s.notifyRepo.StageNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stage notifications: %w", err)
	}
	return userEvents(feed, userID), nil
}

// BetFeed returns the user's bet result events.
func (s *NotificationService) BetFeed(ctx context.Context, userID string) ([]notify.Event, error) {
	feed, err := s.notifyRepo.BetResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bet results: %w", err)
	}
	return userEvents(feed, userID), nil
}

// FanzoneFeed returns the user's fan-zone result events.
func (s *NotificationService) FanzoneFeed(ctx context.Context, userID string) ([]notify.Event, error) {
	feed, err := s.notifyRepo.FanZoneResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fanzone results: %w", err)
	}
	return userEvents(feed, userID), nil
}

// Feed channel names accepted by ClearFeed.
const (
	FeedStages  = "stages"
	FeedBets    = "bets"
	FeedFanzone = "fanzone"
)

// ClearFeed removes the user's events from the named feed, the read side
// of dismissing bell notifications.
func (s *NotificationService) ClearFeed(ctx context.Context, userID, channel string) error {
	ctx, span := startUsecaseSpan(ctx, "NotificationService.ClearFeed")
	defer span.End()

	if userID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	switch channel {
	case FeedStages:
		feed, err := s.notifyRepo.StageNotifications(ctx)
		if err != nil {
			return fmt.Errorf("load stage notifications: %w", err)
		}
		if feed.DropUser(userID) == 0 {
			return nil
		}
		if err := s.notifyRepo.SaveStageNotifications(ctx, feed); err != nil {
			return fmt.Errorf("save stage notifications: %w", err)
		}
	case FeedBets:
		feed, err := s.notifyRepo.BetResults(ctx)
		if err != nil {
			return fmt.Errorf("load bet results: %w", err)
		}
		if feed.DropUser(userID) == 0 {
			return nil
		}
		if err := s.notifyRepo.SaveBetResults(ctx, feed); err != nil {
			return fmt.Errorf("save bet results: %w", err)
		}
	case FeedFanzone:
		feed, err := s.notifyRepo.FanZoneResults(ctx)
		if err != nil {
			return fmt.Errorf("load fanzone results: %w", err)
		}
		if feed.DropUser(userID) == 0 {
			return nil
		}
		if err := s.notifyRepo.SaveFanZoneResults(ctx, feed); err != nil {
			return fmt.Errorf("save fanzone results: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown feed %q", ErrInvalidInput, channel)
	}
	return nil
}
