package notify

import (
	"fmt"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// Delivery channels. The empty string means both bell and DMs.
const (
	ChannelBoth = ""
	ChannelBell = "bell"
	ChannelDMs  = "dms"
)

// Notification categories.
const (
	CategorySplits  = "splits"
	CategoryMatches = "matches"
	CategoryBets    = "bets"
	CategoryStages  = "stages"
)

// FeedCap is the maximum number of events kept per feed. Older events
// fall off the end once the cap is reached.
const FeedCap = 500

// Categories toggles delivery per notification category.
type Categories struct {
	Splits  bool `json:"splits"`
	Matches bool `json:"matches"`
	Bets    bool `json:"bets"`
	Stages  bool `json:"stages"`
}

// Preference is one user's delivery configuration.
type Preference struct {
	Channel    string     `json:"channel"`
	Categories Categories `json:"categories"`
}

// DefaultPreference is applied to users with no stored preference:
// both channels, every category enabled.
func DefaultPreference() Preference {
	return Preference{
		Channel: ChannelBoth,
		Categories: Categories{
			Splits:  true,
			Matches: true,
			Bets:    true,
			Stages:  true,
		},
	}
}

// WantsBell reports whether bell-feed events should be written for this user.
func (p Preference) WantsBell() bool {
	return p.Channel == ChannelBoth || p.Channel == ChannelBell
}

// WantsDM reports whether direct messages should be sent to this user.
func (p Preference) WantsDM() bool {
	return p.Channel == ChannelBoth || p.Channel == ChannelDMs
}

// Enabled reports whether the named category is switched on.
func (p Preference) Enabled(category string) bool {
	switch category {
	case CategorySplits:
		return p.Categories.Splits
	case CategoryMatches:
		return p.Categories.Matches
	case CategoryBets:
		return p.Categories.Bets
	case CategoryStages:
		return p.Categories.Stages
	default:
		return false
	}
}

// Settings maps user ids to their stored preferences.
type Settings map[string]Preference

// For returns the preference for a user, falling back to the default
// when the user has never saved one.
func (s Settings) For(userID string) Preference {
	if s == nil {
		return DefaultPreference()
	}
	pref, ok := s[userID]
	if !ok {
		return DefaultPreference()
	}
	return pref
}

// Event is one entry in a notification feed. Result is set for bet and
// fan-zone outcomes, Stage for team progressions.
type Event struct {
	ID        string    `json:"id"`
	DiscordID flexid.ID `json:"discord_id"`
	Result    string    `json:"result,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TS        int64     `json:"ts"`
}

// Feed is a newest-first list of events capped at FeedCap.
type Feed struct {
	Events []Event `json:"events"`
}

// Has reports whether an event with the given id is already present.
func (f *Feed) Has(id string) bool {
	for i := range f.Events {
		if f.Events[i].ID == id {
			return true
		}
	}
	return false
}

// Push prepends the event unless one with the same id already exists,
// then trims to FeedCap. Returns false when the event was a duplicate.
func (f *Feed) Push(ev Event) bool {
	if f.Has(ev.ID) {
		return false
	}
	f.Events = append([]Event{ev}, f.Events...)
	if len(f.Events) > FeedCap {
		f.Events = f.Events[:FeedCap]
	}
	return true
}

// DropUser removes every event addressed to the given user and reports
// how many were removed.
func (f *Feed) DropUser(userID string) int {
	kept := f.Events[:0]
	removed := 0
	for _, ev := range f.Events {
		if ev.DiscordID.String() == userID {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	f.Events = kept
	return removed
}

// StageEventID builds the idempotency key for a stage progression event.
func StageEventID(team, stage, userID string) string {
	return fmt.Sprintf("stage:%s:%s:%s", team, stage, userID)
}

// BetEventID builds the idempotency key for a bet settlement event.
func BetEventID(betID, userID string) string {
	return fmt.Sprintf("bet:%s:%s", betID, userID)
}

// FanzoneEventID builds the idempotency key for a fan-zone result event.
func FanzoneEventID(fixture, userID string) string {
	return fmt.Sprintf("fanzone:%s:%s", fixture, userID)
}
