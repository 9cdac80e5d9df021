package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/fanzone"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// FanzoneService tracks per-fixture match votes and the admin's winner
// declarations.
type FanzoneService struct {
	fanRepo    fanzone.Repository
	notifyRepo notify.Repository
	queue      command.Enqueuer
	now        func() time.Time
}

func NewFanzoneService(fanRepo fanzone.Repository, notifyRepo notify.Repository, queue command.Enqueuer) *FanzoneService {
	return &FanzoneService{
		fanRepo:    fanRepo,
		notifyRepo: notifyRepo,
		queue:      queue,
		now:        time.Now,
	}
}

// Vote records a user's pick for a fixture, replacing any earlier pick.
func (s *FanzoneService) Vote(ctx context.Context, fixture, userID, side string) error {
	ctx, span := startUsecaseSpan(ctx, "FanzoneService.Vote")
	defer span.End()

	fixture = strings.TrimSpace(fixture)
	userID = strings.TrimSpace(userID)
	if fixture == "" || userID == "" {
		return fmt.Errorf("%w: fixture and user are required", ErrInvalidInput)
	}
	if side != fanzone.WinnerHome && side != fanzone.WinnerAway && side != fanzone.WinnerDraw {
		return fmt.Errorf("%w: vote must be home, away, or draw", ErrInvalidInput)
	}

	votes, err := s.fanRepo.Votes(ctx)
	if err != nil {
		return fmt.Errorf("load fan votes: %w", err)
	}
	votes.Cast(fixture, userID, side)
	if err := s.fanRepo.SaveVotes(ctx, votes); err != nil {
		return fmt.Errorf("save fan votes: %w", err)
	}
	return nil
}

// Votes returns the raw vote document.
func (s *FanzoneService) Votes(ctx context.Context) (fanzone.Votes, error) {
	votes, err := s.fanRepo.Votes(ctx)
	if err != nil {
		return fanzone.Votes{}, fmt.Errorf("load fan votes: %w", err)
	}
	return votes, nil
}

// Winners returns the declared results.
func (s *FanzoneService) Winners(ctx context.Context) (fanzone.Winners, error) {
	winners, err := s.fanRepo.Winners(ctx)
	if err != nil {
		return fanzone.Winners{}, fmt.Errorf("load fan winners: %w", err)
	}
	return winners, nil
}

// DeclareWinner records a fixture outcome, freezes the vote counts, and
// notifies voters. Declaring "clear" withdraws a previous result without
// producing events.
func (s *FanzoneService) DeclareWinner(ctx context.Context, fixture, winner string) error {
	ctx, span := startUsecaseSpan(ctx, "FanzoneService.DeclareWinner")
	defer span.End()

	fixture = strings.TrimSpace(fixture)
	if fixture == "" {
		return fmt.Errorf("%w: fixture is required", ErrInvalidInput)
	}
	if !fanzone.ValidWinner(winner) {
		return fmt.Errorf("%w: winner must be home, away, draw, or clear", ErrInvalidInput)
	}

	winners, err := s.fanRepo.Winners(ctx)
	if err != nil {
		return fmt.Errorf("load fan winners: %w", err)
	}

	if winner == fanzone.WinnerClear {
		winners.Clear(fixture)
		if err := s.fanRepo.SaveWinners(ctx, winners); err != nil {
			return fmt.Errorf("save fan winners: %w", err)
		}
		return s.enqueueResult(ctx, fixture, winner, nil)
	}

	votes, err := s.fanRepo.Votes(ctx)
	if err != nil {
		return fmt.Errorf("load fan votes: %w", err)
	}
	fixtureVotes := votes.Fixtures[fixture]
	home, away, draw := fixtureVotes.Counts()

	winners.Set(fixture, fanzone.Result{
		Winner:     winner,
		HomeVotes:  home,
		AwayVotes:  away,
		DrawVotes:  draw,
		DeclaredTS: s.now().Unix(),
	})
	if err := s.fanRepo.SaveWinners(ctx, winners); err != nil {
		return fmt.Errorf("save fan winners: %w", err)
	}

	settings, err := s.notifyRepo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}
	feed, err := s.notifyRepo.FanZoneResults(ctx)
	if err != nil {
		return fmt.Errorf("load fanzone results: %w", err)
	}

	changed := false
	dmSet := make([]string, 0, len(fixtureVotes))
	for _, voterID := range fixtureVotes.Voters() {
		pref := settings.For(voterID)
		if !pref.Enabled(notify.CategoryMatches) {
			continue
		}
		result := "lose"
		if fixtureVotes[voterID] == winner {
			result = "win"
		}
		if pref.WantsBell() {
			if feed.Push(notify.Event{
				ID:        notify.FanzoneEventID(fixture, voterID),
				DiscordID: flexid.ID(voterID),
				Result:    result,
				Title:     fmt.Sprintf("Result declared for %s", fixture),
				Body:      fmt.Sprintf("The match went to %s. Your pick: %s.", winner, fixtureVotes[voterID]),
				TS:        s.now().Unix(),
			}) {
				changed = true
			}
		}
		if pref.WantsDM() {
			dmSet = append(dmSet, voterID)
		}
	}
	if changed {
		if err := s.notifyRepo.SaveFanZoneResults(ctx, feed); err != nil {
			return fmt.Errorf("save fanzone results: %w", err)
		}
	}

	return s.enqueueResult(ctx, fixture, winner, dmSet)
}

func (s *FanzoneService) enqueueResult(ctx context.Context, fixture, winner string, dmSet []string) error {
	if dmSet == nil {
		dmSet = []string{}
	}
	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindFanzoneWinner, map[string]any{
		"fixture":   fixture,
		"winner":    winner,
		"owner_ids": dmSet,
	})); err != nil {
		return fmt.Errorf("enqueue fanzone result: %w", err)
	}
	return nil
}
