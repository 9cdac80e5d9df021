package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/bet"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// CreateBetInput opens a new head-to-head bet with the creator on option1.
type CreateBetInput struct {
	Title     string
	Wager     string
	Option1   string
	Option2   string
	CreatorID string
	Creator   string
	ChannelID string
	MessageID string
}

// BetService manages the bet lifecycle: create, claim, settle.
type BetService struct {
	betRepo    bet.Repository
	notifyRepo notify.Repository
	queue      command.Enqueuer
	now        func() time.Time
}

func NewBetService(betRepo bet.Repository, notifyRepo notify.Repository, queue command.Enqueuer) *BetService {
	return &BetService{
		betRepo:    betRepo,
		notifyRepo: notifyRepo,
		queue:      queue,
		now:        time.Now,
	}
}

// List returns the full bet sequence.
func (s *BetService) List(ctx context.Context) ([]bet.Bet, error) {
	bets, err := s.betRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bets: %w", err)
	}
	return bets, nil
}

// Create appends a new open bet and returns it.
func (s *BetService) Create(ctx context.Context, input CreateBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "BetService.Create")
	defer span.End()

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.CreatorID) == "" {
		return bet.Bet{}, fmt.Errorf("%w: title and creator are required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Option1) == "" || strings.TrimSpace(input.Option2) == "" {
		return bet.Bet{}, fmt.Errorf("%w: both options are required", ErrInvalidInput)
	}

	bets, err := s.betRepo.List(ctx)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("load bets: %w", err)
	}

	created := bet.Bet{
		BetID:           bet.NextID(bets),
		MessageID:       flexid.ID(input.MessageID),
		Title:           strings.TrimSpace(input.Title),
		Wager:           strings.TrimSpace(input.Wager),
		Option1:         strings.TrimSpace(input.Option1),
		Option2:         strings.TrimSpace(input.Option2),
		Option1UserID:   flexid.ID(input.CreatorID),
		Option1UserName: input.Creator,
		ChannelID:       flexid.ID(input.ChannelID),
		Winner:          bet.WinnerNone,
	}
	bets = append(bets, created)
	if err := s.betRepo.Save(ctx, bets); err != nil {
		return bet.Bet{}, fmt.Errorf("save bets: %w", err)
	}
	return created, nil
}

// Claim puts userID on option2 of an open, unclaimed bet.
func (s *BetService) Claim(ctx context.Context, betID, userID, userName string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "BetService.Claim")
	defer span.End()

	bets, err := s.betRepo.List(ctx)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("load bets: %w", err)
	}

	index := findBet(bets, betID)
	if index < 0 {
		return bet.Bet{}, fmt.Errorf("%w: bet %q", ErrNotFound, betID)
	}
	target := bets[index]
	if target.Settled() {
		return bet.Bet{}, fmt.Errorf("%w: bet %q is settled", ErrPrecondition, betID)
	}
	if target.Claimed() {
		return bet.Bet{}, fmt.Errorf("%w: bet %q is already claimed", ErrPrecondition, betID)
	}
	if target.Option1UserID.String() == userID {
		return bet.Bet{}, fmt.Errorf("%w: cannot claim your own bet", ErrPrecondition)
	}

	target.Option2UserID = flexid.ID(userID)
	target.Option2UserName = userName
	bets[index] = target
	if err := s.betRepo.Save(ctx, bets); err != nil {
		return bet.Bet{}, fmt.Errorf("save bets: %w", err)
	}
	return target, nil
}

// Cancel removes an unclaimed bet. Only the creator can withdraw it, and
// only while nobody has taken the other side.
func (s *BetService) Cancel(ctx context.Context, betID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "BetService.Cancel")
	defer span.End()

	bets, err := s.betRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load bets: %w", err)
	}

	index := findBet(bets, betID)
	if index < 0 {
		return fmt.Errorf("%w: bet %q", ErrNotFound, betID)
	}
	target := bets[index]
	if target.Option1UserID.String() != userID {
		return fmt.Errorf("%w: only the creator can cancel bet %q", ErrUnauthorized, betID)
	}
	if target.Settled() {
		return fmt.Errorf("%w: bet %q is settled", ErrPrecondition, betID)
	}
	if target.Claimed() {
		return fmt.Errorf("%w: bet %q is already claimed", ErrPrecondition, betID)
	}

	bets = append(bets[:index], bets[index+1:]...)
	if err := s.betRepo.Save(ctx, bets); err != nil {
		return fmt.Errorf("save bets: %w", err)
	}
	return nil
}

// DeclareWinner settles a bet. Each participant gets a feed event with the
// deterministic id bet:<bet_id>:<uid>, so a replayed settlement cannot
// double-post.
func (s *BetService) DeclareWinner(ctx context.Context, betID, winner string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "BetService.DeclareWinner")
	defer span.End()

	if winner != bet.WinnerOption1 && winner != bet.WinnerOption2 {
		return bet.Bet{}, fmt.Errorf("%w: winner must be option1 or option2", ErrInvalidInput)
	}

	bets, err := s.betRepo.List(ctx)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("load bets: %w", err)
	}
	index := findBet(bets, betID)
	if index < 0 {
		return bet.Bet{}, fmt.Errorf("%w: bet %q", ErrNotFound, betID)
	}
	target := bets[index]
	if target.Settled() {
		return bet.Bet{}, fmt.Errorf("%w: bet %q is settled", ErrPrecondition, betID)
	}

	target.Winner = winner
	bets[index] = target
	if err := s.betRepo.Save(ctx, bets); err != nil {
		return bet.Bet{}, fmt.Errorf("save bets: %w", err)
	}

	if err := s.publishResults(ctx, target); err != nil {
		return bet.Bet{}, err
	}
	return target, nil
}

type betParticipant struct {
	userID string
	name   string
	result string
}

func (s *BetService) publishResults(ctx context.Context, settled bet.Bet) error {
	participants := make([]betParticipant, 0, 2)
	if !settled.Option1UserID.IsZero() {
		result := "lose"
		if settled.Winner == bet.WinnerOption1 {
			result = "win"
		}
		participants = append(participants, betParticipant{settled.Option1UserID.String(), settled.Option1UserName, result})
	}
	if !settled.Option2UserID.IsZero() {
		result := "lose"
		if settled.Winner == bet.WinnerOption2 {
			result = "win"
		}
		participants = append(participants, betParticipant{settled.Option2UserID.String(), settled.Option2UserName, result})
	}

	settings, err := s.notifyRepo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}
	feed, err := s.notifyRepo.BetResults(ctx)
	if err != nil {
		return fmt.Errorf("load bet results: %w", err)
	}

	winningOption := settled.Option1
	if settled.Winner == bet.WinnerOption2 {
		winningOption = settled.Option2
	}

	changed := false
	dmSet := make([]string, 0, len(participants))
	for _, participant := range participants {
		pref := settings.For(participant.userID)
		if !pref.Enabled(notify.CategoryBets) {
			continue
		}
		if pref.WantsBell() {
			if feed.Push(notify.Event{
				ID:        notify.BetEventID(settled.BetID, participant.userID),
				DiscordID: flexid.ID(participant.userID),
				Result:    participant.result,
				Title:     fmt.Sprintf("Bet %s settled", settled.BetID),
				Body:      fmt.Sprintf("%q went to %s.", settled.Title, winningOption),
				TS:        s.now().Unix(),
			}) {
				changed = true
			}
		}
		if pref.WantsDM() {
			dmSet = append(dmSet, participant.userID)
		}
	}
	if changed {
		if err := s.notifyRepo.SaveBetResults(ctx, feed); err != nil {
			return fmt.Errorf("save bet results: %w", err)
		}
	}

	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindBetWinnerDeclared, map[string]any{
		"bet_id":     settled.BetID,
		"winner":     settled.Winner,
		"channel_id": settled.ChannelID.String(),
		"owner_ids":  dmSet,
	})); err != nil {
		return fmt.Errorf("enqueue bet settlement: %w", err)
	}
	return nil
}

func findBet(bets []bet.Bet, betID string) int {
	for i := range bets {
		if bets[i].BetID == betID {
			return i
		}
	}
	return -1
}
