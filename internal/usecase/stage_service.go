package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/admin"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/roster"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/team"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
)

// StageService applies stage updates and fans the change out to owners:
// bell events into the StageNotifications feed, DM requests onto the
// queue for the chat worker.
type StageService struct {
	teamRepo   team.Repository
	rosterRepo roster.Repository
	notifyRepo notify.Repository
	adminRepo  admin.Repository
	queue      command.Enqueuer
	now        func() time.Time
}

func NewStageService(
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	notifyRepo notify.Repository,
	adminRepo admin.Repository,
	queue command.Enqueuer,
) *StageService {
	return &StageService{
		teamRepo:   teamRepo,
		rosterRepo: rosterRepo,
		notifyRepo: notifyRepo,
		adminRepo:  adminRepo,
		queue:      queue,
		now:        time.Now,
	}
}

// StageMap returns the current team -> stage document.
func (s *StageService) StageMap(ctx context.Context) (map[string]team.Stage, error) {
	stages, err := s.teamRepo.Stages(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	return stages, nil
}

// SetStage writes the new stage and, when the move is a progression or an
// elimination, notifies the team's owners per their preferences.
func (s *StageService) SetStage(ctx context.Context, teamName string, newStage team.Stage) error {
	ctx, span := startUsecaseSpan(ctx, "StageService.SetStage")
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	if !team.Known(newStage) {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, newStage)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	if !contains(teams, teamName) {
		return fmt.Errorf("%w: team %q", ErrNotFound, teamName)
	}

	stages, err := s.teamRepo.Stages(ctx)
	if err != nil {
		return fmt.Errorf("load stages: %w", err)
	}
	previous := stages[teamName]
	stages[teamName] = newStage
	if err := s.teamRepo.SaveStages(ctx, stages); err != nil {
		return fmt.Errorf("save stages: %w", err)
	}

	progressed := team.Progressed(previous, newStage)
	eliminated := team.Eliminated(previous, newStage)
	if !progressed && !eliminated {
		return nil
	}
	return s.fanOut(ctx, teamName, previous, newStage, eliminated)
}

func (s *StageService) fanOut(ctx context.Context, teamName string, previous, newStage team.Stage, eliminated bool) error {
	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	owners := doc.Owners(teamName)
	if len(owners) == 0 {
		return nil
	}

	settings, err := s.notifyRepo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}

	title := fmt.Sprintf("%s reached the %s", teamName, newStage)
	if eliminated {
		title = fmt.Sprintf("%s has been eliminated", teamName)
	}
	body := fmt.Sprintf("Your team %s moved from %s to %s.", teamName, stageLabel(previous), newStage)

	feed, err := s.notifyRepo.StageNotifications(ctx)
	if err != nil {
		return fmt.Errorf("load stage notifications: %w", err)
	}

	changed := false
	dmSet := make([]string, 0, len(owners))
	for _, ownerID := range owners {
		pref := settings.For(ownerID)
		if !pref.Enabled(notify.CategoryStages) {
			continue
		}
		if pref.WantsBell() {
			if feed.Push(notify.Event{
				ID:        notify.StageEventID(teamName, string(newStage), ownerID),
				DiscordID: flexid.ID(ownerID),
				Stage:     string(newStage),
				Title:     title,
				Body:      body,
				TS:        s.now().Unix(),
			}) {
				changed = true
			}
		}
		if pref.WantsDM() {
			dmSet = append(dmSet, ownerID)
		}
	}

	if changed {
		if err := s.notifyRepo.SaveStageNotifications(ctx, feed); err != nil {
			return fmt.Errorf("save stage notifications: %w", err)
		}
	}

	adminSettings, err := s.adminRepo.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load admin settings: %w", err)
	}
	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindTeamStageProgress, map[string]any{
		"team":             teamName,
		"stage":            string(newStage),
		"previous":         string(previous),
		"eliminated":       eliminated,
		"owner_ids":        dmSet,
		"announce_channel": adminSettings.StageAnnounceChannel,
	})); err != nil {
		return fmt.Errorf("enqueue stage progress: %w", err)
	}
	return nil
}

func stageLabel(stage team.Stage) string {
	if stage == "" {
		return "unranked"
	}
	return string(stage)
}
