package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/roster"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/splitreq"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/team"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/id"
)

// OwnerRef pairs a user id with their display name for list rows.
type OwnerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamOwnershipRow is one row of the ownership listing: a team, its
// owners, and the per-owner dividend share.
type TeamOwnershipRow struct {
	Team      string     `json:"team"`
	ISO       string     `json:"iso,omitempty"`
	Stage     team.Stage `json:"stage,omitempty"`
	MainOwner OwnerRef   `json:"main_owner"`
	SplitWith []OwnerRef `json:"split_with"`
	Share     string     `json:"share"`
}

// OwnershipService implements random assignment, the split request
// lifecycle, and admin reassignment on top of the Players document.
type OwnershipService struct {
	rosterRepo roster.Repository
	teamRepo   team.Repository
	splitRepo  splitreq.Repository
	queue      command.Enqueuer
	idgen      id.Generator
	now        func() time.Time
	shuffle    func(n int, swap func(i, j int))
}

func NewOwnershipService(
	rosterRepo roster.Repository,
	teamRepo team.Repository,
	splitRepo splitreq.Repository,
	queue command.Enqueuer,
	idgen id.Generator,
) *OwnershipService {
	return &OwnershipService{
		rosterRepo: rosterRepo,
		teamRepo:   teamRepo,
		splitRepo:  splitRepo,
		queue:      queue,
		idgen:      idgen,
		now:        time.Now,
		shuffle:    rand.Shuffle,
	}
}

// Roster returns the raw Players document.
func (s *OwnershipService) Roster(ctx context.Context) (roster.Roster, error) {
	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return doc, nil
}

// List builds the ownership rows for every assigned team.
func (s *OwnershipService) List(ctx context.Context) ([]TeamOwnershipRow, error) {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.List")
	defer span.End()

	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	isoCodes, err := s.teamRepo.ISOCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load iso codes: %w", err)
	}
	stages, err := s.teamRepo.Stages(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}

	rows := make([]TeamOwnershipRow, 0, len(teams))
	for _, teamName := range teams {
		mainID, entry, ok := doc.CanonicalOwner(teamName)
		if !ok {
			continue
		}

		row := TeamOwnershipRow{
			Team:      teamName,
			ISO:       isoCodes[teamName],
			Stage:     stages[teamName],
			MainOwner: OwnerRef{ID: mainID, Name: doc[mainID].DisplayName},
			SplitWith: make([]OwnerRef, 0, len(entry.Ownership.SplitWith)),
		}
		for _, coOwner := range entry.Ownership.SplitWith {
			coID := coOwner.String()
			row.SplitWith = append(row.SplitWith, OwnerRef{ID: coID, Name: doc[coID].DisplayName})
		}
		row.Share = roster.ShareString(1 + len(row.SplitWith))
		rows = append(rows, row)
	}
	return rows, nil
}

// Randomise assigns a random free team to every pending entry in one
// atomic write. Pending users are walked in sorted order; only the team
// pool is shuffled, so assignment outcome depends only on the shuffle.
func (s *OwnershipService) Randomise(ctx context.Context) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.Randomise")
	defer span.End()

	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}

	assigned := doc.AssignedTeams()
	pool := make([]string, 0, len(teams))
	for _, teamName := range teams {
		if _, taken := assigned[teamName]; !taken {
			pool = append(pool, teamName)
		}
	}

	pendingTotal := doc.PendingCount()
	if pendingTotal == 0 {
		return doc, nil
	}
	if len(pool) < pendingTotal {
		return nil, fmt.Errorf("%w: %d pending, %d free", ErrNotEnoughTeams, pendingTotal, len(pool))
	}

	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	next := 0
	for _, userID := range doc.PendingUsers() {
		player := doc[userID]
		for i := range player.Teams {
			if !player.Teams[i].Pending {
				continue
			}
			player.Teams[i] = roster.TeamEntry{
				Team: pool[next],
				Ownership: &roster.Ownership{
					MainOwner: flexid.ID(userID),
					SplitWith: []flexid.ID{},
				},
			}
			next++
		}
		doc[userID] = player
	}

	if err := s.rosterRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save players: %w", err)
	}
	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindTeamsRandomised, map[string]any{
		"assigned": pendingTotal,
	})); err != nil {
		return nil, fmt.Errorf("enqueue randomise: %w", err)
	}
	return doc, nil
}

// RequestSplit opens a pending split request from requesterID for a team.
func (s *OwnershipService) RequestSplit(ctx context.Context, requesterID, teamName string) (string, splitreq.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.RequestSplit")
	defer span.End()

	requesterID = strings.TrimSpace(requesterID)
	teamName = strings.TrimSpace(teamName)
	if requesterID == "" || teamName == "" {
		return "", splitreq.Request{}, fmt.Errorf("%w: requester and team are required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return "", splitreq.Request{}, fmt.Errorf("load teams: %w", err)
	}
	if !contains(teams, teamName) {
		return "", splitreq.Request{}, fmt.Errorf("%w: team %q", ErrNotFound, teamName)
	}

	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return "", splitreq.Request{}, fmt.Errorf("load players: %w", err)
	}
	if doc.OwnedTeamCount(requesterID) == 0 {
		return "", splitreq.Request{}, fmt.Errorf("%w: requester holds no team", ErrPrecondition)
	}
	if doc.OwnsTeam(requesterID, teamName) {
		return "", splitreq.Request{}, fmt.Errorf("%w: requester already owns %q", ErrPrecondition, teamName)
	}
	mainID, _, ok := doc.CanonicalOwner(teamName)
	if !ok {
		return "", splitreq.Request{}, fmt.Errorf("%w: team %q has no owner", ErrPrecondition, teamName)
	}

	pending, err := s.splitRepo.Pending(ctx)
	if err != nil {
		return "", splitreq.Request{}, fmt.Errorf("load split requests: %w", err)
	}
	for _, request := range pending {
		if request.RequesterID.String() == requesterID && request.Team == teamName {
			return "", splitreq.Request{}, fmt.Errorf("%w: duplicate split request for %q", ErrPrecondition, teamName)
		}
	}

	requestID, err := s.idgen.NewID()
	if err != nil {
		return "", splitreq.Request{}, fmt.Errorf("generate request id: %w", err)
	}
	request := splitreq.Request{
		RequesterID: flexid.ID(requesterID),
		MainOwnerID: flexid.ID(mainID),
		Team:        teamName,
		ExpiresAt:   s.now().Unix() + splitreq.TTLSeconds,
	}
	pending[requestID] = request
	if err := s.splitRepo.SavePending(ctx, pending); err != nil {
		return "", splitreq.Request{}, fmt.Errorf("save split requests: %w", err)
	}

	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindSplitRequested, map[string]any{
		"request_id":    requestID,
		"team":          teamName,
		"main_owner_id": mainID,
		"requester_id":  requesterID,
	})); err != nil {
		return "", splitreq.Request{}, fmt.Errorf("enqueue split request: %w", err)
	}
	return requestID, request, nil
}

// AcceptSplit resolves a pending request: the canonical entry gains the
// requester as co-owner and the requester gains a mirror entry. Players is
// written before the request document; a crash in between is healed by
// replaying the logged command, which dedups on the split list.
func (s *OwnershipService) AcceptSplit(ctx context.Context, requestID, resolvedBy string) error {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.AcceptSplit")
	defer span.End()

	pending, err := s.splitRepo.Pending(ctx)
	if err != nil {
		return fmt.Errorf("load split requests: %w", err)
	}
	request, ok := pending[requestID]
	if !ok {
		return fmt.Errorf("%w: split request %q", ErrNotFound, requestID)
	}
	if resolvedBy != request.MainOwnerID.String() {
		return fmt.Errorf("%w: only the main owner can resolve", ErrUnauthorized)
	}

	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	mainID, canonical, ok := doc.CanonicalOwner(request.Team)
	if !ok || mainID != request.MainOwnerID.String() {
		return fmt.Errorf("%w: %q is no longer held by the request's owner", ErrPrecondition, request.Team)
	}

	requesterID := request.RequesterID.String()
	if !containsID(canonical.Ownership.SplitWith, requesterID) {
		mainPlayer := doc[mainID]
		for i := range mainPlayer.Teams {
			entry := &mainPlayer.Teams[i]
			if entry.Team == request.Team && entry.Ownership != nil && entry.Ownership.MainOwner.String() == mainID {
				entry.Ownership.SplitWith = append(entry.Ownership.SplitWith, flexid.ID(requesterID))
			}
		}
		doc[mainID] = mainPlayer
	}

	if !doc.OwnsTeam(requesterID, request.Team) {
		requester := doc[requesterID]
		requester.Teams = append(requester.Teams, roster.TeamEntry{
			Team: request.Team,
			Ownership: &roster.Ownership{
				MainOwner: flexid.ID(mainID),
				SplitWith: []flexid.ID{},
			},
			// The canonical entry's message id stays authoritative.
			PublicMessageID: canonical.PublicMessageID,
		})
		doc[requesterID] = requester
	}

	if err := s.rosterRepo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save players: %w", err)
	}

	delete(pending, requestID)
	if err := s.splitRepo.SavePending(ctx, pending); err != nil {
		return fmt.Errorf("save split requests: %w", err)
	}
	if err := s.splitRepo.AppendLog(ctx, splitreq.LogRecord{
		Timestamp:   s.now().Unix(),
		Status:      splitreq.StatusAccepted,
		RequestID:   requestID,
		Team:        request.Team,
		MainOwnerID: request.MainOwnerID,
		RequesterID: request.RequesterID,
		ResolvedBy:  flexid.ID(resolvedBy),
	}); err != nil {
		return fmt.Errorf("append split log: %w", err)
	}

	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindSplitAccept, map[string]any{
		"request_id":    requestID,
		"team":          request.Team,
		"main_owner_id": request.MainOwnerID.String(),
		"requester_id":  requesterID,
	})); err != nil {
		return fmt.Errorf("enqueue split accept: %w", err)
	}
	return nil
}

// DeclineSplit removes the pending request and records the outcome.
// Players is untouched.
func (s *OwnershipService) DeclineSplit(ctx context.Context, requestID, resolvedBy string) error {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.DeclineSplit")
	defer span.End()

	pending, err := s.splitRepo.Pending(ctx)
	if err != nil {
		return fmt.Errorf("load split requests: %w", err)
	}
	request, ok := pending[requestID]
	if !ok {
		return fmt.Errorf("%w: split request %q", ErrNotFound, requestID)
	}
	if resolvedBy != request.MainOwnerID.String() {
		return fmt.Errorf("%w: only the main owner can resolve", ErrUnauthorized)
	}

	delete(pending, requestID)
	if err := s.splitRepo.SavePending(ctx, pending); err != nil {
		return fmt.Errorf("save split requests: %w", err)
	}
	if err := s.splitRepo.AppendLog(ctx, splitreq.LogRecord{
		Timestamp:   s.now().Unix(),
		Status:      splitreq.StatusDeclined,
		RequestID:   requestID,
		Team:        request.Team,
		MainOwnerID: request.MainOwnerID,
		RequesterID: request.RequesterID,
		ResolvedBy:  flexid.ID(resolvedBy),
	}); err != nil {
		return fmt.Errorf("append split log: %w", err)
	}

	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindSplitDecline, map[string]any{
		"request_id":   requestID,
		"team":         request.Team,
		"requester_id": request.RequesterID.String(),
	})); err != nil {
		return fmt.Errorf("enqueue split decline: %w", err)
	}
	return nil
}

// SweepExpired moves every overdue pending request to the log. Returns
// the number of requests swept.
func (s *OwnershipService) SweepExpired(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.SweepExpired")
	defer span.End()

	pending, err := s.splitRepo.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("load split requests: %w", err)
	}

	now := s.now().Unix()
	expired := make([]string, 0)
	for requestID, request := range pending {
		if now > request.ExpiresAt {
			expired = append(expired, requestID)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	for _, requestID := range expired {
		request := pending[requestID]
		delete(pending, requestID)
		if err := s.splitRepo.AppendLog(ctx, splitreq.LogRecord{
			Timestamp:   now,
			Status:      splitreq.StatusExpired,
			RequestID:   requestID,
			Team:        request.Team,
			MainOwnerID: request.MainOwnerID,
			RequesterID: request.RequesterID,
		}); err != nil {
			return 0, fmt.Errorf("append split log: %w", err)
		}
	}
	if err := s.splitRepo.SavePending(ctx, pending); err != nil {
		return 0, fmt.Errorf("save split requests: %w", err)
	}
	return len(expired), nil
}

// History returns the split request resolution log.
func (s *OwnershipService) History(ctx context.Context) ([]splitreq.LogRecord, error) {
	log, err := s.splitRepo.Log(ctx)
	if err != nil {
		return nil, fmt.Errorf("load split log: %w", err)
	}
	return log, nil
}

// PendingSplits returns the open split requests keyed by request id.
func (s *OwnershipService) PendingSplits(ctx context.Context) (map[string]splitreq.Request, error) {
	pending, err := s.splitRepo.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("load split requests: %w", err)
	}
	return pending, nil
}

// Reassign resets a team's ownership entirely: every occurrence is
// removed, then the new owner gains a fresh canonical entry. Prior
// co-owner mirrors are not preserved.
func (s *OwnershipService) Reassign(ctx context.Context, teamName, newOwnerID, displayName string) error {
	ctx, span := startUsecaseSpan(ctx, "OwnershipService.Reassign")
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	newOwnerID = strings.TrimSpace(newOwnerID)
	if teamName == "" || newOwnerID == "" {
		return fmt.Errorf("%w: team and new owner are required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	if !contains(teams, teamName) {
		return fmt.Errorf("%w: team %q", ErrNotFound, teamName)
	}

	doc, err := s.rosterRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}

	doc.RemoveTeam(teamName)
	player := doc[newOwnerID]
	if displayName != "" {
		player.DisplayName = displayName
	}
	player.Teams = append(player.Teams, roster.TeamEntry{
		Team: teamName,
		Ownership: &roster.Ownership{
			MainOwner: flexid.ID(newOwnerID),
			SplitWith: []flexid.ID{},
		},
	})
	doc[newOwnerID] = player

	if err := s.rosterRepo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindOwnershipReassign, map[string]any{
		"team":         teamName,
		"new_owner_id": newOwnerID,
	})); err != nil {
		return fmt.Errorf("enqueue reassign: %w", err)
	}
	return nil
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func containsID(ids []flexid.ID, want string) bool {
	for _, item := range ids {
		if item.String() == want {
			return true
		}
	}
	return false
}
