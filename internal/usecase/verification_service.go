package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/verify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/flexid"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/id"
)

// ProfileLookup fetches a public profile's motto text from the identity
// provider. Transient failures must come back wrapped in
// ErrExternalUnavailable so callers know a retry is worthwhile.
type ProfileLookup interface {
	Motto(ctx context.Context, name string) (string, error)
}

// VerifyInput carries the caller's session identity into a verification
// attempt.
type VerifyInput struct {
	DiscordID   string
	HabboName   string
	DisplayName string
	Avatar      string
}

// VerifyOutcome reports where the attempt landed: a fresh challenge, a
// failed motto check, or a completed promotion.
type VerifyOutcome struct {
	Code     string `json:"code,omitempty"`
	Promoted bool   `json:"promoted"`
	Checked  bool   `json:"checked"`
}

// VerificationService runs the two-step challenge/response flow linking a
// chat identity to a Habbo name.
type VerificationService struct {
	verifyRepo verify.Repository
	profiles   ProfileLookup
	queue      command.Enqueuer
	idgen      id.Generator
	now        func() time.Time
}

func NewVerificationService(
	verifyRepo verify.Repository,
	profiles ProfileLookup,
	queue command.Enqueuer,
	idgen id.Generator,
) *VerificationService {
	return &VerificationService{
		verifyRepo: verifyRepo,
		profiles:   profiles,
		queue:      queue,
		idgen:      idgen,
		now:        time.Now,
	}
}

// Verify either opens a challenge, re-checks an open one against the
// profile motto, or reports the terminal states.
func (s *VerificationService) Verify(ctx context.Context, input VerifyInput) (VerifyOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "VerificationService.Verify")
	defer span.End()

	discordID := strings.TrimSpace(input.DiscordID)
	habboName := strings.TrimSpace(input.HabboName)
	if discordID == "" || habboName == "" {
		return VerifyOutcome{}, fmt.Errorf("%w: user and habbo name are required", ErrInvalidInput)
	}

	registry, err := s.verifyRepo.Verified(ctx)
	if err != nil {
		return VerifyOutcome{}, fmt.Errorf("load verified users: %w", err)
	}
	codes, err := s.verifyRepo.Codes(ctx)
	if err != nil {
		return VerifyOutcome{}, fmt.Errorf("load verification codes: %w", err)
	}

	if registry.Contains(discordID) {
		// A promotion interrupted between the registry and code writes
		// leaves the user in both documents. Finish the removal here so
		// a verified user never keeps an open challenge.
		if _, open := codes.Pending(discordID); open {
			codes.Remove(discordID)
			if err := s.verifyRepo.SaveCodes(ctx, codes); err != nil {
				return VerifyOutcome{}, fmt.Errorf("save verification codes: %w", err)
			}
		}
		return VerifyOutcome{}, fmt.Errorf("%w: %s", ErrAlreadyVerified, discordID)
	}

	pending, open := codes.Pending(discordID)
	if !open {
		code, err := s.idgen.NewCode(verify.CodeLength)
		if err != nil {
			return VerifyOutcome{}, fmt.Errorf("generate code: %w", err)
		}
		codes.Set(discordID, verify.PendingCode{
			Code:      code,
			Habbo:     habboName,
			Timestamp: s.now().Unix(),
		})
		if err := s.verifyRepo.SaveCodes(ctx, codes); err != nil {
			return VerifyOutcome{}, fmt.Errorf("save verification codes: %w", err)
		}
		return VerifyOutcome{Code: code}, nil
	}

	// An open attempt is pinned to the name it started with.
	if !strings.EqualFold(pending.Habbo, habboName) {
		return VerifyOutcome{}, fmt.Errorf("%w: attempt is for %q", ErrNameMismatch, pending.Habbo)
	}

	motto, err := s.profiles.Motto(ctx, pending.Habbo)
	if err != nil {
		return VerifyOutcome{}, fmt.Errorf("fetch profile: %w", err)
	}
	if !strings.Contains(strings.ToUpper(motto), strings.ToUpper(pending.Code)) {
		return VerifyOutcome{Code: pending.Code, Checked: true}, nil
	}

	registry.VerifiedUsers = append(registry.VerifiedUsers, verify.User{
		DiscordID:   flexid.ID(discordID),
		HabboName:   pending.Habbo,
		DisplayName: input.DisplayName,
		Avatar:      input.Avatar,
	})
	if err := s.verifyRepo.SaveVerified(ctx, registry); err != nil {
		return VerifyOutcome{}, fmt.Errorf("save verified users: %w", err)
	}
	codes.Remove(discordID)
	if err := s.verifyRepo.SaveCodes(ctx, codes); err != nil {
		return VerifyOutcome{}, fmt.Errorf("save verification codes: %w", err)
	}

	if err := s.queue.Enqueue(ctx, command.New(s.now(), command.KindUserVerified, map[string]any{
		"discord_id": discordID,
		"habbo_name": pending.Habbo,
	})); err != nil {
		return VerifyOutcome{}, fmt.Errorf("enqueue verification: %w", err)
	}
	return VerifyOutcome{Promoted: true, Checked: true}, nil
}

// VerifiedUsers returns the registry for read surfaces.
func (s *VerificationService) VerifiedUsers(ctx context.Context) (verify.Registry, error) {
	registry, err := s.verifyRepo.Verified(ctx)
	if err != nil {
		return verify.Registry{}, fmt.Errorf("load verified users: %w", err)
	}
	return registry, nil
}
