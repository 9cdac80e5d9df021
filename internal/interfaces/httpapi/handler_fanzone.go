package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func (h *Handler) FanzoneVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FanzoneVotes")
	defer span.End()

	votes, err := h.fanzone.Votes(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, votes)
}

func (h *Handler) FanzoneWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FanzoneWinners")
	defer span.End()

	winners, err := h.fanzone.Winners(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, winners)
}

type fanzoneVoteRequest struct {
	Fixture string `json:"fixture" validate:"required"`
	Side    string `json:"side" validate:"required,oneof=home away draw"`
}

func (h *Handler) FanzoneVote(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FanzoneVote")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	var req fanzoneVoteRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.fanzone.Vote(ctx, req.Fixture, session.EffectiveUserID(), req.Side); err != nil {
		h.logger.WarnContext(ctx, "fan zone vote failed", "fixture", req.Fixture, "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}

type fanzoneWinnerRequest struct {
	Fixture string `json:"fixture" validate:"required"`
	Winner  string `json:"winner" validate:"required,oneof=home away draw clear"`
}

// DeclareFanzoneWinner records the result for a fixture. Declaring
// "clear" withdraws a previously declared result.
func (h *Handler) DeclareFanzoneWinner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclareFanzoneWinner")
	defer span.End()

	var req fanzoneWinnerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.fanzone.DeclareWinner(ctx, req.Fixture, req.Winner); err != nil {
		h.logger.WarnContext(ctx, "declare fan zone winner failed", "fixture", req.Fixture, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}
