package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func (h *Handler) ListOwnership(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOwnership")
	defer span.End()

	rows, err := h.ownership.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list ownership failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) RandomiseTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RandomiseTeams")
	defer span.End()

	doc, err := h.ownership.Randomise(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "randomise failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, doc)
}

type requestSplitRequest struct {
	Team string `json:"team" validate:"required"`
}

func (h *Handler) RequestSplit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestSplit")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	var req requestSplitRequest
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

	requestID, request, err := h.ownership.RequestSplit(ctx, session.EffectiveUserID(), req.Team)
	if err != nil {
		h.logger.WarnContext(ctx, "split request failed", "user_id", session.EffectiveUserID(), "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"request_id": requestID,
		"request":    request,
	})
}

func (h *Handler) AcceptSplit(w http.ResponseWriter, r *http.Request) {
	h.resolveSplit(w, r, "httpapi.Handler.AcceptSplit", h.ownership.AcceptSplit)
}

func (h *Handler) DeclineSplit(w http.ResponseWriter, r *http.Request) {
	h.resolveSplit(w, r, "httpapi.Handler.DeclineSplit", h.ownership.DeclineSplit)
}

func (h *Handler) resolveSplit(w http.ResponseWriter, r *http.Request, spanName string, resolve func(ctx context.Context, requestID, resolvedBy string) error) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")
	if requestID == "" {
		writeError(ctx, w, fmt.Errorf("%w: request id is required", usecase.ErrInvalidInput))
		return
	}

	if err := resolve(ctx, requestID, session.EffectiveUserID()); err != nil {
		h.logger.WarnContext(ctx, "split resolution failed", "request_id", requestID, "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}

func (h *Handler) PendingSplits(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PendingSplits")
	defer span.End()

	pending, err := h.ownership.PendingSplits(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, pending)
}

func (h *Handler) SplitHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SplitHistory")
	defer span.End()

	history, err := h.ownership.History(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, history)
}

type reassignRequest struct {
	Team        string `json:"team" validate:"required"`
	NewOwnerID  string `json:"new_owner_id" validate:"required"`
	DisplayName string `json:"display_name"`
}

func (h *Handler) ReassignTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReassignTeam")
	defer span.End()

	var req reassignRequest
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

	if err := h.ownership.Reassign(ctx, req.Team, req.NewOwnerID, req.DisplayName); err != nil {
		h.logger.WarnContext(ctx, "reassign failed", "team", req.Team, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}
