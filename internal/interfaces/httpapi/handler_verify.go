package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

type verifyRequest struct {
	HabboName string `json:"habbo_name" validate:"required"`
}

// Verify runs one step of the motto challenge for the session user: issue a
// code on the first call, then check the motto on subsequent ones.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Verify")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	var req verifyRequest
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

	outcome, err := h.verification.Verify(ctx, usecase.VerifyInput{
		DiscordID:   session.EffectiveUserID(),
		HabboName:   req.HabboName,
		DisplayName: session.Username,
		Avatar:      session.Avatar,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "verification failed", "user_id", session.EffectiveUserID(), "habbo", req.HabboName, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, outcome)
}

func (h *Handler) VerifiedUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifiedUsers")
	defer span.End()

	registry, err := h.verification.VerifiedUsers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, registry)
}
