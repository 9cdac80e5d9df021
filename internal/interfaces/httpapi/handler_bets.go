package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBets")
	defer span.End()

	bets, err := h.bets.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, bets)
}

type createBetRequest struct {
	Title     string `json:"bet_title" validate:"required"`
	Wager     string `json:"wager" validate:"required"`
	Option1   string `json:"option1" validate:"required"`
	Option2   string `json:"option2" validate:"required"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (h *Handler) CreateBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBet")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	var req createBetRequest
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

	created, err := h.bets.Create(ctx, usecase.CreateBetInput{
		Title:     req.Title,
		Wager:     req.Wager,
		Option1:   req.Option1,
		Option2:   req.Option2,
		CreatorID: session.EffectiveUserID(),
		Creator:   session.Username,
		ChannelID: req.ChannelID,
		MessageID: req.MessageID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create bet failed", "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, created)
}

func (h *Handler) ClaimBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimBet")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	betID := r.PathValue("betID")
	claimed, err := h.bets.Claim(ctx, betID, session.EffectiveUserID(), session.Username)
	if err != nil {
		h.logger.WarnContext(ctx, "claim bet failed", "bet_id", betID, "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, claimed)
}

type declareBetWinnerRequest struct {
	Winner string `json:"winner" validate:"required,oneof=option1 option2"`
}

func (h *Handler) DeclareBetWinner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclareBetWinner")
	defer span.End()

	var req declareBetWinnerRequest
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

	betID := r.PathValue("betID")
	settled, err := h.bets.DeclareWinner(ctx, betID, req.Winner)
	if err != nil {
		h.logger.WarnContext(ctx, "declare bet winner failed", "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, settled)
}

// CancelBet withdraws the caller's own unclaimed bet.
func (h *Handler) CancelBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelBet")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	betID := r.PathValue("betID")
	if err := h.bets.Cancel(ctx, betID, session.EffectiveUserID()); err != nil {
		h.logger.WarnContext(ctx, "cancel bet failed", "bet_id", betID, "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}
