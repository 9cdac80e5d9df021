package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/notify"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func (h *Handler) NotificationPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NotificationPreferences")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	pref, err := h.notifications.Preferences(ctx, session.EffectiveUserID())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, pref)
}

func (h *Handler) UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateNotificationPreferences")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	var pref notify.Preference
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&pref); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.notifications.UpdatePreferences(ctx, session.EffectiveUserID(), pref); err != nil {
		h.logger.WarnContext(ctx, "update preferences failed", "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, pref)
}

func (h *Handler) StageFeed(w http.ResponseWriter, r *http.Request) {
	h.userFeed(w, r, "httpapi.Handler.StageFeed", h.notifications.StageFeed)
}

func (h *Handler) BetFeed(w http.ResponseWriter, r *http.Request) {
	h.userFeed(w, r, "httpapi.Handler.BetFeed", h.notifications.BetFeed)
}

func (h *Handler) FanzoneFeed(w http.ResponseWriter, r *http.Request) {
	h.userFeed(w, r, "httpapi.Handler.FanzoneFeed", h.notifications.FanzoneFeed)
}

func (h *Handler) userFeed(w http.ResponseWriter, r *http.Request, spanName string, load func(ctx context.Context, userID string) ([]notify.Event, error)) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	events, err := load(ctx, session.EffectiveUserID())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"events": events})
}

// ClearFeed dismisses the caller's events in one feed.
func (h *Handler) ClearFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearFeed")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}

	channel := r.PathValue("channel")
	if err := h.notifications.ClearFeed(ctx, session.EffectiveUserID(), channel); err != nil {
		h.logger.WarnContext(ctx, "clear feed failed", "channel", channel, "user_id", session.EffectiveUserID(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, nil)
}
