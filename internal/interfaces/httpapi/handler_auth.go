package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

const loginStateCookieName = "panel_login_state"

func (h *Handler) LoginRedirect(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoginRedirect")
	defer span.End()

	if h.login == nil || !h.login.Configured() {
		writeError(ctx, w, fmt.Errorf("%w: login is not configured", usecase.ErrExternalUnavailable))
		return
	}

	state, err := h.sessions.idgen.NewID()
	if err != nil {
		h.logger.ErrorContext(ctx, "issue login state failed", "error", err)
		writeInternalError(ctx, w)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     loginStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.login.AuthorizeURL(state), http.StatusTemporaryRedirect)
}

func (h *Handler) LoginCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoginCallback")
	defer span.End()

	stateCookie, err := r.Cookie(loginStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		writeError(ctx, w, fmt.Errorf("%w: login state mismatch", usecase.ErrUnauthorized))
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	session, err := h.login.Login(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	token, err := h.sessions.Create(ctx, session)
	if err != nil {
		h.logger.ErrorContext(ctx, "create session failed", "error", err)
		writeInternalError(ctx, w)
		return
	}
	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		h.sessions.Destroy(ctx, cookie.Value)
	}
	clearSessionCookie(w)
	writeSuccess(ctx, w, http.StatusOK, nil)
}

// Me returns the session identity, including any active masquerade.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"discord_id":    session.DiscordID,
		"username":      session.Username,
		"avatar":        session.Avatar,
		"is_admin":      h.admins.IsAdmin(session.DiscordID),
		"masquerade_id": session.MasqueradeID,
	})
}
