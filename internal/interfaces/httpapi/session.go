package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/cache"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/id"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

const sessionCookieName = "panel_session"

// SessionManager keeps authenticated panel sessions in the TTL cache. A
// session disappearing mid-flight just forces a fresh login.
type SessionManager struct {
	store *cache.Store
	idgen id.Generator
}

func NewSessionManager(store *cache.Store, idgen id.Generator) *SessionManager {
	return &SessionManager{store: store, idgen: idgen}
}

func (m *SessionManager) Create(ctx context.Context, session Session) (string, error) {
	token, err := m.idgen.NewID()
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	session.Token = token
	m.store.Set(ctx, token, session)
	return token, nil
}

func (m *SessionManager) Get(ctx context.Context, token string) (Session, bool) {
	value, ok := m.store.Get(ctx, token)
	if !ok {
		return Session{}, false
	}
	session, ok := value.(Session)
	return session, ok
}

// Update rewrites an existing session in place, keyed by its token.
func (m *SessionManager) Update(ctx context.Context, session Session) error {
	if session.Token == "" {
		return fmt.Errorf("%w: session token is empty", usecase.ErrUnauthorized)
	}
	if _, ok := m.Get(ctx, session.Token); !ok {
		return fmt.Errorf("%w: session expired", usecase.ErrUnauthorized)
	}
	m.store.Set(ctx, session.Token, session)
	return nil
}

func (m *SessionManager) Destroy(ctx context.Context, token string) {
	m.store.Delete(ctx, token)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
