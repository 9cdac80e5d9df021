package httpapi

import "context"

// Session is the authenticated panel user, resolved from the session cookie.
// MasqueradeID, when set by an admin, substitutes the user every per-user
// read acts on. Admin checks always use the real DiscordID.
type Session struct {
	Token        string `json:"-"`
	DiscordID    string `json:"discord_id"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	MasqueradeID string `json:"masquerade_id,omitempty"`
}

// EffectiveUserID is the identity per-user reads act on.
func (s Session) EffectiveUserID() string {
	if s.MasqueradeID != "" {
		return s.MasqueradeID
	}
	return s.DiscordID
}

type contextKey string

const sessionContextKey contextKey = "panel_session"

func withSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func sessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}
