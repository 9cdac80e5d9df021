package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

// AdminRegistry answers whether a Discord id belongs to a panel admin.
type AdminRegistry struct {
	ids map[string]struct{}
}

func NewAdminRegistry(adminIDs []string) *AdminRegistry {
	ids := make(map[string]struct{}, len(adminIDs))
	for _, adminID := range adminIDs {
		adminID = strings.TrimSpace(adminID)
		if adminID != "" {
			ids[adminID] = struct{}{}
		}
	}
	return &AdminRegistry{ids: ids}
}

func (r *AdminRegistry) IsAdmin(discordID string) bool {
	_, ok := r.ids[discordID]
	return ok
}

// MaintenanceChecker reports whether the panel is in maintenance mode.
type MaintenanceChecker interface {
	MaintenanceActive(ctx context.Context) (bool, error)
}

func RequireSession(sessions *SessionManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireSession")
		defer span.End()

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
			return
		}

		session, ok := sessions.Get(ctx, strings.TrimSpace(cookie.Value))
		if !ok {
			clearSessionCookie(w)
			writeError(ctx, w, fmt.Errorf("%w: session expired", usecase.ErrUnauthorized))
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(ctx, session)))
	})
}

// RequireAdmin gates a route on the real session identity, never the
// masqueraded one.
func RequireAdmin(admins *AdminRegistry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireAdmin")
		defer span.End()

		session, ok := sessionFromContext(ctx)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: missing session", usecase.ErrUnauthorized))
			return
		}
		if !admins.IsAdmin(session.DiscordID) {
			writeError(ctx, w, fmt.Errorf("%w: admin access required", usecase.ErrUnauthorized))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MaintenanceGuard refuses non-admin mutations while maintenance mode is on.
func MaintenanceGuard(checker MaintenanceChecker, admins *AdminRegistry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.MaintenanceGuard")
		defer span.End()

		if session, ok := sessionFromContext(ctx); ok && admins.IsAdmin(session.DiscordID) {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		active, err := checker.MaintenanceActive(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if active {
			writeError(ctx, w, fmt.Errorf("%w: panel is in maintenance mode", usecase.ErrPrecondition))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		started := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		spanContext := trace.SpanContextFromContext(ctx)
		traceID := ""
		spanID := ""
		if spanContext.IsValid() {
			traceID = spanContext.TraceID().String()
			spanID = spanContext.SpanID().String()
		}

		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
			"trace_id", traceID,
			"span_id", spanID,
		)
	})
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "worldcup-sweepstake-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch normalized {
	case "/healthz", "/health", "/livez", "/readyz":
		return false
	default:
		return true
	}
}

func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		candidate := strings.TrimSpace(origin)
		if candidate == "" {
			continue
		}
		if candidate == "*" {
			allowAll = true
			continue
		}
		allowMap[candidate] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.CORS")
		defer span.End()

		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		allowed := allowAll
		if !allowed {
			_, allowed = allowMap[origin]
		}
		if allowed {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,Accept")
			w.Header().Set("Access-Control-Max-Age", "600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
