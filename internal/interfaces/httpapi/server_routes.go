package httpapi

import (
	"net/http"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, sessions *SessionManager) {
	mux.HandleFunc("GET /auth/login", handler.LoginRedirect)
	mux.HandleFunc("GET /auth/callback", handler.LoginCallback)
	mux.HandleFunc("POST /auth/logout", handler.Logout)
	mux.Handle("GET /api/me", RequireSession(sessions, http.HandlerFunc(handler.Me)))
}

func registerUserRoutes(
	mux *http.ServeMux,
	handler *Handler,
	sessions *SessionManager,
	admins *AdminRegistry,
	settings *usecase.SettingsService,
) {
	user := func(h http.HandlerFunc) http.Handler {
		return RequireSession(sessions, h)
	}
	// Mutations by regular users are additionally blocked while the panel
	// is in maintenance mode.
	guarded := func(h http.HandlerFunc) http.Handler {
		return RequireSession(sessions, MaintenanceGuard(settings, admins, h))
	}

	mux.Handle("GET /api/ownership", user(handler.ListOwnership))
	mux.Handle("GET /api/splits/pending", user(handler.PendingSplits))
	mux.Handle("GET /api/splits/history", user(handler.SplitHistory))
	mux.Handle("POST /api/splits", guarded(handler.RequestSplit))
	mux.Handle("POST /api/splits/{requestID}/accept", guarded(handler.AcceptSplit))
	mux.Handle("POST /api/splits/{requestID}/decline", guarded(handler.DeclineSplit))

	mux.Handle("GET /api/stages", user(handler.GetStages))

	mux.Handle("GET /api/bets", user(handler.ListBets))
	mux.Handle("POST /api/bets", guarded(handler.CreateBet))
	mux.Handle("POST /api/bets/{betID}/claim", guarded(handler.ClaimBet))
	mux.Handle("POST /api/bets/{betID}/cancel", guarded(handler.CancelBet))

	mux.Handle("GET /api/fanzone/votes", user(handler.FanzoneVotes))
	mux.Handle("GET /api/fanzone/winners", user(handler.FanzoneWinners))
	mux.Handle("POST /api/fanzone/votes", guarded(handler.FanzoneVote))

	mux.Handle("POST /api/verify", guarded(handler.Verify))
	mux.Handle("GET /api/verified", user(handler.VerifiedUsers))

	mux.Handle("GET /api/notifications/preferences", user(handler.NotificationPreferences))
	mux.Handle("POST /api/notifications/preferences", user(handler.UpdateNotificationPreferences))
	mux.Handle("GET /api/feeds/stages", user(handler.StageFeed))
	mux.Handle("GET /api/feeds/bets", user(handler.BetFeed))
	mux.Handle("GET /api/feeds/fanzone", user(handler.FanzoneFeed))
	mux.Handle("POST /api/feeds/{channel}/clear", user(handler.ClearFeed))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, sessions *SessionManager, admins *AdminRegistry) {
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return RequireSession(sessions, RequireAdmin(admins, h))
	}

	mux.Handle("GET /admin/health", adminOnly(handler.Health))

	mux.Handle("POST /admin/ownership/randomise", adminOnly(handler.RandomiseTeams))
	mux.Handle("POST /admin/ownership/reassign", adminOnly(handler.ReassignTeam))

	mux.Handle("POST /admin/stages", adminOnly(handler.SetStage))
	mux.Handle("POST /admin/bets/{betID}/winner", adminOnly(handler.DeclareBetWinner))
	mux.Handle("POST /admin/fanzone/winner", adminOnly(handler.DeclareFanzoneWinner))

	mux.Handle("GET /admin/settings", adminOnly(handler.GetSettings))
	mux.Handle("POST /admin/settings", adminOnly(handler.UpdateSettings))

	mux.Handle("GET /admin/backups", adminOnly(handler.ListBackups))
	mux.Handle("POST /admin/backups", adminOnly(handler.CreateBackup))
	mux.Handle("GET /admin/backups/{name}", adminOnly(handler.DownloadBackup))
	mux.Handle("POST /admin/backups/{name}/restore", adminOnly(handler.RestoreBackup))

	mux.Handle("POST /admin/cogs/{action}", adminOnly(handler.CogControl))
	mux.Handle("POST /admin/bot/{action}", adminOnly(handler.BotControl))

	mux.Handle("GET /admin/logs", adminOnly(handler.TailLogs))
	mux.Handle("GET /admin/logs/download", adminOnly(handler.DownloadLogs))
	mux.Handle("POST /admin/logs/clear", adminOnly(handler.ClearLogs))

	mux.Handle("POST /admin/masquerade", adminOnly(handler.StartMasquerade))
	mux.Handle("POST /admin/masquerade/stop", adminOnly(handler.StopMasquerade))
}
