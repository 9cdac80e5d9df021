package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/docstore"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

// LoginProvider completes the OAuth login flow and yields a panel session.
type LoginProvider interface {
	Configured() bool
	AuthorizeURL(state string) string
	Login(ctx context.Context, code string) (Session, error)
}

type Handler struct {
	ownership     *usecase.OwnershipService
	stages        *usecase.StageService
	bets          *usecase.BetService
	fanzone       *usecase.FanzoneService
	verification  *usecase.VerificationService
	notifications *usecase.NotificationService
	settings      *usecase.SettingsService
	backups       *usecase.BackupService
	healthRepo    *docstore.HealthRepository
	queue         command.Enqueuer
	sessions      *SessionManager
	admins        *AdminRegistry
	login         LoginProvider
	logFile       string
	logger        *logging.Logger
	validator     *validator.Validate
	now           func() time.Time
}

type HandlerConfig struct {
	Ownership     *usecase.OwnershipService
	Stages        *usecase.StageService
	Bets          *usecase.BetService
	Fanzone       *usecase.FanzoneService
	Verification  *usecase.VerificationService
	Notifications *usecase.NotificationService
	Settings      *usecase.SettingsService
	Backups       *usecase.BackupService
	HealthRepo    *docstore.HealthRepository
	Queue         command.Enqueuer
	Sessions      *SessionManager
	Admins        *AdminRegistry
	Login         LoginProvider
	LogFile       string
	Logger        *logging.Logger
	Now           func() time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		ownership:     cfg.Ownership,
		stages:        cfg.Stages,
		bets:          cfg.Bets,
		fanzone:       cfg.Fanzone,
		verification:  cfg.Verification,
		notifications: cfg.Notifications,
		settings:      cfg.Settings,
		backups:       cfg.Backups,
		healthRepo:    cfg.HealthRepo,
		queue:         cfg.Queue,
		sessions:      cfg.Sessions,
		admins:        cfg.Admins,
		login:         cfg.Login,
		logFile:       cfg.LogFile,
		logger:        logger,
		validator:     validator.New(),
		now:           now,
	}
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Health returns the latest process snapshot written by the health worker.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	snapshot, err := h.healthRepo.Load(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, snapshot)
}
