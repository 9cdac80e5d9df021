// Package app wires configuration, storage, services, workers and the
// HTTP surface into a runnable application.
package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/NoCoder4you/worldcup-sweepstake/external/discord"
	"github.com/NoCoder4you/worldcup-sweepstake/external/habbo"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/config"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/backup"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/docstore"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/infrastructure/queue"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/interfaces/httpapi"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/cache"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/id"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/resilience"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/worker"
)

const chatConsumerName = "chat"

// Application holds the running pieces that main needs to start and
// stop: the HTTP server, the Discord gateway and the worker supervisor.
type Application struct {
	Server     *http.Server
	Gateway    *discord.Gateway
	Supervisor *worker.Supervisor

	dispatcher *worker.ChatDispatcher
}

// loginProvider adapts the Discord OAuth client to the session type the
// HTTP layer issues on login.
type loginProvider struct {
	oauth *discord.OAuth
}

func (p *loginProvider) Configured() bool { return p.oauth.Configured() }

func (p *loginProvider) AuthorizeURL(state string) string { return p.oauth.AuthorizeURL(state) }

func (p *loginProvider) Login(ctx context.Context, code string) (httpapi.Session, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return httpapi.Session{}, err
	}
	identity, err := p.oauth.Identity(ctx, token)
	if err != nil {
		return httpapi.Session{}, err
	}
	return httpapi.Session{
		DiscordID: identity.ID,
		Username:  identity.Username,
		Avatar:    identity.Avatar,
	}, nil
}

// New builds the full application from configuration. Nothing is
// started yet; main owns the lifecycle.
func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http address is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	store, err := docstore.New(cfg.BaseDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	rosterRepo := docstore.NewRosterRepository(store)
	teamRepo := docstore.NewTeamRepository(store)
	splitRepo := docstore.NewSplitRequestRepository(store)
	betRepo := docstore.NewBetRepository(store)
	notifyRepo := docstore.NewNotificationRepository(store)
	fanRepo := docstore.NewFanzoneRepository(store)
	verifyRepo := docstore.NewVerificationRepository(store)
	adminRepo := docstore.NewAdminSettingsRepository(store)
	healthRepo := docstore.NewHealthRepository(store)

	commandQueue := queue.NewAppender(store.DocDir())
	backupEngine := backup.NewEngine(cfg.BaseDir, store.DocDir(), logger)
	idgen := id.NewRandomGenerator()

	habboClient := habbo.NewClient(habbo.ClientConfig{
		BaseURL:    cfg.HabboBaseURL,
		Timeout:    cfg.HabboTimeout,
		MaxRetries: cfg.HabboMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled: true,
		},
	})

	ownership := usecase.NewOwnershipService(rosterRepo, teamRepo, splitRepo, commandQueue, idgen)
	stages := usecase.NewStageService(teamRepo, rosterRepo, notifyRepo, adminRepo, commandQueue)
	bets := usecase.NewBetService(betRepo, notifyRepo, commandQueue)
	fanzone := usecase.NewFanzoneService(fanRepo, notifyRepo, commandQueue)
	verification := usecase.NewVerificationService(verifyRepo, habboClient, commandQueue, idgen)
	notifications := usecase.NewNotificationService(notifyRepo)
	settings := usecase.NewSettingsService(adminRepo, commandQueue)
	backups := usecase.NewBackupService(backupEngine, adminRepo)

	sessions := httpapi.NewSessionManager(cache.NewStore(cfg.SessionTTL), idgen)
	admins := httpapi.NewAdminRegistry(cfg.AdminIDs)
	login := &loginProvider{oauth: discord.NewOAuth(discord.OAuthConfig{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURI:  cfg.DiscordRedirectURI,
	})}

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Ownership:     ownership,
		Stages:        stages,
		Bets:          bets,
		Fanzone:       fanzone,
		Verification:  verification,
		Notifications: notifications,
		Settings:      settings,
		Backups:       backups,
		HealthRepo:    healthRepo,
		Queue:         commandQueue,
		Sessions:      sessions,
		Admins:        admins,
		Login:         login,
		LogFile:       cfg.LogFile,
		Logger:        logger,
	})
	router := httpapi.NewRouter(handler, sessions, admins, settings, logger, cfg.CORSAllowedOrigins)

	gateway, err := discord.NewGateway(discord.GatewayConfig{
		BotToken: cfg.DiscordBotToken,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build discord gateway: %w", err)
	}

	dispatcher, err := worker.NewChatDispatcher(worker.ChatDispatcherConfig{
		Gateway:         gateway,
		GuildID:         cfg.GuildID,
		VerifiedRoleID:  cfg.VerifiedRoleID,
		FallbackChannel: cfg.AdminBetChannel,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build chat dispatcher: %w", err)
	}

	consumer := queue.NewConsumer(chatConsumerName, store.DocDir(), cfg.QueuePollInterval, dispatcher.Handle, logger)
	compactor := queue.NewCompactor(store.DocDir(), logger)
	healthWriter := worker.NewHealthWriter(healthRepo, commandQueue, filepath.Join(cfg.BaseDir, "logs", "health.log"), logger)

	supervisor := worker.NewSupervisor(logger)
	supervisor.Add("chat_consumer", consumer.Run)
	supervisor.AddPeriodic("split_sweep", cfg.SplitSweepInterval, func(ctx context.Context) error {
		_, err := ownership.SweepExpired(ctx)
		return err
	})
	supervisor.AddPeriodic("auto_backup", cfg.AutoBackupCheck, func(ctx context.Context) error {
		_, err := backups.AutoBackupTick(ctx)
		return err
	})
	supervisor.AddPeriodic("queue_compact", cfg.CompactInterval, compactor.Compact)
	supervisor.AddPeriodic("health_snapshot", cfg.HealthInterval, healthWriter.Tick)

	return &Application{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Gateway:    gateway,
		Supervisor: supervisor,
		dispatcher: dispatcher,
	}, nil
}

// Close releases resources that outlive the HTTP server shutdown.
func (a *Application) Close() error {
	a.dispatcher.Close()
	return a.Gateway.Close()
}
