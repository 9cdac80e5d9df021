package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/domain/command"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

const dmWorkerCount = 4

// ChatGateway is the slice of the chat transport the dispatcher needs.
type ChatGateway interface {
	SendDM(ctx context.Context, userID, content string) error
	Announce(ctx context.Context, channelID, content string) error
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}

type ChatDispatcherConfig struct {
	Gateway         ChatGateway
	GuildID         string
	VerifiedRoleID  string
	FallbackChannel string
	Logger          *logging.Logger
}

// ChatDispatcher consumes queued commands and produces their chat effects.
// Bot process control commands (cogs, start/stop) are acknowledged here but
// acted on by the bot process reading the same queue under its own consumer.
type ChatDispatcher struct {
	gateway         ChatGateway
	guildID         string
	verifiedRoleID  string
	fallbackChannel string
	logger          *logging.Logger
	pool            *ants.Pool
}

func NewChatDispatcher(cfg ChatDispatcherConfig) (*ChatDispatcher, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("chat gateway is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(dmWorkerCount)
	if err != nil {
		return nil, fmt.Errorf("create dm worker pool: %w", err)
	}

	return &ChatDispatcher{
		gateway:         cfg.Gateway,
		guildID:         cfg.GuildID,
		verifiedRoleID:  cfg.VerifiedRoleID,
		fallbackChannel: cfg.FallbackChannel,
		logger:          logger.With("component", "chat_dispatcher"),
		pool:            pool,
	}, nil
}

func (d *ChatDispatcher) Close() {
	if d.pool != nil {
		d.pool.Release()
	}
}

// Handle implements command.Handler.
func (d *ChatDispatcher) Handle(ctx context.Context, record command.Record) error {
	switch record.Kind {
	case command.KindTeamStageProgress:
		return d.handleStageProgress(ctx, record)
	case command.KindBetWinnerDeclared:
		return d.handleBetWinner(ctx, record)
	case command.KindFanzoneWinner:
		return d.handleFanzoneWinner(ctx, record)
	case command.KindSplitRequested:
		return d.handleSplitRequested(ctx, record)
	case command.KindSplitAccept:
		return d.handleSplitResolved(ctx, record, true)
	case command.KindSplitDecline:
		return d.handleSplitResolved(ctx, record, false)
	case command.KindOwnershipReassign:
		return d.handleReassign(ctx, record)
	case command.KindTeamsRandomised:
		return d.announce(ctx, d.fallbackChannel, "Teams have been drawn. Check the panel for your assignment.")
	case command.KindMaintenanceModeEnabled:
		return d.announce(ctx, d.fallbackChannel, "The sweepstake panel is entering maintenance mode.")
	case command.KindUserVerified:
		return d.handleUserVerified(ctx, record)
	case command.KindCogLoad, command.KindCogUnload, command.KindCogReload,
		command.KindBotStart, command.KindBotStop, command.KindBotRestart:
		d.logger.InfoContext(ctx, "bot control command queued", "kind", record.Kind)
		return nil
	default:
		d.logger.WarnContext(ctx, "unknown command kind", "kind", record.Kind)
		return nil
	}
}

func (d *ChatDispatcher) handleStageProgress(ctx context.Context, record command.Record) error {
	team := record.String("team")
	stage := record.String("stage")
	eliminated, _ := record.Data["eliminated"].(bool)

	var message string
	if eliminated {
		message = fmt.Sprintf("%s have been knocked out of the World Cup.", team)
	} else {
		message = fmt.Sprintf("%s have progressed to the %s!", team, stage)
	}

	channel := record.String("announce_channel")
	if channel == "" {
		channel = d.fallbackChannel
	}
	if err := d.announce(ctx, channel, message); err != nil {
		d.logger.WarnContext(ctx, "stage announcement failed", "team", team, "error", err)
	}
	d.fanOutDMs(ctx, record.Strings("owner_ids"), message)
	return nil
}

func (d *ChatDispatcher) handleBetWinner(ctx context.Context, record command.Record) error {
	message := fmt.Sprintf("Bet %s has been settled. Winner: %s.", record.String("bet_id"), record.String("winner"))
	if channel := record.String("channel_id"); channel != "" {
		if err := d.announce(ctx, channel, message); err != nil {
			d.logger.WarnContext(ctx, "bet announcement failed", "bet_id", record.String("bet_id"), "error", err)
		}
	}
	d.fanOutDMs(ctx, record.Strings("owner_ids"), message)
	return nil
}

func (d *ChatDispatcher) handleFanzoneWinner(ctx context.Context, record command.Record) error {
	fixture := record.String("fixture")
	winner := record.String("winner")
	if winner == "" || winner == "clear" {
		d.logger.InfoContext(ctx, "fan zone result withdrawn", "fixture", fixture)
		return nil
	}
	message := fmt.Sprintf("Fan zone result for %s: %s wins the vote.", fixture, titleCase(winner))
	d.fanOutDMs(ctx, record.Strings("owner_ids"), message)
	return nil
}

func (d *ChatDispatcher) handleSplitRequested(ctx context.Context, record command.Record) error {
	owner := record.String("main_owner_id")
	if owner == "" {
		return nil
	}
	message := fmt.Sprintf("You have a pending split request for %s. Accept or decline it in the panel.", record.String("team"))
	return d.dm(ctx, owner, message)
}

func (d *ChatDispatcher) handleSplitResolved(ctx context.Context, record command.Record, accepted bool) error {
	requester := record.String("requester_id")
	if requester == "" {
		return nil
	}
	team := record.String("team")
	var message string
	if accepted {
		message = fmt.Sprintf("Your split request for %s was accepted. You now share the team.", team)
	} else {
		message = fmt.Sprintf("Your split request for %s was declined.", team)
	}
	return d.dm(ctx, requester, message)
}

func (d *ChatDispatcher) handleReassign(ctx context.Context, record command.Record) error {
	owner := record.String("new_owner_id")
	if owner == "" {
		return nil
	}
	return d.dm(ctx, owner, fmt.Sprintf("You are now the owner of %s.", record.String("team")))
}

func (d *ChatDispatcher) handleUserVerified(ctx context.Context, record command.Record) error {
	discordID := record.String("discord_id")
	if discordID == "" {
		return nil
	}
	if d.guildID != "" && d.verifiedRoleID != "" {
		if err := d.gateway.GrantRole(ctx, d.guildID, discordID, d.verifiedRoleID); err != nil {
			d.logger.WarnContext(ctx, "verified role grant failed", "discord_id", discordID, "error", err)
		}
	}
	return d.dm(ctx, discordID, fmt.Sprintf("You are verified as %s. Welcome to the sweepstake!", record.String("habbo_name")))
}

func (d *ChatDispatcher) announce(ctx context.Context, channelID, content string) error {
	if channelID == "" {
		d.logger.DebugContext(ctx, "no announce channel configured, skipping", "content", content)
		return nil
	}
	return d.gateway.Announce(ctx, channelID, content)
}

func (d *ChatDispatcher) dm(ctx context.Context, userID, content string) error {
	if err := d.gateway.SendDM(ctx, userID, content); err != nil {
		d.logger.WarnContext(ctx, "dm delivery failed", "user_id", userID, "error", err)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// fanOutDMs delivers the same message to every recipient through the worker
// pool. Failed deliveries are logged, never fatal.
func (d *ChatDispatcher) fanOutDMs(ctx context.Context, userIDs []string, content string) {
	if len(userIDs) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		userID := userID
		wg.Add(1)
		if err := d.pool.Submit(func() {
			defer wg.Done()
			_ = d.dm(ctx, userID, content)
		}); err != nil {
			wg.Done()
			d.logger.WarnContext(ctx, "dm pool submit failed", "user_id", userID, "error", err)
		}
	}
	wg.Wait()
}
