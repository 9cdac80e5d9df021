// Package discord wraps the gateway session used for chat side effects:
// direct messages, channel announcements and role changes. When no bot
// token is configured the gateway runs disabled and every call is a no-op,
// which keeps the rest of the system usable in local development.
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

type GatewayConfig struct {
	BotToken string
	Logger   *logging.Logger
}

type Gateway struct {
	session *discordgo.Session
	logger  *logging.Logger
}

func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "discord_gateway")

	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		logger.Warn("no bot token configured, chat delivery disabled")
		return &Gateway{logger: logger}, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	return &Gateway{session: session, logger: logger}, nil
}

// Enabled reports whether a live session is configured.
func (g *Gateway) Enabled() bool {
	return g != nil && g.session != nil
}

func (g *Gateway) Open(ctx context.Context) error {
	if !g.Enabled() {
		return nil
	}
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("%w: open gateway: %v", usecase.ErrExternalUnavailable, err)
	}
	if g.session.State != nil && g.session.State.User != nil {
		g.logger.InfoContext(ctx, "gateway connected", "user", g.session.State.User.Username)
	}
	return nil
}

func (g *Gateway) Close() error {
	if !g.Enabled() {
		return nil
	}
	return g.session.Close()
}

// SendDM opens (or reuses) the direct channel for a user and sends content.
func (g *Gateway) SendDM(ctx context.Context, userID, content string) error {
	if !g.Enabled() {
		g.logger.DebugContext(ctx, "dm skipped, gateway disabled", "user_id", userID)
		return nil
	}
	if userID == "" || content == "" {
		return fmt.Errorf("%w: user id and content are required", usecase.ErrInvalidInput)
	}

	channel, err := g.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: open dm channel: %v", usecase.ErrExternalUnavailable, err)
	}
	if _, err := g.session.ChannelMessageSend(channel.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: send dm: %v", usecase.ErrExternalUnavailable, err)
	}
	return nil
}

// Announce posts content to a guild channel.
func (g *Gateway) Announce(ctx context.Context, channelID, content string) error {
	if !g.Enabled() {
		g.logger.DebugContext(ctx, "announcement skipped, gateway disabled", "channel_id", channelID)
		return nil
	}
	if channelID == "" || content == "" {
		return fmt.Errorf("%w: channel id and content are required", usecase.ErrInvalidInput)
	}
	if _, err := g.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: announce: %v", usecase.ErrExternalUnavailable, err)
	}
	return nil
}

// GrantRole adds a guild role to a member, used after verification.
func (g *Gateway) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if !g.Enabled() {
		return nil
	}
	if guildID == "" || userID == "" || roleID == "" {
		return fmt.Errorf("%w: guild, user and role ids are required", usecase.ErrInvalidInput)
	}
	if err := g.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: grant role: %v", usecase.ErrExternalUnavailable, err)
	}
	return nil
}

// ChannelByName resolves a guild text channel id from its name.
func (g *Gateway) ChannelByName(ctx context.Context, guildID, name string) (string, error) {
	if !g.Enabled() {
		return "", fmt.Errorf("%w: gateway disabled", usecase.ErrExternalUnavailable)
	}
	channels, err := g.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: list channels: %v", usecase.ErrExternalUnavailable, err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}
	return "", fmt.Errorf("%w: channel %q", usecase.ErrNotFound, name)
}
