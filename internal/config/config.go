// Package config loads panel configuration from config.json in the data
// directory, with environment variables taking precedence. The JSON file
// uses the same UPPER_CASE keys the bot reads, so both processes can share
// one file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

const FileName = "config.json"

type Config struct {
	HTTPAddr           string
	BaseDir            string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordBotToken     string
	AdminIDs            []string
	GuildID             string
	VerifiedRoleID      string
	AdminCategoryName   string
	AdminBetChannel     string
	FanzoneChannelName  string

	HabboBaseURL    string
	HabboTimeout    time.Duration
	HabboMaxRetries int

	QueuePollInterval     time.Duration
	SplitSweepInterval    time.Duration
	CompactInterval       time.Duration
	HealthInterval        time.Duration
	AutoBackupCheck       time.Duration
	SessionTTL            time.Duration
	CacheTTL              time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	LogLevel logging.Level
	LogFile  string
}

// fileConfig mirrors the UPPER_CASE keys of config.json.
type fileConfig struct {
	DiscordClientID     string   `json:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string   `json:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string   `json:"DISCORD_REDIRECT_URI"`
	DiscordBotToken     string   `json:"DISCORD_BOT_TOKEN"`
	AdminIDs            []string `json:"ADMIN_IDS"`
	GuildID             string   `json:"GUILD_ID"`
	VerifiedRoleID      string   `json:"VERIFIED_ROLE_ID"`
	AdminCategoryName   string   `json:"ADMIN_CATEGORY_NAME"`
	AdminBetChannel     string   `json:"ADMIN_BET_CHANNEL"`
	FanzoneChannelName  string   `json:"FANZONE_CHANNEL_NAME"`
}

func Load() (Config, error) {
	// A local .env is a development convenience, its absence is fine.
	_ = godotenv.Load()

	baseDir := getEnv("APP_BASE_DIR", ".")

	fromFile, err := readFile(filepath.Join(baseDir, FileName))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	habboTimeout, err := time.ParseDuration(getEnv("HABBO_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HABBO_TIMEOUT: %w", err)
	}
	habboMaxRetries, err := getEnvAsInt("HABBO_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse HABBO_MAX_RETRIES: %w", err)
	}
	queuePollInterval, err := time.ParseDuration(getEnv("QUEUE_POLL_INTERVAL", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QUEUE_POLL_INTERVAL: %w", err)
	}
	splitSweepInterval, err := time.ParseDuration(getEnv("SPLIT_SWEEP_INTERVAL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPLIT_SWEEP_INTERVAL: %w", err)
	}
	compactInterval, err := time.ParseDuration(getEnv("QUEUE_COMPACT_INTERVAL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QUEUE_COMPACT_INTERVAL: %w", err)
	}
	healthInterval, err := time.ParseDuration(getEnv("HEALTH_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HEALTH_INTERVAL: %w", err)
	}
	autoBackupCheck, err := time.ParseDuration(getEnv("AUTO_BACKUP_CHECK", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTO_BACKUP_CHECK: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	adminIDs := fromFile.AdminIDs
	if raw := getEnv("ADMIN_IDS", ""); raw != "" {
		adminIDs = splitCSV(raw)
	}

	cfg := Config{
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8040"),
		BaseDir:            baseDir,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", fromFile.DiscordClientID),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", fromFile.DiscordClientSecret),
		DiscordRedirectURI:  getEnv("DISCORD_REDIRECT_URI", fromFile.DiscordRedirectURI),
		DiscordBotToken:     getEnv("DISCORD_BOT_TOKEN", fromFile.DiscordBotToken),
		AdminIDs:            adminIDs,
		GuildID:             getEnv("GUILD_ID", fromFile.GuildID),
		VerifiedRoleID:      getEnv("VERIFIED_ROLE_ID", fromFile.VerifiedRoleID),
		AdminCategoryName:   getEnv("ADMIN_CATEGORY_NAME", fromFile.AdminCategoryName),
		AdminBetChannel:     getEnv("ADMIN_BET_CHANNEL", fromFile.AdminBetChannel),
		FanzoneChannelName:  getEnv("FANZONE_CHANNEL_NAME", fromFile.FanzoneChannelName),

		HabboBaseURL:    getEnv("HABBO_BASE_URL", "https://www.habbo.com/api/public"),
		HabboTimeout:    habboTimeout,
		HabboMaxRetries: habboMaxRetries,

		QueuePollInterval:  queuePollInterval,
		SplitSweepInterval: splitSweepInterval,
		CompactInterval:    compactInterval,
		HealthInterval:     healthInterval,
		AutoBackupCheck:    autoBackupCheck,
		SessionTTL:         sessionTTL,
		CacheTTL:           cacheTTL,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFile:  getEnv("APP_LOG_FILE", filepath.Join(baseDir, "logs", "bot.log")),
	}

	if len(cfg.AdminIDs) == 0 {
		return Config{}, fmt.Errorf("ADMIN_IDS cannot be empty")
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	var out fileConfig
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
