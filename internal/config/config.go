package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabasePath = "data/meal-planner.db"
	defaultHTTPAddr     = ":8080"
	defaultUserID       = "default_user"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath  string
	HTTPAddr      string
	DefaultUserID string
	LogLevel      string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", defaultDatabasePath),
		HTTPAddr:           getEnv("HTTP_ADDR", defaultHTTPAddr),
		DefaultUserID:      getEnv("DEFAULT_USER_ID", defaultUserID),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable is invalid: %w", err)
	}
	cfg.TelegramAllowedUserIDs = allowed

	if admin := strings.TrimSpace(os.Getenv("ADMIN_TELEGRAM_ID")); admin != "" {
		id, err := strconv.ParseInt(admin, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID environment variable is invalid: %w", err)
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}

// RequireTelegram checks the settings the Telegram bot cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

// IsAllowedTelegramUser reports whether the Telegram user may talk to the bot.
func (c *Config) IsAllowedTelegramUser(id int64) bool {
	for _, allowed := range c.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
