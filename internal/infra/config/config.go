package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the collector needs for one run. It is built
// once at startup and handed to the components; nothing reads environment
// variables after Load returns.
type Config struct {
	Server      string
	School      string
	User        string
	Password    string
	Secret      string
	StoragePath string

	StatePath     string // optional: local status file to publish run states to
	StateCheckURL string // optional: shared status record to poll before running

	LogLevel    string
	Environment string
	CronSpec    string // optional: run on an in-process schedule instead of once

	TelegramToken string // optional pair: send run outcomes to an admin chat
	AdminChatID   int64
}

// Load reads configuration from environment variables and a .env file (if
// present). A missing required value aborts startup before any network
// activity.
func Load() (*Config, error) {
	// Errors are ignored if the .env file doesn't exist; existing env
	// variables are not overridden.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Server = os.Getenv("SERVER")
	if cfg.Server == "" {
		return nil, fmt.Errorf("SERVER is not set")
	}

	cfg.School = os.Getenv("SCHOOL")
	if cfg.School == "" {
		return nil, fmt.Errorf("SCHOOL is not set")
	}

	cfg.User = os.Getenv("USERNAME")
	if cfg.User == "" {
		return nil, fmt.Errorf("USERNAME is not set")
	}

	cfg.Password = os.Getenv("PASSWORD")
	if cfg.Password == "" {
		return nil, fmt.Errorf("PASSWORD is not set")
	}

	cfg.Secret = os.Getenv("SECRET")
	if cfg.Secret == "" {
		return nil, fmt.Errorf("SECRET is not set")
	}

	cfg.StoragePath = os.Getenv("STORAGE_PATH")
	if cfg.StoragePath == "" {
		return nil, fmt.Errorf("STORAGE_PATH is not set")
	}

	cfg.StatePath = os.Getenv("STATE_PATH")
	cfg.StateCheckURL = os.Getenv("STATE_CHECK_URL")
	cfg.CronSpec = os.Getenv("COLLECT_CRON")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		chatIDStr := os.Getenv("ADMIN_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("ADMIN_CHAT_ID is not set but TELEGRAM_TOKEN is")
		}
		var err error
		cfg.AdminChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}
