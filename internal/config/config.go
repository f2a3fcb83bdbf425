package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by NewFromEnv.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	StoreBackend string
	StateDir     string

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	// Remote risk predictor. Empty URL means local heuristic only.
	RiskAPIURL     string
	RiskAPISecret  string
	RiskAPITimeout time.Duration

	GeminiAPIKey string
	GroqAPIKey   string
	FoodAPIURL   string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	Port     string
	LogLevel string
	LogFile  string
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:       getenv("GLUCOGUARD_DB_PATH", "data/glucoguard.db"),
		StoreBackend:       strings.ToLower(getenv("GLUCOGUARD_STORE", StoreSQLite)),
		StateDir:           getenv("GLUCOGUARD_STATE_DIR", "data/state"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisUsername:      os.Getenv("REDIS_USERNAME"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RiskAPIURL:         os.Getenv("RISK_API_URL"),
		RiskAPISecret:      os.Getenv("RISK_API_SECRET"),
		RiskAPITimeout:     10 * time.Second,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		FoodAPIURL:         os.Getenv("FOOD_API_URL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
		Port:               getenv("PORT", "8080"),
		LogLevel:           getenv("GLUCOGUARD_LOG_LEVEL", "info"),
		LogFile:            os.Getenv("GLUCOGUARD_LOG_FILE"),
	}

	switch cfg.StoreBackend {
	case StoreSQLite, StoreFile:
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown GLUCOGUARD_STORE %q", cfg.StoreBackend)
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("RISK_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RISK_API_TIMEOUT %q: %w", v, err)
		}
		cfg.RiskAPITimeout = d
	}

	// Comma separated list of Telegram user IDs allowed to talk to the bot
	for _, part := range strings.Split(os.Getenv("TELEGRAM_ALLOW_USER_ID"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_ID entry %q: %w", part, err)
		}
		cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
	}

	if v := os.Getenv("TELEGRAM_ADMIN_ID"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.AdminTelegramID)
	}

	return cfg, nil
}

// ValidateBot checks the settings that only the Telegram front end needs.
func (c *Config) ValidateBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOW_USER_ID environment variable not set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
