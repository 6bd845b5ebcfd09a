package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Story providers usable when LocalOnly is false.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the application.
type Config struct {
	Port          string
	DatabasePath  string
	DataDir       string
	CatalogPath   string
	RetentionDays int
	LogLevel      string

	// LocalOnly keeps story generation on the bundled templates.
	LocalOnly     bool
	StoryProvider string
	GeminiAPIKey  string
	GroqAPIKey    string

	JWTSecret string

	// Google OAuth scaffold
	EnableGoogle     bool
	OIDCClientID     string
	OIDCClientSecret string
	RedirectURL      string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8000"),
		DatabasePath:     getEnv("DATABASE_PATH", "data/haven.db"),
		DataDir:          getEnv("DATA_DIR", "data"),
		CatalogPath:      os.Getenv("CATALOG_PATH"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoryProvider:    strings.ToLower(getEnv("STORY_PROVIDER", ProviderGemini)),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		RedirectURL:      getEnv("REDIRECT_URI", "http://127.0.0.1:8000/integrations/google/callback"),

		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	var err error
	if cfg.RetentionDays, err = getInt("RETENTION_DAYS", 180); err != nil {
		return nil, err
	}
	if cfg.RetentionDays < 1 {
		return nil, fmt.Errorf("RETENTION_DAYS must be a positive number of days")
	}
	if cfg.LocalOnly, err = getBool("LOCAL_ONLY", true); err != nil {
		return nil, err
	}
	if cfg.EnableGoogle, err = getBool("ENABLE_GOOGLE", false); err != nil {
		return nil, err
	}

	if !cfg.LocalOnly {
		switch cfg.StoryProvider {
		case ProviderGemini:
			if cfg.GeminiAPIKey == "" {
				return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
			}
		case ProviderGroq:
			if cfg.GroqAPIKey == "" {
				return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
			}
		default:
			return nil, fmt.Errorf("STORY_PROVIDER must be one of: gemini groq")
		}
	}

	if cfg.EnableGoogle && (cfg.OIDCClientID == "" || cfg.OIDCClientSecret == "") {
		return nil, fmt.Errorf("OIDC_CLIENT_ID and OIDC_CLIENT_SECRET must be set when ENABLE_GOOGLE is true")
	}

	// Telegram Config (Optional for the API, required for the bot)
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS must be a comma separated list of ids: %w", err)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		if cfg.AdminTelegramID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be a number: %w", err)
		}
	}

	return cfg, nil
}

// Retention is how long events are kept in the log.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// ValidateTelegram reports whether the bot settings are complete.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}
