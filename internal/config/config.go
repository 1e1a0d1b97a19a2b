package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	LLMProvider  string // "openai" (default) or "gemini"

	PlacesAPIKey string

	DatabasePath string

	// Telegram Config (optional for CLI, required for the bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

const defaultOpenAIModel = "gpt-4-turbo-preview"

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	if provider != "openai" && provider != "gemini" {
		return nil, fmt.Errorf("LLM_PROVIDER must be 'openai' or 'gemini', got '%s'", provider)
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if provider == "openai" && openAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if provider == "gemini" && geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIModel == "" {
		openAIModel = defaultOpenAIModel
	}

	placesKey := os.Getenv("GOOGLE_PLACES_API_KEY")

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/grocery-planner.db"
	}

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry '%s': %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	return &Config{
		OpenAIAPIKey:           openAIKey,
		OpenAIModel:            openAIModel,
		GeminiAPIKey:           geminiKey,
		LLMProvider:            provider,
		PlacesAPIKey:           placesKey,
		DatabasePath:           dbPath,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
	}, nil
}
