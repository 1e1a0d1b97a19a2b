package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_API_KEY",
		"GOOGLE_PLACES_API_KEY", "DATABASE_PATH",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv failed: %v", err)
	}

	if cfg.LLMProvider != "openai" {
		t.Errorf("Expected default provider openai, got %s", cfg.LLMProvider)
	}
	if cfg.OpenAIModel != defaultOpenAIModel {
		t.Errorf("Expected default model, got %s", cfg.OpenAIModel)
	}
	if cfg.DatabasePath != "data/grocery-planner.db" {
		t.Errorf("Expected default database path, got %s", cfg.DatabasePath)
	}
}

func TestNewFromEnv_MissingKeys(t *testing.T) {
	t.Run("openai key required for openai provider", func(t *testing.T) {
		clearEnv(t)
		if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
			t.Errorf("Expected OPENAI_API_KEY error, got %v", err)
		}
	})

	t.Run("gemini key required for gemini provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "gemini")
		if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
			t.Errorf("Expected GEMINI_API_KEY error, got %v", err)
		}
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "llama-at-home")
		if _, err := NewFromEnv(); err == nil || !strings.Contains(err.Error(), "LLM_PROVIDER") {
			t.Errorf("Expected LLM_PROVIDER error, got %v", err)
		}
	})
}

func TestNewFromEnv_AllowedUserIDs(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456 ,789")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv failed: %v", err)
	}
	if len(cfg.TelegramAllowedUserIDs) != 3 || cfg.TelegramAllowedUserIDs[1] != 456 {
		t.Errorf("Unexpected allowed IDs: %v", cfg.TelegramAllowedUserIDs)
	}

	t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123,abc")
	if _, err := NewFromEnv(); err == nil {
		t.Error("Expected an error for a non-numeric user ID")
	}
}
