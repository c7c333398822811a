package config

import (
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("AI_BACKEND", "ollama")
	if got := getEnvOrDefault("AI_BACKEND", "gemini"); got != "ollama" {
		t.Errorf("got %q, want env value %q", got, "ollama")
	}
	if got := getEnvOrDefault("UNSET_CONFIG_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q, want default %q", got, "fallback")
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"parses integer", "240", 240},
		{"default for empty", "", 120},
		{"default for garbage", "two minutes", 120},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.value != "" {
				t.Setenv("AI_TIMEOUT_SECONDS", tc.value)
			}
			if got := getEnvAsIntOrDefault("AI_TIMEOUT_SECONDS", 120); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMustGetEnvPanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing required variable")
		}
	}()
	mustGetEnv("UNSET_CONFIG_KEY")
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/thinkink_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want default 8080", cfg.Port)
	}
	if cfg.AIBackend != "gemini" {
		t.Errorf("AIBackend: got %q, want default gemini", cfg.AIBackend)
	}
	if cfg.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB: got %d, want default 10", cfg.MaxUploadMB)
	}
	if cfg.QuizTimeoutSeconds != 180 {
		t.Errorf("QuizTimeoutSeconds: got %d, want default 180", cfg.QuizTimeoutSeconds)
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/thinkink_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AI_BACKEND", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	defer func() {
		if recover() == nil {
			t.Error("expected panic when gemini backend has no API key")
		}
	}()
	Load()
}
