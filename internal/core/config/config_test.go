package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Clean environment
	os.Unsetenv("QS_ENGINE_DATABASE_URL")
	os.Unsetenv("QS_ENGINE_DEFAULT_STRATEGY")
	os.Unsetenv("QS_ENGINE_RULE_CACHE_TTL")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DatabaseURL != "sqlite://./questionsel.db" {
			t.Errorf("expected sqlite database_url default, got %s", cfg.DatabaseURL)
		}
		if cfg.RuleCacheTTL != 5*time.Minute {
			t.Errorf("expected rule_cache_ttl 5m, got %v", cfg.RuleCacheTTL)
		}
		if cfg.SelectionCacheTTL != time.Hour {
			t.Errorf("expected selection_cache_ttl 1h, got %v", cfg.SelectionCacheTTL)
		}
		if cfg.DefaultLanguage != "en" {
			t.Errorf("expected default_language en, got %s", cfg.DefaultLanguage)
		}
		if cfg.DefaultStrategy != "hybrid" {
			t.Errorf("expected default_strategy hybrid, got %s", cfg.DefaultStrategy)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		os.Setenv("QS_ENGINE_DATABASE_URL", "postgres://localhost/questionsel")
		os.Setenv("QS_ENGINE_RULE_CACHE_TTL", "90s")
		defer os.Unsetenv("QS_ENGINE_DATABASE_URL")
		defer os.Unsetenv("QS_ENGINE_RULE_CACHE_TTL")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DatabaseURL != "postgres://localhost/questionsel" {
			t.Errorf("environment should override default, got %s", cfg.DatabaseURL)
		}
		if cfg.RuleCacheTTL != 90*time.Second {
			t.Errorf("expected rule_cache_ttl 90s, got %v", cfg.RuleCacheTTL)
		}
	})

	t.Run("environment overrides config file", func(t *testing.T) {
		path := writeConfigFile(t, "engine:\n  default_language: \"de\"\n")

		os.Setenv("QS_ENGINE_DEFAULT_LANGUAGE", "ar")
		defer os.Unsetenv("QS_ENGINE_DEFAULT_LANGUAGE")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DefaultLanguage != "ar" {
			t.Errorf("environment should override config file, got %s", cfg.DefaultLanguage)
		}
	})

	t.Run("strategy name is case insensitive", func(t *testing.T) {
		os.Setenv("QS_ENGINE_DEFAULT_STRATEGY", "HYBRID")
		defer os.Unsetenv("QS_ENGINE_DEFAULT_STRATEGY")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DefaultStrategy != "hybrid" {
			t.Errorf("expected lowered strategy, got %s", cfg.DefaultStrategy)
		}
	})

	t.Run("unknown strategy rejected", func(t *testing.T) {
		os.Setenv("QS_ENGINE_DEFAULT_STRATEGY", "random")
		defer os.Unsetenv("QS_ENGINE_DEFAULT_STRATEGY")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for unknown strategy")
		}
	})

	t.Run("non-positive ttl rejected", func(t *testing.T) {
		os.Setenv("QS_ENGINE_SELECTION_CACHE_TTL", "0s")
		defer os.Unsetenv("QS_ENGINE_SELECTION_CACHE_TTL")

		if _, err := LoadConfig(""); err == nil {
			t.Error("expected error for zero selection_cache_ttl")
		}
	})

	t.Run("credentials in config file rejected", func(t *testing.T) {
		path := writeConfigFile(t, "engine:\n  redis_password: \"nope\"\n")

		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("expected error for redis_password in config file")
		}
		if err.Error() != "Redis credentials not allowed in config files (use QS_REDIS_PASSWORD environment variable)" {
			t.Errorf("wrong error message: %v", err)
		}
	})

	t.Run("missing config file reported", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestRedisPassword(t *testing.T) {
	os.Setenv("QS_REDIS_PASSWORD", "s3cret")
	defer os.Unsetenv("QS_REDIS_PASSWORD")

	if got := RedisPassword(); got != "s3cret" {
		t.Errorf("RedisPassword() = %q, want %q", got, "s3cret")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
