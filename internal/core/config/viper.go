package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Strategies the engine knows how to run. Validated here so a typo in a
// config file fails at startup instead of silently falling back at runtime.
var knownStrategies = map[string]struct{}{
	"default":     {},
	"demographic": {},
	"company":     {},
	"hybrid":      {},
}

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*EngineConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultEngineConfig
	v.SetDefault("engine.database_url", "sqlite://./questionsel.db")
	v.SetDefault("engine.redis_addr", "")
	v.SetDefault("engine.redis_db", 0)
	v.SetDefault("engine.rule_cache_ttl", "5m")
	v.SetDefault("engine.selection_cache_ttl", "1h")
	v.SetDefault("engine.store_timeout", "5s")
	v.SetDefault("engine.default_language", "en")
	v.SetDefault("engine.default_strategy", "hybrid")
	v.SetDefault("engine.log_level", "info")

	// Bind environment variables with QS_ prefix
	v.SetEnvPrefix("QS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject credentials in config files
	// Credentials must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &EngineConfig{
		DatabaseURL:       v.GetString("engine.database_url"),
		RedisAddr:         v.GetString("engine.redis_addr"),
		RedisDB:           v.GetInt("engine.redis_db"),
		RuleCacheTTL:      v.GetDuration("engine.rule_cache_ttl"),
		SelectionCacheTTL: v.GetDuration("engine.selection_cache_ttl"),
		StoreTimeout:      v.GetDuration("engine.store_timeout"),
		DefaultLanguage:   v.GetString("engine.default_language"),
		DefaultStrategy:   strings.ToLower(v.GetString("engine.default_strategy")),
		LogLevel:          v.GetString("engine.log_level"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks required fields, positive TTLs, and known strategy names.
func validateConfig(cfg *EngineConfig) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	if cfg.RuleCacheTTL <= 0 {
		return fmt.Errorf("rule_cache_ttl must be positive, got %v", cfg.RuleCacheTTL)
	}
	if cfg.SelectionCacheTTL <= 0 {
		return fmt.Errorf("selection_cache_ttl must be positive, got %v", cfg.SelectionCacheTTL)
	}
	if cfg.StoreTimeout <= 0 {
		return fmt.Errorf("store_timeout must be positive, got %v", cfg.StoreTimeout)
	}
	if cfg.DefaultLanguage == "" {
		return fmt.Errorf("default_language is required")
	}
	if _, ok := knownStrategies[cfg.DefaultStrategy]; !ok {
		return fmt.Errorf("unknown default_strategy %q (want default, demographic, company, or hybrid)", cfg.DefaultStrategy)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only credentials (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("redis_password") || v.IsSet("engine.redis_password") {
		return fmt.Errorf("Redis credentials not allowed in config files (use QS_REDIS_PASSWORD environment variable)")
	}
	return nil
}
