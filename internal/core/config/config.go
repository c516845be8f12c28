// Package config provides configuration management for the question
// selection engine.
package config

import (
	"os"
	"time"
)

// EngineConfig holds configuration for the selection engine and its stores.
type EngineConfig struct {
	DatabaseURL string

	// RedisAddr empty means the engine runs with the in-process cache only.
	RedisAddr string
	RedisDB   int

	RuleCacheTTL      time.Duration
	SelectionCacheTTL time.Duration
	StoreTimeout      time.Duration

	DefaultLanguage string
	DefaultStrategy string

	LogLevel string
}

// DefaultEngineConfig returns configuration with default values.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		DatabaseURL:       "sqlite://./questionsel.db",
		RedisAddr:         "",
		RedisDB:           0,
		RuleCacheTTL:      5 * time.Minute,
		SelectionCacheTTL: time.Hour,
		StoreTimeout:      5 * time.Second,
		DefaultLanguage:   "en",
		DefaultStrategy:   "hybrid",
		LogLevel:          "info",
	}
}

// RedisPassword reads the Redis password from the environment.
// Credentials are environment-only and never accepted in config files.
func RedisPassword() string {
	return os.Getenv("QS_REDIS_PASSWORD")
}
