package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the settings of the encounter example program.
type Config struct {
	DatabasePath string
	Debug        bool
	MaxRetries   int
	RetryTimeout time.Duration
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset ones.
func FromEnv() (Config, error) {
	cfg := Config{
		DatabasePath: "encounter.db",
		MaxRetries:   10,
		RetryTimeout: 100 * time.Millisecond,
	}
	if v := os.Getenv("ENCOUNTER_DB"); v != "" {
		cfg.DatabasePath = v
	}
	cfg.Debug = os.Getenv("ENCOUNTER_DEBUG") == "true"
	if v := os.Getenv("ENCOUNTER_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("ENCOUNTER_MAX_RETRIES: invalid value %q", v)
		}
		cfg.MaxRetries = n
	}
	if v := os.Getenv("ENCOUNTER_RETRY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("ENCOUNTER_RETRY_TIMEOUT: %w", err)
		}
		cfg.RetryTimeout = d
	}
	return cfg, nil
}
