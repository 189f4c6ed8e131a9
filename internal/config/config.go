// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/flopgame/flop/internal/game"
)

// Config holds the server settings, all sourced from environment variables.
// A .env file in the working directory is loaded automatically at startup.
type Config struct {
	// Addr is the listen address, ":8080" by default (PORT overrides the port).
	Addr string

	// Table carries the room parameters: MAX_SEATS, STARTING_STACK,
	// SMALL_BLIND and BIG_BLIND.
	Table game.Config
}

// Load reads the environment and validates the blind sizes.
func Load() (Config, error) {
	cfg := Config{
		Addr: ":" + getEnv("PORT", "8080"),
		Table: game.Config{
			MaxSeats:      getEnvInt("MAX_SEATS", 8),
			StartingStack: getEnvInt("STARTING_STACK", 1000),
			SmallBlind:    getEnvInt("SMALL_BLIND", 10),
			BigBlind:      getEnvInt("BIG_BLIND", 20),
		},
	}
	if cfg.Table.SmallBlind > cfg.Table.BigBlind {
		return Config{}, fmt.Errorf("SMALL_BLIND (%d) exceeds BIG_BLIND (%d)",
			cfg.Table.SmallBlind, cfg.Table.BigBlind)
	}
	if cfg.Table.StartingStack < cfg.Table.BigBlind {
		return Config{}, fmt.Errorf("STARTING_STACK (%d) cannot cover the big blind (%d)",
			cfg.Table.StartingStack, cfg.Table.BigBlind)
	}
	return cfg, nil
}

// getEnv returns the environment variable value or a default if missing.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns an integer environment variable or a default if missing
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
