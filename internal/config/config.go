// Package config loads careerpilot settings from a TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/careerpilot/careerpilot/internal/llm"
	"github.com/careerpilot/careerpilot/internal/logging"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the full application configuration.
type Config struct {
	LLM     llm.Config     `toml:"llm"`
	Storage StorageConfig  `toml:"storage"`
	Log     logging.Config `toml:"log"`
}

// StorageConfig selects where the users and currentUser documents live.
type StorageConfig struct {
	// Backend is one of sqlite, redis, postgres, memory. Default: sqlite.
	Backend string `toml:"backend"`

	// Path is the SQLite file. Empty means store.DefaultDBPath().
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	PostgresDSN string `toml:"postgres_dsn"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "careerpilot:",
		},
		Log: logging.DefaultConfig(),
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (a missing file is not an error), then CAREERPILOT_* environment
// variables, then API key discovery from the standard provider variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
	}

	cfg.LLM.ApplyEnv()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.LLM.Discover()

	if err := cfg.Storage.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setFromEnv(&c.Storage.Backend, "CAREERPILOT_STORAGE")
	setFromEnv(&c.Storage.RedisAddr, "CAREERPILOT_REDIS_ADDR")
	setFromEnv(&c.Storage.RedisPassword, "CAREERPILOT_REDIS_PASSWORD")
	setFromEnv(&c.Storage.RedisPrefix, "CAREERPILOT_REDIS_PREFIX")
	setFromEnv(&c.Storage.PostgresDSN, "CAREERPILOT_POSTGRES_DSN")
	if v := os.Getenv("CAREERPILOT_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CAREERPILOT_REDIS_DB: %w", err)
		}
		c.Storage.RedisDB = n
	}

	setFromEnv(&c.Log.Level, "CAREERPILOT_LOG_LEVEL")
	setFromEnv(&c.Log.File, "CAREERPILOT_LOG_FILE")
	return nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the selected backend has what it needs.
func (s StorageConfig) Validate() error {
	switch s.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if s.RedisAddr == "" {
			return fmt.Errorf("redis backend needs redis_addr")
		}
	case BackendPostgres:
		if s.PostgresDSN == "" {
			return fmt.Errorf("postgres backend needs postgres_dsn")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
	return nil
}
