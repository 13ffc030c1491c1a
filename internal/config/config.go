package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Pity store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the process configuration read from the environment.
// Command line flags take precedence over these values.
type Config struct {
	DataDir string `env:"EXUSIAI_DATA_DIR" envDefault:"data"`
	Banner  string `env:"EXUSIAI_BANNER"`
	Seed    uint64 `env:"EXUSIAI_SEED"`
	Watch   bool   `env:"EXUSIAI_WATCH"`

	Pity      bool          `env:"EXUSIAI_PITY" envDefault:"true"`
	PityStore string        `env:"EXUSIAI_PITY_STORE" envDefault:"memory"`
	PityFile  string        `env:"EXUSIAI_PITY_FILE" envDefault:".exusiai/pity.json"`
	PityTTL   time.Duration `env:"EXUSIAI_PITY_TTL"`
	// PitySecret pseudonymizes user IDs in pity keys when set.
	PitySecret          string   `env:"EXUSIAI_PITY_SECRET"`
	PityFallbackSecrets []string `env:"EXUSIAI_PITY_FALLBACK_SECRETS"`
	RedisAddr           string   `env:"EXUSIAI_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword       string   `env:"EXUSIAI_REDIS_PASSWORD"`
	RedisDB             int      `env:"EXUSIAI_REDIS_DB"`

	HTTPAddr  string `env:"EXUSIAI_HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"EXUSIAI_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"EXUSIAI_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.PityStore {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid pity store %q (want %s, %s or %s)", c.PityStore, StoreMemory, StoreFile, StoreRedis)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}
