package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/internal/config"
	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/pkg/adapters/file"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/adapters/redis"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/observability"
	"github.com/zojize/exusiai-bot/pkg/persistence/middleware"
	"github.com/zojize/exusiai-bot/pkg/ports"
)

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.DataDir, _ = flags.GetString("dir")
	}
	if flags.Changed("banner") {
		cfg.Banner, _ = flags.GetString("banner")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("no-pity") {
		noPity, _ := flags.GetBool("no-pity")
		cfg.Pity = !noPity
	}
	if flags.Changed("pity-store") {
		cfg.PityStore, _ = flags.GetString("pity-store")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Lookup("watch") != nil && flags.Changed("watch") {
		cfg.Watch, _ = flags.GetBool("watch")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.HTTPAddr, _ = flags.GetString("addr")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// free for results and the MCP stdio transport.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(os.Stderr, level, cfg.LogFormat), nil
}

// openStore opens the configured pity store. The locker is only set for
// stores shared between processes.
func openStore(cfg config.Config) (ports.PityStore, ports.Locker, func() error, error) {
	store, locker, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.PitySecret == "" {
		return store, locker, closeFn, nil
	}

	pc := middleware.PseudonymConfig{ActiveSecret: []byte(cfg.PitySecret)}
	for _, s := range cfg.PityFallbackSecrets {
		pc.FallbackSecrets = append(pc.FallbackSecrets, []byte(s))
	}
	mw, err := middleware.NewPseudonymMiddleware(pc)
	if err != nil {
		return nil, nil, nil, errors.Join(err, closeFn())
	}
	return middleware.Chain(store, mw), locker, closeFn, nil
}

func openBackend(cfg config.Config) (ports.PityStore, ports.Locker, func() error, error) {
	noop := func() error { return nil }
	switch cfg.PityStore {
	case config.StoreMemory:
		return memory.NewStore(), nil, noop, nil
	case config.StoreFile:
		return file.NewStore(cfg.PityFile), nil, noop, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.PityTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.PityTTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		return store, redis.NewLocker(store.Client(), store.Prefix()), store.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown pity store %q", cfg.PityStore)
	}
}

// newGacha wires a Gacha from cfg. The returned close function releases
// the pity store.
func newGacha(cfg config.Config, logger *slog.Logger, hooks ...domain.Hooks) (*exusiai.Gacha, func() error, error) {
	store, locker, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []exusiai.Option{
		exusiai.WithLogger(logger),
		exusiai.WithHooks(domain.ChainHooks(append([]domain.Hooks{observability.LogHooks(logger)}, hooks...)...)),
		exusiai.WithPityStore(store),
		exusiai.WithPity(cfg.Pity),
		exusiai.WithBanner(cfg.Banner),
	}
	if locker != nil {
		opts = append(opts, exusiai.WithLocker(locker))
	}
	if cfg.Seed != 0 {
		opts = append(opts, exusiai.WithSeed(cfg.Seed))
	}

	g, err := exusiai.New(cfg.DataDir, opts...)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("failed to init gacha: %w", err), closeStore())
	}
	return g, closeStore, nil
}

// setup is the common prologue of the commands that need a Gacha.
func setup(cmd *cobra.Command, hooks ...domain.Hooks) (*exusiai.Gacha, config.Config, *slog.Logger, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	g, closeFn, err := newGacha(cfg, logger, hooks...)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	return g, cfg, logger, closeFn, nil
}
