package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var errBadTPS = errors.New("tps must be positive")

// appConfig holds process settings. Flags override the environment.
type appConfig struct {
	Level        string `env:"PARKOUR_LEVEL"         envDefault:"yard"`
	Debug        bool   `env:"PARKOUR_DEBUG"`
	AllAbilities bool   `env:"PARKOUR_ALL_ABILITIES"`
	PrefabDir    string `env:"PARKOUR_PREFAB_DIR"    envDefault:"prefabs"`
	TPS          int    `env:"PARKOUR_TPS"           envDefault:"60"`
	BaseMonitor  bool   `env:"PARKOUR_BASE_MONITOR"`
	Watch        bool   `env:"PARKOUR_WATCH"         envDefault:"true"`
}

func parseConfig(fs *flag.FlagSet, args []string) (appConfig, error) {
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return appConfig{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Level, "level", cfg.Level, "level name in levels/ (basename, .json optional)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug mode")
	fs.BoolVar(&cfg.AllAbilities, "ab", cfg.AllAbilities, "start with all abilities unlocked")
	fs.StringVar(&cfg.PrefabDir, "prefabs", cfg.PrefabDir, "directory that overrides the embedded prefabs")
	fs.IntVar(&cfg.TPS, "tps", cfg.TPS, "simulation ticks per second")
	fs.BoolVar(&cfg.BaseMonitor, "m", cfg.BaseMonitor, "use base monitor instead of primary (for multi-monitor setups)")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload prefabs when they change on disk")
	if err := fs.Parse(args); err != nil {
		return appConfig{}, err
	}
	if cfg.TPS <= 0 {
		return appConfig{}, fmt.Errorf("%w: %d", errBadTPS, cfg.TPS)
	}
	return cfg, nil
}
