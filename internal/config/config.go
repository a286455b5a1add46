package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	MinDistance     float64 `mapstructure:"GLOC_MIN_DISTANCE"`
	CompareDistance float64 `mapstructure:"GLOC_COMPARE_DISTANCE"`
	Dest            string  `mapstructure:"GLOC_DEST"`
	Workers         int     `mapstructure:"GLOC_WORKERS"`
	LogLevel        string  `mapstructure:"GLOC_LOG_LEVEL"`

	PauseSpeed      float64 `mapstructure:"GLOC_PAUSE_SPEED"`
	PauseDistance   float64 `mapstructure:"GLOC_PAUSE_DISTANCE"`
	ElevationWindow int     `mapstructure:"GLOC_ELEVATION_WINDOW"`
}

// Load reads defaults overridden by GLOC_* environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("GLOC_MIN_DISTANCE", 5.0)
	v.SetDefault("GLOC_COMPARE_DISTANCE", 10.0)
	v.SetDefault("GLOC_DEST", "")
	v.SetDefault("GLOC_WORKERS", runtime.NumCPU())
	v.SetDefault("GLOC_LOG_LEVEL", "info")
	v.SetDefault("GLOC_PAUSE_SPEED", 0.5)
	v.SetDefault("GLOC_PAUSE_DISTANCE", 20.0)
	v.SetDefault("GLOC_ELEVATION_WINDOW", 0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if !(cfg.MinDistance > 0) || !(cfg.CompareDistance > 0) {
		return Config{}, fmt.Errorf("grade distances must be positive, got %v and %v", cfg.MinDistance, cfg.CompareDistance)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Level maps the configured log level name to a slog level.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
