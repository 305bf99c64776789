// Package config loads engine tuning from TOML and scenarios from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/zeusync/arena/internal/core/ai"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/weapon"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	AI         ai.Config        `toml:"ai"`
	Navigation NavigationConfig `toml:"navigation"`
	Weapon     weapon.Config    `toml:"weapon"`
	Logging    LoggingConfig    `toml:"logging"`
	Debug      DebugConfig      `toml:"debug"`
}

type SimulationConfig struct {
	TickRate int    `toml:"tick_rate"` // ticks per simulated second
	MaxTicks uint64 `toml:"max_ticks"` // 0 = unbounded
	Seed     int64  `toml:"seed"`
	Realtime bool   `toml:"realtime"`
}

type NavigationConfig struct {
	Spacing   float64 `toml:"spacing"`
	CacheSize int     `toml:"cache_size"` // 0 disables the path cache
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Enabled      bool          `toml:"enabled"`
	Listen       string        `toml:"listen"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Load reads path and decodes it over Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: 60,
			Seed:     1,
			Realtime: true,
		},
		AI: ai.DefaultConfig(),
		Navigation: NavigationConfig{
			Spacing:   1,
			CacheSize: 256,
		},
		Weapon: weapon.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			Listen:       "127.0.0.1:7070",
			WriteTimeout: time.Second,
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate %d must be positive", c.Simulation.TickRate))
	}
	if err := c.AI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ai: %w", err))
	}
	if c.Navigation.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("navigation.spacing %v must be positive", c.Navigation.Spacing))
	}
	if c.Navigation.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("navigation.cache_size %d must not be negative", c.Navigation.CacheSize))
	}
	if err := c.Weapon.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("weapon: %w", err))
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Debug.Enabled && c.Debug.Listen == "" {
		errs = append(errs, errors.New("debug.listen is required when debug is enabled"))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger described by the logging section.
func (c *Config) NewLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(c.Logging.Format, "json") {
		return log.New(level), nil
	}
	return log.NewDevelopment(level), nil
}
