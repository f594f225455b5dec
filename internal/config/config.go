// Package config loads planner configuration from a YAML file,
// environment variables and defaults via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level     string `mapstructure:"level" yaml:"level"`
	Format    string `mapstructure:"format" yaml:"format"` // "console" or "json"
	AddSource bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize   int    `mapstructure:"max_size" yaml:"max_size"` // megabytes per log file
	MaxAge    int    `mapstructure:"max_age" yaml:"max_age"`   // days
}

// PlannerConfig holds roadmap construction and query defaults. CLI
// flags override these per invocation.
type PlannerConfig struct {
	Samples      int     `mapstructure:"samples" yaml:"samples"`
	Radius       float64 `mapstructure:"radius" yaml:"radius"`
	MaxNeighbors int     `mapstructure:"max_neighbors" yaml:"max_neighbors"`
	Speed        float64 `mapstructure:"speed" yaml:"speed"`
	Seed         int64   `mapstructure:"seed" yaml:"seed"`
	Workers      int     `mapstructure:"workers" yaml:"workers"`
	// BudgetSeconds caps the wall-clock search time per query, 0 = none.
	BudgetSeconds float64 `mapstructure:"budget_seconds" yaml:"budget_seconds"`
}

// Config is the full application configuration.
type Config struct {
	Logger   LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Planner  PlannerConfig `mapstructure:"planner" yaml:"planner"`
	Scenario string        `mapstructure:"scenario" yaml:"scenario"` // scenario JSON path
}

// SetDefaults initializes default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("planner.samples", 500)
	v.SetDefault("planner.radius", 10.0)
	v.SetDefault("planner.max_neighbors", 16)
	v.SetDefault("planner.speed", 1.0)
	v.SetDefault("planner.seed", 0)
	v.SetDefault("planner.workers", 0)
	v.SetDefault("planner.budget_seconds", 0.0)
}

// Load reads the configuration from the given file (optional) on top of
// TAPRM_ environment variables and the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("TAPRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Planner.Samples <= 0 {
		return fmt.Errorf("planner.samples must be positive, got %d", c.Planner.Samples)
	}
	if c.Planner.Radius <= 0 {
		return fmt.Errorf("planner.radius must be positive, got %g", c.Planner.Radius)
	}
	if c.Planner.Speed <= 0 {
		return fmt.Errorf("planner.speed must be positive, got %g", c.Planner.Speed)
	}
	if c.Planner.MaxNeighbors < 0 {
		return fmt.Errorf("planner.max_neighbors must not be negative, got %d", c.Planner.MaxNeighbors)
	}
	if c.Planner.BudgetSeconds < 0 {
		return fmt.Errorf("planner.budget_seconds must not be negative, got %g", c.Planner.BudgetSeconds)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
