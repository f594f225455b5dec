package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 500, cfg.Planner.Samples)
	assert.Equal(t, 10.0, cfg.Planner.Radius)
	assert.Equal(t, 16, cfg.Planner.MaxNeighbors)
	assert.Equal(t, 1.0, cfg.Planner.Speed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logger:
  level: debug
  format: json
planner:
  samples: 250
  radius: 7.5
  seed: 99
scenario: /tmp/scenario.json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 250, cfg.Planner.Samples)
	assert.Equal(t, 7.5, cfg.Planner.Radius)
	assert.Equal(t, int64(99), cfg.Planner.Seed)
	assert.Equal(t, "/tmp/scenario.json", cfg.Scenario)
	// Untouched keys keep their defaults.
	assert.Equal(t, 16, cfg.Planner.MaxNeighbors)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TAPRM_PLANNER_SAMPLES", "123")
	t.Setenv("TAPRM_LOGGER_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 123, cfg.Planner.Samples)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero samples", func(c *Config) { c.Planner.Samples = 0 }},
		{"negative radius", func(c *Config) { c.Planner.Radius = -1 }},
		{"zero speed", func(c *Config) { c.Planner.Speed = 0 }},
		{"negative neighbours", func(c *Config) { c.Planner.MaxNeighbors = -1 }},
		{"negative budget", func(c *Config) { c.Planner.BudgetSeconds = -1 }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := valid()
			c.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, valid().Validate())
}
