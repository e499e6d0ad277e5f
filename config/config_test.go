package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 100_000, cfg.Population.Size)
}

func TestLoadEmptyPathIsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9999"
population:
  size: 500
  uniform:
    low: 10
    high: 20
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.ListenAddr)
	require.Equal(t, 500, cfg.Population.Size)
	require.Equal(t, 10.0, cfg.Population.Uniform.Low)
	require.Equal(t, 20.0, cfg.Population.Uniform.High)
	// Untouched sections keep their defaults.
	require.Equal(t, Default().Population.Normal, cfg.Population.Normal)
	require.Equal(t, Default().DataDir, cfg.DataDir)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadShapes(t *testing.T) {
	t.Parallel()
	bad := []func(*Config){
		func(c *Config) { c.Population.Size = 0 },
		func(c *Config) { c.Population.Uniform.High = c.Population.Uniform.Low },
		func(c *Config) { c.Population.Normal.Variance = -1 },
	}
	for i, mutate := range bad {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
