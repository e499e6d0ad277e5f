// Package config loads the service configuration from YAML, overlaying a
// defaults struct.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"indexbench/dist"
)

// Config is the full service configuration.
type Config struct {
	// ListenAddr is the HTTP trigger address.
	ListenAddr string `yaml:"listen_addr"`
	// DataDir holds the badger result store.
	DataDir string `yaml:"data_dir"`
	// ShowProgress renders progress bars during long benchmark passes.
	ShowProgress bool `yaml:"show_progress"`

	Population Population `yaml:"population"`
}

// Population fixes the synthetic dataset: its size and the parameters for
// each distribution family.
type Population struct {
	// Size is the number of elements drawn per generation; the query set
	// has the same size.
	Size int `yaml:"size"`
	// Seed makes generation deterministic when non-zero.
	Seed uint64 `yaml:"seed"`

	Uniform dist.Uniform `yaml:"uniform"`
	Normal  dist.Normal  `yaml:"normal"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		DataDir:    "data",
		Population: Population{
			Size:    100_000,
			Uniform: dist.Uniform{Low: 0, High: 1_000_000},
			Normal:  dist.Normal{Mean: 0, Variance: 1_000_000},
		},
	}
}

// Load reads path and overlays it on Default. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations no benchmark can run under.
func (c Config) Validate() error {
	if c.Population.Size <= 0 {
		return fmt.Errorf("config: population size must be positive, got %d", c.Population.Size)
	}
	if u := c.Population.Uniform; u.High <= u.Low {
		return fmt.Errorf("config: uniform high (%g) must exceed low (%g)", u.High, u.Low)
	}
	if n := c.Population.Normal; n.Variance <= 0 {
		return fmt.Errorf("config: normal variance must be positive, got %g", n.Variance)
	}
	return nil
}
