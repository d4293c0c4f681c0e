package rota

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ansonyc/rota/types"
)

// Config defines the engine configuration.
type Config struct {
	// Horizon is the number of unfulfilled occurrences a single
	// recomputation covers. Default: 30.
	Horizon int `yaml:"horizon" json:"horizon"`

	// MaxHorizon bounds how far ahead any projection may reach, counted in
	// occurrences from the first unfulfilled one. Assignment lookups past it
	// fail with ErrBeyondHorizon; ProjectAhead truncates to it.
	// Default: 365.
	MaxHorizon int `yaml:"maxHorizon" json:"maxHorizon"`
}

// SetDefaults applies default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Horizon == 0 {
		c.Horizon = 30
	}
	if c.MaxHorizon == 0 {
		c.MaxHorizon = 365
	}
}

// Validate checks the configuration. Call SetDefaults first; zero values are
// placeholders for defaults, not valid settings.
func (c *Config) Validate() error {
	if c.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be positive, got %d", types.ErrInvalidConfig, c.Horizon)
	}
	if c.MaxHorizon < c.Horizon {
		return fmt.Errorf("%w: maxHorizon %d is smaller than horizon %d", types.ErrInvalidConfig, c.MaxHorizon, c.Horizon)
	}

	return nil
}

// LoadConfig parses a YAML document into a Config, applies defaults, and
// validates the result.
//
// Example:
//
//	data, _ := os.ReadFile("rota.yaml")
//	cfg, err := rota.LoadConfig(data)
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
