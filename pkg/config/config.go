package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starvals/starvals/pkg/telemetry"
)

// Config is the starvals CLI configuration.
type Config struct {
	// Logging configures the structured logger.
	Logging telemetry.LoggingConfig `yaml:"logging"`

	// Eval configures script evaluation.
	Eval EvalConfig `yaml:"eval"`
}

// EvalConfig configures script evaluation.
type EvalConfig struct {
	// Timeout bounds a single evaluation, as a Go duration string such as
	// "30s". Empty selects the evaluator default.
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses the configured timeout. A zero duration means
// "use the default".
func (c EvalConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid eval timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid eval timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: telemetry.LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML configuration file, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if _, err := c.Eval.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}
