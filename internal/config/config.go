// Package config manages ARCHON configuration loading and validation.
//
// Configuration is resolved from built-in defaults, a global file
// (~/.archon/config.yaml), a project file (.archon/config.yaml), and
// ARCHON_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/mrz1836/archon/internal/errors"
)

// RunConfig tunes run execution.
type RunConfig struct {
	// MaxConcurrency bounds the number of in-flight plan units.
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// GlobalTimeout bounds the wall-clock time of a whole run.
	// Zero disables the bound.
	GlobalTimeout time.Duration `mapstructure:"global_timeout" yaml:"global_timeout"`

	// AgentTimeout applies to agents whose descriptor declares no timeout.
	AgentTimeout time.Duration `mapstructure:"agent_timeout" yaml:"agent_timeout"`
}

// RetryConfig tunes the retry backoff applied to failed unit attempts.
type RetryConfig struct {
	// BaseDelay is the wait before the first retry; it doubles per attempt.
	BaseDelay time.Duration `mapstructure:"base_delay" yaml:"base_delay"`

	// MaxDelay caps the backoff between retries.
	MaxDelay time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
}

// Config is the root configuration for ARCHON.
type Config struct {
	Run   RunConfig   `mapstructure:"run" yaml:"run"`
	Retry RetryConfig `mapstructure:"retry" yaml:"retry"`
}

// DefaultConfig returns the built-in defaults.
// These values mirror the viper defaults in setDefaults.
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			MaxConcurrency: 4,
			GlobalTimeout:  10 * time.Minute,
			AgentTimeout:   2 * time.Minute,
		},
		Retry: RetryConfig{
			BaseDelay: 500 * time.Millisecond,
			MaxDelay:  30 * time.Second,
		},
	}
}

// Validate checks the configuration for invalid values.
// Returns ErrConfigNil for a nil config and wrapped sentinel errors for
// individual violations so callers can categorize with errors.Is().
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.Run.MaxConcurrency < 1 {
		return fmt.Errorf("%w: max_concurrency must be at least 1, got %d",
			errors.ErrConfigInvalidRun, cfg.Run.MaxConcurrency)
	}
	if cfg.Run.GlobalTimeout < 0 {
		return fmt.Errorf("%w: global_timeout cannot be negative",
			errors.ErrConfigInvalidRun)
	}
	if cfg.Run.AgentTimeout <= 0 {
		return fmt.Errorf("%w: agent_timeout must be positive",
			errors.ErrConfigInvalidRun)
	}

	if cfg.Retry.BaseDelay <= 0 {
		return fmt.Errorf("%w: base_delay must be positive",
			errors.ErrConfigInvalidRetry)
	}
	if cfg.Retry.MaxDelay < cfg.Retry.BaseDelay {
		return fmt.Errorf("%w: max_delay cannot be below base_delay",
			errors.ErrConfigInvalidRetry)
	}

	return nil
}
