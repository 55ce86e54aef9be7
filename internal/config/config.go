// Package config loads fyi's settings from built-in defaults and FYI_*
// environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/andpalmier/fyi/internal/term"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables read by Load.
const EnvPrefix = "FYI_"

var ErrInvalidTickRate = errors.New("tick rate must be positive")

// Config holds the resolved settings.
type Config struct {
	// Workers bounds the goroutines used by the demo and hash programs.
	Workers int
	// TickRate is how often the progress bar repaints.
	TickRate time.Duration
	// NoColor disables ANSI colors in messages.
	NoColor bool
	// LogFile receives debug logs; empty disables logging.
	LogFile string
	// LogLevel is a zap level name.
	LogLevel string
	// Sigint decides how the programs react to Ctrl+C.
	Sigint term.Policy
}

func defaults() map[string]any {
	return map[string]any{
		"workers":   runtime.NumCPU(),
		"tick_rate": "60ms",
		"no_color":  false,
		"log_file":  "",
		"log_level": "info",
		"sigint":    "two-strike",
	}
}

// Load reads the defaults, then any FYI_* variables from the environment.
// FYI_TICK_RATE=250ms, for example, overrides tick_rate.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	policy, err := term.ParsePolicy(k.String("sigint"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Workers:  k.Int("workers"),
		TickRate: k.Duration("tick_rate"),
		NoColor:  k.Bool("no_color"),
		LogFile:  k.String("log_file"),
		LogLevel: k.String("log_level"),
		Sigint:   policy,
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTickRate, k.String("tick_rate"))
	}

	return cfg, nil
}

// envKey turns FYI_TICK_RATE into tick_rate.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
