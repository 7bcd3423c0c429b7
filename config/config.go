// Package config loads triggercore settings from a YAML file, with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalidValue = errors.New("invalid value")

// Output selects what the commands print for each compiled trigger.
type Output string

const (
	OutputTrigger Output = "trigger" // the encoded trigger only
	OutputDebug   Output = "debug"   // the readable rendering only
	OutputBoth    Output = "both"
)

// Config holds triggercore settings. Each field can be overridden from
// the environment.
type Config struct {
	Optimize bool   `yaml:"optimize"  env:"TRIGGERCORE_OPTIMIZE"`
	Strict   bool   `yaml:"strict"    env:"TRIGGERCORE_STRICT"`
	LogLevel string `yaml:"log_level" env:"TRIGGERCORE_LOG_LEVEL"`
	Output   Output `yaml:"output"    env:"TRIGGERCORE_OUTPUT"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Optimize: true,
		Strict:   true,
		LogLevel: "info",
		Output:   OutputTrigger,
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, c.LogLevel)
	}
	switch c.Output {
	case OutputTrigger, OutputDebug, OutputBoth:
	default:
		return fmt.Errorf("%w: output %q", ErrInvalidValue, c.Output)
	}
	return nil
}

// Level returns the configured log level, or info if it does not parse.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
