package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap/zapcore"

	"github.com/hyperconf/hyperconf/internal/source"
)

const (
	defaultLogLevel    = "info"
	defaultReloadRPS   = 2.0
	defaultReloadBurst = 1
)

// Config aggregates hyperconf's own runtime settings.
// Precedence: CLI flags > Environment variables > Defaults
type Config struct {
	// Path is the terminal configuration document to load.
	Path        string
	Strict      bool
	LogLevel    string
	ReloadRPS   float64
	ReloadBurst int
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	Path        *string
	Strict      *bool
	LogLevel    *string
	ReloadRPS   *float64
	ReloadBurst *int
}

// Load resolves the settings from defaults, environment variables and CLI flags.
// fsys is consulted to find an existing dotfile when no path is given.
func Load(fsys afero.Fs, overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if cfg.Path == "" {
		path, err := source.DefaultPath(fsys)
		if err != nil {
			return Config{}, err
		}
		cfg.Path = path
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		LogLevel:    defaultLogLevel,
		ReloadRPS:   defaultReloadRPS,
		ReloadBurst: defaultReloadBurst,
	}
}

// applyEnvConfig applies environment variable configuration. Unlike flags, a
// malformed variable is an error because it would otherwise be silently ignored.
func applyEnvConfig(cfg *Config) error {
	if path := strings.TrimSpace(os.Getenv("HYPERCONF_PATH")); path != "" {
		cfg.Path = path
	}

	if raw := strings.TrimSpace(os.Getenv("HYPERCONF_STRICT")); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse HYPERCONF_STRICT: %w", err)
		}
		cfg.Strict = strict
	}

	if level := strings.TrimSpace(os.Getenv("HYPERCONF_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if raw := strings.TrimSpace(os.Getenv("HYPERCONF_RELOAD_RPS")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("parse HYPERCONF_RELOAD_RPS: %w", err)
		}
		cfg.ReloadRPS = value
	}

	if raw := strings.TrimSpace(os.Getenv("HYPERCONF_RELOAD_BURST")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse HYPERCONF_RELOAD_BURST: %w", err)
		}
		cfg.ReloadBurst = value
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Path != nil && *overrides.Path != "" {
		cfg.Path = *overrides.Path
	}

	if overrides.Strict != nil {
		cfg.Strict = *overrides.Strict
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.ReloadRPS != nil && *overrides.ReloadRPS >= 0 {
		cfg.ReloadRPS = *overrides.ReloadRPS
	}

	if overrides.ReloadBurst != nil && *overrides.ReloadBurst >= 0 {
		cfg.ReloadBurst = *overrides.ReloadBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.ReloadRPS < 0 {
		return fmt.Errorf("reload rate must be >= 0")
	}
	if cfg.ReloadBurst < 0 {
		return fmt.Errorf("reload burst must be >= 0")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	return nil
}
