package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"hk/internal/grab"
	"hk/internal/hotkeys"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB

	// EnvConfigPath overrides DefaultPath.
	EnvConfigPath = "HK_CONFIG"
	// EnvLogLevel overrides the log_level setting.
	EnvLogLevel = "HK_LOG_LEVEL"
)

// userConfigDirFn and userHomeDirFn are test seams for DefaultPath.
var userConfigDirFn = os.UserConfigDir
var userHomeDirFn = os.UserHomeDir

// Config is the resolved hk runtime configuration.
type Config struct {
	PollInterval    time.Duration
	VerboseInterval time.Duration
	// IgnorableKeysyms are the lock keys whose modifier state is ignored.
	// An empty slice disables ignorable modifiers entirely.
	IgnorableKeysyms []hotkeys.Keysym
	LogLevel         slog.Level
}

// fileConfig mirrors config.yaml.
type fileConfig struct {
	PollInterval    string `yaml:"poll_interval"`
	VerboseInterval string `yaml:"verbose_interval"`
	// Pointer so that an explicit empty list is distinguishable from an
	// absent key.
	IgnorableKeys *[]string `yaml:"ignorable_keys"`
	LogLevel      string    `yaml:"log_level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		PollInterval:     grab.DefaultPollInterval,
		VerboseInterval:  grab.DefaultVerboseInterval,
		IgnorableKeysyms: append([]hotkeys.Keysym(nil), hotkeys.DefaultIgnorableKeysyms...),
		LogLevel:         slog.LevelWarn,
	}
}

// DefaultPath returns $HK_CONFIG, or config.yaml under the user config
// directory.
func DefaultPath() string {
	if override := strings.TrimSpace(os.Getenv(EnvConfigPath)); override != "" {
		return override
	}
	base, err := userConfigDirFn()
	if err != nil || strings.TrimSpace(base) == "" {
		home, homeErr := userHomeDirFn()
		if homeErr != nil {
			// Keep config path resolvable even in restricted environments.
			slog.Warn("[config] using temp dir as config path fallback", "error", errors.Join(err, homeErr))
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "hk", "config.yaml")
}

// Load reads path and applies it over DefaultConfig. A missing or empty file
// yields the defaults. $HK_LOG_LEVEL, when set, wins over the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(raw) > 0 {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := apply(&cfg, fc); err != nil {
			return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
		}
		slog.Debug("[config] loaded", "path", path)
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	return cfg, nil
}

// apply validates fc and copies every set field into cfg.
// MUTATES: cfg is directly modified.
func apply(cfg *Config, fc fileConfig) error {
	if fc.PollInterval != "" {
		d, err := parsePositiveDuration("poll_interval", fc.PollInterval)
		if err != nil {
			return err
		}
		cfg.PollInterval = d
	}
	if fc.VerboseInterval != "" {
		d, err := parsePositiveDuration("verbose_interval", fc.VerboseInterval)
		if err != nil {
			return err
		}
		cfg.VerboseInterval = d
	}
	if fc.IgnorableKeys != nil {
		cfg.IgnorableKeysyms = resolveKeysyms(*fc.IgnorableKeys)
	}
	if fc.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(fc.LogLevel)); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, value)
	}
	return d, nil
}

// resolveKeysyms maps keysym names, dropping unknown ones with a warning.
func resolveKeysyms(names []string) []hotkeys.Keysym {
	out := make([]hotkeys.Keysym, 0, len(names))
	for _, name := range names {
		sym, ok := hotkeys.LookupKeysym(strings.TrimSpace(name))
		if !ok {
			slog.Warn("[config] ignoring unknown keysym in ignorable_keys", "name", name)
			continue
		}
		out = append(out, sym)
	}
	return out
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}
