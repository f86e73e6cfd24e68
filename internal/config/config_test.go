package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"hk/internal/hotkeys"
	"hk/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.PollInterval != want.PollInterval || cfg.VerboseInterval != want.VerboseInterval {
		t.Fatalf("intervals = (%v, %v), want (%v, %v)",
			cfg.PollInterval, cfg.VerboseInterval, want.PollInterval, want.VerboseInterval)
	}
	if !slices.Equal(cfg.IgnorableKeysyms, hotkeys.DefaultIgnorableKeysyms) {
		t.Fatalf("IgnorableKeysyms = %v, want %v", cfg.IgnorableKeysyms, hotkeys.DefaultIgnorableKeysyms)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("LogLevel = %v, want WARN", cfg.LogLevel)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PollInterval != 10*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 10ms", cfg.PollInterval)
	}
	if cfg.VerboseInterval != time.Second {
		t.Fatalf("VerboseInterval = %v, want 1s", cfg.VerboseInterval)
	}
	// The default list must be a copy.
	cfg.IgnorableKeysyms[0] = 0
	if hotkeys.DefaultIgnorableKeysyms[0] == 0 {
		t.Fatal("DefaultConfig() shares IgnorableKeysyms with hotkeys.DefaultIgnorableKeysyms")
	}
}

func TestLoadEmptyFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PollInterval != DefaultConfig().PollInterval {
		t.Fatalf("PollInterval = %v, want default", cfg.PollInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeConfig(t, strings.Join([]string{
		"poll_interval: 25ms",
		"verbose_interval: 2s",
		"ignorable_keys: [Caps_Lock, num_lock]",
		"log_level: debug",
		"unknown_field: true",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PollInterval != 25*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 25ms", cfg.PollInterval)
	}
	if cfg.VerboseInterval != 2*time.Second {
		t.Fatalf("VerboseInterval = %v, want 2s", cfg.VerboseInterval)
	}
	want := []hotkeys.Keysym{hotkeys.XKCapsLock, hotkeys.XKNumLock}
	if !slices.Equal(cfg.IgnorableKeysyms, want) {
		t.Fatalf("IgnorableKeysyms = %v, want %v", cfg.IgnorableKeysyms, want)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
}

func TestLoadExplicitEmptyIgnorableList(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(writeConfig(t, "ignorable_keys: []\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.IgnorableKeysyms == nil || len(cfg.IgnorableKeysyms) != 0 {
		t.Fatalf("IgnorableKeysyms = %#v, want empty non-nil slice", cfg.IgnorableKeysyms)
	}
}

func TestLoadDropsUnknownIgnorableKeys(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	logBuf := testutil.CaptureLogBuffer(t, slog.LevelWarn)

	cfg, err := Load(writeConfig(t, "ignorable_keys: [Scroll_Lock, Bogus_Lock]\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.IgnorableKeysyms, []hotkeys.Keysym{hotkeys.XKScrollLock}) {
		t.Fatalf("IgnorableKeysyms = %v, want [Scroll_Lock]", cfg.IgnorableKeysyms)
	}
	if !strings.Contains(logBuf.String(), "Bogus_Lock") {
		t.Fatalf("log output = %q, want warning naming Bogus_Lock", logBuf.String())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{name: "bad duration", content: "poll_interval: soon\n", wantSub: "poll_interval"},
		{name: "zero duration", content: "poll_interval: 0s\n", wantSub: "must be positive"},
		{name: "negative duration", content: "verbose_interval: -1s\n", wantSub: "verbose_interval"},
		{name: "bad log level", content: "log_level: chatty\n", wantSub: "log_level"},
		{name: "malformed yaml", content: "poll_interval: [\n", wantSub: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, "")
			cfg, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("Load() error = %v, want it to mention %q", err, tt.wantSub)
			}
			if cfg.PollInterval != DefaultConfig().PollInterval {
				t.Fatalf("Load() on error returned PollInterval %v, want default", cfg.PollInterval)
			}
		})
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	path := writeConfig(t, "# "+strings.Repeat("x", int(maxConfigFileBytes)))
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected size limit error")
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load() of a directory expected error")
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("Load(\"\") expected error")
	}
}

func TestLoadLogLevelEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v, want ERROR", cfg.LogLevel)
	}

	t.Setenv(EnvLogLevel, "loud")
	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Fatal("Load() with invalid HK_LOG_LEVEL expected error")
	}
}

func TestDefaultPathUsesEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/hk.yaml")
	if got := DefaultPath(); got != "/etc/hk.yaml" {
		t.Fatalf("DefaultPath() = %q, want /etc/hk.yaml", got)
	}
}

func TestDefaultPathUsesUserConfigDir(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	original := userConfigDirFn
	t.Cleanup(func() { userConfigDirFn = original })
	userConfigDirFn = func() (string, error) { return "/home/tester/.config", nil }

	want := filepath.Join("/home/tester/.config", "hk", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestDefaultPathFallsBackToHome(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	originalConfigDir, originalHome := userConfigDirFn, userHomeDirFn
	t.Cleanup(func() {
		userConfigDirFn, userHomeDirFn = originalConfigDir, originalHome
	})
	userConfigDirFn = func() (string, error) { return "", errors.New("XDG_CONFIG_HOME unset") }
	userHomeDirFn = func() (string, error) { return "/home/tester", nil }

	want := filepath.Join("/home/tester", ".config", "hk", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestDefaultPathFallsBackToTempDir(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	originalConfigDir, originalHome := userConfigDirFn, userHomeDirFn
	t.Cleanup(func() {
		userConfigDirFn, userHomeDirFn = originalConfigDir, originalHome
	})
	logBuf := testutil.CaptureLogBuffer(t, slog.LevelWarn)
	userConfigDirFn = func() (string, error) { return "", errors.New("no config dir") }
	userHomeDirFn = func() (string, error) { return "", errors.New("no home") }

	want := filepath.Join(os.TempDir(), "hk", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
	if !strings.Contains(logBuf.String(), "using temp dir as config path fallback") {
		t.Fatalf("log output = %q, want temp-dir fallback warning", logBuf.String())
	}
}
