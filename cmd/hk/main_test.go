package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"hk/internal/config"
	"hk/internal/grab"
	"hk/internal/hotkeys"
)

type fakeDisplay struct {
	codes   map[hotkeys.Keysym]hotkeys.Keycode
	held    hotkeys.KeyVector
	grabs   []hotkeys.ModMask
	waits   int
	queries int
	closes  int
	waitErr error
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		codes: map[hotkeys.Keysym]hotkeys.Keycode{
			hotkeys.XKShiftL:   50,
			hotkeys.XKCapsLock: 66,
			hotkeys.XKControlL: 37,
			hotkeys.XKAltL:     64,
			hotkeys.XKNumLock:  77,
			't':                28,
			'a':                38,
		},
	}
}

func (f *fakeDisplay) ModifierMapping() (hotkeys.ModifierMapping, error) {
	return hotkeys.ModifierMapping{
		KeycodesPerModifier: 1,
		Keycodes:            []hotkeys.Keycode{50, 66, 37, 64, 77, 0, 0, 0},
	}, nil
}

func (f *fakeDisplay) KeysymToKeycode(sym hotkeys.Keysym) (hotkeys.Keycode, bool) {
	code, ok := f.codes[sym]
	return code, ok
}

func (f *fakeDisplay) KeycodeToKeysym(code hotkeys.Keycode) hotkeys.Keysym {
	for sym, c := range f.codes {
		if c == code {
			return sym
		}
	}
	return hotkeys.NoSymbol
}

func (f *fakeDisplay) GrabKey(_ hotkeys.Keycode, mods hotkeys.ModMask) error {
	f.grabs = append(f.grabs, mods)
	return nil
}

func (f *fakeDisplay) WaitKeyPress() error {
	f.waits++
	return f.waitErr
}

func (f *fakeDisplay) QueryKeymap() (hotkeys.KeyVector, error) {
	f.queries++
	return f.held, nil
}

func (f *fakeDisplay) Close() error {
	f.closes++
	return nil
}

type execCall struct {
	name string
	argv []string
}

type harness struct {
	display *fakeDisplay
	opens   int
	execs   []execCall
	sleeps  int
	execErr error
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

// newHarness swaps every seam of run for an in-memory fake.
func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(config.EnvLogLevel, "")

	h := &harness{display: newFakeDisplay()}
	origOpen, origExec, origSleep, origNow := openDisplayFn, execFn, sleepFn, nowFn
	origStdout, origStderr, origLogger := stdout, stderr, setLoggerFn
	defaultLogger := slog.Default()
	t.Cleanup(func() {
		openDisplayFn, execFn, sleepFn, nowFn = origOpen, origExec, origSleep, origNow
		stdout, stderr, setLoggerFn = origStdout, origStderr, origLogger
		slog.SetDefault(defaultLogger)
	})

	openDisplayFn = func() (grab.Display, error) {
		h.opens++
		return h.display, nil
	}
	execFn = func(name string, argv []string) error {
		h.execs = append(h.execs, execCall{name: name, argv: argv})
		return h.execErr
	}
	sleepFn = func(time.Duration) { h.sleeps++ }
	stdout = &h.stdout
	stderr = &h.stderr
	setLoggerFn = func(*slog.Logger) {}
	return h
}

func TestRunWaitExecsCommandWithoutPolling(t *testing.T) {
	h := newHarness(t)

	if code := run([]string{"-w", "Ctrl+Alt+t", "echo", "hello"}); code != 0 {
		t.Fatalf("run() = %d, want 0 (stderr %q)", code, h.stderr.String())
	}
	if len(h.execs) != 1 {
		t.Fatalf("exec calls = %d, want 1", len(h.execs))
	}
	got := h.execs[0]
	if got.name != "echo" || !slices.Equal(got.argv, []string{"echo", "hello"}) {
		t.Fatalf("exec(%q, %v), want (\"echo\", [echo hello])", got.name, got.argv)
	}
	if h.display.queries != 1 || h.sleeps != 0 {
		t.Fatalf("queries = %d, sleeps = %d, want 1 and 0", h.display.queries, h.sleeps)
	}
	if h.display.closes != 1 {
		t.Fatalf("display closed %d times, want 1", h.display.closes)
	}
	// Caps_Lock and Num_Lock are present, so 2^2 grabs.
	wantMasks := []hotkeys.ModMask{
		hotkeys.ModControl | hotkeys.Mod1,
		hotkeys.ModControl | hotkeys.Mod1 | hotkeys.ModLock,
		hotkeys.ModControl | hotkeys.Mod1 | hotkeys.Mod2,
		hotkeys.ModControl | hotkeys.Mod1 | hotkeys.ModLock | hotkeys.Mod2,
	}
	slices.Sort(h.display.grabs)
	slices.Sort(wantMasks)
	if !slices.Equal(h.display.grabs, wantMasks) {
		t.Fatalf("grab masks = %v, want %v", h.display.grabs, wantMasks)
	}
}

func TestRunWithoutWaitDoesNotQueryKeymap(t *testing.T) {
	h := newHarness(t)
	h.display.held.Set(28)

	if code := run([]string{"ctrl+t", "true"}); code != 0 {
		t.Fatalf("run() = %d, want 0 (stderr %q)", code, h.stderr.String())
	}
	if h.display.queries != 0 {
		t.Fatalf("queries = %d, want 0", h.display.queries)
	}
	if len(h.execs) != 1 || !slices.Equal(h.execs[0].argv, []string{"true"}) {
		t.Fatalf("execs = %v, want one call with [true]", h.execs)
	}
}

func TestRunUsageErrorsSkipDisplay(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{name: "no args", args: nil, wantCode: 1},
		{name: "hotkey only", args: []string{"Ctrl+a"}, wantCode: 1},
		{name: "flags only", args: []string{"-w"}, wantCode: 1},
		{name: "help", args: []string{"-h"}, wantCode: 0},
		{name: "help before unknown flag", args: []string{"-h", "-x"}, wantCode: 0},
		{name: "help grouped before unknown flag", args: []string{"-hx"}, wantCode: 0},
		{name: "unknown flag", args: []string{"-x", "Ctrl+a", "true"}, wantCode: 1, wantStderr: "hk: unknown option -x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if code := run(tt.args); code != tt.wantCode {
				t.Fatalf("run(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if h.opens != 0 || len(h.execs) != 0 {
				t.Fatalf("opens = %d, execs = %d, want none", h.opens, len(h.execs))
			}
			out := h.stderr.String()
			if !strings.Contains(out, "Usage: hk [-hvw] <hotkey> <cmd>") {
				t.Fatalf("stderr = %q, want usage", out)
			}
			if tt.wantStderr != "" && !strings.Contains(out, tt.wantStderr) {
				t.Fatalf("stderr = %q, want %q", out, tt.wantStderr)
			}
		})
	}
}

func TestRunParseErrorReportsDescriptor(t *testing.T) {
	h := newHarness(t)

	if code := run([]string{"Ctlr+a", "true"}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	out := h.stderr.String()
	if !strings.HasPrefix(out, "hk: ") || !strings.Contains(out, `"Ctlr"`) {
		t.Fatalf("stderr = %q, want hk-prefixed error naming Ctlr", out)
	}
	if h.display.closes != 1 {
		t.Fatalf("display closed %d times, want 1", h.display.closes)
	}
	if len(h.display.grabs) != 0 || len(h.execs) != 0 {
		t.Fatalf("grabs = %d, execs = %d, want none", len(h.display.grabs), len(h.execs))
	}
}

func TestRunDisplayOpenFailure(t *testing.T) {
	h := newHarness(t)
	openDisplayFn = func() (grab.Display, error) {
		return nil, errors.New("cannot open display: no DISPLAY")
	}

	if code := run([]string{"Ctrl+a", "true"}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if got := h.stderr.String(); got != "hk: cannot open display: no DISPLAY\n" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestRunExecFailure(t *testing.T) {
	h := newHarness(t)
	h.execErr = errors.New(`exec nope: executable file not found in $PATH`)

	if code := run([]string{"Ctrl+a", "nope"}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if got := h.stderr.String(); !strings.HasPrefix(got, "hk: couldn't run command: exec nope") {
		t.Fatalf("stderr = %q, want couldn't run command", got)
	}
}

func TestRunTriggerFailureClosesDisplay(t *testing.T) {
	h := newHarness(t)
	h.display.waitErr = errors.New("x11 connection closed")

	if code := run([]string{"Ctrl+a", "true"}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if h.display.closes != 1 {
		t.Fatalf("display closed %d times, want 1", h.display.closes)
	}
	if len(h.execs) != 0 {
		t.Fatalf("execs = %d, want 0", len(h.execs))
	}
}

func TestRunVerboseWritesHeldKeysToStdout(t *testing.T) {
	h := newHarness(t)
	h.display.held.Set(38)
	clock := time.Unix(0, 0)
	nowFn = func() time.Time {
		clock = clock.Add(2 * time.Second)
		return clock
	}
	polls := 0
	// Release 'a' after the first sleep.
	sleepFn = func(time.Duration) {
		polls++
		h.display.held = hotkeys.KeyVector{}
	}

	if code := run([]string{"-vw", "Ctrl+a", "true"}); code != 0 {
		t.Fatalf("run() = %d, want 0 (stderr %q)", code, h.stderr.String())
	}
	if polls != 1 {
		t.Fatalf("polls = %d, want 1", polls)
	}
	if !strings.Contains(h.stdout.String(), "Key(s) pressed: a") {
		t.Fatalf("stdout = %q, want held key report", h.stdout.String())
	}
}

func TestRunConfigErrorSkipsDisplay(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("poll_interval: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, path)

	if code := run([]string{"Ctrl+a", "true"}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if h.opens != 0 {
		t.Fatalf("opens = %d, want 0", h.opens)
	}
	if got := h.stderr.String(); !strings.HasPrefix(got, "hk: config ") || !strings.Contains(got, "poll_interval") {
		t.Fatalf("stderr = %q, want config diagnostic", got)
	}
}
