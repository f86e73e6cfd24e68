// Package grab drives one hotkey grab from registration to the final
// process replacement.
package grab

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"hk/internal/hotkeys"
)

const (
	// DefaultPollInterval is the release-wait sampling period. The X11 core
	// protocol has no "all keys released" notification, so the wait polls.
	DefaultPollInterval = 10 * time.Millisecond
	// DefaultVerboseInterval is the minimum gap between status lines in
	// verbose mode.
	DefaultVerboseInterval = time.Second
)

// Display is the windowing-system connection a Session drives.
type Display interface {
	hotkeys.Keymap
	// KeycodeToKeysym returns the unshifted keysym of code.
	KeycodeToKeysym(code hotkeys.Keycode) hotkeys.Keysym
	// GrabKey registers a passive grab on the root window.
	GrabKey(key hotkeys.Keycode, mods hotkeys.ModMask) error
	// WaitKeyPress blocks until a key-press event arrives.
	WaitKeyPress() error
	// QueryKeymap samples the pressed state of every key.
	QueryKeymap() (hotkeys.KeyVector, error)
	Close() error
}

// Execer replaces the current process with name, run with argv.
// It returns only on failure.
type Execer func(name string, argv []string) error

// State is a Session lifecycle stage.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateTriggered
	StateWaitingForRelease
	StateReplacing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateTriggered:
		return "triggered"
	case StateWaitingForRelease:
		return "waiting-for-release"
	case StateReplacing:
		return "replacing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options tunes a Session. Zero values select the defaults.
type Options struct {
	Wait            bool
	Verbose         bool
	PollInterval    time.Duration
	VerboseInterval time.Duration

	// Out receives verbose status lines.
	Out   io.Writer
	Sleep func(time.Duration)
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.VerboseInterval <= 0 {
		o.VerboseInterval = DefaultVerboseInterval
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session is a single-use grab/release run. It is not safe for concurrent use.
type Session struct {
	display   Display
	binding   hotkeys.Binding
	ignorable hotkeys.Ignorable
	opts      Options
	state     State
	closed    bool
}

// New creates an idle Session. The Session owns display from here on and
// closes it before replacing the process.
func New(display Display, binding hotkeys.Binding, ignorable hotkeys.Ignorable, opts Options) *Session {
	return &Session{
		display:   display,
		binding:   binding,
		ignorable: ignorable,
		opts:      opts.withDefaults(),
		state:     StateIdle,
	}
}

// State returns the current lifecycle stage.
func (s *Session) State() State { return s.state }

// Arm registers one grab per subset of the ignorable mask so the hotkey
// fires whatever the lock-key state. It returns the number of grabs issued.
func (s *Session) Arm() (int, error) {
	if s.state != StateIdle {
		return 0, fmt.Errorf("arm: session is %s", s.state)
	}
	subsets := hotkeys.Subsets(s.ignorable.Mask)
	for _, extra := range subsets {
		mods := s.binding.Mask() | extra
		if err := s.display.GrabKey(s.binding.Key(), mods); err != nil {
			// A conflicting grab by another client only loses this combination.
			slog.Warn("[grab] key grab failed", "binding", s.binding.Normalized(),
				"keycode", s.binding.Key(), "mask", fmt.Sprintf("%#x", mods), "error", err)
			continue
		}
		slog.Debug("[grab] key grab registered", "keycode", s.binding.Key(), "mask", fmt.Sprintf("%#x", mods))
	}
	s.state = StateArmed
	return len(subsets), nil
}

// AwaitTrigger blocks until a key press is delivered. The pressed key is not
// compared against the binding.
func (s *Session) AwaitTrigger() error {
	if s.state != StateArmed {
		return fmt.Errorf("await trigger: session is %s", s.state)
	}
	if err := s.display.WaitKeyPress(); err != nil {
		return fmt.Errorf("wait for key press: %w", err)
	}
	slog.Debug("[grab] hotkey triggered", "binding", s.binding.Normalized())
	s.state = StateTriggered
	return nil
}

// AwaitRelease polls the keyboard until no non-ignorable key is held and
// returns the number of additional polls it needed. There is no upper bound.
func (s *Session) AwaitRelease() (int, error) {
	if s.state != StateTriggered {
		return 0, fmt.Errorf("await release: session is %s", s.state)
	}
	s.state = StateWaitingForRelease

	lastStatus := s.opts.Now()
	polls := 0
	for {
		keys, err := s.display.QueryKeymap()
		if err != nil {
			return polls, fmt.Errorf("query keymap: %w", err)
		}
		held := s.heldKeysyms(keys)
		if len(held) == 0 {
			return polls, nil
		}
		if s.opts.Verbose {
			if now := s.opts.Now(); now.Sub(lastStatus) > s.opts.VerboseInterval {
				lastStatus = now
				s.printHeld(held)
			}
		}
		s.opts.Sleep(s.opts.PollInterval)
		polls++
	}
}

func (s *Session) heldKeysyms(keys hotkeys.KeyVector) []hotkeys.Keysym {
	var held []hotkeys.Keysym
	for _, code := range keys.Pressed() {
		sym := s.display.KeycodeToKeysym(code)
		if s.ignorable.Contains(sym) {
			continue
		}
		held = append(held, sym)
	}
	return held
}

func (s *Session) printHeld(held []hotkeys.Keysym) {
	names := make([]string, 0, len(held))
	for _, sym := range held {
		name := hotkeys.KeysymName(sym)
		if name == "" {
			name = fmt.Sprintf("%#x", uint32(sym))
		}
		names = append(names, name)
	}
	if _, err := fmt.Fprintf(s.opts.Out, "Key(s) pressed: %s\n", strings.Join(names, " ")); err != nil {
		slog.Debug("[grab] status write failed", "error", err)
	}
}

// Close releases the display connection. Calling it again is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.display.Close()
}

// Run arms the grab, waits for the trigger (and the release when
// Options.Wait is set), closes the display and hands the process over to
// name. Run only returns on failure.
func (s *Session) Run(exec Execer, name string, argv []string) error {
	n, err := s.Arm()
	if err != nil {
		return err
	}
	slog.Debug("[grab] armed", "binding", s.binding.Normalized(), "grabs", n)

	if err := s.AwaitTrigger(); err != nil {
		return err
	}
	if s.opts.Wait {
		polls, err := s.AwaitRelease()
		if err != nil {
			return err
		}
		slog.Debug("[grab] keys released", "polls", polls)
	}

	if err := s.Close(); err != nil {
		slog.Warn("[grab] closing display failed", "error", err)
	}
	s.state = StateReplacing
	if err := exec(name, argv); err != nil {
		return fmt.Errorf("couldn't run command: %w", err)
	}
	return nil
}
