package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"hk/internal/config"
	"hk/internal/grab"
	"hk/internal/hotkeys"
	"hk/internal/procutil"
	"hk/internal/x11"
)

const progName = "hk"

// Test seams.
var (
	openDisplayFn = func() (grab.Display, error) {
		d, err := x11.Open()
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	execFn      grab.Execer = procutil.Exec
	sleepFn                 = time.Sleep
	nowFn                   = time.Now
	stdout      io.Writer   = os.Stdout
	stderr      io.Writer   = os.Stderr
	setLoggerFn             = slog.SetDefault
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one hk invocation and returns the process exit status. On
// success the process image is replaced, so run only returns on failure
// (or when execFn is stubbed).
func run(args []string) int {
	inv, err := parseInvocation(args)
	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			writeLineToStderr(usageErr.Error())
		}
		printUsage(stderr)
		return 1
	}
	if inv.help {
		printUsage(stderr)
		return 0
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		writeLineToStderr(err.Error())
		return 1
	}
	setLoggerFn(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	display, err := openDisplayFn()
	if err != nil {
		writeLineToStderr(err.Error())
		return 1
	}

	ignorable, err := hotkeys.IgnorableModifiers(display, cfg.IgnorableKeysyms)
	if err != nil {
		_ = display.Close()
		writeLineToStderr(err.Error())
		return 1
	}
	binding, err := hotkeys.ParseBinding(display, inv.hotkey)
	if err != nil {
		_ = display.Close()
		writeLineToStderr(err.Error())
		return 1
	}
	slog.Debug("[hk] binding parsed", "binding", binding.Normalized(),
		"mask", fmt.Sprintf("%#x", uint16(binding.Mask())), "keycode", binding.Key(),
		"ignorableMask", fmt.Sprintf("%#x", uint16(ignorable.Mask)))

	session := grab.New(display, binding, ignorable, grab.Options{
		Wait:            inv.wait,
		Verbose:         inv.verbose,
		PollInterval:    cfg.PollInterval,
		VerboseInterval: cfg.VerboseInterval,
		Out:             stdout,
		Sleep:           sleepFn,
		Now:             nowFn,
	})
	if err := session.Run(execFn, inv.command(), inv.argv); err != nil {
		_ = session.Close()
		writeLineToStderr(err.Error())
		return 1
	}
	return 0
}

func writeLineToStderr(msg string) {
	// NOTE: Diagnostics are best-effort; write failures are non-fatal.
	_, _ = fmt.Fprintf(stderr, "%s: %s\n", progName, msg)
}
