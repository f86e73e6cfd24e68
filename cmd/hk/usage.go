package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	// NOTE: Usage output is best-effort; write failures are non-fatal.
	_, _ = fmt.Fprintf(w, "Usage: %s [-hvw] <hotkey> <cmd> [<cmdarg1> ... <cmdargn>]\n", progName)
	_, _ = fmt.Fprintln(w, "  -h  show this help")
	_, _ = fmt.Fprintln(w, "  -v  with -w, report held keys once a second")
	_, _ = fmt.Fprintln(w, "  -w  wait until all keys are released before running <cmd>")
	_, _ = fmt.Fprintln(w, "Hotkeys look like Ctrl+Alt+F6; modifiers are alt, ctrl, control, shift, meta, super.")
}
