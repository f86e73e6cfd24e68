package main

import (
	"errors"
	"fmt"
	"strings"
)

// errMissingArgs reports fewer than two positional arguments.
var errMissingArgs = errors.New("a hotkey and a command are required")

// usageError is an option the parser does not know.
type usageError struct {
	arg string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("unknown option %s", e.arg)
}

type invocation struct {
	help    bool
	verbose bool
	wait    bool
	hotkey  string
	// argv is the child's full argument vector; argv[0] is the command.
	argv []string
}

func (inv invocation) command() string {
	if len(inv.argv) == 0 {
		return ""
	}
	return inv.argv[0]
}

var optionFlags = map[string]struct{}{
	"-h": {},
	"-v": {},
	"-w": {},
}

// parseInvocation parses [-hvw] <hotkey> <cmd> [args...]. Option parsing
// stops at "--" or at the first non-option, so flags meant for the child
// command are left alone. -h wins as soon as it is seen.
func parseInvocation(args []string) (invocation, error) {
	var inv invocation

	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			break
		}

		// Flags are applied left to right, so "-hx" still shows help.
		flags, ok := expandCombinedFlags(arg)
		for _, flag := range flags {
			switch flag {
			case "-h":
				return invocation{help: true}, nil
			case "-v":
				inv.verbose = true
			case "-w":
				inv.wait = true
			}
		}
		if !ok {
			return invocation{}, &usageError{arg: arg}
		}
		i++
	}

	rest := args[i:]
	if len(rest) < 2 {
		return invocation{}, errMissingArgs
	}
	inv.hotkey = rest[0]
	inv.argv = append([]string(nil), rest[1:]...)
	return inv, nil
}

// expandCombinedFlags expands combined bool flags like "-vw" into ["-v", "-w"].
// Expansion stops at the first unknown character; ok is false in that case
// and flags holds the known flags before it.
func expandCombinedFlags(arg string) (flags []string, ok bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return nil, false
	}
	chars := arg[1:]
	flags = make([]string, 0, len(chars))
	for _, ch := range chars {
		flag := "-" + string(ch)
		if _, known := optionFlags[flag]; !known {
			return flags, false
		}
		flags = append(flags, flag)
	}
	return flags, true
}
