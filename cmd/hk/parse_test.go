package main

import (
	"errors"
	"slices"
	"testing"
)

func TestParseInvocation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantVerbose bool
		wantWait    bool
		wantHotkey  string
		wantArgv    []string
	}{
		{
			name:       "positional only",
			args:       []string{"Ctrl+Alt+t", "xterm"},
			wantHotkey: "Ctrl+Alt+t",
			wantArgv:   []string{"xterm"},
		},
		{
			name:        "separate flags",
			args:        []string{"-v", "-w", "Ctrl+a", "echo", "hi"},
			wantVerbose: true,
			wantWait:    true,
			wantHotkey:  "Ctrl+a",
			wantArgv:    []string{"echo", "hi"},
		},
		{
			name:        "combined flags",
			args:        []string{"-wv", "Ctrl+a", "echo"},
			wantVerbose: true,
			wantWait:    true,
			wantHotkey:  "Ctrl+a",
			wantArgv:    []string{"echo"},
		},
		{
			name:       "child flags are not parsed",
			args:       []string{"Super+Return", "ls", "-l", "-w"},
			wantHotkey: "Super+Return",
			wantArgv:   []string{"ls", "-l", "-w"},
		},
		{
			name:       "double dash ends options",
			args:       []string{"-w", "--", "Ctrl+a", "-v"},
			wantWait:   true,
			wantHotkey: "Ctrl+a",
			wantArgv:   []string{"-v"},
		},
		{
			name:       "lone dash is positional",
			args:       []string{"-", "cat"},
			wantHotkey: "-",
			wantArgv:   []string{"cat"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInvocation(tt.args)
			if err != nil {
				t.Fatalf("parseInvocation(%v) error = %v", tt.args, err)
			}
			if got.help {
				t.Fatal("help = true, want false")
			}
			if got.verbose != tt.wantVerbose || got.wait != tt.wantWait {
				t.Fatalf("verbose, wait = %v, %v, want %v, %v", got.verbose, got.wait, tt.wantVerbose, tt.wantWait)
			}
			if got.hotkey != tt.wantHotkey {
				t.Fatalf("hotkey = %q, want %q", got.hotkey, tt.wantHotkey)
			}
			if !slices.Equal(got.argv, tt.wantArgv) {
				t.Fatalf("argv = %v, want %v", got.argv, tt.wantArgv)
			}
			if got.command() != tt.wantArgv[0] {
				t.Fatalf("command() = %q, want %q", got.command(), tt.wantArgv[0])
			}
		})
	}
}

func TestParseInvocationHelp(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"-vh"}, {"-w", "-h", "Ctrl+a", "true"}, {"-h", "-q"}, {"-hx"}, {"-vhq", "Ctrl+a"}} {
		got, err := parseInvocation(args)
		if err != nil {
			t.Fatalf("parseInvocation(%v) error = %v", args, err)
		}
		if !got.help {
			t.Fatalf("parseInvocation(%v) help = false, want true", args)
		}
	}
}

func TestParseInvocationErrors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
	}{
		{name: "empty", args: nil},
		{name: "hotkey only", args: []string{"Ctrl+a"}},
		{name: "flags only", args: []string{"-vw"}},
		{name: "nothing after double dash", args: []string{"--", "Ctrl+a"}},
		{name: "unknown flag", args: []string{"-q", "Ctrl+a", "true"}, wantUsage: true},
		{name: "unknown flag in group", args: []string{"-wq", "Ctrl+a", "true"}, wantUsage: true},
		{name: "unknown flag before help", args: []string{"-qh", "Ctrl+a", "true"}, wantUsage: true},
		{name: "long flag", args: []string{"--wait", "Ctrl+a", "true"}, wantUsage: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInvocation(tt.args)
			if err == nil {
				t.Fatalf("parseInvocation(%v) expected error", tt.args)
			}
			var usageErr *usageError
			if got := errors.As(err, &usageErr); got != tt.wantUsage {
				t.Fatalf("errors.As(usageError) = %v, want %v (err %v)", got, tt.wantUsage, err)
			}
			if !tt.wantUsage && !errors.Is(err, errMissingArgs) {
				t.Fatalf("error = %v, want errMissingArgs", err)
			}
		})
	}
}

func TestExpandCombinedFlags(t *testing.T) {
	tests := []struct {
		arg    string
		want   []string
		wantOK bool
	}{
		{arg: "-v", want: []string{"-v"}, wantOK: true},
		{arg: "-hvw", want: []string{"-h", "-v", "-w"}, wantOK: true},
		{arg: "-vx", want: []string{"-v"}, wantOK: false},
		{arg: "-xv", want: []string{}, wantOK: false},
		{arg: "-", wantOK: false},
		{arg: "vw", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := expandCombinedFlags(tt.arg)
		if ok != tt.wantOK {
			t.Fatalf("expandCombinedFlags(%q) ok = %v, want %v", tt.arg, ok, tt.wantOK)
		}
		if !slices.Equal(got, tt.want) {
			t.Fatalf("expandCombinedFlags(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
