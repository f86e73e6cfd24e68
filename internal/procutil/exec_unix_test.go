//go:build unix

package procutil

import (
	"errors"
	"os/exec"
	"slices"
	"testing"
)

func stubExec(t *testing.T, lookPath func(string) (string, error), run func(string, []string, []string) error) {
	t.Helper()
	origLookPath, origExec := lookPathFn, execFn
	lookPathFn, execFn = lookPath, run
	t.Cleanup(func() {
		lookPathFn, execFn = origLookPath, origExec
	})
}

func TestExecResolvesPathAndPassesArgv(t *testing.T) {
	var gotPath string
	var gotArgv, gotEnv []string
	stubExec(t,
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		func(path string, argv []string, env []string) error {
			gotPath, gotArgv, gotEnv = path, argv, env
			return nil
		})
	t.Setenv("HK_EXEC_TEST", "1")

	if err := Exec("echo", []string{"echo", "hello"}); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if gotPath != "/usr/bin/echo" {
		t.Fatalf("exec path = %q, want /usr/bin/echo", gotPath)
	}
	if !slices.Equal(gotArgv, []string{"echo", "hello"}) {
		t.Fatalf("exec argv = %v, want [echo hello]", gotArgv)
	}
	if !slices.Contains(gotEnv, "HK_EXEC_TEST=1") {
		t.Fatal("exec env does not carry the current environment")
	}
}

func TestExecDefaultsArgvToName(t *testing.T) {
	var gotArgv []string
	stubExec(t,
		func(name string) (string, error) { return "/bin/" + name, nil },
		func(_ string, argv []string, _ []string) error {
			gotArgv = argv
			return nil
		})

	if err := Exec("true", nil); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if !slices.Equal(gotArgv, []string{"true"}) {
		t.Fatalf("exec argv = %v, want [true]", gotArgv)
	}
}

func TestExecLookPathFailure(t *testing.T) {
	called := false
	stubExec(t,
		func(name string) (string, error) { return "", &exec.Error{Name: name, Err: exec.ErrNotFound} },
		func(string, []string, []string) error { called = true; return nil })

	err := Exec("no-such-command", []string{"no-such-command"})
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("Exec() error = %v, want exec.ErrNotFound", err)
	}
	if called {
		t.Fatal("execve called after lookup failure")
	}
}

func TestExecReportsExecveFailure(t *testing.T) {
	execErr := errors.New("permission denied")
	stubExec(t,
		func(name string) (string, error) { return "/tmp/" + name, nil },
		func(string, []string, []string) error { return execErr })

	err := Exec("script", []string{"script"})
	if !errors.Is(err, execErr) {
		t.Fatalf("Exec() error = %v, want %v", err, execErr)
	}
}

func TestExecRealLookupOfMissingCommand(t *testing.T) {
	// Uses the real lookPath; execve must never be reached.
	if err := Exec("hk-definitely-not-installed", nil); err == nil {
		t.Fatal("Exec() of a missing command returned nil")
	}
}
