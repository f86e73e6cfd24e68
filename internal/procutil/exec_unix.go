//go:build unix

package procutil

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Exec resolves name through $PATH and replaces the current process with it,
// passing argv and the current environment. It returns only on failure.
func Exec(name string, argv []string) error {
	path, err := lookPathFn(name)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		argv = []string{name}
	}
	if err := execFn(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

var (
	lookPathFn = exec.LookPath
	execFn     = unix.Exec
)
