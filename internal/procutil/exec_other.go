//go:build !unix

package procutil

import (
	"errors"
	"os"
	"os/exec"
)

// Exec runs name with argv, inheriting stdio, and exits with the child's
// status. There is no execve here, so this is the closest equivalent of
// replacing the process. It returns only if the child could not be started.
func Exec(name string, argv []string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return err
	}
	cmd := exec.Command(path)
	if len(argv) > 0 {
		cmd.Args = argv
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
	os.Exit(0)
	return nil
}
