// Package procutil hands the current process over to a child command.
// On unix the process image is replaced with execve; elsewhere the child is
// spawned, waited for, and its exit status becomes this process's status.
package procutil
