package vos

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandNotFound is returned when no candidate for a command could be
	// started.
	ErrCommandNotFound = errors.New("command not found")

	// ErrEmptyCommand is returned when asked to resolve a command with no name.
	ErrEmptyCommand = errors.New("empty command")
)

// ExecError is a failure of the child to replace its image with the
// candidate, e.g. because it does not exist or is not executable. It is
// recoverable: the next candidate on the search path is tried.
type ExecError struct {
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec %s: %v", e.Path, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// SpawnError is a failure to create the child process at all.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("fork %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// WaitError is a failure of the parent to reap a started child.
type WaitError struct {
	Pid int
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("wait pid %d: %v", e.Pid, e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }
