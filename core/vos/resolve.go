package vos

import (
	"errors"
	"fmt"
)

// Resolve runs argv by launching each candidate for argv[0] in search path
// order.
//
// The search stops at the first candidate whose exec succeeded, whatever the
// exit code of the program turns out to be. Only an *ExecError moves on to
// the next candidate, every other error is returned immediately. If no
// candidate could be executed the error wraps ErrCommandNotFound and the
// last *ExecError.
func Resolve(sp SearchPath, l Launcher, argv []string, attr *ProcAttr) (*Status, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	var lastErr error
	for candidate := range sp.Candidates(argv[0]) {
		status, err := l.Launch(candidate, argv, attr)
		if err == nil {
			return status, nil
		}

		var execErr *ExecError
		if !errors.As(err, &execErr) {
			return nil, err
		}
		lastErr = err
	}

	if lastErr == nil {
		return nil, ErrCommandNotFound
	}
	return nil, fmt.Errorf("%w: %w", ErrCommandNotFound, lastErr)
}
