// Package logger configures the structured diagnostics log of the shell.
package logger

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Levels accepted by New.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// New creates a logger writing to w at the named level. An empty level
// means warn.
func New(w io.Writer, level string) (*log.Logger, error) {
	if level == "" {
		level = LevelWarn
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: "lsh",
		Level:  lvl,
	}), nil
}
