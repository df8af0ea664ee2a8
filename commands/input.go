package commands

import (
	"github.com/abiosoft/readline"
	"github.com/josephlewis42/lsh/core/vos"
)

var _ LineReader = (*readline.Instance)(nil)

// NewReadlineInput creates a line reader on the shell's standard streams.
func NewReadlineInput(vio vos.VIO) (*readline.Instance, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(vio.Stdin()),
		Stdout: vio.Stdout(),
		Stderr: vio.Stderr(),
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}
