package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/josephlewis42/lsh/core/tokenize"
	"github.com/josephlewis42/lsh/core/vos"
	"golang.org/x/sys/unix"
)

// ExitCode is the status the interpreter terminates with.
type ExitCode int

// Fatal failures each terminate the shell with their own code.
const (
	ExitSuccess            ExitCode = 0
	ExitReadFailure        ExitCode = 1
	ExitEnvironmentFailure ExitCode = 9
	ExitWaitFailure        ExitCode = 10
	ExitSpawnFailure       ExitCode = 12
)

// Exit statuses recorded for commands that never produced one.
const (
	statusUsage    = 2
	statusNotFound = 127
)

// FatalError stops the shell with Code.
type FatalError struct {
	Code ExitCode
	Err  error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error { return e.Err }

// LineReader supplies input lines. *readline.Instance satisfies it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

type Shell struct {
	VirtualIO vos.VIO
	Env       vos.VEnv
	Input     LineReader
	Launcher  vos.Launcher
	Tokenizer tokenize.Tokenizer
	Prompt    *Prompt
	Log       *log.Logger

	lastRet  int
	quit     bool
	exitCode ExitCode
}

// NewShell creates a shell with the default tokenizer, prompt and a
// fork/exec launcher. The exported fields may be replaced before Run.
func NewShell(vio vos.VIO, env vos.VEnv, input LineReader) *Shell {
	logger := log.New(io.Discard)
	return &Shell{
		VirtualIO: vio,
		Env:       env,
		Input:     input,
		Launcher:  vos.NewForkExecLauncher(logger),
		Tokenizer: tokenize.FieldsTokenizer{},
		Prompt:    NewPrompt(DefaultPrompt),
		Log:       logger,
	}
}

// LastStatus is the exit status of the most recent command.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// Run prompts for and executes lines until the input ends, exit is called or
// a fatal error occurs.
func (s *Shell) Run() ExitCode {
	for !s.quit {
		s.Input.SetPrompt(s.Prompt.Render(s.Env))
		line, err := s.Input.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return s.exitCode // Input closed, quit.

		case errors.Is(err, readline.ErrInterrupt):
			// Interrupt clears line.
			continue

		case err != nil:
			s.errorf("read: %v", err)
			return ExitReadFailure
		}

		if code, fatal := s.handleFatal(s.runLine(line)); fatal {
			return code
		}
	}
	return s.exitCode
}

// RunCommand executes a single line and returns the status of the command,
// or the fatal exit code if one occurred.
func (s *Shell) RunCommand(line string) int {
	if code, fatal := s.handleFatal(s.runLine(line)); fatal {
		return int(code)
	}
	if s.quit {
		return int(s.exitCode)
	}
	return s.lastRet
}

func (s *Shell) handleFatal(err error) (ExitCode, bool) {
	if err == nil {
		return 0, false
	}

	var fatal *FatalError
	if !errors.As(err, &fatal) {
		fatal = &FatalError{Code: ExitSpawnFailure, Err: err}
	}
	s.errorf("%v", fatal.Err)
	s.Log.Debug("fatal", "code", fatal.Code, "err", fatal.Err)
	return fatal.Code, true
}

// runLine executes one line of input. Recoverable failures are reported and
// recorded in the last status, only fatal ones are returned.
func (s *Shell) runLine(line string) error {
	cmd, err := s.Tokenizer.Tokenize(line)
	if err != nil {
		s.errorf("%v", err)
		s.lastRet = statusUsage
		return nil
	}

	if cmd.Empty() {
		return nil
	}

	if handled, err := s.dispatchBuiltin(cmd); handled {
		if err != nil {
			s.errorf("%s", describeError(err))
		}
		return nil
	}

	return s.runExternal(cmd)
}

// dispatchBuiltin runs cmd if it names a builtin, handled is false otherwise.
func (s *Shell) dispatchBuiltin(cmd tokenize.Command) (handled bool, err error) {
	builtin, ok := AllBuiltins[cmd.Name()]
	if !ok {
		return false, nil
	}

	s.Log.Debug("builtin", "name", cmd.Name(), "args", cmd.Args())
	err = builtin.Main(s, cmd)
	if err != nil {
		s.lastRet = 1
	} else {
		s.lastRet = 0
	}
	return true, err
}

func (s *Shell) runExternal(cmd tokenize.Command) error {
	name := cmd.Name()

	var sp vos.SearchPath
	if !vos.HasPathSeparator(name) {
		var ok bool
		sp, ok = vos.SearchPathFromEnv(s.Env)
		if !ok {
			return &FatalError{
				Code: ExitEnvironmentFailure,
				Err:  fmt.Errorf("%s: %s is not set", name, vos.EnvPath),
			}
		}
	}

	status, err := vos.Resolve(sp, s.Launcher, cmd, &vos.ProcAttr{
		Env:    s.Env.Environ(),
		Stdin:  s.VirtualIO.Stdin(),
		Stdout: s.VirtualIO.Stdout(),
		Stderr: s.VirtualIO.Stderr(),
	})

	var spawnErr *vos.SpawnError
	var waitErr *vos.WaitError
	switch {
	case errors.As(err, &spawnErr):
		return &FatalError{Code: ExitSpawnFailure, Err: err}

	case errors.As(err, &waitErr):
		return &FatalError{Code: ExitWaitFailure, Err: err}

	case errors.Is(err, vos.ErrCommandNotFound):
		s.Log.Debug("not found", "name", name, "err", err)
		s.lastRet = statusNotFound
		if vos.HasPathSeparator(name) && !errors.Is(err, unix.ENOENT) {
			var execErr *vos.ExecError
			if errors.As(err, &execErr) {
				s.errorf("%s: %v", name, execErr.Err)
				return nil
			}
		}
		s.errorf("%s: command not found", name)
		return nil

	case err != nil:
		return err
	}

	if status.Signaled() {
		s.lastRet = 128 + int(status.Signal)
	} else {
		s.lastRet = status.ExitCode
	}
	if !status.Success() {
		s.errorf("%s: %s", name, status)
	}
	return nil
}

// errorf writes a diagnostic line to stderr.
func (s *Shell) errorf(format string, a ...interface{}) {
	fmt.Fprintf(s.VirtualIO.Stderr(), "lsh: "+format+"\n", a...)
}

// describeError formats builtin errors the way a shell reports them:
// "op: path: reason".
func describeError(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if pathErr.Path == "" {
			return fmt.Sprintf("%s: %v", pathErr.Op, pathErr.Err)
		}
		return fmt.Sprintf("%s: %s: %v", pathErr.Op, pathErr.Path, pathErr.Err)
	}
	return err.Error()
}
