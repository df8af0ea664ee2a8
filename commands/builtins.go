package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/josephlewis42/lsh/core/vos"
)

const (
	EnvPWD    = "PWD"
	EnvOldPWD = "OLDPWD"
)

var (
	ErrMissingOperand = errors.New("missing operand")
	ErrTooManyArgs    = errors.New("too many arguments")
)

// AllBuiltins holds a list of all registered shell builtins. It is filled
// once during package initialization and only read afterwards.
var AllBuiltins = make(map[string]ShellBuiltin)

// ShellBuiltin is a command run inside the shell process. args includes the
// command name.
type ShellBuiltin interface {
	Main(s *Shell, args []string) error
}

type ShellBuiltinFunc func(s *Shell, args []string) error

func (f ShellBuiltinFunc) Main(s *Shell, args []string) error {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the names of all builtins, sorted.
func BuiltinNames() []string {
	var names []string
	for k := range AllBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin. Failing to change directory leaves the working
// directory as it was.
func Cd(s *Shell, args []string) error {
	switch len(args) {
	case 1:
		return &fs.PathError{Op: args[0], Err: ErrMissingOperand}
	case 2:
	default:
		return &fs.PathError{Op: args[0], Err: ErrTooManyArgs}
	}

	target := args[1]
	previous, _ := os.Getwd()
	if err := os.Chdir(target); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return &fs.PathError{Op: args[0], Path: target, Err: err}
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = target
	}
	if previous != "" {
		s.Env.Setenv(EnvOldPWD, previous)
	}
	s.Env.Setenv(EnvPWD, wd)
	return nil
}

// Echo writes its arguments separated by spaces.
func Echo(s *Shell, args []string) error {
	_, err := fmt.Fprintln(s.VirtualIO.Stdout(), strings.Join(args[1:], " "))
	return err
}

// Pwd prints the working directory.
func Pwd(s *Shell, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	_, err = fmt.Fprintln(s.VirtualIO.Stdout(), wd)
	return err
}

// Exit quits the shell with the given code, or the last status.
func Exit(s *Shell, args []string) error {
	code := s.lastRet
	switch len(args) {
	case 1:
	case 2:
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%s: %s: numeric argument required", args[0], args[1])
		}
		code = parsed
	default:
		return fmt.Errorf("%s: %w", args[0], ErrTooManyArgs)
	}

	s.quit = true
	s.exitCode = ExitCode(uint8(code))
	return nil
}

// Help lists the builtins.
func Help(s *Shell, args []string) error {
	cmd := &SimpleCommand{
		Use:   "help",
		Short: "List the commands built into the shell.",
	}

	return cmd.Run(s, args, func() error {
		w := s.VirtualIO.Stdout()
		fmt.Fprintln(w, "lsh: these commands are built in.")
		fmt.Fprintln(w, "Anything else is searched for in $PATH.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Join(BuiltinNames(), "\n"))
		return nil
	})
}

// Type describes how each name would be run.
func Type(s *Shell, args []string) error {
	cmd := &SimpleCommand{
		Use:   "type [-a] NAME...",
		Short: "Display how each NAME would be interpreted as a command.",
	}
	opts := cmd.Flags()
	all := opts.Bool('a', "show every matching executable, not just the first")

	return cmd.Run(s, args, func() error {
		names := opts.Args()
		if len(names) == 0 {
			return fmt.Errorf("%s: %w", args[0], ErrMissingOperand)
		}

		// An unset PATH only matters when actually launching.
		sp, _ := vos.SearchPathFromEnv(s.Env)

		w := s.VirtualIO.Stdout()
		var missing []string
		for _, name := range names {
			if _, ok := AllBuiltins[name]; ok {
				fmt.Fprintf(w, "%s is a shell builtin\n", name)
				if !*all {
					continue
				}
			}

			found, err := vos.LookPath(sp, name)
			if err != nil {
				if _, ok := AllBuiltins[name]; !ok {
					missing = append(missing, name)
				}
				continue
			}
			if !*all {
				found = found[:1]
			}
			for _, path := range found {
				fmt.Fprintf(w, "%s is %s\n", name, path)
			}
		}

		if len(missing) > 0 {
			return fmt.Errorf("%s: not found: %s", args[0], strings.Join(missing, " "))
		}
		return nil
	})
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["echo"] = ShellBuiltinFunc(Echo)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["type"] = ShellBuiltinFunc(Type)
}
