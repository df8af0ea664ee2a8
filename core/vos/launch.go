package vos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// LaunchState is a step in the life of a single external command.
type LaunchState int

const (
	// StateIdle means no child exists.
	StateIdle LaunchState = iota
	// StateForking means the process is being duplicated.
	StateForking
	// StateChildExec is the new control flow replacing its image. It only
	// exists inside the child and is never observed by the parent.
	StateChildExec
	// StateParentWaiting means the parent is blocked until the child ends.
	StateParentWaiting
	// StateReaped means the child's status has been collected.
	StateReaped
)

func (s LaunchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateForking:
		return "forking"
	case StateChildExec:
		return "child-exec"
	case StateParentWaiting:
		return "parent-waiting"
	case StateReaped:
		return "reaped"
	default:
		return fmt.Sprintf("LaunchState(%d)", int(s))
	}
}

// ProcAttr holds the attributes of a child process.
type ProcAttr struct {
	// Dir is the working directory of the child, empty means inherit.
	Dir string

	// Env holds the child's environment in "key=value" form.
	Env []string

	// Stdin is passed through if it is an *os.File, anything else is
	// replaced by the null device.
	Stdin io.Reader

	// Stdout and Stderr are passed through if they are *os.File values,
	// other writers receive the output through a pipe. A nil writer discards
	// the output.
	Stdout io.Writer
	Stderr io.Writer
}

// Status is the termination status of a reaped child.
type Status struct {
	Path string
	Pid  int

	// ExitCode is the child's exit code, or -1 if it was killed by a signal.
	ExitCode int

	// Signal is the signal that terminated the child, zero if it exited.
	Signal unix.Signal
}

// Signaled reports whether the child was terminated by a signal.
func (s *Status) Signaled() bool {
	return s.Signal != 0
}

// Success reports whether the child exited with code 0.
func (s *Status) Success() bool {
	return !s.Signaled() && s.ExitCode == 0
}

func (s *Status) String() string {
	if s.Signaled() {
		return fmt.Sprintf("terminated by signal %v", s.Signal)
	}
	return fmt.Sprintf("exit status %d", s.ExitCode)
}

func newStatus(path string, pid int, ws unix.WaitStatus) *Status {
	st := &Status{Path: path, Pid: pid}
	switch {
	case ws.Signaled():
		st.ExitCode = -1
		st.Signal = ws.Signal()
	default:
		st.ExitCode = ws.ExitStatus()
	}
	return st
}

// Launcher starts a single candidate and waits for it to terminate.
//
// Launch returns either the status of a child that was started, or an error
// and no child. An *ExecError means the candidate could not be executed, a
// *SpawnError that no child could be created and a *WaitError that the child
// could not be reaped.
type Launcher interface {
	Launch(path string, argv []string, attr *ProcAttr) (*Status, error)
}

// ForkExecLauncher launches children with fork and exec and reaps them with
// wait4.
type ForkExecLauncher struct {
	log *log.Logger
}

var _ Launcher = (*ForkExecLauncher)(nil)

// NewForkExecLauncher creates a launcher, logger may be nil.
func NewForkExecLauncher(logger *log.Logger) *ForkExecLauncher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ForkExecLauncher{log: logger}
}

func (l *ForkExecLauncher) transition(state LaunchState, keyvals ...interface{}) {
	l.log.Debug("launch", append([]interface{}{"state", state}, keyvals...)...)
}

// Launch implements Launcher.
func (l *ForkExecLauncher) Launch(path string, argv []string, attr *ProcAttr) (*Status, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}

	files, err := openChildFiles(attr)
	if err != nil {
		return nil, &SpawnError{Path: path, Err: err}
	}

	l.transition(StateForking, "path", path)
	pid, err := syscall.ForkExec(path, argv, &syscall.ProcAttr{
		Dir:   attr.Dir,
		Env:   attr.Env,
		Files: files.fds,
	})
	files.closeChildEnds()
	if err != nil {
		files.abort()
		l.transition(StateIdle, "path", path, "err", err)
		if isSpawnFailure(err) {
			return nil, &SpawnError{Path: path, Err: err}
		}
		return nil, &ExecError{Path: path, Err: err}
	}

	l.transition(StateParentWaiting, "path", path, "pid", pid)
	var ws unix.WaitStatus
	for {
		_, err = unix.Wait4(pid, &ws, 0, nil)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}
	if err != nil {
		// The child may still hold the pipes open, so don't wait for EOF.
		files.closeParentEnds()
		files.wait()
		return nil, &WaitError{Pid: pid, Err: err}
	}
	copyErr := files.wait()

	status := newStatus(path, pid, ws)
	l.transition(StateReaped, "path", path, "pid", pid, "status", status)
	if copyErr != nil {
		l.log.Warn("copying child output", "path", path, "err", copyErr)
	}
	return status, nil
}

// isSpawnFailure reports whether a ForkExec error came from creating the
// process rather than from executing the candidate in it.
//
// ForkExec reports errors from the child's execve through the same channel,
// so an execve failing with ENOMEM or EAGAIN is also treated as a spawn
// failure.
func isSpawnFailure(err error) bool {
	return errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.ENOMEM) ||
		errors.Is(err, unix.ENOSYS)
}

// childFiles are the descriptors handed to a child, plus the parent-side
// resources that have to be released around it.
type childFiles struct {
	fds []uintptr

	// childEnds are closed in the parent once the child has been forked.
	childEnds []io.Closer
	// parentEnds are closed once the child has been reaped.
	parentEnds []io.Closer

	copiers errgroup.Group
}

func openChildFiles(attr *ProcAttr) (*childFiles, error) {
	cf := &childFiles{}

	stdin, err := cf.reader(attr.Stdin)
	if err != nil {
		cf.abort()
		return nil, err
	}
	cf.fds = append(cf.fds, stdin.Fd())

	stdout, err := cf.writer(attr.Stdout)
	if err != nil {
		cf.abort()
		return nil, err
	}
	cf.fds = append(cf.fds, stdout.Fd())

	// A writer shared by both streams gets a single pipe so only one copier
	// ever writes to it.
	stderr := stdout
	if !sameWriter(attr.Stdout, attr.Stderr) {
		if stderr, err = cf.writer(attr.Stderr); err != nil {
			cf.abort()
			return nil, err
		}
	}
	cf.fds = append(cf.fds, stderr.Fd())

	return cf, nil
}

// sameWriter reports whether a and b are the same writer. Writers with
// uncomparable dynamic types are never the same.
func sameWriter(a, b io.Writer) (same bool) {
	if a == nil || b == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func (cf *childFiles) reader(r io.Reader) (*os.File, error) {
	if f, ok := r.(*os.File); ok {
		return f, nil
	}
	f, err := os.Open(os.DevNull)
	if err != nil {
		return nil, err
	}
	cf.parentEnds = append(cf.parentEnds, f)
	return f, nil
}

func (cf *childFiles) writer(w io.Writer) (*os.File, error) {
	if w == nil {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, err
		}
		cf.parentEnds = append(cf.parentEnds, f)
		return f, nil
	}
	if f, ok := w.(*os.File); ok {
		return f, nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cf.childEnds = append(cf.childEnds, pw)
	cf.parentEnds = append(cf.parentEnds, pr)
	cf.copiers.Go(func() error {
		_, err := io.Copy(w, pr)
		return err
	})
	return pw, nil
}

func (cf *childFiles) closeChildEnds() {
	for _, c := range cf.childEnds {
		c.Close()
	}
	cf.childEnds = nil
}

// wait blocks until all output has been copied, then releases the parent
// side of the pipes.
func (cf *childFiles) wait() error {
	err := cf.copiers.Wait()
	cf.closeParentEnds()
	return err
}

func (cf *childFiles) closeParentEnds() {
	for _, c := range cf.parentEnds {
		c.Close()
	}
	cf.parentEnds = nil
}

// abort releases everything when no child was started.
func (cf *childFiles) abort() {
	cf.closeChildEnds()
	cf.wait()
}
