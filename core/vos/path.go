package vos

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// EnvPath is the environment variable holding the command search path.
const EnvPath = "PATH"

// SearchPath is the ordered list of directories searched for bare command
// names. An empty entry is valid and refers to the current directory.
type SearchPath []string

// ParseSearchPath splits a colon separated PATH value. Empty entries are
// kept, so "/bin::/usr/bin" has three elements.
func ParseSearchPath(value string) SearchPath {
	return SearchPath(strings.Split(value, string(os.PathListSeparator)))
}

// SearchPathFromEnv derives the SearchPath from env. The boolean is false if
// PATH is not set at all.
func SearchPathFromEnv(env VEnv) (SearchPath, bool) {
	value, ok := env.LookupEnv(EnvPath)
	if !ok {
		return nil, false
	}
	return ParseSearchPath(value), true
}

// HasPathSeparator reports whether name must be used verbatim instead of
// being searched for.
func HasPathSeparator(name string) bool {
	return strings.ContainsRune(name, filepath.Separator)
}

// Candidates yields the full path for name in each directory of the search
// path, in order. Nothing is checked for existence.
//
// If name contains a slash it is yielded verbatim and the search path is not
// consulted.
func (sp SearchPath) Candidates(name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if HasPathSeparator(name) {
			yield(name)
			return
		}

		for _, dir := range sp {
			if !yield(joinCandidate(dir, name)) {
				return
			}
		}
	}
}

func joinCandidate(dir, name string) string {
	if dir == "" {
		// Unix shell semantics: path element "" means "."
		return "." + string(filepath.Separator) + name
	}
	return filepath.Join(dir, name)
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCommandNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath returns the candidates for name that look executable, in search
// order. It only inspects file modes and never starts a process; the shell
// itself resolves by launching, see Resolve.
func LookPath(sp SearchPath, name string) ([]string, error) {
	var found []string
	for candidate := range sp.Candidates(name) {
		if err := findExecutable(candidate); err == nil {
			found = append(found, candidate)
		}
	}

	if len(found) == 0 {
		return nil, ErrCommandNotFound
	}
	return found, nil
}
