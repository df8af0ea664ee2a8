package vos

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchPath(t *testing.T) {
	cases := map[string]struct {
		value    string
		expected SearchPath
	}{
		"single":         {"/bin", SearchPath{"/bin"}},
		"ordered":        {"/usr/bin:/bin", SearchPath{"/usr/bin", "/bin"}},
		"empty-middle":   {"/bin::/usr/bin", SearchPath{"/bin", "", "/usr/bin"}},
		"trailing-colon": {"/bin:", SearchPath{"/bin", ""}},
		"empty":          {"", SearchPath{""}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseSearchPath(tc.value))
		})
	}
}

func TestSearchPathFromEnv(t *testing.T) {
	env := NewMapEnv()

	_, ok := SearchPathFromEnv(env)
	assert.False(t, ok, "unset PATH")

	env.Setenv(EnvPath, "/usr/bin:/bin")
	sp, ok := SearchPathFromEnv(env)
	assert.True(t, ok)
	assert.Equal(t, SearchPath{"/usr/bin", "/bin"}, sp)
}

func TestSearchPath_Candidates(t *testing.T) {
	cases := map[string]struct {
		path     SearchPath
		name     string
		expected []string
	}{
		"in-order":      {SearchPath{"/usr/bin", "/bin"}, "ls", []string{"/usr/bin/ls", "/bin/ls"}},
		"trailing-dir":  {SearchPath{"/usr/bin/"}, "ls", []string{"/usr/bin/ls"}},
		"empty-entry":   {SearchPath{"", "/bin"}, "ls", []string{"./ls", "/bin/ls"}},
		"absolute-name": {SearchPath{"/usr/bin", "/bin"}, "/opt/ls", []string{"/opt/ls"}},
		"relative-name": {SearchPath{"/usr/bin"}, "bin/ls", []string{"bin/ls"}},
		"no-dirs":       {nil, "ls", nil},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, slices.Collect(tc.path.Candidates(tc.name)))
		})
	}
}

func TestSearchPath_CandidatesLazy(t *testing.T) {
	sp := SearchPath{"/a", "/b", "/c"}

	var seen []string
	for candidate := range sp.Candidates("x") {
		seen = append(seen, candidate)
		if candidate == "/b/x" {
			break
		}
	}

	assert.Equal(t, []string{"/a/x", "/b/x"}, seen)
}

func TestLookPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeScript(t, first, "tool", "exit 0")
	writeScript(t, second, "tool", "exit 0")
	require.NoError(t, os.WriteFile(filepath.Join(first, "data"), []byte("x"), 0644))

	sp := SearchPath{first, second}

	found, err := LookPath(sp, "tool")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(first, "tool"), filepath.Join(second, "tool")}, found)

	_, err = LookPath(sp, "data")
	assert.ErrorIs(t, err, ErrCommandNotFound)

	_, err = LookPath(sp, "missing")
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

// writeScript creates an executable shell script named name in dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	contents := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0755))
	return path
}
