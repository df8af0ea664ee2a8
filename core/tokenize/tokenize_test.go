package tokenize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleFields() {
	fmt.Printf("%q\n", Fields("ls -l /tmp\n"))

	// Output: ["ls" "-l" "/tmp"]
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Command
	}{
		{"simple", "ls -l /tmp\n", Command{"ls", "-l", "/tmp"}},
		{"no newline", "echo hello", Command{"echo", "hello"}},
		{"repeated spaces", "  echo   a  b ", Command{"echo", "a", "b"}},
		{"tabs", "echo\ta\t\tb", Command{"echo", "a", "b"}},
		{"quotes are literal", `echo "a b"`, Command{"echo", `"a`, `b"`}},
		{"unicode", "echo héllo wörld", Command{"echo", "héllo", "wörld"}},
		{"blank", "", nil},
		{"only newline", "\n", nil},
		{"only whitespace", " \t \n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fields(tt.input))
		})
	}
}

func TestFields_Grows(t *testing.T) {
	line := ""
	for i := 0; i < 5000; i++ {
		line += fmt.Sprintf("a%d ", i)
	}

	cmd := Fields(line)

	require.Len(t, cmd, 5000)
	assert.Equal(t, "a0", cmd.Name())
	assert.Equal(t, "a4999", cmd[4999])
}

func TestCursor_Reentrant(t *testing.T) {
	start := NewCursor("one two three")

	first, afterFirst, ok := start.Next()
	require.True(t, ok)
	assert.Equal(t, "one", first)

	// Interleave a second, independent line.
	other, _, ok := NewCursor("alpha beta").Next()
	require.True(t, ok)
	assert.Equal(t, "alpha", other)

	second, _, ok := afterFirst.Next()
	require.True(t, ok)
	assert.Equal(t, "two", second)

	// The original cursor is unchanged.
	again, _, ok := start.Next()
	require.True(t, ok)
	assert.Equal(t, "one", again)
}

func TestCursor_Exhausted(t *testing.T) {
	_, cur, ok := NewCursor("only").Next()
	require.True(t, ok)

	tok, cur, ok := cur.Next()
	assert.False(t, ok)
	assert.Empty(t, tok)

	_, _, ok = cur.Next()
	assert.False(t, ok)
}

func TestCommand(t *testing.T) {
	cmd := Command{"cd", "/tmp"}
	assert.False(t, cmd.Empty())
	assert.Equal(t, "cd", cmd.Name())
	assert.Equal(t, []string{"/tmp"}, cmd.Args())

	var empty Command
	assert.True(t, empty.Empty())
	assert.Equal(t, "", empty.Name())
	assert.Nil(t, empty.Args())
}

func TestPOSIXTokenizer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Command
	}{
		{"simple", "ls -l /tmp\n", Command{"ls", "-l", "/tmp"}},
		{"double quotes", `echo "hello world"`, Command{"echo", "hello world"}},
		{"single quotes", `echo 'a  b'`, Command{"echo", "a  b"}},
		{"escaped space", `echo hello\ world`, Command{"echo", "hello world"}},
		{"blank", " \n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := POSIXTokenizer{}.Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}

	t.Run("unclosed quote", func(t *testing.T) {
		_, err := POSIXTokenizer{}.Tokenize(`echo "oops`)
		assert.Error(t, err)
	})
}

func TestForMode(t *testing.T) {
	tok, err := ForMode("")
	require.NoError(t, err)
	assert.IsType(t, FieldsTokenizer{}, tok)

	tok, err = ForMode(ModePOSIX)
	require.NoError(t, err)
	assert.IsType(t, POSIXTokenizer{}, tok)

	_, err = ForMode("bogus")
	assert.Error(t, err)
}
