// Package tokenize splits raw input lines into commands.
package tokenize

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/anmitsu/go-shlex"
)

// Command is an ordered list of arguments, the first one names the command.
type Command []string

// Empty reports whether the command has no arguments at all.
func (c Command) Empty() bool {
	return len(c) == 0
}

// Name returns the invoked name, or "" for an empty command.
func (c Command) Name() string {
	if c.Empty() {
		return ""
	}
	return c[0]
}

// Args returns the arguments following the name.
func (c Command) Args() []string {
	if c.Empty() {
		return nil
	}
	return c[1:]
}

// Cursor is a position in a line being tokenized. Cursors are values:
// advancing one returns a new Cursor and leaves the original untouched.
type Cursor struct {
	line string
	pos  int
}

// NewCursor returns a cursor at the start of line.
func NewCursor(line string) Cursor {
	return Cursor{line: line}
}

// Next returns the next whitespace delimited token and the cursor following
// it. ok is false once the line holds no more tokens.
func (c Cursor) Next() (token string, next Cursor, ok bool) {
	start := c.skip(c.pos, true)
	if start >= len(c.line) {
		return "", Cursor{line: c.line, pos: len(c.line)}, false
	}
	end := c.skip(start, false)
	return c.line[start:end], Cursor{line: c.line, pos: end}, true
}

// skip advances from pos over runes whose space-ness matches space.
func (c Cursor) skip(pos int, space bool) int {
	for pos < len(c.line) {
		r, size := utf8.DecodeRuneInString(c.line[pos:])
		if unicode.IsSpace(r) != space {
			break
		}
		pos += size
	}
	return pos
}

// Fields splits line on whitespace and newlines, dropping empty tokens.
func Fields(line string) Command {
	var cmd Command
	for tok, cur, ok := NewCursor(line).Next(); ok; tok, cur, ok = cur.Next() {
		cmd = append(cmd, tok)
	}
	return cmd
}

// Tokenizer turns a line of input into a Command.
type Tokenizer interface {
	Tokenize(line string) (Command, error)
}

// FieldsTokenizer splits on whitespace only, quotes have no meaning.
type FieldsTokenizer struct{}

var _ Tokenizer = FieldsTokenizer{}

// Tokenize implements Tokenizer.
func (FieldsTokenizer) Tokenize(line string) (Command, error) {
	return Fields(line), nil
}

// POSIXTokenizer understands single quotes, double quotes and backslash
// escapes the way a POSIX shell splits words.
type POSIXTokenizer struct{}

var _ Tokenizer = POSIXTokenizer{}

// Tokenize implements Tokenizer.
func (POSIXTokenizer) Tokenize(line string) (Command, error) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return Command(tokens), nil
}

const (
	ModeFields = "fields"
	ModePOSIX  = "posix"
)

// ForMode returns the tokenizer for a configured mode name.
func ForMode(mode string) (Tokenizer, error) {
	switch mode {
	case "", ModeFields:
		return FieldsTokenizer{}, nil
	case ModePOSIX:
		return POSIXTokenizer{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", mode)
	}
}
