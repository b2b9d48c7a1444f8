// Package note reads and rewrites markdown daily notes.
//
// A note is kept as its raw lines so that rewriting it touches only the lines
// that were removed or inserted. Each line is classified on demand.
package note

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrNoteNotFound is returned by Load when the note file does not exist.
var ErrNoteNotFound = errors.New("note not found")

// Type classifies a line of a note.
type Type string

const (
	TypeTitle     Type = "title"     // "# heading"
	TypeOpen      Type = "open"      // "* task" or "* [ ] task"
	TypeChecklist Type = "checklist" // "+ item"
	TypeDone      Type = "done"      // "* [x] task"
	TypeCancelled Type = "cancelled" // "* [-] task"
	TypeScheduled Type = "scheduled" // "* [>] task"
	TypeList      Type = "list"      // "- bullet"
	TypeQuote     Type = "quote"     // "> quote"
	TypeText      Type = "text"
	TypeEmpty     Type = "empty"
)

// Line is a classified line of a note.
type Line struct {
	Index        int    // position in the note
	Raw          string // line as written
	Type         Type
	Content      string // text after the marker and checkbox
	HeadingLevel int    // number of '#' for titles
	Indent       int    // leading tabs or spaces
}

// Note is a parsed daily note.
type Note struct {
	lines []string
}

// Parse splits content into lines.
func Parse(content string) *Note {
	n := &Note{}
	if content == "" {
		return n
	}
	n.lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	return n
}

// Load reads the note at path.
func Load(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, path)
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}
	return Parse(string(data)), nil
}

// Save atomically replaces the note at path.
func (n *Note) Save(path string) error {
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(n.String()))); err != nil {
		return fmt.Errorf("writing note: %w", err)
	}
	return nil
}

// String renders the note back to markdown, ending with a newline.
func (n *Note) String() string {
	if len(n.lines) == 0 {
		return ""
	}
	return strings.Join(n.lines, "\n") + "\n"
}

// Len returns the number of lines.
func (n *Note) Len() int {
	return len(n.lines)
}

// Lines returns the classified lines of the note.
func (n *Note) Lines() []Line {
	out := make([]Line, len(n.lines))
	for i, raw := range n.lines {
		out[i] = ParseLine(raw)
		out[i].Index = i
	}
	return out
}

var checkboxTypes = map[byte]Type{
	' ': TypeOpen,
	'x': TypeDone,
	'X': TypeDone,
	'-': TypeCancelled,
	'>': TypeScheduled,
}

// ParseLine classifies a single line.
func ParseLine(raw string) Line {
	trimmed := strings.TrimLeft(raw, " \t")
	l := Line{Raw: raw, Indent: len(raw) - len(trimmed)}

	switch {
	case strings.TrimSpace(raw) == "":
		l.Type = TypeEmpty
	case strings.HasPrefix(trimmed, "#") && headingLevel(trimmed) > 0:
		l.HeadingLevel = headingLevel(trimmed)
		l.Type = TypeTitle
		l.Content = strings.TrimSpace(trimmed[l.HeadingLevel:])
	case strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "+ "):
		marker := trimmed[0]
		rest := trimmed[2:]
		l.Type = TypeOpen
		switch marker {
		case '-':
			l.Type = TypeList
		case '+':
			l.Type = TypeChecklist
		}
		if len(rest) >= 4 && rest[0] == '[' && rest[2] == ']' && rest[3] == ' ' {
			if t, ok := checkboxTypes[rest[1]]; ok {
				rest = rest[4:]
				if t != TypeOpen || marker == '-' {
					l.Type = t
				}
			}
		}
		l.Content = strings.TrimSpace(rest)
	case strings.HasPrefix(trimmed, "> "):
		l.Type = TypeQuote
		l.Content = strings.TrimSpace(trimmed[2:])
	default:
		l.Type = TypeText
		l.Content = strings.TrimSpace(trimmed)
	}
	return l
}

// headingLevel returns the number of leading '#' when followed by a space.
func headingLevel(s string) int {
	level := 0
	for level < len(s) && s[level] == '#' {
		level++
	}
	if level == 0 || level >= len(s) || s[level] != ' ' {
		return 0
	}
	return level
}

// RemoveLinesContaining deletes every non-heading line containing s and
// returns how many were removed. An empty s removes nothing.
func (n *Note) RemoveLinesContaining(s string) int {
	if s == "" {
		return 0
	}
	kept := n.lines[:0:0]
	removed := 0
	for _, raw := range n.lines {
		if strings.Contains(raw, s) && ParseLine(raw).Type != TypeTitle {
			removed++
			continue
		}
		kept = append(kept, raw)
	}
	n.lines = kept
	return removed
}

// InsertUnderHeading inserts lines right after the first heading whose text
// equals heading. When the note has no such heading one is created: after
// the note's level one title if it starts with one, else at the top.
func (n *Note) InsertUnderHeading(heading string, lines []string) {
	if len(lines) == 0 {
		return
	}

	for _, l := range n.Lines() {
		if l.Type == TypeTitle && l.Content == heading {
			n.insertAt(l.Index+1, lines)
			return
		}
	}

	at := 0
	if len(n.lines) > 0 {
		if first := ParseLine(n.lines[0]); first.Type == TypeTitle && first.HeadingLevel == 1 {
			at = 1
		}
	}
	block := append([]string{"## " + heading}, lines...)
	n.insertAt(at, block)
}

func (n *Note) insertAt(i int, lines []string) {
	out := make([]string, 0, len(n.lines)+len(lines))
	out = append(out, n.lines[:i]...)
	out = append(out, lines...)
	out = append(out, n.lines[i:]...)
	n.lines = out
}
