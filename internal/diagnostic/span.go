// Package diagnostic holds the shared span/session/diagnostic types used by
// every later pass (lexer, parser, resolver, evaluator). Nothing downstream
// should recompute a line/column from a byte offset itself; it asks the
// Session's SourceMap.
package diagnostic

import "sort"

// Span is an interned (filename, byte-lo, byte-hi) triple. Spans are value
// types: cheap to copy, compared by value, and only meaningful relative to
// the Session that produced them.
type Span struct {
	File string
	Lo   int
	Hi   int
}

// Zero reports whether s is the zero-width, zero-position span used for
// synthetic nodes (e.g. an inserted Dedent at EOF).
func (s Span) Zero() bool {
	return s.File == "" && s.Lo == 0 && s.Hi == 0
}

// Join returns the smallest span covering both s and other. Both must share
// a file; Join panics otherwise since joining spans across files is always a
// caller bug.
func (s Span) Join(other Span) Span {
	if s.Zero() {
		return other
	}
	if other.Zero() {
		return s
	}
	if s.File != other.File {
		panic("diagnostic: Span.Join across files: " + s.File + " vs " + other.File)
	}
	lo, hi := s.Lo, s.Hi
	if other.Lo < lo {
		lo = other.Lo
	}
	if other.Hi > hi {
		hi = other.Hi
	}
	return Span{File: s.File, Lo: lo, Hi: hi}
}

// Position is a recovered (line, column) pair, 1-based, as rendered to users.
type Position struct {
	Line   int
	Column int
}

// SourceMap retains the text of every file read during one compilation and
// answers byte-offset -> line/column queries by binary-searching a per-file
// table of line-start offsets, built lazily on first use.
type SourceMap struct {
	files map[string]string
	lines map[string][]int // sorted byte offsets of line starts, file-scoped
}

// NewSourceMap returns an empty SourceMap.
func NewSourceMap() *SourceMap {
	return &SourceMap{
		files: make(map[string]string),
		lines: make(map[string][]int),
	}
}

// AddFile registers filename's contents. Calling AddFile again for the same
// filename replaces the old text and invalidates its line table.
func (m *SourceMap) AddFile(filename, text string) {
	m.files[filename] = text
	delete(m.lines, filename)
}

// Text returns the full source text of filename, if known.
func (m *SourceMap) Text(filename string) (string, bool) {
	t, ok := m.files[filename]
	return t, ok
}

// Position recovers the line/column of a byte offset within filename. Lines
// and columns are both 1-based; an offset past EOF clamps to the last
// position in the file.
func (m *SourceMap) Position(filename string, offset int) Position {
	starts := m.lineStarts(filename)
	if len(starts) == 0 {
		return Position{Line: 1, Column: offset + 1}
	}
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line + 1, Column: offset - starts[line] + 1}
}

// Snippet returns the single physical line of text containing offset, used
// to render the caret-underlined source excerpt in a diagnostic.
func (m *SourceMap) Snippet(filename string, offset int) string {
	text, ok := m.files[filename]
	if !ok {
		return ""
	}
	starts := m.lineStarts(filename)
	pos := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if pos < 0 {
		pos = 0
	}
	lo := starts[pos]
	hi := len(text)
	if pos+1 < len(starts) {
		hi = starts[pos+1]
	}
	for hi > lo && (text[hi-1] == '\n' || text[hi-1] == '\r') {
		hi--
	}
	return text[lo:hi]
}

func (m *SourceMap) lineStarts(filename string) []int {
	if starts, ok := m.lines[filename]; ok {
		return starts
	}
	text := m.files[filename]
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	m.lines[filename] = starts
	return starts
}
