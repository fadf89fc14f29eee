package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceMapPosition(t *testing.T) {
	sm := NewSourceMap()
	sm.AddFile("a.k", "a = 1\nb = 2\nc = 3\n")

	pos := sm.Position("a.k", 0)
	assert.Equal(t, Position{Line: 1, Column: 1}, pos)

	pos = sm.Position("a.k", 7)
	assert.Equal(t, Position{Line: 2, Column: 1}, pos)

	pos = sm.Position("a.k", 13)
	assert.Equal(t, Position{Line: 3, Column: 1}, pos)
}

func TestSourceMapSnippet(t *testing.T) {
	sm := NewSourceMap()
	sm.AddFile("a.k", "first\nsecond\nthird")

	require.Equal(t, "second", sm.Snippet("a.k", 7))
	require.Equal(t, "third", sm.Snippet("a.k", 15))
}

func TestSpanJoin(t *testing.T) {
	a := Span{File: "a.k", Lo: 2, Hi: 5}
	b := Span{File: "a.k", Lo: 4, Hi: 10}
	assert.Equal(t, Span{File: "a.k", Lo: 2, Hi: 10}, a.Join(b))

	zero := Span{}
	assert.Equal(t, a, zero.Join(a))
}

func TestSessionSortByPosition(t *testing.T) {
	s := NewSession()
	s.SourceMap.AddFile("a.k", "a = 1\nb = 2\nc = 3\n")
	s.Report(Diagnostic{Kind: KindTypeError, Primary: Span{File: "a.k", Lo: 13, Hi: 14}})
	s.Report(Diagnostic{Kind: KindTypeError, Primary: Span{File: "a.k", Lo: 0, Hi: 1}})
	s.SortByPosition()
	require.Len(t, s.Diagnostics, 2)
	assert.Equal(t, 0, s.Diagnostics[0].Primary.Lo)
	assert.Equal(t, 13, s.Diagnostics[1].Primary.Lo)
}
