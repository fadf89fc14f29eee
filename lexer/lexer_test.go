package lexer

import (
	"testing"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(ts TokenStream) []token.Kind {
	out := make([]token.Kind, len(ts))
	for i, t := range ts {
		out[i] = t.Kind
	}
	return out
}

func TestLexEmptySource(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte(""), 0, sess)
	require.Len(t, ts, 1)
	assert.Equal(t, token.Eof, ts[0].Kind)
	assert.Empty(t, sess.Diagnostics)
}

func TestLexAssignment(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("a = 1\n"), 0, sess)
	assert.Equal(t, []token.Kind{token.Ident, token.Assign, token.Int, token.Newline, token.Eof}, kinds(ts))
}

func TestLexIndentDedent(t *testing.T) {
	src := "schema S:\n    x: int\n    y: int\nz = 1\n"
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte(src), 0, sess)
	ks := kinds(ts)
	assert.Contains(t, ks, token.Indent)
	assert.Contains(t, ks, token.Dedent)
	// Dedent must appear before the trailing `z` identifier.
	var dedentIdx, zIdx int
	for i, tok := range ts {
		if tok.Kind == token.Dedent {
			dedentIdx = i
		}
		if tok.Kind == token.Ident && tok.Lit == "z" {
			zIdx = i
		}
	}
	assert.Less(t, dedentIdx, zIdx)
}

func TestLexDelimiterSuppressesNewline(t *testing.T) {
	src := "x = [\n1,\n2,\n]\n"
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte(src), 0, sess)
	newlineCount := 0
	for _, tok := range ts {
		if tok.Kind == token.Newline {
			newlineCount++
		}
	}
	assert.Equal(t, 1, newlineCount) // only the final newline, outside brackets
}

func TestLexMismatchedDelimiterRecovers(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("x = (1, 2]\n"), 0, sess)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindNestingMismatch, sess.Diagnostics[0].Kind)
	assert.Equal(t, token.Eof, ts[len(ts)-1].Kind)
}

func TestLexUnclosedDelimiterAtEOF(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("x = [1, 2\n"), 0, sess)
	require.NotEmpty(t, sess.Diagnostics)
	last := ts[len(ts)-2] // synthetic closer inserted right before Eof
	assert.Equal(t, token.RBrack, last.Kind)
}

func TestLexStringEscapes(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte(`"a\nb\tc"` + "\n"), 0, sess)
	require.Equal(t, token.Str, ts[0].Kind)
	assert.Equal(t, "a\nb\tc", ts[0].Lit)
}

func TestLexRawString(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte(`r"a\nb"` + "\n"), 0, sess)
	require.Equal(t, token.Str, ts[0].Kind)
	assert.True(t, ts[0].IsRaw)
	assert.Equal(t, `a\nb`, ts[0].Lit)
}

func TestLexTripleQuoted(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte(`"""a
b"""`+"\n"), 0, sess)
	require.Equal(t, token.Str, ts[0].Kind)
	assert.True(t, ts[0].IsTriple)
	assert.Equal(t, "a\nb", ts[0].Lit)
}

func TestLexUnterminatedString(t *testing.T) {
	sess := diagnostic.NewSession()
	Lex("a.k", []byte(`"abc`), 0, sess)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindUnterminatedString, sess.Diagnostics[0].Kind)
}

func TestLexIntBasesAndSuffix(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("0x1F 0b101 0o17 10Mi\n"), 0, sess)
	require.Len(t, ts, 6) // 4 ints + newline + eof
}

func TestLexIntBasesAndSuffixValues(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("0x1F 0b101 0o17 10Mi\n"), 0, sess)
	ints := []token.Token{}
	for _, tok := range ts {
		if tok.Kind == token.Int {
			ints = append(ints, tok)
		}
	}
	require.Len(t, ints, 4)
	assert.EqualValues(t, 31, ints[0].IntVal)
	assert.EqualValues(t, 5, ints[1].IntVal)
	assert.EqualValues(t, 15, ints[2].IntVal)
	assert.EqualValues(t, 10, ints[3].IntVal)
	assert.Equal(t, "Mi", ints[3].Suffix)
}

func TestLexFloat(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("1.5 2e3 .5\n"), 0, sess)
	floats := []token.Token{}
	for _, tok := range ts {
		if tok.Kind == token.Float {
			floats = append(floats, tok)
		}
	}
	require.Len(t, floats, 3)
	assert.Equal(t, 1.5, floats[0].FloatVal)
	assert.Equal(t, 2000.0, floats[1].FloatVal)
	assert.Equal(t, 0.5, floats[2].FloatVal)
}

func TestLexArrowDisambiguation(t *testing.T) {
	sess := diagnostic.NewSession()
	ts := Lex("a.k", []byte("lambda x: int -> int { x }\n"), 0, sess)
	found := false
	for _, tok := range ts {
		if tok.Kind == token.RArrow {
			found = true
		}
		assert.NotEqual(t, token.Minus, tok.Kind)
	}
	assert.True(t, found)
}

func TestLexByteComplete(t *testing.T) {
	// Every token's span lies within the file, and spans never run backwards.
	sess := diagnostic.NewSession()
	src := "a = 1\nb: int = 2\n"
	ts := Lex("a.k", []byte(src), 0, sess)
	for _, tok := range ts {
		assert.True(t, tok.Span.Lo <= tok.Span.Hi)
		assert.True(t, tok.Span.Hi <= len(src))
	}
}
