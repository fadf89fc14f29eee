// Package parser turns a lexer.TokenStream into an *ast.Module. It is
// recursive-descent with Pratt-style operator precedence (§4.2), grounded
// in the teacher's own recursive-descent SQL parser shape (sqldef.go,
// expr.go): small per-construct parse* methods, a shared "current token"
// cursor, and recovery by skipping to a statement boundary rather than
// panicking.
package parser

import (
	"fmt"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/token"
)

type Parser struct {
	file   string
	toks   lexer.TokenStream
	pos    int
	alloc  ast.Allocator
	sess   *diagnostic.Session
}

// Parse parses one file's token stream into a Module. It never panics:
// malformed constructs are recorded as diagnostics on sess and parsing goes
// on from the current token (a decorator on a statement other than a schema
// or rule skips ahead to the next Newline/Dedent/closing-delimiter).
func Parse(filename string, toks lexer.TokenStream, sess *diagnostic.Session) *ast.Module {
	p := &Parser{file: filename, toks: toks, sess: sess}
	return p.parseModule()
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // Eof
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf("expected %s, found %s", k, p.cur().Kind)
	return p.cur()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.sess.Report(diagnostic.Diagnostic{
		Kind:     diagnostic.KindUnexpectedToken,
		Severity: diagnostic.SevError,
		Message:  fmt.Sprintf(format, args...),
		Primary:  p.cur().Span,
	})
}

// recover skips tokens until one of the recovery kinds (or Eof) is current,
// the per-nonterminal recovery set from §4.2's contract.
func (p *Parser) recover(set ...token.Kind) {
	for !p.at(token.Eof) {
		for _, k := range set {
			if p.at(k) {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

func (p *Parser) id() *ast.Allocator { return &p.alloc }

func (p *Parser) nextID() ast.AstIndex { return p.alloc.Next() }

// ---- Module ----

func (p *Parser) parseModule() *ast.Module {
	m := &ast.Module{Filename: p.file}
	p.skipNewlines()
	if p.at(token.Str) && p.peekIsDocString() {
		m.Doc = p.advance().Lit
		p.skipNewlines()
	}
	for !p.at(token.Eof) {
		p.skipNewlines()
		if p.at(token.Eof) {
			break
		}
		stmt := p.parseStmt()
		if stmt != nil {
			m.Body = append(m.Body, stmt)
		}
		p.skipNewlines()
	}
	return m
}

// peekIsDocString treats a lone top-level string literal statement as a
// module docstring only when it is immediately followed by a statement
// boundary.
func (p *Parser) peekIsDocString() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.advance()
	return p.at(token.Newline) || p.at(token.Eof)
}

