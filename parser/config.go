package parser

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/token"
)

// parseConfigExpr parses a `{ ... }` configuration literal: an ordered
// sequence of ConfigEntry, each `[key (operation) value]` per §4.2.
func (p *Parser) parseConfigExpr() *ast.ConfigExpr {
	id := p.nextID()
	lo := p.cur().Span
	p.expect(token.LBrace)
	p.skipNewlines()
	cfg := &ast.ConfigExpr{Base: ast.Base{ID: id, Span: lo}}
	for !p.at(token.RBrace) && !p.at(token.Eof) {
		cfg.Entries = append(cfg.Entries, p.parseConfigEntry())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBrace)
	return cfg
}

// parseConfigEntry parses one `key op value` pair, or a conditional
// `if cond: ...` block represented as a ConfigIfEntry wrapped by the caller
// reading it back out of a ConfigEntry with a nil Key (spread-like usage is
// represented the same way downstream via the Key==nil convention).
func (p *Parser) parseConfigEntry() ast.ConfigEntry {
	if p.at(token.If) {
		return ast.ConfigEntry{Value: p.parseConfigIfEntry(), Span: p.cur().Span}
	}
	span := p.cur().Span
	key := p.parseConfigKey()
	op := ast.OpUnion
	insertIdx := -1
	switch p.cur().Kind {
	case token.Colon:
		p.advance()
		op = ast.OpUnion
	case token.Assign:
		p.advance()
		op = ast.OpOverride
	case token.AugAdd:
		p.advance()
		op = ast.OpInsert
		insertIdx = -1
	default:
		p.errorf("expected ':', '=' or '+=' in config entry, found %s", p.cur().Kind)
	}
	val := p.parseExpr()
	return ast.ConfigEntry{Key: key, Value: val, Op: op, InsertIndex: insertIdx, Span: span}
}

// parseConfigKey parses a config entry's key: either a plain/dotted
// identifier (the nested-attribute form `a.b.c` pre-processing flattens
// later) or a string literal key.
func (p *Parser) parseConfigKey() ast.Expr {
	if p.at(token.Str) {
		t := p.advance()
		return &ast.StringLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Value: t.Lit}
	}
	if p.at(token.LBrack) {
		// computed key `[expr]: value`
		p.advance()
		e := p.parseExpr()
		p.expect(token.RBrack)
		return e
	}
	return p.parseIdentifier()
}

func (p *Parser) parseConfigIfEntry() *ast.ConfigIfEntry {
	id := p.nextID()
	lo := p.cur().Span
	p.advance() // if
	cond := p.parseExprNoComma()
	p.expect(token.Colon)
	entry := &ast.ConfigIfEntry{Base: ast.Base{ID: id, Span: lo}, Cond: cond}
	entry.Body = p.parseConfigEntryBlock()
	for p.at(token.Elif) {
		p.advance()
		c := p.parseExprNoComma()
		p.expect(token.Colon)
		entry.Elifs = append(entry.Elifs, ast.ConfigIfElif{Cond: c, Body: p.parseConfigEntryBlock()})
	}
	if p.at(token.Else) {
		p.advance()
		p.expect(token.Colon)
		entry.Else = p.parseConfigEntryBlock()
	}
	return entry
}

func (p *Parser) parseConfigEntryBlock() []ast.ConfigEntry {
	p.skipNewlines()
	if !p.at(token.Indent) {
		return []ast.ConfigEntry{p.parseConfigEntry()}
	}
	p.advance()
	var entries []ast.ConfigEntry
	for !p.at(token.Dedent) && !p.at(token.Eof) {
		entries = append(entries, p.parseConfigEntry())
		p.skipNewlines()
	}
	p.expect(token.Dedent)
	return entries
}

// parseListOrComp parses `[e1, e2, ...]` or `[e for x in xs if c]`.
func (p *Parser) parseListOrComp() ast.Expr {
	id := p.nextID()
	lo := p.cur().Span
	p.advance() // [
	p.skipNewlines()
	if p.at(token.RBrack) {
		p.advance()
		return &ast.ListExpr{Base: ast.Base{ID: id, Span: lo}}
	}
	first := p.parseExpr()
	p.skipNewlines()
	if p.at(token.For) {
		gens := p.parseCompClauses()
		p.expect(token.RBrack)
		return &ast.ListCompExpr{Base: ast.Base{ID: id, Span: lo}, Elt: first, Gens: gens}
	}
	elts := []ast.Expr{first}
	for p.at(token.Comma) {
		p.advance()
		p.skipNewlines()
		if p.at(token.RBrack) {
			break
		}
		elts = append(elts, p.parseExpr())
		p.skipNewlines()
	}
	p.expect(token.RBrack)
	return &ast.ListExpr{Base: ast.Base{ID: id, Span: lo}, Elts: elts}
}

func (p *Parser) parseCompClauses() []ast.CompClause {
	var clauses []ast.CompClause
	for p.at(token.For) {
		p.advance()
		var targets []ast.Expr
		targets = append(targets, p.parseIdentifier())
		for p.at(token.Comma) {
			p.advance()
			targets = append(targets, p.parseIdentifier())
		}
		p.expect(token.In)
		iter := p.parseOr()
		clause := ast.CompClause{Targets: targets, Iter: iter}
		for p.at(token.If) {
			p.advance()
			clause.Ifs = append(clause.Ifs, p.parseOr())
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// parseConfigOrDictComp parses `{...}` as either a ConfigExpr or, when a
// `for` clause follows the first key:value pair, a DictCompExpr.
func (p *Parser) parseConfigOrDictComp() ast.Expr {
	id := p.nextID()
	lo := p.cur().Span
	p.advance() // {
	p.skipNewlines()
	if p.at(token.RBrace) {
		p.advance()
		return &ast.ConfigExpr{Base: ast.Base{ID: id, Span: lo}}
	}
	save := p.pos
	savedDiagCount := len(p.sess.Diagnostics)
	key := p.parseOr()
	if p.at(token.Colon) {
		p.advance()
		val := p.parseExpr()
		p.skipNewlines()
		if p.at(token.For) {
			gens := p.parseCompClauses()
			p.expect(token.RBrace)
			return &ast.DictCompExpr{Base: ast.Base{ID: id, Span: lo}, Key: key, Value: val, Gens: gens}
		}
		// Not a comprehension after all: rewind and parse as a normal config.
	}
	p.pos = save
	p.sess.Diagnostics = p.sess.Diagnostics[:savedDiagCount]
	cfg := &ast.ConfigExpr{Base: ast.Base{ID: id, Span: lo}}
	for !p.at(token.RBrace) && !p.at(token.Eof) {
		cfg.Entries = append(cfg.Entries, p.parseConfigEntry())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBrace)
	return cfg
}

func (p *Parser) parseLambda() ast.Expr {
	id := p.nextID()
	lo := p.cur().Span
	p.advance() // lambda
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.at(token.RArrow) {
		p.advance()
		ret = p.parseType()
	}
	p.expect(token.LBrace)
	p.skipNewlines()
	var body []ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.Eof) {
		if s := p.parseStmt(); s != nil {
			body = append(body, s)
		}
		p.skipNewlines()
	}
	p.expect(token.RBrace)
	return &ast.LambdaExpr{Base: ast.Base{ID: id, Span: lo}, Params: params, Return: ret, Body: body}
}

func (p *Parser) parseQuant() ast.Expr {
	id := p.nextID()
	lo := p.cur().Span
	var kind ast.QuantKind
	switch p.cur().Kind {
	case token.All:
		kind = ast.QuantAll
	case token.Any:
		kind = ast.QuantAny
	case token.Map:
		kind = ast.QuantMap
	case token.Filter:
		kind = ast.QuantFilter
	}
	p.advance()
	var targets []ast.Expr
	targets = append(targets, p.parseIdentifier())
	for p.at(token.Comma) {
		p.advance()
		targets = append(targets, p.parseIdentifier())
	}
	p.expect(token.In)
	iter := p.parseOr()
	p.expect(token.LBrace)
	test := p.parseExpr()
	p.expect(token.RBrace)
	return &ast.QuantExpr{Base: ast.Base{ID: id, Span: lo}, Kind: kind, Targets: targets, Iter: iter, Test: test}
}
