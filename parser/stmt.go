package parser

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.Import:
		return p.parseImport()
	case token.Schema:
		return p.parseSchema(false, false)
	case token.Mixin:
		p.advance()
		return p.parseSchema(true, false)
	case token.Protocol:
		p.advance()
		return p.parseSchema(false, true)
	case token.Rule:
		return p.parseRule()
	case token.Type:
		return p.parseTypeAlias()
	case token.If:
		return p.parseIf()
	case token.Assert:
		return p.parseAssert()
	case token.At:
		decs := p.parseDecorators()
		return p.parseDecorated(decs)
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseDecorators() []ast.Decorator {
	var decs []ast.Decorator
	for p.at(token.At) {
		lo := p.cur().Span
		p.advance()
		name := p.expect(token.Ident).Lit
		var args []ast.Expr
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) && !p.at(token.Eof) {
				args = append(args, p.parseExpr())
				if p.at(token.Comma) {
					p.advance()
				}
			}
			p.expect(token.RParen)
		}
		decs = append(decs, ast.Decorator{Name: name, Args: args, Span: lo})
		p.skipNewlines()
	}
	return decs
}

func (p *Parser) parseDecorated(decs []ast.Decorator) ast.Stmt {
	switch p.cur().Kind {
	case token.Schema:
		s := p.parseSchema(false, false)
		s.Decorators = decs
		return s
	case token.Rule:
		r := p.parseRule()
		r.Decorators = decs
		return r
	default:
		p.errorf("decorators may only annotate schema or rule statements")
		p.recover(token.Newline)
		return nil
	}
}

func (p *Parser) parseImport() ast.Stmt {
	id := p.nextID()
	lo := p.cur().Span
	p.advance()
	path := p.parseDottedPath()
	alias := ""
	if p.at(token.As) {
		p.advance()
		alias = p.expect(token.Ident).Lit
	}
	return &ast.ImportStmt{Base: ast.Base{ID: id, Span: lo}, Path: path, Alias: alias}
}

func (p *Parser) parseDottedPath() string {
	s := p.expect(token.Ident).Lit
	for p.at(token.Dot) {
		p.advance()
		s += "." + p.expect(token.Ident).Lit
	}
	return s
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	id := p.nextID()
	lo := p.cur().Span
	p.advance()
	name := p.expect(token.Ident).Lit
	p.expect(token.Assign)
	ty := p.parseType()
	return &ast.TypeAliasStmt{Base: ast.Base{ID: id, Span: lo}, Name: name, Type: ty}
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	for !p.at(token.RBrack) && !p.at(token.RParen) && !p.at(token.Colon) && !p.at(token.Eof) {
		variadic := false
		if p.at(token.Star) {
			p.advance()
			variadic = true
		}
		span := p.cur().Span
		name := p.expect(token.Ident).Lit
		var ty ast.TypeExpr
		if p.at(token.Colon) {
			p.advance()
			ty = p.parseType()
		}
		var def ast.Expr
		if p.at(token.Assign) {
			p.advance()
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Name: name, Type: ty, Default: def, Variadic: variadic, Span: span})
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	return params
}

func (p *Parser) parseSchema(isMixin, isProtocol bool) *ast.SchemaStmt {
	id := p.nextID()
	lo := p.cur().Span
	p.advance() // 'schema'
	name := p.expect(token.Ident).Lit

	s := &ast.SchemaStmt{Base: ast.Base{ID: id, Span: lo}, Name: name, IsMixin: isMixin, IsProtocol: isProtocol}

	if p.at(token.LBrack) {
		p.advance()
		s.Params = p.parseParamList()
		p.expect(token.RBrack)
	}
	if p.at(token.LParen) {
		p.advance()
		s.Base_ = p.expect(token.Ident).Lit
		p.expect(token.RParen)
	}
	p.expect(token.Colon)
	p.skipNewlines()
	if !p.at(token.Indent) {
		return s // `schema S: pass`-equivalent empty body
	}
	p.advance()
	if p.at(token.Str) {
		s.Doc = p.advance().Lit
		p.skipNewlines()
	}
	for !p.at(token.Dedent) && !p.at(token.Eof) {
		switch p.cur().Kind {
		case token.Mixin:
			p.advance()
			p.expect(token.LBrack)
			for !p.at(token.RBrack) && !p.at(token.Eof) {
				s.Mixins = append(s.Mixins, p.parseDottedPath())
				if p.at(token.Comma) {
					p.advance()
				}
			}
			p.expect(token.RBrack)
		case token.Check:
			p.advance()
			p.expect(token.Colon)
			p.skipNewlines()
			if p.at(token.Indent) {
				p.advance()
				for !p.at(token.Dedent) && !p.at(token.Eof) {
					s.Checks = append(s.Checks, p.parseCheckExpr())
					p.skipNewlines()
				}
				p.expect(token.Dedent)
			}
		case token.LBrack:
			p.advance()
			sig := &ast.IndexSignature{Span: p.cur().Span}
			sig.KeyName = p.expect(token.Ident).Lit
			p.expect(token.Colon)
			sig.KeyType = p.parseType()
			p.expect(token.RBrack)
			p.expect(token.Colon)
			sig.ValueType = p.parseType()
			s.Index = sig
		default:
			s.Attrs = append(s.Attrs, p.parseAttribute())
		}
		p.skipNewlines()
	}
	p.expect(token.Dedent)
	return s
}

func (p *Parser) parseCheckExpr() ast.CheckExpr {
	span := p.cur().Span
	cond := p.parseExprNoComma()
	var msg ast.Expr
	if p.at(token.If) {
		// `assert cond if guard` style check entries aren't used inside
		// check blocks; reserved for forward compatibility, ignore here.
	}
	if p.at(token.Comma) {
		p.advance()
		msg = p.parseExpr()
	}
	return ast.CheckExpr{Cond: cond, Msg: msg, Span: span}
}

func (p *Parser) parseAttribute() ast.Attribute {
	span := p.cur().Span
	doc := ""
	if p.at(token.Str) {
		doc = p.advance().Lit
		p.skipNewlines()
	}
	name := p.expect(token.Ident).Lit
	optional := false
	if p.at(token.Question) {
		p.advance()
		optional = true
	}
	var ty ast.TypeExpr
	if p.at(token.Colon) {
		p.advance()
		ty = p.parseType()
	}
	var def ast.Expr
	if p.at(token.Assign) {
		p.advance()
		def = p.parseExpr()
	}
	return ast.Attribute{Name: name, Optional: optional, Type: ty, Default: def, Doc: doc, Span: span}
}

func (p *Parser) parseRule() *ast.RuleStmt {
	id := p.nextID()
	lo := p.cur().Span
	p.advance()
	name := p.expect(token.Ident).Lit
	r := &ast.RuleStmt{Base: ast.Base{ID: id, Span: lo}, Name: name}
	if p.at(token.LBrack) {
		p.advance()
		r.Params = p.parseParamList()
		p.expect(token.RBrack)
	}
	if p.at(token.LParen) {
		p.advance()
		r.Parent = p.expect(token.Ident).Lit
		p.expect(token.RParen)
	}
	p.expect(token.Colon)
	p.skipNewlines()
	if !p.at(token.Indent) {
		return r
	}
	p.advance()
	if p.at(token.Str) {
		r.Doc = p.advance().Lit
		p.skipNewlines()
	}
	for !p.at(token.Dedent) && !p.at(token.Eof) {
		r.Checks = append(r.Checks, p.parseCheckExpr())
		p.skipNewlines()
	}
	p.expect(token.Dedent)
	return r
}

func (p *Parser) parseIf() ast.Stmt {
	id := p.nextID()
	lo := p.cur().Span
	p.advance()
	cond := p.parseExpr()
	p.expect(token.Colon)
	body := p.parseBlock()
	s := &ast.IfStmt{Base: ast.Base{ID: id, Span: lo}, Cond: cond, Body: body}
	for p.at(token.Elif) {
		p.advance()
		c := p.parseExpr()
		p.expect(token.Colon)
		b := p.parseBlock()
		s.Elifs = append(s.Elifs, ast.ElifClause{Cond: c, Body: b})
	}
	if p.at(token.Else) {
		p.advance()
		p.expect(token.Colon)
		s.Else = p.parseBlock()
	}
	return s
}

func (p *Parser) parseBlock() []ast.Stmt {
	p.skipNewlines()
	if !p.at(token.Indent) {
		// single-line body
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		return []ast.Stmt{stmt}
	}
	p.advance()
	var body []ast.Stmt
	for !p.at(token.Dedent) && !p.at(token.Eof) {
		if s := p.parseStmt(); s != nil {
			body = append(body, s)
		}
		p.skipNewlines()
	}
	p.expect(token.Dedent)
	return body
}

func (p *Parser) parseAssert() ast.Stmt {
	id := p.nextID()
	lo := p.cur().Span
	p.advance()
	cond := p.parseExprNoComma()
	s := &ast.AssertStmt{Base: ast.Base{ID: id, Span: lo}, Cond: cond}
	if p.at(token.If) {
		p.advance()
		s.If = p.parseExprNoComma()
	}
	if p.at(token.Comma) {
		p.advance()
		s.Msg = p.parseExpr()
	}
	return s
}

// parseSimpleStmt parses Assign, AugAssign, Unification, or a bare Expr
// statement — all share the same `lhs [: T] op rhs` / `expr` shape and are
// only disambiguated after parsing the left-hand expression.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	id := p.nextID()
	lo := p.cur().Span
	lhs := p.parseExpr()

	switch p.cur().Kind {
	case token.Colon:
		p.advance()
		// Either `x: Type = value` (typed assign) or `x: Schema {..}` (unification).
		ty := p.parseType()
		if p.at(token.Assign) {
			p.advance()
			val := p.parseExpr()
			return &ast.AssignStmt{Base: ast.Base{ID: id, Span: lo}, Targets: []ast.Expr{lhs}, Type: ty, Value: val}
		}
		if named, ok := ty.(*ast.NamedType); ok && p.at(token.LBrace) {
			cfg := p.parseConfigExpr()
			schemaExpr := &ast.SchemaExpr{
				Base:   ast.Base{ID: p.nextID(), Span: named.Span},
				Name:   &ast.Identifier{Base: ast.Base{ID: p.nextID(), Span: named.Span}, Names: named.Path},
				Config: cfg,
			}
			return &ast.UnificationStmt{Base: ast.Base{ID: id, Span: lo}, Target: lhs, Value: schemaExpr}
		}
		return &ast.AssignStmt{Base: ast.Base{ID: id, Span: lo}, Targets: []ast.Expr{lhs}, Type: ty}
	case token.Assign:
		targets := []ast.Expr{lhs}
		p.advance()
		val := p.parseExpr()
		for p.at(token.Assign) {
			targets = append(targets, val)
			p.advance()
			val = p.parseExpr()
		}
		return &ast.AssignStmt{Base: ast.Base{ID: id, Span: lo}, Targets: targets, Value: val}
	case token.AugAdd, token.AugSub, token.AugMul, token.AugDiv, token.AugFloor,
		token.AugMod, token.AugPow, token.AugAmp, token.AugPipe, token.AugCaret,
		token.AugShl, token.AugShr:
		op := p.advance()
		val := p.parseExpr()
		return &ast.AugAssignStmt{Base: ast.Base{ID: id, Span: lo}, Target: lhs, Op: op.Kind.String(), Value: val}
	default:
		return &ast.ExprStmt{Base: ast.Base{ID: id, Span: lo}, X: lhs}
	}
}
