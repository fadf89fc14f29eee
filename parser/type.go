package parser

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/token"
)

// parseType parses a schema-attribute/parameter type annotation: named
// types (upgraded to Schema types later by the resolver, §4.4), list/dict
// shorthands, literal types, and `|`-separated unions.
func (p *Parser) parseType() ast.TypeExpr {
	first := p.parseTypeAtom()
	if !p.at(token.Pipe) {
		return first
	}
	u := &ast.UnionType{Base: ast.Base{ID: p.nextID(), Span: first.NodeSpan()}, Arms: []ast.TypeExpr{first}}
	for p.at(token.Pipe) {
		p.advance()
		u.Arms = append(u.Arms, p.parseTypeAtom())
	}
	return u
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	lo := p.cur().Span
	switch p.cur().Kind {
	case token.LBrack:
		p.advance()
		elt := p.parseType()
		p.expect(token.RBrack)
		return &ast.ListType{Base: ast.Base{ID: p.nextID(), Span: lo}, Elt: elt}
	case token.LBrace:
		p.advance()
		k := p.parseType()
		p.expect(token.Colon)
		v := p.parseType()
		p.expect(token.RBrace)
		return &ast.DictType{Base: ast.Base{ID: p.nextID(), Span: lo}, Key: k, Val: v}
	case token.Str:
		t := p.advance()
		return &ast.LiteralType{Base: ast.Base{ID: p.nextID(), Span: lo}, Str: t.Lit, HasStr: true}
	case token.Int:
		t := p.advance()
		return &ast.LiteralType{Base: ast.Base{ID: p.nextID(), Span: lo}, Int: t.IntVal, HasInt: true}
	case token.Float:
		t := p.advance()
		return &ast.LiteralType{Base: ast.Base{ID: p.nextID(), Span: lo}, Float: t.FloatVal, HasFloat: true}
	case token.Bool:
		t := p.advance()
		return &ast.LiteralType{Base: ast.Base{ID: p.nextID(), Span: lo}, Bool: t.BoolVal, HasBool: true}
	case token.Lambda:
		p.advance()
		p.expect(token.LBrack)
		var params []ast.TypeExpr
		for !p.at(token.RBrack) && !p.at(token.Eof) {
			params = append(params, p.parseType())
			if p.at(token.Comma) {
				p.advance()
			}
		}
		p.expect(token.RBrack)
		var ret ast.TypeExpr
		if p.at(token.RArrow) {
			p.advance()
			ret = p.parseType()
		}
		return &ast.FunctionType{Base: ast.Base{ID: p.nextID(), Span: lo}, Params: params, Ret: ret}
	default:
		path := []string{p.expect(token.Ident).Lit}
		for p.at(token.Dot) {
			p.advance()
			path = append(path, p.expect(token.Ident).Lit)
		}
		return &ast.NamedType{Base: ast.Base{ID: p.nextID(), Span: lo}, Path: path}
	}
}
