package parser

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/token"
)

// parseExpr and parseExprNoComma are the same grammar: this language has no
// bare-tuple expression, so the "no comma" variant exists only to make call
// sites self-documenting about not consuming a trailing `,`-separated list.
func (p *Parser) parseExpr() ast.Expr        { return p.parseOr() }
func (p *Parser) parseExprNoComma() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	x := p.parseAnd()
	for p.at(token.Or) {
		id := p.nextID()
		p.advance()
		y := p.parseAnd()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: ast.BinOr, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseAnd() ast.Expr {
	x := p.parseNot()
	for p.at(token.And) {
		id := p.nextID()
		p.advance()
		y := p.parseNot()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: ast.BinAnd, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseNot() ast.Expr {
	if p.at(token.Not) {
		id := p.nextID()
		lo := p.cur().Span
		p.advance()
		x := p.parseNot()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: lo}, Op: ast.UnaryNot, X: x}
	}
	return p.parseCompare()
}

func (p *Parser) parseCompare() ast.Expr {
	x := p.parseBitOr()
	var ops []ast.CompareOp
	var comps []ast.Expr
	for {
		op, ok := p.tryCompareOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comps = append(comps, p.parseBitOr())
	}
	if len(ops) == 0 {
		return x
	}
	return &ast.CompareExpr{Base: ast.Base{ID: p.nextID(), Span: x.NodeSpan()}, Left: x, Ops: ops, Comps: comps}
}

func (p *Parser) tryCompareOp() (ast.CompareOp, bool) {
	switch p.cur().Kind {
	case token.Eq:
		p.advance()
		return ast.CmpEq, true
	case token.Ne:
		p.advance()
		return ast.CmpNe, true
	case token.Lt:
		p.advance()
		return ast.CmpLt, true
	case token.Le:
		p.advance()
		return ast.CmpLe, true
	case token.Gt:
		p.advance()
		return ast.CmpGt, true
	case token.Ge:
		p.advance()
		return ast.CmpGe, true
	case token.In:
		p.advance()
		return ast.CmpIn, true
	case token.Is:
		p.advance()
		if p.at(token.Not) {
			p.advance()
			return ast.CmpIsNot, true
		}
		return ast.CmpIs, true
	case token.Not:
		save := p.pos
		p.advance()
		if p.at(token.In) {
			p.advance()
			return ast.CmpNotIn, true
		}
		p.pos = save
		return 0, false
	default:
		return 0, false
	}
}

func (p *Parser) parseBitOr() ast.Expr {
	x := p.parseBitXor()
	for p.at(token.Pipe) {
		id := p.nextID()
		p.advance()
		y := p.parseBitXor()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: ast.BinBitOr, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseBitXor() ast.Expr {
	x := p.parseBitAnd()
	for p.at(token.Caret) {
		id := p.nextID()
		p.advance()
		y := p.parseBitAnd()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: ast.BinBitXor, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseBitAnd() ast.Expr {
	x := p.parseShift()
	for p.at(token.Amp) {
		id := p.nextID()
		p.advance()
		y := p.parseShift()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: ast.BinBitAnd, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseShift() ast.Expr {
	x := p.parseAdd()
	for p.at(token.Shl) || p.at(token.Shr) {
		id := p.nextID()
		op := ast.BinShl
		if p.at(token.Shr) {
			op = ast.BinShr
		}
		p.advance()
		y := p.parseAdd()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: op, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseAdd() ast.Expr {
	x := p.parseMul()
	for p.at(token.Plus) || p.at(token.Minus) {
		id := p.nextID()
		op := ast.BinAdd
		if p.at(token.Minus) {
			op = ast.BinSub
		}
		p.advance()
		y := p.parseMul()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: op, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseMul() ast.Expr {
	x := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.DSlash) || p.at(token.Percent) {
		id := p.nextID()
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		case token.DSlash:
			op = ast.BinFloorDiv
		default:
			op = ast.BinMod
		}
		p.advance()
		y := p.parseUnary()
		x = &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: op, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.Plus:
		id := p.nextID()
		lo := p.cur().Span
		p.advance()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: lo}, Op: ast.UnaryPos, X: p.parseUnary()}
	case token.Minus:
		id := p.nextID()
		lo := p.cur().Span
		p.advance()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: lo}, Op: ast.UnaryNeg, X: p.parseUnary()}
	case token.Tilde:
		id := p.nextID()
		lo := p.cur().Span
		p.advance()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: lo}, Op: ast.UnaryInvert, X: p.parseUnary()}
	case token.Bang:
		id := p.nextID()
		lo := p.cur().Span
		p.advance()
		return &ast.UnaryExpr{Base: ast.Base{ID: id, Span: lo}, Op: ast.UnaryNot, X: p.parseUnary()}
	default:
		return p.parsePow()
	}
}

// parsePow is right-associative: a ** b ** c == a ** (b ** c).
func (p *Parser) parsePow() ast.Expr {
	x := p.parsePostfix()
	if p.at(token.DStar) {
		id := p.nextID()
		p.advance()
		y := p.parseUnary()
		return &ast.BinaryExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Op: ast.BinPow, X: x, Y: y}
	}
	return x
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.Dot:
			id := p.nextID()
			p.advance()
			attr := p.expect(token.Ident).Lit
			x = &ast.SelectorExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, X: x, Attr: attr}
		case token.Question:
			save := p.pos
			p.advance()
			if p.at(token.Dot) {
				id := p.nextID()
				p.advance()
				attr := p.expect(token.Ident).Lit
				x = &ast.SelectorExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, X: x, Attr: attr, HasQuestion: true}
			} else {
				p.pos = save
				return x
			}
		case token.LBrack:
			x = p.parseSubscript(x)
		case token.LParen:
			x = p.parseCall(x)
		case token.LBrace:
			switch x.(type) {
			case *ast.Identifier, *ast.SelectorExpr, *ast.CallExpr:
				x = p.parseSchemaConfigTrailer(x)
			default:
				return x
			}
		default:
			return x
		}
	}
}

func (p *Parser) parseSubscript(x ast.Expr) ast.Expr {
	id := p.nextID()
	p.advance() // [
	sub := &ast.SubscriptExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, X: x}
	if p.at(token.Colon) {
		sub.IsSlice = true
	} else {
		first := p.parseExpr()
		if p.at(token.Colon) {
			sub.IsSlice = true
			sub.Lo = first
		} else {
			sub.Index = first
			p.expect(token.RBrack)
			return sub
		}
	}
	p.expect(token.Colon)
	if !p.at(token.Colon) && !p.at(token.RBrack) {
		sub.Hi = p.parseExpr()
	}
	if p.at(token.Colon) {
		p.advance()
		if !p.at(token.RBrack) {
			sub.Step = p.parseExpr()
		}
	}
	p.expect(token.RBrack)
	return sub
}

func (p *Parser) parseCall(x ast.Expr) ast.Expr {
	id := p.nextID()
	p.advance() // (
	call := &ast.CallExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Func: x}
	for !p.at(token.RParen) && !p.at(token.Eof) {
		if p.at(token.Ident) && p.peekAssignAfterIdent() {
			name := p.advance().Lit
			p.advance() // =
			val := p.parseExpr()
			call.Kwargs = append(call.Kwargs, ast.Keyword{Name: name, Value: val, Span: val.NodeSpan()})
		} else {
			call.Args = append(call.Args, p.parseExpr())
		}
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen)
	return call
}

// peekAssignAfterIdent distinguishes a keyword argument `name = expr` from a
// positional argument that merely starts with an identifier.
func (p *Parser) peekAssignAfterIdent() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Kind == token.Assign
}

// parseSchemaConfigTrailer handles the `Name(args){config}` / `Name{config}`
// schema-instantiation postfix once `x` has been parsed as a callee-like
// expression (an Identifier, Selector, or a prior CallExpr for the arg
// list).
func (p *Parser) parseSchemaConfigTrailer(x ast.Expr) ast.Expr {
	id := p.nextID()
	cfg := p.parseConfigExpr()
	se := &ast.SchemaExpr{Base: ast.Base{ID: id, Span: x.NodeSpan()}, Config: cfg}
	if call, ok := x.(*ast.CallExpr); ok {
		se.Name = call.Func
		se.Args = call.Args
		se.Kwargs = call.Kwargs
	} else {
		se.Name = x
	}
	return se
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur().Kind {
	case token.Int:
		t := p.advance()
		return &ast.NumberLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Int: t.IntVal, Suffix: t.Suffix}
	case token.Float:
		t := p.advance()
		return &ast.NumberLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, IsFloat: true, Float: t.FloatVal}
	case token.Str:
		return p.parseStringLitOrJoined()
	case token.Bool:
		t := p.advance()
		kind := "False"
		if t.BoolVal {
			kind = "True"
		}
		return &ast.NameConstantLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Kind: kind}
	case token.None:
		t := p.advance()
		return &ast.NameConstantLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Kind: "None"}
	case token.Undef:
		t := p.advance()
		return &ast.NameConstantLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Kind: "Undefined"}
	case token.Ident:
		return p.parseIdentifier()
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen)
		return x
	case token.LBrack:
		return p.parseListOrComp()
	case token.LBrace:
		return p.parseConfigOrDictComp()
	case token.Lambda:
		return p.parseLambda()
	case token.All, token.Any, token.Map, token.Filter:
		return p.parseQuant()
	default:
		p.errorf("unexpected token %s in expression", p.cur().Kind)
		tok := p.advance()
		return &ast.NameConstantLit{Base: ast.Base{ID: p.nextID(), Span: tok.Span}, Kind: "Undefined"}
	}
}

func (p *Parser) parseIdentifier() ast.Expr {
	lo := p.cur().Span
	names := []string{p.advance().Lit}
	for p.at(token.Dot) && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == token.Ident {
		p.advance()
		names = append(names, p.expect(token.Ident).Lit)
	}
	return &ast.Identifier{Base: ast.Base{ID: p.nextID(), Span: lo}, Names: names}
}

func (p *Parser) parseStringLitOrJoined() ast.Expr {
	t := p.advance()
	if !containsInterp(t.Lit) {
		return &ast.StringLit{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Value: t.Lit}
	}
	return &ast.JoinedStringExpr{Base: ast.Base{ID: p.nextID(), Span: t.Span}, Parts: splitInterp(t.Lit)}
}

func containsInterp(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '$' && s[i+1] == '{' {
			return true
		}
	}
	return false
}

// splitInterp performs a best-effort split of a string's raw text into
// literal/interpolated parts. The embedded expression text between `${`
// and its balancing `}` is kept as raw text in JoinedPart.Literal paired
// with a nil Expr and FormatSpec "expr"; the evaluator re-lexes and parses
// it each time the string is evaluated.
func splitInterp(s string) []ast.JoinedPart {
	var parts []ast.JoinedPart
	i := 0
	for i < len(s) {
		j := i
		for j+1 < len(s) && !(s[j] == '$' && s[j+1] == '{') {
			j++
		}
		if j+1 >= len(s) {
			parts = append(parts, ast.JoinedPart{Literal: s[i:]})
			break
		}
		if j > i {
			parts = append(parts, ast.JoinedPart{Literal: s[i:j]})
		}
		depth := 1
		k := j + 2
		for k < len(s) && depth > 0 {
			switch s[k] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth > 0 {
				k++
			}
		}
		parts = append(parts, ast.JoinedPart{FormatSpec: "expr", Literal: s[j+2 : k]})
		i = k + 1
	}
	return parts
}
