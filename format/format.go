// Package format implements `format_code`/`format_path` (§6): printing a
// parsed Module back to canonical source text. Grounded on sqldef's own
// `schema.GenerateDDLs`-adjacent DDL-statement printer (a tree-to-text
// writer with a single indent convention walked top to bottom) and on
// ast/dump.go's node-by-node switch, generalized from a debug dump to
// real, re-parseable source.
package format

import (
	"strconv"
	"strings"

	"github.com/kcl-lang/kclcore/ast"
)

const indentUnit = "    "

// Print renders m as canonical KCL source. It walks the already-parsed
// tree rather than the original bytes, so formatting is idempotent by
// construction: printing twice reaches a fixed point after the first pass.
func Print(m *ast.Module) string {
	p := &printer{}
	for _, s := range m.Body {
		p.stmt(s)
	}
	out := p.b.String()
	return strings.TrimRight(out, "\n") + "\n"
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) writeIndent() {
	p.b.WriteString(strings.Repeat(indentUnit, p.indent))
}

func (p *printer) line(s string) {
	p.writeIndent()
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) block(stmts []ast.Stmt) {
	p.indent++
	if len(stmts) == 0 {
		p.line("pass")
	}
	for _, s := range stmts {
		p.stmt(s)
	}
	p.indent--
}

func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ImportStmt:
		if s.Alias != "" {
			p.line("import " + s.Path + " as " + s.Alias)
		} else {
			p.line("import " + s.Path)
		}

	case *ast.SchemaStmt:
		p.schemaStmt(s)

	case *ast.RuleStmt:
		p.ruleStmt(s)

	case *ast.TypeAliasStmt:
		p.line("type " + s.Name + " = " + typeExpr(s.Type))

	case *ast.AssignStmt:
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = expr(t)
		}
		head := strings.Join(targets, " = ")
		if s.Type != nil {
			head += ": " + typeExpr(s.Type)
		}
		p.line(head + " = " + expr(s.Value))

	case *ast.AugAssignStmt:
		p.line(expr(s.Target) + " " + s.Op + " " + expr(s.Value))

	case *ast.UnificationStmt:
		p.line(expr(s.Target) + ": " + schemaExprBody(s.Value))

	case *ast.ExprStmt:
		p.line(expr(s.X))

	case *ast.IfStmt:
		p.line("if " + expr(s.Cond) + ":")
		p.block(s.Body)
		for _, e := range s.Elifs {
			p.line("elif " + expr(e.Cond) + ":")
			p.block(e.Body)
		}
		if len(s.Else) > 0 {
			p.line("else:")
			p.block(s.Else)
		}

	case *ast.AssertStmt:
		out := "assert " + expr(s.Cond)
		if s.If != nil {
			out += " if " + expr(s.If)
		}
		if s.Msg != nil {
			out += ", " + expr(s.Msg)
		}
		p.line(out)
	}
}

func (p *printer) schemaStmt(s *ast.SchemaStmt) {
	for _, d := range s.Decorators {
		p.line(decorator(d))
	}
	head := "schema " + s.Name
	if len(s.Params) > 0 {
		head += "[" + paramList(s.Params) + "]"
	}
	if s.Base_ != "" {
		head += "(" + s.Base_ + ")"
	}
	if s.IsMixin {
		head = "mixin " + s.Name
	}
	if s.Protocol != "" {
		head += "[" + s.Protocol + "]"
	}
	p.line(head + ":")

	p.indent++
	if s.Doc != "" {
		p.line(`"""` + s.Doc + `"""`)
	}
	for _, a := range s.Attrs {
		p.attribute(a)
	}
	if s.Index != nil {
		p.indexSignature(s.Index)
	}
	if len(s.Checks) > 0 {
		p.line("check:")
		p.indent++
		for _, c := range s.Checks {
			p.checkExpr(c)
		}
		p.indent--
	}
	if len(s.Attrs) == 0 && s.Index == nil && len(s.Checks) == 0 {
		p.line("pass")
	}
	p.indent--
}

func (p *printer) attribute(a ast.Attribute) {
	head := a.Name
	if a.Optional {
		head += "?"
	}
	if a.Type != nil {
		head += ": " + typeExpr(a.Type)
	}
	if a.Default != nil {
		head += " = " + expr(a.Default)
	}
	p.line(head)
}

func (p *printer) indexSignature(idx *ast.IndexSignature) {
	key := idx.KeyName
	if idx.AnyOther {
		key = "..." + key
	}
	p.line("[" + key + ": " + typeExpr(idx.KeyType) + "]: " + typeExpr(idx.ValueType))
}

func (p *printer) checkExpr(c ast.CheckExpr) {
	out := expr(c.Cond)
	if c.Msg != nil {
		out += ", " + expr(c.Msg)
	}
	p.line(out)
}

func (p *printer) ruleStmt(s *ast.RuleStmt) {
	for _, d := range s.Decorators {
		p.line(decorator(d))
	}
	head := "rule " + s.Name
	if len(s.Params) > 0 {
		head += "[" + paramList(s.Params) + "]"
	}
	if s.Parent != "" {
		head += "(" + s.Parent + ")"
	}
	p.line(head + ":")
	p.indent++
	if s.Doc != "" {
		p.line(`"""` + s.Doc + `"""`)
	}
	for _, c := range s.Checks {
		p.checkExpr(c)
	}
	if len(s.Checks) == 0 && s.Doc == "" {
		p.line("pass")
	}
	p.indent--
}

func decorator(d ast.Decorator) string {
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = expr(a)
	}
	if len(args) == 0 {
		return "@" + d.Name
	}
	return "@" + d.Name + "(" + strings.Join(args, ", ") + ")"
}

func paramList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = param(p)
	}
	return strings.Join(parts, ", ")
}

func param(p ast.Param) string {
	out := p.Name
	if p.Variadic {
		out = "*" + out
	}
	if p.Type != nil {
		out += ": " + typeExpr(p.Type)
	}
	if p.Default != nil {
		out += " = " + expr(p.Default)
	}
	return out
}

// typeExpr renders a TypeExpr; nil means untyped (caller skips the ": T").
func typeExpr(t ast.TypeExpr) string {
	switch t := t.(type) {
	case nil:
		return "any"
	case *ast.NamedType:
		return strings.Join(t.Path, ".")
	case *ast.ListType:
		return "[" + typeExpr(t.Elt) + "]"
	case *ast.DictType:
		return "{" + typeExpr(t.Key) + ":" + typeExpr(t.Val) + "}"
	case *ast.UnionType:
		arms := make([]string, len(t.Arms))
		for i, a := range t.Arms {
			arms[i] = typeExpr(a)
		}
		return strings.Join(arms, " | ")
	case *ast.LiteralType:
		switch {
		case t.HasStr:
			return strconv.Quote(t.Str)
		case t.HasInt:
			return strconv.FormatInt(t.Int, 10)
		case t.HasFloat:
			return strconv.FormatFloat(t.Float, 'g', -1, 64)
		case t.HasBool:
			return strconv.FormatBool(t.Bool)
		}
		return "any"
	case *ast.FunctionType:
		params := make([]string, len(t.Params))
		for i, pt := range t.Params {
			params[i] = typeExpr(pt)
		}
		ret := "any"
		if t.Ret != nil {
			ret = typeExpr(t.Ret)
		}
		return "(" + strings.Join(params, ", ") + ") -> " + ret
	default:
		return "any"
	}
}
