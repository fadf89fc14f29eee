package format

import (
	"strconv"
	"strings"

	"github.com/kcl-lang/kclcore/ast"
)

// expr renders e as a single-line expression. KCL's own formatter breaks
// long configs across lines; this one keeps every expression on one line,
// which stays valid, re-parseable source at the cost of not matching the
// exact line breaks a human author would choose.
func expr(e ast.Expr) string {
	switch e := e.(type) {
	case nil:
		return ""
	case *ast.Identifier:
		return strings.Join(e.Names, ".")
	case *ast.NumberLit:
		if e.IsFloat {
			return strconv.FormatFloat(e.Float, 'g', -1, 64)
		}
		return strconv.FormatInt(e.Int, 10) + e.Suffix
	case *ast.StringLit:
		return strconv.Quote(e.Value)
	case *ast.NameConstantLit:
		return e.Kind
	case *ast.JoinedStringExpr:
		return joinedString(e)
	case *ast.ListExpr:
		parts := make([]string, len(e.Elts))
		for i, el := range e.Elts {
			parts[i] = expr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.ConfigExpr:
		return "{" + configEntries(e.Entries) + "}"
	case *ast.SchemaExpr:
		return schemaExprBody(e)
	case *ast.ListCompExpr:
		return "[" + expr(e.Elt) + " " + compClauses(e.Gens) + "]"
	case *ast.DictCompExpr:
		return "{" + expr(e.Key) + ": " + expr(e.Value) + " " + compClauses(e.Gens) + "}"
	case *ast.LambdaExpr:
		return lambdaExpr(e)
	case *ast.CallExpr:
		return expr(e.Func) + "(" + argList(e.Args, e.Kwargs) + ")"
	case *ast.SelectorExpr:
		if e.HasQuestion {
			return expr(e.X) + "?." + e.Attr
		}
		return expr(e.X) + "." + e.Attr
	case *ast.SubscriptExpr:
		return subscriptExpr(e)
	case *ast.QuantExpr:
		return quantExpr(e)
	case *ast.CompareExpr:
		return compareExpr(e)
	case *ast.BinaryExpr:
		return expr(e.X) + " " + binOp(e.Op) + " " + expr(e.Y)
	case *ast.UnaryExpr:
		return unaryOp(e.Op) + expr(e.X)
	default:
		return ""
	}
}

func joinedString(e *ast.JoinedStringExpr) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, part := range e.Parts {
		if part.Expr == nil {
			if part.FormatSpec == "expr" {
				b.WriteString("${" + part.Literal + "}")
			} else {
				b.WriteString(part.Literal)
			}
			continue
		}
		b.WriteString("${")
		b.WriteString(expr(part.Expr))
		if part.FormatSpec != "" {
			b.WriteString(":")
			b.WriteString(part.FormatSpec)
		}
		b.WriteString("}")
	}
	b.WriteByte('"')
	return b.String()
}

func configEntries(entries []ast.ConfigEntry) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Key == nil {
			if ifEntry, ok := entry.Value.(*ast.ConfigIfEntry); ok {
				parts = append(parts, configIfEntry(ifEntry))
				continue
			}
			parts = append(parts, "**"+expr(entry.Value))
			continue
		}
		parts = append(parts, configEntryKV(entry))
	}
	return strings.Join(parts, ", ")
}

func configEntryKV(entry ast.ConfigEntry) string {
	switch entry.Op {
	case ast.OpOverride:
		return expr(entry.Key) + " = " + expr(entry.Value)
	case ast.OpInsert:
		return expr(entry.Key) + " += " + expr(entry.Value)
	default:
		return expr(entry.Key) + ": " + expr(entry.Value)
	}
}

func configIfEntry(e *ast.ConfigIfEntry) string {
	out := "if " + expr(e.Cond) + ": " + configEntries(e.Body)
	for _, el := range e.Elifs {
		out += " elif " + expr(el.Cond) + ": " + configEntries(el.Body)
	}
	if len(e.Else) > 0 {
		out += " else: " + configEntries(e.Else)
	}
	return out
}

func schemaExprBody(e *ast.SchemaExpr) string {
	out := expr(e.Name)
	if len(e.Args) > 0 || len(e.Kwargs) > 0 {
		out += "(" + argList(e.Args, e.Kwargs) + ")"
	}
	if e.Config != nil {
		out += " {" + configEntries(e.Config.Entries) + "}"
	} else {
		out += " {}"
	}
	return out
}

func compClauses(gens []ast.CompClause) string {
	parts := make([]string, len(gens))
	for i, g := range gens {
		targets := make([]string, len(g.Targets))
		for j, t := range g.Targets {
			targets[j] = expr(t)
		}
		clause := "for " + strings.Join(targets, ", ") + " in " + expr(g.Iter)
		for _, ifc := range g.Ifs {
			clause += " if " + expr(ifc)
		}
		parts[i] = clause
	}
	return strings.Join(parts, " ")
}

func lambdaExpr(e *ast.LambdaExpr) string {
	head := "lambda " + paramList(e.Params)
	if e.Return != nil {
		head += " -> " + typeExpr(e.Return)
	}
	var body []string
	for _, s := range e.Body {
		if es, ok := s.(*ast.ExprStmt); ok {
			body = append(body, expr(es.X))
			continue
		}
		body = append(body, stmtInline(s))
	}
	return head + " {" + strings.Join(body, "; ") + "}"
}

// stmtInline renders a non-expression lambda-body statement compactly;
// lambdas in KCL rarely need more than assignment + a trailing expression.
func stmtInline(s ast.Stmt) string {
	switch s := s.(type) {
	case *ast.AssignStmt:
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = expr(t)
		}
		return strings.Join(targets, " = ") + " = " + expr(s.Value)
	default:
		return ""
	}
}

func argList(args []ast.Expr, kwargs []ast.Keyword) string {
	parts := make([]string, 0, len(args)+len(kwargs))
	for _, a := range args {
		parts = append(parts, expr(a))
	}
	for _, kw := range kwargs {
		parts = append(parts, kw.Name+"="+expr(kw.Value))
	}
	return strings.Join(parts, ", ")
}

func subscriptExpr(e *ast.SubscriptExpr) string {
	if !e.IsSlice {
		return expr(e.X) + "[" + expr(e.Index) + "]"
	}
	out := expr(e.X) + "["
	if e.Lo != nil {
		out += expr(e.Lo)
	}
	out += ":"
	if e.Hi != nil {
		out += expr(e.Hi)
	}
	if e.Step != nil {
		out += ":" + expr(e.Step)
	}
	return out + "]"
}

func quantExpr(e *ast.QuantExpr) string {
	kw := map[ast.QuantKind]string{
		ast.QuantAll:    "all",
		ast.QuantAny:    "any",
		ast.QuantMap:    "map",
		ast.QuantFilter: "filter",
	}[e.Kind]
	targets := make([]string, len(e.Targets))
	for i, t := range e.Targets {
		targets[i] = expr(t)
	}
	out := kw + " " + strings.Join(targets, ", ") + " in " + expr(e.Iter) + " {" + expr(e.Test)
	if e.IfCond != nil {
		out += " if " + expr(e.IfCond)
	}
	return out + "}"
}

func compareExpr(e *ast.CompareExpr) string {
	out := expr(e.Left)
	for i, op := range e.Ops {
		out += " " + cmpOp(op) + " " + expr(e.Comps[i])
	}
	return out
}

func cmpOp(op ast.CompareOp) string {
	switch op {
	case ast.CmpEq:
		return "=="
	case ast.CmpNe:
		return "!="
	case ast.CmpLt:
		return "<"
	case ast.CmpLe:
		return "<="
	case ast.CmpGt:
		return ">"
	case ast.CmpGe:
		return ">="
	case ast.CmpIn:
		return "in"
	case ast.CmpNotIn:
		return "not in"
	case ast.CmpIs:
		return "is"
	case ast.CmpIsNot:
		return "is not"
	default:
		return "?"
	}
}

func binOp(op ast.BinaryOp) string {
	switch op {
	case ast.BinOr:
		return "or"
	case ast.BinAnd:
		return "and"
	case ast.BinBitOr:
		return "|"
	case ast.BinBitXor:
		return "^"
	case ast.BinBitAnd:
		return "&"
	case ast.BinShl:
		return "<<"
	case ast.BinShr:
		return ">>"
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinFloorDiv:
		return "//"
	case ast.BinMod:
		return "%"
	case ast.BinPow:
		return "**"
	default:
		return "?"
	}
}

func unaryOp(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNot:
		return "not "
	case ast.UnaryPos:
		return "+"
	case ast.UnaryNeg:
		return "-"
	case ast.UnaryInvert:
		return "~"
	default:
		return ""
	}
}
