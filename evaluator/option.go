package evaluator

import (
	"strconv"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/value"
)

// evalOptionCall implements the `option("key", type=..., required=...,
// default=...)` builtin (§4.6): pull the named value out of app_args,
// coerce it to the requested type, or fall back to default / fail if
// required and absent. type="dict" returns the raw string unparsed, and a
// value that does not parse as the requested bool/int/float is Undefined.
func (ev *Evaluator) evalOptionCall(e *ast.CallExpr, scope *Scope) value.Value {
	if len(e.Args) == 0 {
		return value.Undefined()
	}
	key := ev.evalExpr(e.Args[0], scope).Str()

	typ := "str"
	required := false
	var def value.Value
	hasDefault := false
	for _, k := range e.Kwargs {
		v := ev.evalExpr(k.Value, scope)
		switch k.Name {
		case "type":
			typ = v.Str()
		case "required":
			required = v.Bool()
		case "default":
			def = v
			hasDefault = true
		}
	}

	raw, present := ev.ctx.AppArgs[key]
	if !present {
		if hasDefault {
			return def
		}
		if required {
			ev.sess.Report(diagnostic.Diagnostic{
				Kind: diagnostic.KindNameNotDefined, Severity: diagnostic.SevError,
				Message: "required option '" + key + "' was not provided", Primary: e.Span,
			})
		}
		return value.Undefined()
	}
	return coerceOption(raw, typ)
}

func coerceOption(raw, typ string) value.Value {
	switch typ {
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return value.Undefined()
		}
		return value.Bool(b)
	case "int":
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return value.Undefined()
		}
		return value.Int(i)
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value.Undefined()
		}
		return value.Float(f)
	case "list":
		return parseListOption(raw)
	case "dict", "str":
		return value.Str(raw)
	default:
		return value.Str(raw)
	}
}

// parseListOption accepts a JSON-ish `[a, b, c]` or bare comma-separated
// option value, since app_args arrive as plain strings off the CLI.
func parseListOption(raw string) value.Value {
	s := raw
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return value.NewList()
	}
	var items []value.Value
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			items = append(items, value.Str(trimSpace(s[start:i])))
			start = i + 1
		}
	}
	return value.NewList(items...)
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}
