package api

import (
	"os"
	"strconv"
	"strings"

	"github.com/kcl-lang/kclcore/evaluator"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/preprocess"
	"github.com/kcl-lang/kclcore/value"
)

// Variable is one resolved entry of `list_variables`'s result map: the
// dotted spec that found it, its runtime kind, and a one-line value
// rendering for display.
type Variable struct {
	Kind  string
	Value string
}

// UnsupportedSpec records a spec list_variables could not resolve, paired
// with a short machine-readable code rather than a free-text message.
type UnsupportedSpec struct {
	Spec string
	Code string
}

// ListVariablesResult is `list_variables(file, specs) -> {variables,
// unsupported, parse_errors}`.
type ListVariablesResult struct {
	Variables   map[string]Variable
	Unsupported []UnsupportedSpec
	ParseErrors []diagnostic.Diagnostic
}

// ListVariables evaluates file (code, if non-empty, overrides reading it
// from disk) and resolves each dotted spec against the result value,
// following the same path-navigation rule the planner's query_paths use.
func ListVariables(path string, code string, specs []string) (*ListVariablesResult, error) {
	src := code
	if src == "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		src = string(raw)
	}

	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile(path, src)
	toks := lexer.Lex(path, []byte(src), 0, sess)
	m := parser.Parse(path, toks, sess)
	if sess.HasErrors() {
		return &ListVariablesResult{ParseErrors: sess.Diagnostics}, nil
	}

	preprocess.Run(m)
	result, _ := evaluator.Eval(m, evaluator.Options{}, sess)

	out := &ListVariablesResult{Variables: map[string]Variable{}}
	for _, spec := range specs {
		v, ok := navigate(result, spec)
		if !ok {
			out.Unsupported = append(out.Unsupported, UnsupportedSpec{Spec: spec, Code: "NotFound"})
			continue
		}
		out.Variables[spec] = Variable{Kind: v.Kind().String(), Value: value.Repr(v)}
	}
	return out, nil
}

func navigate(v value.Value, path string) (value.Value, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		switch cur.Kind() {
		case value.KindDict, value.KindSchema:
			next, ok := cur.Dict().Get(seg)
			if !ok {
				return value.Undefined(), false
			}
			cur = next
		case value.KindList:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.List()) {
				return value.Undefined(), false
			}
			cur = cur.List()[idx]
		default:
			return value.Undefined(), false
		}
	}
	return cur, true
}
