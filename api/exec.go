package api

import (
	"os"

	"github.com/kcl-lang/kclcore/evaluator"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/plan"
	"github.com/kcl-lang/kclcore/preprocess"
	"github.com/kcl-lang/kclcore/sema"
)

// ExecProgramArgs is `exec_program(args: ExecProgramArgs)`'s argument
// bundle: the file to run, its `-D key=value` app_args, the debug/range
// knobs §4.6 threads through the evaluator, and the planner options the
// result gets rendered with.
type ExecProgramArgs struct {
	Path             string
	Code             string // non-empty overrides reading Path from disk
	AppArgs          map[string]string
	DebugMode        bool
	StrictRangeCheck bool
	Plan             plan.Options
}

// ExecProgramResult is `exec_program(...) -> ExecProgramResult`: the
// rendered JSON/YAML plus whatever diagnostics accumulated along the way.
// JSON/YAML are empty whenever an Error-level diagnostic stopped the
// pipeline before evaluation produced a value.
type ExecProgramResult struct {
	JSONResult  string
	YAMLResult  string
	Diagnostics []diagnostic.Diagnostic
	ErrType     string
	SourceMap   *diagnostic.SourceMap
}

// ExecProgram runs the full pipeline — lex, parse, pre-process, resolve,
// evaluate, plan — in one call, halting after resolve if any Error-level
// diagnostic was reported (§7: "the resolver... only halts before
// evaluation if any Error-level diagnostic exists").
func ExecProgram(args ExecProgramArgs) (*ExecProgramResult, error) {
	src := args.Code
	if src == "" {
		raw, err := os.ReadFile(args.Path)
		if err != nil {
			return nil, err
		}
		src = string(raw)
	}

	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile(args.Path, src)
	toks := lexer.Lex(args.Path, []byte(src), 0, sess)
	m := parser.Parse(args.Path, toks, sess)
	if sess.HasErrors() {
		return &ExecProgramResult{Diagnostics: sess.Diagnostics, SourceMap: sess.SourceMap}, nil
	}

	preprocess.Run(m)
	_, _ = sema.Resolve(m, sess)
	if sess.HasErrors() {
		return &ExecProgramResult{Diagnostics: sess.Diagnostics, SourceMap: sess.SourceMap}, nil
	}

	result, ctx := evaluator.Eval(m, evaluator.Options{
		AppArgs:          args.AppArgs,
		DebugMode:        args.DebugMode,
		StrictRangeCheck: args.StrictRangeCheck,
	}, sess)
	if sess.HasErrors() {
		return &ExecProgramResult{Diagnostics: sess.Diagnostics, ErrType: ctx.ErrType, SourceMap: sess.SourceMap}, nil
	}

	jsonOut, yamlOut, err := plan.Plan(result, args.Plan)
	if err != nil {
		return &ExecProgramResult{Diagnostics: sess.Diagnostics, ErrType: ctx.ErrType, SourceMap: sess.SourceMap}, err
	}
	return &ExecProgramResult{
		JSONResult:  jsonOut,
		YAMLResult:  yamlOut,
		Diagnostics: sess.Diagnostics,
		ErrType:     ctx.ErrType,
		SourceMap:   sess.SourceMap,
	}, nil
}
