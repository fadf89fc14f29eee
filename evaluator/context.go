// Package evaluator implements the tree-walking evaluator (§4.6): schema
// instantiation, option() resolution, and range checks over the AST
// produced by parser+preprocess and typed by sema. Grounded on sqldef's
// `database.GenerateDDLs`/`schema.Generator` walk — a single-pass tree
// walk over a resolved schema producing a result value (a list of DDL
// statements there; a dynamic Value here) — generalized from "diff two
// schemas" to "evaluate a program".
package evaluator

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/klog"
	"github.com/kcl-lang/kclcore/sema"
)

// Config mirrors §4.6's `cfg {debug_mode, strict_range_check}`.
type Config struct {
	DebugMode        bool
	StrictRangeCheck bool
}

// Context is the mutable state threaded through one evaluation, per §4.6's
// contract: `{pkg_scopes, app_args, cfg, import_names, log_message,
// err_type?}`.
type Context struct {
	PkgScopes   map[string][]*Scope
	AppArgs     map[string]string
	Cfg         Config
	ImportNames map[string]string
	LogMessage  func(string)
	ErrType     string

	schemas map[string]*ast.SchemaStmt
	types   map[string]*sema.SchemaType
}

// Options configures one Eval call.
type Options struct {
	AppArgs          map[string]string
	DebugMode        bool
	StrictRangeCheck bool
	LogMessage       func(string)
}

func newContext(opts Options) *Context {
	log := opts.LogMessage
	if log == nil {
		// No caller-supplied sink: route print()'s log_message through the
		// session logger at debug level rather than dropping it silently.
		log = func(msg string) { klog.L().Debug(msg) }
	}
	return &Context{
		PkgScopes:   map[string][]*Scope{},
		AppArgs:     opts.AppArgs,
		Cfg:         Config{DebugMode: opts.DebugMode, StrictRangeCheck: opts.StrictRangeCheck},
		ImportNames: map[string]string{},
		LogMessage:  log,
		schemas:     map[string]*ast.SchemaStmt{},
		types:       map[string]*sema.SchemaType{},
	}
}
