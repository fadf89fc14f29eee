package evaluator

import (
	"fmt"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/value"
)

// evalSchemaExpr implements the `Name(args){config}` constructor call: look
// up the named schema and run the five-step instantiation contract (§4.6).
func (ev *Evaluator) evalSchemaExpr(e *ast.SchemaExpr, scope *Scope) value.Value {
	name, ok := identifierName(e.Name)
	if !ok {
		return value.Undefined()
	}
	stmt, ok := ev.ctx.schemas[name]
	if !ok {
		ev.sess.Report(diagnostic.Diagnostic{
			Kind: diagnostic.KindNameNotDefined, Severity: diagnostic.SevError,
			Message: fmt.Sprintf("schema %q is not defined", name), Primary: e.Span,
		})
		return value.Undefined()
	}
	return ev.instantiateSchema(stmt, e.Args, e.Kwargs, e.Config, scope, e.Span)
}

func identifierName(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok || len(id.Names) == 0 {
		return "", false
	}
	return id.Names[len(id.Names)-1], true
}

// collectAttrs walks the schema's Base_ chain outward-in so a derived
// schema's own Attrs override an inherited attribute of the same name,
// matching the declared-type override semantics sema already checked.
func (ev *Evaluator) collectAttrs(stmt *ast.SchemaStmt) []ast.Attribute {
	var chain []*ast.SchemaStmt
	for s := stmt; s != nil; {
		chain = append([]*ast.SchemaStmt{s}, chain...)
		if s.Base_ == "" {
			break
		}
		next, ok := ev.ctx.schemas[s.Base_]
		if !ok {
			break
		}
		s = next
	}
	byName := map[string]int{}
	var attrs []ast.Attribute
	for _, s := range chain {
		for _, a := range s.Attrs {
			if idx, exists := byName[a.Name]; exists {
				attrs[idx] = a
				continue
			}
			byName[a.Name] = len(attrs)
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func (ev *Evaluator) collectChecks(stmt *ast.SchemaStmt) []ast.CheckExpr {
	var checks []ast.CheckExpr
	for s := stmt; s != nil; {
		checks = append(checks, s.Checks...)
		if s.Base_ == "" {
			break
		}
		next, ok := ev.ctx.schemas[s.Base_]
		if !ok {
			break
		}
		s = next
	}
	return checks
}

// instantiateSchema runs §4.6's schema-instantiation contract: open a scope
// with the parameters bound, evaluate attribute defaults eagerly in
// declaration order (a default sees the parameters and earlier attributes;
// a later attribute reads as Undefined), merge the literal config into the
// resulting dict, run check blocks, and tag the final dict as a schema
// value. Index-signature value types are not checked at runtime.
func (ev *Evaluator) instantiateSchema(
	stmt *ast.SchemaStmt,
	args []ast.Expr,
	kwargs []ast.Keyword,
	cfg *ast.ConfigExpr,
	outer *Scope,
	span diagnostic.Span,
) value.Value {
	schemaScope := NewScope(outer)
	schemaScope.SchemaCtx = &SchemaCtx{SchemaName: stmt.Name}

	argVals := make([]value.Value, len(args))
	for i, a := range args {
		argVals[i] = ev.evalExpr(a, outer)
	}
	kwargVals := map[string]value.Value{}
	for _, k := range kwargs {
		kwargVals[k.Name] = ev.evalExpr(k.Value, outer)
	}
	for i, p := range stmt.Params {
		var v value.Value
		if i < len(argVals) {
			v = argVals[i]
		} else if kw, ok := kwargVals[p.Name]; ok {
			v = kw
		} else if p.Default != nil {
			v = ev.evalExpr(p.Default, schemaScope)
		} else {
			v = value.Undefined()
		}
		schemaScope.Declare(p.Name, v)
		schemaScope.Arguments[p.Name] = true
	}

	attrs := ev.collectAttrs(stmt)
	optionalMap := map[string]bool{}
	result := value.NewDict()
	for _, a := range attrs {
		optionalMap[a.Name] = a.Optional
		var v value.Value
		if a.Default != nil {
			v = ev.evalExpr(a.Default, schemaScope)
		} else {
			v = value.Undefined()
		}
		schemaScope.Declare(a.Name, v)
		if !v.IsUndefined() {
			result.Dict().Set(a.Name, v, value.OpOverride, -1)
		}
	}
	schemaScope.SchemaCtx.Config = result

	if cfg != nil {
		delta := value.NewDict()
		for _, entry := range cfg.Entries {
			ev.applyConfigEntry(entry, delta, schemaScope)
		}
		if err := value.Merge(result, delta, ev.mergeOpts(), ev.sess, span); err != nil {
			ev.sess.Report(diagnostic.Diagnostic{
				Kind: diagnostic.KindUnificationConflict, Severity: diagnostic.SevError,
				Message: err.Error(), Primary: span,
			})
		}
		for _, k := range result.Dict().Keys {
			schemaScope.Assign(k, result.Dict().Values[k])
		}
	}

	ev.runChecks(ev.collectChecks(stmt), schemaScope, span)

	// Index-signature key/value typing was already enforced statically by
	// the resolver (sema.checkConfigAgainstSchema); nothing further to
	// validate here at runtime.

	out := result
	out.AsSchema(stmt.Name, argVals, kwargVals, optionalMap)
	return out
}

// mergeOpts builds the value.Opts every merge call site in the evaluator
// shares: idempotent-check conflict reporting plus config_resolve wired to
// onSchemaResolve (§4.5).
func (ev *Evaluator) mergeOpts() value.Opts {
	return value.Opts{
		IdempotentCheck: true,
		ConfigResolve:   true,
		OnSchemaResolve: ev.onSchemaResolve,
	}
}

// onSchemaResolve re-runs default resolution and check validation against a
// schema's combined config_keys once a Schema∪Schema or Schema∪Dict merge
// completes (§4.5: "on completion of a Schema merge, if config_resolve is
// on, re-run schema validation and default resolution against the combined
// config_keys"). result is the merged dict/schema value, mutated in place.
func (ev *Evaluator) onSchemaResolve(schemaName string, result value.Value, configKeys []string, span diagnostic.Span) {
	stmt, ok := ev.ctx.schemas[schemaName]
	if !ok {
		return
	}
	scope := NewScope(nil)
	scope.SchemaCtx = &SchemaCtx{SchemaName: schemaName, Config: result}
	for _, a := range ev.collectAttrs(stmt) {
		if v, has := result.Dict().Get(a.Name); has {
			scope.Declare(a.Name, v)
			continue
		}
		var v value.Value
		if a.Default != nil {
			v = ev.evalExpr(a.Default, scope)
		} else {
			v = value.Undefined()
		}
		scope.Declare(a.Name, v)
		if !v.IsUndefined() {
			result.Dict().Set(a.Name, v, value.OpOverride, -1)
		}
	}
	ev.runChecks(ev.collectChecks(stmt), scope, span)

	// Filling in missing defaults above may have appended to the dict's
	// WriteLog; re-tag so result.ConfigKeys() reflects configKeys, the
	// combined write history the merge just computed, rather than the stale
	// snapshot AsSchema took before this resolution ran.
	if result.Kind() == value.KindSchema && len(result.ConfigKeys()) != len(configKeys) {
		result.AsSchema(schemaName, result.SchemaArgs(), result.SchemaKwargs(), result.OptionalMap())
	}
}

func (ev *Evaluator) runChecks(checks []ast.CheckExpr, scope *Scope, span diagnostic.Span) {
	for _, c := range checks {
		if ev.evalExpr(c.Cond, scope).Bool() {
			continue
		}
		msg := "check failed"
		if c.Msg != nil {
			msg = ev.evalExpr(c.Msg, scope).Str()
		}
		ev.sess.Report(diagnostic.Diagnostic{
			Kind: diagnostic.KindSchemaCheckFailure, Severity: diagnostic.SevError,
			Message: msg, Primary: span,
		})
	}
}
