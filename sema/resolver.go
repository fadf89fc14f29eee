package sema

import (
	"fmt"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
)

// Resolver carries the state one `resolve` pass threads through: the
// session diagnostics sink, the node_ty_map side table keyed by AstIndex
// (§3.7), and the schema table used for named-type upgrade.
type Resolver struct {
	sess    *diagnostic.Session
	types   map[ast.AstIndex]*Type
	schemas map[string]*SchemaType
	file    string
}

// Resolve implements `resolve(Program) -> (ProgramScope, node_ty_map,
// Diagnostics)` for a single module. Each call builds fresh builtin and
// root scopes; no scope is shared between calls, so names declared in
// another file are not visible.
func Resolve(m *ast.Module, sess *diagnostic.Session) (*ProgramScope, map[ast.AstIndex]*Type) {
	r := &Resolver{
		sess:    sess,
		types:   map[ast.AstIndex]*Type{},
		schemas: map[string]*SchemaType{},
		file:    m.Filename,
	}
	builtin := NewBuiltinScope()
	root := EnterScope(builtin)
	root.IsRoot = true

	r.predeclareSchemas(m, root)
	r.resolveSchemaBodies(m)
	r.resolveBody(m.Body, root)

	return &ProgramScope{Builtin: builtin, Root: root, Schemas: r.schemas}, r.types
}

// predeclareSchemas registers every schema/rule/type-alias name before any
// attribute or body is resolved, so forward and mutually recursive
// references type-check (§4.4's named-type upgrade assumes the name table
// is already complete at use sites).
func (r *Resolver) predeclareSchemas(m *ast.Module, root *Scope) {
	for _, s := range m.Body {
		switch s := s.(type) {
		case *ast.SchemaStmt:
			st := &SchemaType{Name: s.Name, Attrs: map[string]AttrType{}}
			r.schemas[s.Name] = st
			root.Declare(s.Name, SchemaOf(st), SymSchema, s.Span)
		case *ast.RuleStmt:
			root.Declare(s.Name, Any(), SymRule, s.Span)
		case *ast.TypeAliasStmt:
			root.Declare(s.Name, Named(s.Name), SymTypeAlias, s.Span)
		}
	}
}

// resolveSchemaBodies fills in each predeclared SchemaType's base chain,
// index signature, and attribute types, upgrading Named annotations
// against the now-complete schema table. Schemas are visited in
// base-before-child order (topoSortSchemas) so a child declared earlier
// in the file than its base still inherits the base's attrs correctly.
func (r *Resolver) resolveSchemaBodies(m *ast.Module) {
	var schemaStmts []*ast.SchemaStmt
	for _, s := range m.Body {
		if sc, ok := s.(*ast.SchemaStmt); ok {
			schemaStmts = append(schemaStmts, sc)
		}
	}
	for _, sc := range topoSortSchemas(schemaStmts) {
		st := r.schemas[sc.Name]
		if sc.Base_ != "" {
			if base, ok := r.schemas[sc.Base_]; ok {
				st.Base = base
				for name, at := range base.Attrs {
					if _, exists := st.Attrs[name]; !exists {
						st.Attrs[name] = at
					}
				}
			}
		}
		for _, attr := range sc.Attrs {
			var ty *Type
			if attr.Type != nil {
				ty = r.resolveTypeExpr(attr.Type)
			} else {
				ty = Any()
			}
			st.Attrs[attr.Name] = AttrType{Ty: ty, Optional: attr.Optional}
		}
		if sc.Index != nil {
			st.Index = &IndexSig{
				KeyTy:    r.resolveTypeExpr(sc.Index.KeyType),
				ValTy:    r.resolveTypeExpr(sc.Index.ValueType),
				AnyOther: sc.Index.AnyOther,
			}
		}
	}
}

// resolveTypeExpr implements named-type upgrade: a bare NamedType whose
// head resolves to a schema symbol becomes that Schema type.
func (r *Resolver) resolveTypeExpr(t ast.TypeExpr) *Type {
	switch t := t.(type) {
	case nil:
		return Any()
	case *ast.NamedType:
		name := t.Path[len(t.Path)-1]
		switch name {
		case "any":
			return Any()
		case "bool":
			return Bool()
		case "int":
			return Int()
		case "float":
			return Float()
		case "str":
			return Str()
		case "None", "none":
			return None()
		}
		if st, ok := r.schemas[name]; ok {
			return SchemaOf(st)
		}
		return Named(name)
	case *ast.ListType:
		return List(r.resolveTypeExpr(t.Elt))
	case *ast.DictType:
		return Dict(r.resolveTypeExpr(t.Key), r.resolveTypeExpr(t.Val))
	case *ast.UnionType:
		arms := make([]*Type, len(t.Arms))
		for i, a := range t.Arms {
			arms[i] = r.resolveTypeExpr(a)
		}
		return Union(arms...)
	case *ast.LiteralType:
		switch {
		case t.HasStr:
			return StrLit(t.Str)
		case t.HasInt:
			return IntLit(t.Int)
		case t.HasFloat:
			return FloatLit(t.Float)
		case t.HasBool:
			return BoolLit(t.Bool)
		}
		return Any()
	case *ast.FunctionType:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = r.resolveTypeExpr(p)
		}
		ret := Any()
		if t.Ret != nil {
			ret = r.resolveTypeExpr(t.Ret)
		}
		return Function(&FuncType{Params: params, Ret: ret})
	}
	return Any()
}

func (r *Resolver) resolveBody(stmts []ast.Stmt, scope *Scope) {
	for _, s := range stmts {
		r.resolveStmt(s, scope)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt, scope *Scope) {
	switch s := s.(type) {
	case *ast.ImportStmt:
		name := s.Alias
		if name == "" {
			name = s.Path
		}
		scope.Declare(name, Any(), SymImport, s.Span)
	case *ast.SchemaStmt:
		r.resolveSchemaStmt(s, scope)
	case *ast.RuleStmt:
		inner := EnterScope(scope)
		for _, p := range s.Params {
			inner.Declare(p.Name, r.resolveTypeExpr(p.Type), SymVariable, p.Span)
		}
		for _, c := range s.Checks {
			r.inferExpr(c.Cond, inner)
			if c.Msg != nil {
				r.inferExpr(c.Msg, inner)
			}
		}
	case *ast.TypeAliasStmt:
		scope.Declare(s.Name, r.resolveTypeExpr(s.Type), SymTypeAlias, s.Span)
	case *ast.AssignStmt:
		r.resolveAssign(s, scope)
	case *ast.AugAssignStmt:
		r.inferExpr(s.Value, scope)
		r.inferExpr(s.Target, scope)
	case *ast.UnificationStmt:
		r.resolveUnification(s, scope)
	case *ast.ExprStmt:
		r.inferExpr(s.X, scope)
	case *ast.IfStmt:
		r.inferExpr(s.Cond, scope)
		r.resolveBody(s.Body, EnterScope(scope))
		for _, e := range s.Elifs {
			r.inferExpr(e.Cond, scope)
			r.resolveBody(e.Body, EnterScope(scope))
		}
		r.resolveBody(s.Else, EnterScope(scope))
	case *ast.AssertStmt:
		r.inferExpr(s.Cond, scope)
		if s.If != nil {
			r.inferExpr(s.If, scope)
		}
		if s.Msg != nil {
			r.inferExpr(s.Msg, scope)
		}
	}
}

func (r *Resolver) resolveSchemaStmt(s *ast.SchemaStmt, scope *Scope) {
	inner := EnterScope(scope)
	st := r.schemas[s.Name]
	for _, p := range s.Params {
		inner.Declare(p.Name, r.resolveTypeExpr(p.Type), SymVariable, p.Span)
	}
	for name, at := range st.Attrs {
		inner.Declare(name, at.Ty, SymVariable, s.Span)
	}
	for _, attr := range s.Attrs {
		if attr.Default != nil {
			valTy := r.inferExpr(attr.Default, inner)
			declTy := st.Attrs[attr.Name].Ty
			if !IsSubtype(valTy, declTy) {
				r.errType(attr.Span, "default value of attribute %q is not assignable to declared type %s", attr.Name, declTy)
			}
		}
	}
	for _, c := range s.Checks {
		r.inferExpr(c.Cond, inner)
		if c.Msg != nil {
			r.inferExpr(c.Msg, inner)
		}
	}
}

// resolveAssign implements §4.4's assignment typing rule for `target [:
// ann] = value`.
func (r *Resolver) resolveAssign(s *ast.AssignStmt, scope *Scope) {
	valTy := r.inferExpr(s.Value, scope)
	for _, target := range s.Targets {
		ident, ok := target.(*ast.Identifier)
		if !ok || len(ident.Names) != 1 {
			r.inferExpr(target, scope)
			continue
		}
		name := ident.Names[0]
		if s.Type != nil {
			ann := r.resolveTypeExpr(s.Type)
			if existing, _, found := scope.Lookup(name); found && existing.Ty.Kind != KAny {
				if !IsSubtype(ann, existing.Ty) {
					r.errType(s.Span, "declared type %s of %q is not assignable to existing type %s", ann, name, existing.Ty)
				}
			}
			if !IsSubtype(valTy, ann) {
				r.errType(s.Span, "value of type %s is not assignable to declared type %s", valTy, ann)
			}
			if _, ok := scope.Declare(name, ann, SymVariable, s.Span); !ok {
				scope.Assign(name, ann)
			}
		} else {
			if _, ok := scope.Declare(name, valTy, SymVariable, s.Span); !ok {
				if existing, _, _ := scope.Lookup(name); existing != nil {
					scope.Assign(name, Union(existing.Ty, valTy))
				}
			}
		}
		r.types[ident.ID] = valTy
	}
}

func (r *Resolver) resolveUnification(s *ast.UnificationStmt, scope *Scope) {
	schemaTy := r.inferExpr(s.Value, scope)
	ident, ok := s.Target.(*ast.Identifier)
	if !ok || len(ident.Names) != 1 {
		return
	}
	name := ident.Names[0]
	if existing, _, found := scope.Lookup(name); found && existing.Ty.Kind != KAny {
		if !IsSubtype(schemaTy, existing.Ty) && !IsSubtype(existing.Ty, schemaTy) {
			r.errType(s.Span, "cannot unify %q of type %s with %s", name, existing.Ty, schemaTy)
		}
	}
	scope.Declare(name, schemaTy, SymVariable, s.Span)
	r.types[ident.ID] = schemaTy
}

func (r *Resolver) errType(span diagnostic.Span, format string, args ...interface{}) {
	r.sess.Report(diagnostic.Diagnostic{
		Kind:     diagnostic.KindTypeError,
		Severity: diagnostic.SevError,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	})
}
