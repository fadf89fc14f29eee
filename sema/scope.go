package sema

import "github.com/kcl-lang/kclcore/internal/diagnostic"

// SymbolKind distinguishes what a name in scope refers to.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymSchema
	SymRule
	SymFunction
	SymTypeAlias
	SymImport
)

// Symbol is one bound name: its type, what declared it, and where.
type Symbol struct {
	Name     string
	Ty       *Type
	Kind     SymbolKind
	DeclSpan diagnostic.Span
}

// Scope is a lexical scope per §4.4: one Root scope per package, plus a
// Local scope for every schema/lambda/comprehension/check block. Lookup
// walks from innermost outward.
type Scope struct {
	Parent *Scope
	IsRoot bool
	Names  map[string]*Symbol
	// Order preserves declaration order for deterministic diagnostics and
	// for `kcl run --trace-ast`-style scope dumps.
	Order []string
}

func newScope(parent *Scope, isRoot bool) *Scope {
	return &Scope{Parent: parent, IsRoot: isRoot, Names: map[string]*Symbol{}}
}

// NewBuiltinScope preloads the scope every Root scope is nested under, with
// every builtin function's type.
func NewBuiltinScope() *Scope {
	s := newScope(nil, true)
	for name, fn := range builtinFunctions {
		s.Names[name] = &Symbol{Name: name, Ty: Function(fn), Kind: SymFunction}
		s.Order = append(s.Order, name)
	}
	return s
}

// EnterScope pushes a new Local scope under parent.
func EnterScope(parent *Scope) *Scope { return newScope(parent, false) }

// LeaveScope returns a scope's parent; declared-here bookkeeping lives only
// in the popped Scope value itself, so there is nothing further to clear.
func LeaveScope(s *Scope) *Scope { return s.Parent }

// Lookup walks from s outward and returns the first match.
func (s *Scope) Lookup(name string) (*Symbol, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.Names[name]; ok {
			return sym, cur, true
		}
	}
	return nil, nil, false
}

// Declare binds name in s. Per §4.4's unique-declaration policy, a second
// declaration at the same scope level with a different type fails; with
// the same type it is accepted (re-binding, e.g. augmented assignment) and
// the existing symbol is returned unchanged.
func (s *Scope) Declare(name string, ty *Type, kind SymbolKind, span diagnostic.Span) (*Symbol, bool) {
	if existing, ok := s.Names[name]; ok {
		if typesEqual(existing.Ty, ty) {
			return existing, true
		}
		return existing, false
	}
	sym := &Symbol{Name: name, Ty: ty, Kind: kind, DeclSpan: span}
	s.Names[name] = sym
	s.Order = append(s.Order, name)
	return sym, true
}

// Assign updates an already-declared symbol's type in place (used when
// assignment typing widens a variable's declared type, §4.4).
func (s *Scope) Assign(name string, ty *Type) {
	if sym, ok := s.Names[name]; ok {
		sym.Ty = ty
	}
}

func typesEqual(a, b *Type) bool {
	return IsSubtype(a, b) && IsSubtype(b, a)
}

// ProgramScope is the resolver's top-level result: the Root scope plus,
// per §4.4, the schema symbol table used for named-type upgrade.
type ProgramScope struct {
	Builtin *Scope
	Root    *Scope
	Schemas map[string]*SchemaType
}
