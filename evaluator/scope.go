package evaluator

import "github.com/kcl-lang/kclcore/value"

// Scope is one evaluation-time lexical scope, per §4.6: "index 0 is
// builtin+global, index >=1 are lexical scopes... holds {scalars,
// schema_scalar_idx, variables: ordered map, arguments: set, schema_ctx?}".
// `scalars`/`schema_scalar_idx` are folded into Variables here since Value
// already gives scalars reference semantics; nothing is lost by not
// keeping a parallel scalar table.
type Scope struct {
	Parent    *Scope
	Variables map[string]value.Value
	Order     []string
	Arguments map[string]bool // names bound as function/schema parameters
	SchemaCtx *SchemaCtx      // non-nil inside a schema instantiation body
}

// SchemaCtx is the extra state a schema-instantiation scope carries: the
// schema's name and the config dict being built.
type SchemaCtx struct {
	SchemaName string
	Config     value.Value // a KindDict value
}

func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Variables: map[string]value.Value{}, Arguments: map[string]bool{}}
}

// Lookup walks from s outward; this is the "local-var or closure-var"
// predicate from §4.6 collapsed into one function, since a read doesn't
// need to distinguish the two — only a write does (see Declare vs Assign).
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.Variables[name]; ok {
			return v, true
		}
	}
	return value.Undefined(), false
}

// Declare binds name as a local variable of s (first write in this block).
func (s *Scope) Declare(name string, v value.Value) {
	if _, exists := s.Variables[name]; !exists {
		s.Order = append(s.Order, name)
	}
	s.Variables[name] = v
}

// Assign writes to whichever scope already owns name (a closure-var write),
// falling back to declaring it locally if no enclosing scope owns it yet.
func (s *Scope) Assign(name string, v value.Value) {
	for cur := s; cur != nil; cur = cur.Parent {
		if _, exists := cur.Variables[name]; exists {
			cur.Variables[name] = v
			return
		}
	}
	s.Declare(name, v)
}
