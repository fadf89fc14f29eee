// Package sema implements the type-and-scope resolver (§4.4): name
// binding, named-type upgrade, dict-to-schema assignability, and
// assignment typing. Grounded on sqldef's own notion of a column/table
// "type" used to decide whether two schema definitions are compatible
// (schema/generator.go's type-compatibility checks before emitting an
// ALTER), generalized from SQL column types to KCL's structural+nominal
// type lattice.
package sema

import "fmt"

// Kind tags the variant a Type holds.
type Kind int

const (
	KAny Kind = iota
	KVoid
	KNone
	KBool
	KInt
	KFloat
	KStr
	KBoolLit
	KIntLit
	KFloatLit
	KStrLit
	KList
	KDict
	KUnion
	KSchema
	KFunction
	KNamed // an annotation not yet upgraded to a Schema
)

// Type is a tagged union covering every shape spec §4.4/§4.5 needs: the
// scalar builtins, literal (singleton) types, list/dict structurals,
// unions, schema nominal types, function types, and an unresolved Named
// placeholder that the resolver upgrades once it can look the name up.
type Type struct {
	Kind Kind

	Elem *Type // KList
	Key  *Type // KDict
	Val  *Type // KDict

	Arms []*Type // KUnion

	Schema *SchemaType // KSchema
	Func   *FuncType   // KFunction

	BoolLit  bool
	IntLit   int64
	FloatLit float64
	StrLit   string

	Name string // KNamed, or the display name of KSchema
}

// AttrType is one schema attribute's resolved type plus optionality.
type AttrType struct {
	Ty       *Type
	Optional bool
}

// IndexSig is a schema's `[key: K]: V` signature.
type IndexSig struct {
	KeyTy    *Type
	ValTy    *Type
	AnyOther bool
}

// SchemaType is the nominal type a `schema S: ...` statement introduces.
type SchemaType struct {
	Name  string
	Base  *SchemaType // parent schema, nil if none
	Attrs map[string]AttrType
	Index *IndexSig
}

// FuncType is a lambda/function's signature.
type FuncType struct {
	Params []*Type
	Ret    *Type
}

func Any() *Type   { return &Type{Kind: KAny} }
func Void() *Type  { return &Type{Kind: KVoid} }
func None() *Type  { return &Type{Kind: KNone} }
func Bool() *Type  { return &Type{Kind: KBool} }
func Int() *Type   { return &Type{Kind: KInt} }
func Float() *Type { return &Type{Kind: KFloat} }
func Str() *Type   { return &Type{Kind: KStr} }

func BoolLit(v bool) *Type     { return &Type{Kind: KBoolLit, BoolLit: v} }
func IntLit(v int64) *Type     { return &Type{Kind: KIntLit, IntLit: v} }
func FloatLit(v float64) *Type { return &Type{Kind: KFloatLit, FloatLit: v} }
func StrLit(v string) *Type    { return &Type{Kind: KStrLit, StrLit: v} }

func List(elem *Type) *Type        { return &Type{Kind: KList, Elem: elem} }
func Dict(key, val *Type) *Type    { return &Type{Kind: KDict, Key: key, Val: val} }
func Named(name string) *Type      { return &Type{Kind: KNamed, Name: name} }
func Function(f *FuncType) *Type   { return &Type{Kind: KFunction, Func: f} }
func SchemaOf(s *SchemaType) *Type { return &Type{Kind: KSchema, Schema: s, Name: s.Name} }

// Union builds a union type, flattening nested unions and collapsing to a
// single arm when the flattened list has exactly one arm (duplicate arms
// are not removed).
func Union(arms ...*Type) *Type {
	var flat []*Type
	for _, a := range arms {
		if a.Kind == KUnion {
			flat = append(flat, a.Arms...)
		} else {
			flat = append(flat, a)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Type{Kind: KUnion, Arms: flat}
}

// BaseOf widens a literal type to its scalar base, leaving every other kind
// unchanged.
func BaseOf(t *Type) *Type {
	switch t.Kind {
	case KBoolLit:
		return Bool()
	case KIntLit:
		return Int()
	case KFloatLit:
		return Float()
	case KStrLit:
		return Str()
	default:
		return t
	}
}

// SchemaChainHas reports whether s or any of its ancestors is named name.
func SchemaChainHas(s *SchemaType, name string) bool {
	for cur := s; cur != nil; cur = cur.Base {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// IsSubtype implements KCL's `<:` assignability relation for already
// name-resolved types (§4.4: Named annotations must be upgraded before
// this is meaningful).
func IsSubtype(sub, sup *Type) bool {
	if sub == nil || sup == nil {
		return true
	}
	if sup.Kind == KAny || sub.Kind == KAny {
		return true
	}
	if sub.Kind == KVoid {
		return sup.Kind == KVoid
	}
	if sup.Kind == KUnion {
		for _, arm := range sup.Arms {
			if IsSubtype(sub, arm) {
				return true
			}
		}
		return false
	}
	if sub.Kind == KUnion {
		for _, arm := range sub.Arms {
			if !IsSubtype(arm, sup) {
				return false
			}
		}
		return true
	}
	switch sub.Kind {
	case KBoolLit:
		if sup.Kind == KBoolLit {
			return sub.BoolLit == sup.BoolLit
		}
		return sup.Kind == KBool
	case KIntLit:
		if sup.Kind == KIntLit {
			return sub.IntLit == sup.IntLit
		}
		return sup.Kind == KInt
	case KFloatLit:
		if sup.Kind == KFloatLit {
			return sub.FloatLit == sup.FloatLit
		}
		return sup.Kind == KFloat
	case KStrLit:
		if sup.Kind == KStrLit {
			return sub.StrLit == sup.StrLit
		}
		return sup.Kind == KStr
	}
	if sub.Kind != sup.Kind {
		return false
	}
	switch sub.Kind {
	case KVoid, KNone, KBool, KInt, KFloat, KStr:
		return true
	case KList:
		return IsSubtype(sub.Elem, sup.Elem)
	case KDict:
		return IsSubtype(sub.Key, sup.Key) && IsSubtype(sub.Val, sup.Val)
	case KSchema:
		return SchemaChainHas(sub.Schema, sup.Schema.Name)
	case KFunction:
		if len(sub.Func.Params) != len(sup.Func.Params) {
			return false
		}
		for i := range sub.Func.Params {
			// parameters are contravariant: each parameter of sup must be
			// a subtype of the matching parameter of sub.
			if !IsSubtype(sup.Func.Params[i], sub.Func.Params[i]) {
				return false
			}
		}
		return IsSubtype(sub.Func.Ret, sup.Func.Ret)
	case KNamed:
		return sub.Name == sup.Name
	}
	return false
}

// String renders a Type for diagnostic messages.
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case KAny:
		return "any"
	case KVoid:
		return "void"
	case KNone:
		return "None"
	case KBool:
		return "bool"
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KStr:
		return "str"
	case KBoolLit:
		return fmt.Sprintf("%t", t.BoolLit)
	case KIntLit:
		return fmt.Sprintf("%d", t.IntLit)
	case KFloatLit:
		return fmt.Sprintf("%g", t.FloatLit)
	case KStrLit:
		return fmt.Sprintf("%q", t.StrLit)
	case KList:
		return "[" + t.Elem.String() + "]"
	case KDict:
		return "{" + t.Key.String() + ":" + t.Val.String() + "}"
	case KUnion:
		s := ""
		for i, a := range t.Arms {
			if i > 0 {
				s += " | "
			}
			s += a.String()
		}
		return s
	case KSchema:
		return t.Schema.Name
	case KFunction:
		return "lambda"
	case KNamed:
		return t.Name
	}
	return "?"
}
