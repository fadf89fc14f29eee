// Package value implements the dynamic runtime value model (§4.5):
// reference-counted values, ordered dicts, the central merge operation,
// subsumption, and comparison/ordering. Grounded on sqldef's own in-memory
// `schema.Table`/`schema.Column` model — a shared, mutation-in-place tree
// that diffing walks and compares field by field — generalized from a
// fixed SQL-table shape to KCL's fully dynamic value variants.
package value

import "fmt"

// Kind tags which variant a Value's cell holds.
type Kind int

const (
	KindUndefined Kind = iota
	KindNone
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindDict
	KindSchema
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindSchema:
		return "schema"
	case KindFunc:
		return "function"
	default:
		return "unknown"
	}
}

// Func is an opaque callable handle; the evaluator (not this package)
// supplies the actual invocation behavior via Native/Closure.
type Func struct {
	Name     string
	Native   func(args []Value, kwargs map[string]Value) (Value, error)
	Closure  interface{} // *evaluator-owned lambda value; kept untyped to avoid an import cycle
}

// cell is the shared, mutable backing store a Value handle points to.
// "Every Value handle points to a shared cell; copies share" (§4.5) is
// implemented by Value being a thin wrapper around *cell: assigning a
// Value copies the pointer, not the cell.
type cell struct {
	kind Kind

	b bool
	i int64
	f float64
	s string

	list []Value
	dict *Dict
	fn   *Func

	// unit carries a parsed numeric literal's unit suffix (Ki/Mi/...),
	// preserved for display purposes; arithmetic operates on i/f directly.
	unit string

	// schemaName names the schema a dict was instantiated as, "" for a
	// plain dict. Dict-as-schema instantiation (§4.6) sets this once the
	// evaluator produces a schema value; the value package itself treats
	// a schema value as a Dict with this tag plus args/kwargs metadata.
	schemaName     string
	schemaArgs     []Value
	schemaKwargs   map[string]Value
	optionalMap    map[string]bool
	configKeys     []string
}

// Value is a handle to a shared cell. The zero Value is not valid; use
// Undefined() for the undefined sentinel.
type Value struct {
	c *cell
}

func wrap(c *cell) Value { return Value{c: c} }

func Undefined() Value { return wrap(&cell{kind: KindUndefined}) }
func None() Value       { return wrap(&cell{kind: KindNone}) }
func Bool(b bool) Value { return wrap(&cell{kind: KindBool, b: b}) }
func Int(i int64) Value { return wrap(&cell{kind: KindInt, i: i}) }
func Float(f float64) Value { return wrap(&cell{kind: KindFloat, f: f}) }
func Str(s string) Value { return wrap(&cell{kind: KindStr, s: s}) }

// IntWithUnit builds an integer literal carrying a parsed unit suffix
// (e.g. `1Gi`), whose numeric value is already expanded into i.
func IntWithUnit(i int64, unit string) Value {
	return wrap(&cell{kind: KindInt, i: i, unit: unit})
}

func NewList(items ...Value) Value {
	return wrap(&cell{kind: KindList, list: append([]Value(nil), items...)})
}

func NewDict() Value {
	return wrap(&cell{kind: KindDict, dict: NewEmptyDict()})
}

func FromDict(d *Dict) Value {
	return wrap(&cell{kind: KindDict, dict: d})
}

func NewFunc(fn *Func) Value {
	return wrap(&cell{kind: KindFunc, fn: fn})
}

func (v Value) Kind() Kind { return v.c.kind }
func (v Value) IsUndefined() bool { return v.c.kind == KindUndefined }
func (v Value) IsNone() bool      { return v.c.kind == KindNone }

func (v Value) Bool() bool     { return v.c.b }
func (v Value) Int() int64     { return v.c.i }
func (v Value) Float() float64 { return v.c.f }
func (v Value) Str() string    { return v.c.s }
func (v Value) Unit() string   { return v.c.unit }
func (v Value) List() []Value  { return v.c.list }
func (v Value) Dict() *Dict    { return v.c.dict }
func (v Value) Func() *Func    { return v.c.fn }

// SchemaName reports the schema tag of a dict value instantiated via a
// schema constructor, "" for a plain dict.
func (v Value) SchemaName() string { return v.c.schemaName }

// AsSchema marks v (which must be KindDict) as an instance of schemaName,
// per §4.6 step 5: "Produce a schema value with config_keys..., args,
// kwargs, optional_mapping...". config_keys is sourced from the dict's
// WriteLog, not its deduplicated Keys, so it preserves every write
// including duplicates contributed by merges (§3).
func (v Value) AsSchema(schemaName string, args []Value, kwargs map[string]Value, optionalMap map[string]bool) {
	v.c.kind = KindSchema
	v.c.schemaName = schemaName
	v.c.schemaArgs = args
	v.c.schemaKwargs = kwargs
	v.c.optionalMap = optionalMap
	if v.c.dict != nil {
		v.c.configKeys = append([]string(nil), v.c.dict.WriteLog...)
	}
}

func (v Value) SchemaArgs() []Value            { return v.c.schemaArgs }
func (v Value) SchemaKwargs() map[string]Value { return v.c.schemaKwargs }
func (v Value) OptionalMap() map[string]bool   { return v.c.optionalMap }

// ConfigKeys returns every key ever written into this schema's backing
// config dict, in insertion order, including duplicates contributed by
// merges (§3's config_keys invariant) — not deduplicated like Dict.Keys.
func (v Value) ConfigKeys() []string { return v.c.configKeys }

// AppendList mutates v's backing list in place (shared-cell semantics:
// every other Value handle aliasing v's cell observes the append too).
func (v Value) AppendList(items ...Value) {
	v.c.list = append(v.c.list, items...)
}

func (v Value) SetListAt(i int, item Value) {
	if i >= 0 && i < len(v.c.list) {
		v.c.list[i] = item
	}
}

func (v Value) RemoveListAt(i int) {
	if i < 0 || i >= len(v.c.list) {
		return
	}
	v.c.list = append(v.c.list[:i], v.c.list[i+1:]...)
}

// DeepCopy recursively duplicates v into a fresh, unshared cell tree
// (§4.5: "explicit deep_copy duplicates recursively").
func DeepCopy(v Value) Value {
	switch v.c.kind {
	case KindList:
		items := make([]Value, len(v.c.list))
		for i, it := range v.c.list {
			items[i] = DeepCopy(it)
		}
		return NewList(items...)
	case KindDict, KindSchema:
		nd := NewEmptyDict()
		for _, k := range v.c.dict.Keys {
			nd.Set(k, DeepCopy(v.c.dict.Values[k]), v.c.dict.Ops[k], v.c.dict.InsertIdx[k])
		}
		// Set() above only recorded one WriteLog entry per distinct key;
		// restore the original's full write history (duplicates included)
		// so a schema copy's config_keys stays correct.
		nd.WriteLog = append([]string(nil), v.c.dict.WriteLog...)
		out := FromDict(nd)
		if v.c.kind == KindSchema {
			out.AsSchema(v.c.schemaName, v.c.schemaArgs, v.c.schemaKwargs, v.c.optionalMap)
		}
		return out
	default:
		cp := *v.c
		return wrap(&cp)
	}
}

// Repr renders a one-line representation used by conflict diagnostics and
// by the planner's debug paths (§4.5: "a pair of one-line renderings").
func Repr(v Value) string {
	switch v.c.kind {
	case KindUndefined:
		return "undefined"
	case KindNone:
		return "None"
	case KindBool:
		return fmt.Sprintf("%t", v.c.b)
	case KindInt:
		return fmt.Sprintf("%d", v.c.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.c.f)
	case KindStr:
		return fmt.Sprintf("%q", v.c.s)
	case KindList:
		s := "["
		for i, it := range v.c.list {
			if i > 0 {
				s += ", "
			}
			s += Repr(it)
		}
		return s + "]"
	case KindDict:
		s := "{"
		for i, k := range v.c.dict.Keys {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s: %s", k, Repr(v.c.dict.Values[k]))
		}
		return s + "}"
	case KindSchema:
		return v.c.schemaName
	case KindFunc:
		return "<function>"
	}
	return "?"
}
