// Package ast defines the syntax tree the parser produces. Every node
// carries a stable AstIndex assigned at parse time; later passes key side
// tables (node_ty_map, scope_map) by that index rather than by node
// identity, since nodes are plain structs, not pointers with stable
// addresses across a rewrite.
package ast

import "github.com/kcl-lang/kclcore/internal/diagnostic"

// AstIndex is a dense, parse-stable identifier for a node.
type AstIndex int

// Allocator hands out AstIndex values in parse order. One Allocator is
// shared by an entire parse so indexes are unique within a Module.
type Allocator struct{ next AstIndex }

// Next returns the next unused AstIndex.
func (a *Allocator) Next() AstIndex {
	a.next++
	return a.next
}

// Node is implemented by every statement and expression.
type Node interface {
	NodeID() AstIndex
	NodeSpan() diagnostic.Span
}

// Base is embedded by every concrete node to satisfy Node.
type Base struct {
	ID   AstIndex
	Span diagnostic.Span
}

func (b Base) NodeID() AstIndex             { return b.ID }
func (b Base) NodeSpan() diagnostic.Span    { return b.Span }

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Module is one parsed file: an ordered statement list. Import statements
// appear in Body like any other statement.
type Module struct {
	Filename string
	Pkg      string
	Doc      string
	Body     []Stmt
}

// ---- Statements ----

type ImportStmt struct {
	Base
	Path  string
	Alias string // "" if no `as` clause
}

func (*ImportStmt) stmtNode() {}

type Attribute struct {
	Name     string
	Optional bool
	Type     TypeExpr // nil if untyped
	Default  Expr     // nil if no default
	Doc      string
	IsFinal  bool // declared with a trailing `= value` and no `?`, i.e. not overridable... reserved for future use
	Span     diagnostic.Span
}

// IndexSignature is a schema's `[key: K]: V` clause.
type IndexSignature struct {
	KeyName   string
	KeyType   TypeExpr
	ValueType TypeExpr
	AnyOther  bool
	Span      diagnostic.Span
}

type SchemaStmt struct {
	Base
	Name       string
	Base_      string // base schema name, "" if none (named Base_ to avoid shadowing the embedded Base field)
	Mixins     []string
	Protocol   string
	Params     []Param
	Attrs      []Attribute
	Index      *IndexSignature
	Checks     []CheckExpr
	Decorators []Decorator
	Doc        string
	IsMixin    bool
	IsProtocol bool
}

func (*SchemaStmt) stmtNode() {}

type CheckExpr struct {
	Cond Expr
	Msg  Expr // nil if no message
	Span diagnostic.Span
}

type Decorator struct {
	Name string
	Args []Expr
	Span diagnostic.Span
}

type RuleStmt struct {
	Base
	Name       string
	Parent     string
	Params     []Param
	Checks     []CheckExpr
	Decorators []Decorator
	Doc        string
}

func (*RuleStmt) stmtNode() {}

type TypeAliasStmt struct {
	Base
	Name string
	Type TypeExpr
}

func (*TypeAliasStmt) stmtNode() {}

// AssignStmt covers both `target = value` and `target: T = value`.
type AssignStmt struct {
	Base
	Targets []Expr // usually one; multiple for chained assignment x = y = 1
	Type    TypeExpr
	Value   Expr
}

func (*AssignStmt) stmtNode() {}

type AugAssignStmt struct {
	Base
	Target Expr
	Op     string // "+=", "-=", ...
	Value  Expr
}

func (*AugAssignStmt) stmtNode() {}

// UnificationStmt is `target: SchemaType { ... }`.
type UnificationStmt struct {
	Base
	Target Expr
	Value  *SchemaExpr
}

func (*UnificationStmt) stmtNode() {}

type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode() {}

type IfStmt struct {
	Base
	Cond Expr
	Body []Stmt
	Elifs []ElifClause
	Else  []Stmt
}

func (*IfStmt) stmtNode() {}

type ElifClause struct {
	Cond Expr
	Body []Stmt
}

type AssertStmt struct {
	Base
	Cond Expr
	If   Expr // optional guarding condition
	Msg  Expr
}

func (*AssertStmt) stmtNode() {}

// ---- Parameters ----

type Param struct {
	Name     string
	Type     TypeExpr
	Default  Expr
	Variadic bool
	Span     diagnostic.Span
}

// ---- Expressions ----

type Identifier struct {
	Base
	Names []string // dotted path: pkg.Name or plain Name
}

func (*Identifier) exprNode() {}

type NumberLit struct {
	Base
	IsFloat  bool
	Int      int64
	Float    float64
	Suffix   string
}

func (*NumberLit) exprNode() {}

type StringLit struct {
	Base
	Value string
}

func (*StringLit) exprNode() {}

// NameConstantLit covers True/False/None/Undefined.
type NameConstantLit struct {
	Base
	Kind string // "True" | "False" | "None" | "Undefined"
}

func (*NameConstantLit) exprNode() {}

type ListExpr struct {
	Base
	Elts []Expr
}

func (*ListExpr) exprNode() {}

// ConfigOp selects how a ConfigEntry composes onto an existing same key.
type ConfigOp int

const (
	OpUnion ConfigOp = iota
	OpOverride
	OpInsert
)

type ConfigEntry struct {
	Key         Expr // nil for a conditional entry (Value is a *ConfigIfEntry), otherwise Identifier/StringLit/dotted selector
	Value       Expr
	Op          ConfigOp
	InsertIndex int // only meaningful when Op == OpInsert or an index override
	Span        diagnostic.Span
}

type ConfigExpr struct {
	Base
	Entries []ConfigEntry
}

func (*ConfigExpr) exprNode() {}

// ConfigIfEntry is a conditional block of config entries:
// `if cond: k = v else: k2 = v2`.
type ConfigIfEntry struct {
	Base
	Cond  Expr
	Body  []ConfigEntry
	Elifs []ConfigIfElif
	Else  []ConfigEntry
}

func (*ConfigIfEntry) exprNode() {}

type ConfigIfElif struct {
	Cond Expr
	Body []ConfigEntry
}

// SchemaExpr is a schema constructor call `Name(args){config}`.
type SchemaExpr struct {
	Base
	Name   Expr // Identifier
	Args   []Expr
	Kwargs []Keyword
	Config *ConfigExpr
}

func (*SchemaExpr) exprNode() {}

type Keyword struct {
	Name  string
	Value Expr
	Span  diagnostic.Span
}

type ListCompExpr struct {
	Base
	Elt   Expr
	Gens  []CompClause
}

func (*ListCompExpr) exprNode() {}

type DictCompExpr struct {
	Base
	Key   Expr
	Value Expr
	Gens  []CompClause
}

func (*DictCompExpr) exprNode() {}

type CompClause struct {
	Targets []Expr
	Iter    Expr
	Ifs     []Expr
}

type LambdaExpr struct {
	Base
	Params []Param
	Return TypeExpr
	Body   []Stmt
}

func (*LambdaExpr) exprNode() {}

type CallExpr struct {
	Base
	Func   Expr
	Args   []Expr
	Kwargs []Keyword
}

func (*CallExpr) exprNode() {}

type SelectorExpr struct {
	Base
	X    Expr
	Attr string
	// HasQuestion marks an optional-chaining selector `x?.y`.
	HasQuestion bool
}

func (*SelectorExpr) exprNode() {}

type SubscriptExpr struct {
	Base
	X         Expr
	Index     Expr  // nil when a slice is used
	IsSlice   bool
	Lo, Hi, Step Expr
}

func (*SubscriptExpr) exprNode() {}

// QuantKind selects the quantifier flavor of a Quant expression.
type QuantKind int

const (
	QuantAll QuantKind = iota
	QuantAny
	QuantMap
	QuantFilter
)

type QuantExpr struct {
	Base
	Kind    QuantKind
	Targets []Expr
	Iter    Expr
	Test    Expr // predicate / map expression
	IfCond  Expr // optional filter condition on `all`/`any`
}

func (*QuantExpr) exprNode() {}

type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
	CmpIn
	CmpNotIn
	CmpIs
	CmpIsNot
)

type CompareExpr struct {
	Base
	Left  Expr
	Ops   []CompareOp
	Comps []Expr
}

func (*CompareExpr) exprNode() {}

type BinaryOp int

const (
	BinOr BinaryOp = iota
	BinAnd
	BinBitOr
	BinBitXor
	BinBitAnd
	BinShl
	BinShr
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
)

type BinaryExpr struct {
	Base
	Op    BinaryOp
	X, Y  Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryPos
	UnaryNeg
	UnaryInvert
)

type UnaryExpr struct {
	Base
	Op UnaryOp
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// JoinedStringExpr is a string with `${expr}` interpolations.
type JoinedStringExpr struct {
	Base
	Parts []JoinedPart
}

func (*JoinedStringExpr) exprNode() {}

type JoinedPart struct {
	Literal string // set when Expr == nil
	Expr    Expr
	FormatSpec string
}

// ---- Type expressions ----
// TypeExpr is a small, separate grammar (schema-attribute type syntax):
// named types, lists, dicts, unions, literals.

type TypeExpr interface {
	Node
	typeNode()
}

type NamedType struct {
	Base
	Path []string
}

func (*NamedType) typeNode() {}

type ListType struct {
	Base
	Elt TypeExpr
}

func (*ListType) typeNode() {}

type DictType struct {
	Base
	Key TypeExpr
	Val TypeExpr
}

func (*DictType) typeNode() {}

type UnionType struct {
	Base
	Arms []TypeExpr
}

func (*UnionType) typeNode() {}

type LiteralType struct {
	Base
	Str     string
	HasStr  bool
	Int     int64
	HasInt  bool
	Float   float64
	HasFloat bool
	Bool    bool
	HasBool bool
}

func (*LiteralType) typeNode() {}

type FunctionType struct {
	Base
	Params []TypeExpr
	Ret    TypeExpr
}

func (*FunctionType) typeNode() {}
