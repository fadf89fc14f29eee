// Package token defines the closed set of lexical token kinds the lexer
// produces and the parser consumes. Tokens are value-typed and copyable, the
// way the teacher's own Tokenizer emits small value structs per call to
// Scan() rather than allocating per token.
package token

import "github.com/kcl-lang/kclcore/internal/diagnostic"

// Kind is a closed tagged set of token kinds.
type Kind int

const (
	Illegal Kind = iota
	Eof

	Ident // interned identifier/keyword text lives in Token.Lit

	// Literals
	Str    // str{triple,raw}: detail lives in Token.Lit/IsRaw/IsTriple
	Int    // int{suffix?}: decoded value in Token.IntVal, unit suffix in Token.Suffix
	Float  // Token.FloatVal
	Bool   // True/False, value in Token.BoolVal
	None   // the `None` name constant
	Undef  // the `Undefined` name constant

	// Binary / unary / compare / assign operators
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	DSlash   // //
	Percent  // %
	DStar    // **
	Amp      // &
	Pipe     // |
	Caret    // ^
	Tilde    // ~
	Shl      // <<
	Shr      // >>
	Not      // not
	And      // and
	Or       // or
	In       // in
	Is       // is

	Eq    // ==
	Ne    // !=
	Lt    // <
	Le    // <=
	Gt    // >
	Ge    // >=

	Assign     // =
	AugAdd     // +=
	AugSub     // -=
	AugMul     // *=
	AugDiv     // /=
	AugFloor   // //=
	AugMod     // %=
	AugPow     // **=
	AugAmp     // &=
	AugPipe    // |=
	AugCaret   // ^=
	AugShl     // <<=
	AugShr     // >>=

	// Delimiters
	LParen
	RParen
	LBrack
	RBrack
	LBrace
	RBrace

	// Structural
	Dot       // .
	Ellipsis  // ...
	Comma     // ,
	Colon     // :
	Dollar    // $
	Question  // ?
	RArrow    // ->
	At        // @
	Bang      // !

	// Whitespace-synthetic and misc
	Newline
	Indent
	Dedent
	DocComment

	Schema
	Rule
	Import
	If
	Elif
	Else
	Lambda
	All
	Any
	Map
	Filter
	For
	Assert
	Check
	Mixin
	Protocol
	Type
	As
)

// Token is a single lexical unit. Literal payload fields are only
// meaningful for the Kind that produces them; all other fields stay zero.
type Token struct {
	Kind Kind
	Span diagnostic.Span

	Lit      string // identifier text, decoded string value, or raw token text
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	Suffix   string // unit suffix for Int literals: Ki, Mi, Gi, m, n, u, K, M, G, T, P
	IsRaw    bool   // string had an r/R prefix
	IsTriple bool   // string used triple quoting
}

// Keywords maps reserved identifier text to its keyword Kind. Anything not
// in this table lexes as Ident.
var Keywords = map[string]Kind{
	"schema":   Schema,
	"rule":     Rule,
	"import":   Import,
	"if":       If,
	"elif":     Elif,
	"else":     Else,
	"lambda":   Lambda,
	"all":      All,
	"any":      Any,
	"map":      Map,
	"filter":   Filter,
	"for":      For,
	"assert":   Assert,
	"check":    Check,
	"mixin":    Mixin,
	"protocol": Protocol,
	"type":     Type,
	"as":       As,
	"not":      Not,
	"and":      And,
	"or":       Or,
	"in":       In,
	"is":       Is,
	"True":     Bool,
	"False":    Bool,
	"None":     None,
	"Undefined": Undef,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	Illegal: "ILLEGAL", Eof: "EOF", Ident: "IDENT",
	Str: "STR", Int: "INT", Float: "FLOAT", Bool: "BOOL", None: "NONE", Undef: "UNDEFINED",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", DSlash: "//", Percent: "%", DStar: "**",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Shl: "<<", Shr: ">>",
	Not: "not", And: "and", Or: "or", In: "in", Is: "is",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	Assign: "=", AugAdd: "+=", AugSub: "-=", AugMul: "*=", AugDiv: "/=",
	AugFloor: "//=", AugMod: "%=", AugPow: "**=", AugAmp: "&=", AugPipe: "|=",
	AugCaret: "^=", AugShl: "<<=", AugShr: ">>=",
	LParen: "(", RParen: ")", LBrack: "[", RBrack: "]", LBrace: "{", RBrace: "}",
	Dot: ".", Ellipsis: "...", Comma: ",", Colon: ":", Dollar: "$", Question: "?",
	RArrow: "->", At: "@", Bang: "!",
	Newline: "NEWLINE", Indent: "INDENT", Dedent: "DEDENT", DocComment: "DOCCOMMENT",
	Schema: "schema", Rule: "rule", Import: "import", If: "if", Elif: "elif", Else: "else",
	Lambda: "lambda", All: "all", Any: "any", Map: "map", Filter: "filter", For: "for",
	Assert: "assert", Check: "check", Mixin: "mixin", Protocol: "protocol",
	Type: "type", As: "as",
}

// Delim identifies which bracket family a delimiter token belongs to, used
// by the lexer's balancing stack.
type Delim int

const (
	DelimParen Delim = iota
	DelimBrack
	DelimBrace
)

// DelimOf returns the Delim family for an opening or closing bracket Kind,
// and ok=false for anything else.
func DelimOf(k Kind) (Delim, bool) {
	switch k {
	case LParen, RParen:
		return DelimParen, true
	case LBrack, RBrack:
		return DelimBrack, true
	case LBrace, RBrace:
		return DelimBrace, true
	default:
		return 0, false
	}
}

// IsOpen reports whether k opens a delimiter pair.
func IsOpen(k Kind) bool {
	return k == LParen || k == LBrack || k == LBrace
}

// Closer returns the matching closing Kind for an opening delimiter.
func Closer(d Delim) Kind {
	switch d {
	case DelimParen:
		return RParen
	case DelimBrack:
		return RBrack
	default:
		return RBrace
	}
}
