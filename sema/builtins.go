package sema

// builtinFunctions is the preloaded signature table for the builtin scope
// (§4.4: "A builtin scope preloads every builtin function's type"). Typed
// permissively with Any where the real function is polymorphic (e.g.
// `option`'s return type depends on its `type=` argument, resolved at
// evaluation time per §4.6, not by this static table).
var builtinFunctions = map[string]*FuncType{
	"option": {Params: []*Type{Str()}, Ret: Any()},
	"print":  {Params: []*Type{Any()}, Ret: None()},
	"len":    {Params: []*Type{Any()}, Ret: Int()},
	"typeof": {Params: []*Type{Any()}, Ret: Str()},
	"range":  {Params: []*Type{Int(), Int()}, Ret: List(Int())},
	"isunique": {Params: []*Type{List(Any())}, Ret: Bool()},
	"multiplyof": {Params: []*Type{Int(), Int()}, Ret: Bool()},
	"str": {Params: []*Type{Any()}, Ret: Str()},
	"int": {Params: []*Type{Any()}, Ret: Int()},
	"float": {Params: []*Type{Any()}, Ret: Float()},
	"bool": {Params: []*Type{Any()}, Ret: Bool()},
}
