package evaluator

import (
	"fmt"
	"strings"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/value"
)

// builtinImpls backs the names sema/builtins.go predeclares in the type
// scope; option() and print() are handled separately in option.go/evalCall
// since they need Context (AppArgs, LogMessage), not just evaluated args.
var builtinImpls = map[string]func(args []value.Value, kwargs map[string]value.Value) (value.Value, error){
	"len":        biLen,
	"typeof":     biTypeof,
	"range":      biRange,
	"isunique":   biIsUnique,
	"multiplyof": biMultiplyOf,
	"str":        biStr,
	"int":        biInt,
	"float":      biFloat,
	"bool":       biBool,
}

// evalPrintCall implements `print(*args, end="\n")`: joins the rendered
// args with a space, writes them to stdout, and also feeds the same text
// into ctx.LogMessage (§4.6's log_message, grounded on the original
// kclvm_builtin_print appending into ctx.log_message rather than writing
// directly to a stream).
func (ev *Evaluator) evalPrintCall(e *ast.CallExpr, scope *Scope) value.Value {
	args, kwargs := ev.evalArgs(e, scope)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.Repr(a)
	}
	msg := strings.Join(parts, " ")
	end := "\n"
	if v, ok := kwargs["end"]; ok {
		end = v.Str()
	}
	fmt.Print(msg + end)
	ev.ctx.LogMessage(msg + end)
	return value.None()
}

func biLen(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undefined(), fmt.Errorf("len() takes exactly one argument")
	}
	switch args[0].Kind() {
	case value.KindStr:
		return value.Int(int64(len([]rune(args[0].Str())))), nil
	case value.KindList:
		return value.Int(int64(len(args[0].List()))), nil
	case value.KindDict, value.KindSchema:
		return value.Int(int64(len(args[0].Dict().Keys))), nil
	}
	return value.Undefined(), fmt.Errorf("object of kind %s has no len()", args[0].Kind())
}

func biTypeof(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undefined(), fmt.Errorf("typeof() takes exactly one argument")
	}
	if args[0].Kind() == value.KindSchema {
		return value.Str(args[0].SchemaName()), nil
	}
	return value.Str(args[0].Kind().String()), nil
}

func biRange(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		stop = args[0].Int()
	case 2:
		start, stop = args[0].Int(), args[1].Int()
	case 3:
		start, stop, step = args[0].Int(), args[1].Int(), args[2].Int()
	default:
		return value.Undefined(), fmt.Errorf("range() takes 1 to 3 arguments")
	}
	if step == 0 {
		return value.Undefined(), fmt.Errorf("range() step must not be zero")
	}
	out := value.NewList()
	if step > 0 {
		for i := start; i < stop; i += step {
			out.AppendList(value.Int(i))
		}
	} else {
		for i := start; i > stop; i += step {
			out.AppendList(value.Int(i))
		}
	}
	return out, nil
}

func biIsUnique(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindList {
		return value.Undefined(), fmt.Errorf("isunique() takes exactly one list argument")
	}
	items := args[0].List()
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if value.CmpEqual(items[i], items[j]) {
				return value.Bool(false), nil
			}
		}
	}
	return value.Bool(true), nil
}

func biMultiplyOf(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Undefined(), fmt.Errorf("multiplyof() takes exactly two arguments")
	}
	a, b := args[0].Int(), args[1].Int()
	if b == 0 {
		return value.Bool(false), nil
	}
	return value.Bool(a%b == 0), nil
}

func biStr(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undefined(), fmt.Errorf("str() takes exactly one argument")
	}
	if args[0].Kind() == value.KindStr {
		return args[0], nil
	}
	return value.Str(value.Repr(args[0])), nil
}

func biInt(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undefined(), fmt.Errorf("int() takes exactly one argument")
	}
	return value.Int(toInt(args[0])), nil
}

func biFloat(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undefined(), fmt.Errorf("float() takes exactly one argument")
	}
	return value.Float(toFloat(args[0])), nil
}

func biBool(args []value.Value, _ map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Undefined(), fmt.Errorf("bool() takes exactly one argument")
	}
	return value.Bool(args[0].Bool()), nil
}
