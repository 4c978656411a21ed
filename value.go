// value.go — the dynamic value domain.
//
// Value is the universal runtime carrier: a tag plus a Go payload.
// Equality is structural for primitives (nil equals only nil) and
// reference identity for callables and instances. Stringification
// follows the print rules: integral doubles drop the decimal part,
// strings render without quotes, callables render as tags.
package lox

import (
	"math"
	"strconv"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // no payload
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTFun                      // *Function
	VTNative                   // *NativeFn
	VTClass                    // *Class
	VTInstance                 // *Instance
)

// Value is a tagged sum over nil, bool, float64, string, callables and
// instances. The tag determines which Go type Data holds.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the singleton nil value.
var Nil = Value{Tag: VTNil}

func Bool(b bool) Value          { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value        { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value         { return Value{Tag: VTStr, Data: s} }
func FunVal(f *Function) Value   { return Value{Tag: VTFun, Data: f} }
func NativeVal(n *NativeFn) Value { return Value{Tag: VTNative, Data: n} }
func ClassVal(c *Class) Value    { return Value{Tag: VTClass, Data: c} }
func InstanceVal(i *Instance) Value { return Value{Tag: VTInstance, Data: i} }

// Truthy reports the language's truthiness: false and nil are false,
// everything else (including 0 and "") is true.
func Truthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// Equal implements "==": structural for primitives, identity for
// callables and instances.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		// Pointer identity for functions, natives, classes, instances.
		return a.Data == b.Data
	}
}

// Stringify renders v for print and the REPL.
func Stringify(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		// Integral values below 1e21 print as plain digits with no
		// decimal part (2 not 2.0, 1234567 not 1.234567e+06). Everything
		// else uses the shortest round-trip %g form, so 1e100 prints
		// 1e+100.
		f := v.Data.(float64)
		if f == math.Trunc(f) && math.Abs(f) < 1e21 {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		return "<fn " + v.Data.(*Function).Name() + ">"
	case VTNative:
		return "<native fn>"
	case VTClass:
		return v.Data.(*Class).Name
	case VTInstance:
		return v.Data.(*Instance).Class.Name + " instance"
	default:
		return "<unknown>"
	}
}

// AsCallable extracts the uniform {Arity, Call} capability from a
// value, if it has one.
func AsCallable(v Value) (Callable, bool) {
	switch v.Tag {
	case VTFun:
		return v.Data.(*Function), true
	case VTNative:
		return v.Data.(*NativeFn), true
	case VTClass:
		return v.Data.(*Class), true
	default:
		return nil, false
	}
}

// literalValue converts a parser literal payload into a Value.
func literalValue(lit interface{}) Value {
	switch x := lit.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(x)
	case float64:
		return Num(x)
	case string:
		return Str(x)
	default:
		return Nil
	}
}
