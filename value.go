// value.go — the runtime value model.
//
// Value is a small tagged union: the tag selects which Go type Data holds.
// Primitives compare structurally; callables and instances compare by
// identity. Truthiness follows the language rule: only nil and false are
// false.
package lox

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // no payload
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTFun                      // Callable (*Function or *NativeFun)
	VTClass                    // *Class
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier used by the interpreter.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// FunVal wraps a callable into a Value.
func FunVal(c Callable) Value { return Value{Tag: VTFun, Data: c} }

// ClassVal wraps a class into a Value. Classes are callable (construction)
// but keep their own tag so property access can reject them.
func ClassVal(c *Class) Value { return Value{Tag: VTClass, Data: c} }

// InstanceVal wraps an instance into a Value.
func InstanceVal(i *Instance) Value { return Value{Tag: VTInstance, Data: i} }

// isTruthy: nil and false are false, everything else (0, "" included) is true.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// valuesEqual implements '=='. nil equals only nil; numbers compare with
// IEEE semantics (NaN != NaN); bools and strings compare structurally;
// functions, classes and instances compare by identity.
func valuesEqual(a, b Value) bool {
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
		return a.Data == b.Data
	}
}
