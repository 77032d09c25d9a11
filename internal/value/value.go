// Package value implements the Script language's tagged-variant runtime
// value and its operators (arithmetic, comparison, equality, indexing).
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the arms of Value.
type Kind int

const (
	NilKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	ArrayKind
	ObjectKind
	UserFunctionKind
	NativeFunctionKind
	DeviceKind
)

func (k Kind) String() string {
	switch k {
	case NilKind:
		return "nil"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	case UserFunctionKind:
		return "function"
	case NativeFunctionKind:
		return "native function"
	case DeviceKind:
		return "device"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Array is a shared, ordered sequence of Values. Every Value holder that
// references the same Array observes the same underlying slice.
type Array struct {
	Elements []Value
}

// Object is a shared string-keyed mapping; insertion order is not
// guaranteed to be preserved across iteration.
type Object struct {
	Fields map[string]Value
}

// Device is an opaque handle to an Android device produced by the
// external automation collaborator. Handle is collaborator-defined and
// opaque to the core (e.g. a connection token); the core never inspects it.
type Device struct {
	Serial         string
	Model          string
	ScreenWidth    int
	ScreenHeight   int
	AndroidVersion string
	Handle         interface{}
}

// UserFunction is a closure: a parameter list, a body statement, and the
// environment captured at the point the function literal was evaluated.
// Body is declared as interface{} here to avoid an import cycle with the
// ast package; the evaluator is the only code that ever type-asserts it.
type UserFunction struct {
	Name     string
	Params   []string
	Body     interface{}
	Captured interface{}
}

// NativeFunction is a host-provided callable. It receives evaluated
// argument values and returns a result or an error; a returned error
// fails the call-site expression as a Native runtime error.
type NativeFunction struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

// Value is the tagged variant carrying every Script runtime value.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	arr    *Array
	obj    *Object
	fn     *UserFunction
	native *NativeFunction
	dev    *Device
}

// Nil is the singleton nil value.
var Nil = Value{kind: NilKind}

func Bool(b bool) Value   { return Value{kind: BoolKind, b: b} }
func Int(i int64) Value   { return Value{kind: IntKind, i: i} }
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }
func String(s string) Value { return Value{kind: StringKind, s: s} }

func NewArray(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: ArrayKind, arr: &Array{Elements: elems}}
}

func NewObject(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: ObjectKind, obj: &Object{Fields: fields}}
}

func NewUserFunction(fn *UserFunction) Value {
	return Value{kind: UserFunctionKind, fn: fn}
}

func NewNativeFunction(fn *NativeFunction) Value {
	return Value{kind: NativeFunctionKind, native: fn}
}

func NewDevice(d *Device) Value {
	return Value{kind: DeviceKind, dev: d}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool    { return v.kind == NilKind }
func (v Value) IsBool() bool   { return v.kind == BoolKind }
func (v Value) IsInt() bool    { return v.kind == IntKind }
func (v Value) IsFloat() bool  { return v.kind == FloatKind }
func (v Value) IsNumber() bool { return v.kind == IntKind || v.kind == FloatKind }
func (v Value) IsString() bool { return v.kind == StringKind }
func (v Value) IsArray() bool  { return v.kind == ArrayKind }
func (v Value) IsObject() bool { return v.kind == ObjectKind }
func (v Value) IsDevice() bool { return v.kind == DeviceKind }
func (v Value) IsCallable() bool {
	return v.kind == UserFunctionKind || v.kind == NativeFunctionKind
}

// Bool returns v's bool payload, or false if v is not a BoolKind; callers
// check IsBool first.
func (v Value) Bool() bool { return v.b }

// Int returns v's int payload, or 0 if v is not an IntKind.
func (v Value) Int() int64 { return v.i }

// Float returns v's float payload, or 0 if v is not a FloatKind.
func (v Value) Float() float64 { return v.f }

// AsFloat returns v's numeric value widened to float64, or 0 if v is
// not numeric.
func (v Value) AsFloat() float64 {
	if v.kind == IntKind {
		return float64(v.i)
	}
	return v.f
}

// Str returns v's string payload, or "" if v is not a StringKind.
func (v Value) Str() string { return v.s }

// ArrayVal returns the shared Array payload, or nil if v is not an ArrayKind.
func (v Value) ArrayVal() *Array { return v.arr }

// ObjectVal returns the shared Object payload, or nil if v is not an ObjectKind.
func (v Value) ObjectVal() *Object { return v.obj }

// UserFunc returns the UserFunction payload, or nil if v is not a UserFunctionKind.
func (v Value) UserFunc() *UserFunction { return v.fn }

// NativeFunc returns the NativeFunction payload, or nil if v is not a NativeFunctionKind.
func (v Value) NativeFunc() *NativeFunction { return v.native }

// DeviceVal returns the Device payload, or nil if v is not a DeviceKind.
func (v Value) DeviceVal() *Device { return v.dev }

// Truthy reports whether v counts as true in a boolean context.
func (v Value) Truthy() bool {
	switch v.kind {
	case NilKind:
		return false
	case BoolKind:
		return v.b
	case IntKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	case StringKind:
		return v.s != ""
	case ArrayKind:
		return len(v.arr.Elements) > 0
	case ObjectKind:
		return len(v.obj.Fields) > 0
	case DeviceKind, UserFunctionKind, NativeFunctionKind:
		return true
	default:
		return false
	}
}

// String renders v in its textual form.
func (v Value) String() string {
	switch v.kind {
	case NilKind:
		return "null"
	case BoolKind:
		if v.b {
			return "true"
		}
		return "false"
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	case StringKind:
		return v.s
	case ArrayKind:
		parts := make([]string, len(v.arr.Elements))
		for i, e := range v.arr.Elements {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ObjectKind:
		parts := make([]string, 0, len(v.obj.Fields))
		for k, val := range v.obj.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", k, val.String()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case DeviceKind:
		return fmt.Sprintf("Device(%s)", v.dev.Serial)
	case UserFunctionKind:
		return "<function>"
	case NativeFunctionKind:
		return "<native function>"
	default:
		return "<invalid>"
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// equalTolerance is the absolute tolerance used for float equality.
const equalTolerance = 1e-10

// Equal implements `==`: same kind and equal payload, with a small
// absolute tolerance for floats.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NilKind:
		return true
	case BoolKind:
		return v.b == other.b
	case IntKind:
		return v.i == other.i
	case FloatKind:
		return math.Abs(v.f-other.f) <= equalTolerance
	case StringKind:
		return v.s == other.s
	case ArrayKind:
		return v.arr == other.arr
	case ObjectKind:
		return v.obj == other.obj
	case DeviceKind:
		return v.dev.Serial == other.dev.Serial
	case UserFunctionKind:
		return v.fn == other.fn
	case NativeFunctionKind:
		return v.native == other.native
	default:
		return false
	}
}
