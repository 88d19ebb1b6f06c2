// File: value.go
// Title: Runtime Values
// Description: The tagged union of runtime values, their display text,
//              truthiness, equality and conversion of raw input text.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18
//
// Change History:
// - 2026-09-18 v0.1.0: Initial value model

package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/msto63/vibescript/foundation/vibe/ast"
)

// Kind identifies the variant of a Value
type Kind int

const (
	KindInt Kind = iota
	KindReal
	KindString
	KindBool
	KindNull
	KindList
	KindFunction
)

// String returns the kind name used in error messages
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindList:
		return "list"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a VibeScript runtime value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	// String returns the display text written by print
	String() string
	value()
}

// Int is a 64-bit integer. Arithmetic wraps on overflow.
type Int int64

// Real is a float64, produced by division
type Real float64

// Str is a string value
type Str string

// Bool is a boolean value
type Bool bool

// Null is the absence of a value
type Null struct{}

// List is an ordered list of values
type List struct {
	Elements []Value
}

// Function is a closure over the environment it was declared in
type Function struct {
	Name   string
	Params []string
	Body   *ast.BlockStatement
	Env    *Environment
}

// NullValue is the single null value
var NullValue Value = Null{}

func (Int) Kind() Kind       { return KindInt }
func (Real) Kind() Kind      { return KindReal }
func (Str) Kind() Kind       { return KindString }
func (Bool) Kind() Kind      { return KindBool }
func (Null) Kind() Kind      { return KindNull }
func (*List) Kind() Kind     { return KindList }
func (*Function) Kind() Kind { return KindFunction }

func (Int) value()       {}
func (Real) value()      {}
func (Str) value()       {}
func (Bool) value()      {}
func (Null) value()      {}
func (*List) value()     {}
func (*Function) value() {}

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

// String renders the shortest representation; integral reals keep a ".0"
func (v Real) String() string {
	f := float64(v)
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (v Str) String() string { return string(v) }

// Booleans and null display as True, False and None. this_slaps, im_dead
// and ghost are source literals only.
func (v Bool) String() string {
	if v {
		return "True"
	}
	return "False"
}

func (Null) String() string { return "None" }

// List elements are shown quoted when they are strings: [1, 'a', True]
func (v *List) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		if str, ok := e.(Str); ok {
			parts[i] = quoteElement(string(str))
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quoteElement(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func (v *Function) String() string { return "<rizz_up " + v.Name + ">" }

// Truthy maps a value to a boolean for conditions
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(v)
	case Int:
		return v != 0
	case Real:
		return v != 0
	case Str:
		return v != ""
	case *List:
		return len(v.Elements) > 0
	default:
		return true
	}
}

// Equal compares two values structurally. Integers and reals compare by
// numeric value; functions compare by identity; different kinds are unequal.
func Equal(a, b Value) bool {
	if x, y, ok := numericPair(a, b); ok {
		return x == y
	}

	switch a := a.(type) {
	case Str:
		b, ok := b.(Str)
		return ok && a == b
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Null:
		_, ok := b.(Null)
		return ok
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		b, ok := b.(*Function)
		return ok && a == b
	}
	return false
}

// numericPair returns both operands as float64 when both are numbers
func numericPair(a, b Value) (float64, float64, bool) {
	x, ok := toFloat(a)
	if !ok {
		return 0, 0, false
	}
	y, ok := toFloat(b)
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}

// ZeroValue returns the value a declaration without initializer binds
func ZeroValue(t ast.VarType) Value {
	switch t {
	case ast.TypeInt:
		return Int(0)
	case ast.TypeString:
		return Str("")
	case ast.TypeBool:
		return Bool(false)
	case ast.TypeList:
		return &List{}
	default:
		return NullValue
	}
}

// InputValue converts raw input text into a value: an optionally signed
// decimal integer becomes Int, this_slaps/im_dead become Bool, ghost becomes
// Null and anything else stays a string.
func InputValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "this_slaps":
		return Bool(true)
	case "im_dead":
		return Bool(false)
	case "ghost":
		return NullValue
	}
	if isIntegerText(trimmed) {
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return Int(n)
		}
	}
	return Str(raw)
}

func isIntegerText(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// InputValues converts a map of raw input text with InputValue
func InputValues(raw map[string]string) map[string]Value {
	out := make(map[string]Value, len(raw))
	for k, v := range raw {
		out[k] = InputValue(v)
	}
	return out
}
