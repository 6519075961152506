package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value represents a dynamically-typed value on the data stack.
type Value struct {
	Kind ValueKind
	I64  int64
	F64  float64
	Bool bool
	Str  string
}

// String renders the value as a string.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	default:
		return "<nil>"
	}
}

// numeric reports whether the value takes part in arithmetic. Booleans count as 0/1.
func (v Value) numeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat || v.Kind == KindBool
}

// AsFloat64 converts the value to float64 if possible.
func (v Value) AsFloat64() (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.F64, nil
	case KindInt:
		return float64(v.I64), nil
	case KindBool:
		if v.Bool {
			return 1.0, nil
		}
		return 0.0, nil
	default:
		return 0, fmt.Errorf("cannot convert %v to float: %w", v.Kind, ErrTypeMismatch)
	}
}

// AsInt64 converts the value to int64 if possible. Floats truncate toward zero.
func (v Value) AsInt64() (int64, error) {
	switch v.Kind {
	case KindInt:
		return v.I64, nil
	case KindFloat:
		return int64(v.F64), nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %v to int: %w", v.Kind, ErrTypeMismatch)
	}
}

// Truthy reports the value's truth in a condition. Every kind has one:
// zero, NaN, false and "" are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindInt:
		return v.I64 != 0
	case KindFloat:
		return v.F64 != 0 && !math.IsNaN(v.F64)
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str != ""
	default:
		return false
	}
}

func NewInt(i int64) Value {
	return Value{Kind: KindInt, I64: i}
}

func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, F64: f}
}

func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// ParseValue parses host-supplied text like "1", "-3.5", "true" or "name".
// Anything that is not a number or boolean is a string; a quoted string keeps
// its contents verbatim.
func ParseValue(text string) Value {
	switch text {
	case "true":
		return NewBool(true)
	case "false":
		return NewBool(false)
	}

	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return NewString(text[1 : len(text)-1])
	}

	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return NewInt(i)
	}

	if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		return NewFloat(f)
	}

	return NewString(text)
}

// equal implements op_equal / op_not_equal. Numbers and booleans compare by
// value; strings compare to strings; any other pairing is unequal.
func equal(a, b Value) bool {
	switch {
	case a.numeric() && b.numeric():
		if a.Kind == KindFloat || b.Kind == KindFloat {
			af, _ := a.AsFloat64()
			bf, _ := b.AsFloat64()
			return af == bf
		}
		ai, _ := a.AsInt64()
		bi, _ := b.AsInt64()
		return ai == bi
	case a.Kind == KindString && b.Kind == KindString:
		return a.Str == b.Str
	default:
		return false
	}
}
