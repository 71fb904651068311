package ir

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing literal values in a query.
// Only Null, String, Int, Float and Bool implement it.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// Null represents SQL NULL.
type Null struct{}

func (Null) irValue() {}

// String represents a text value.
type String string

func (String) irValue() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) irValue() {}

// Float represents a floating point value (averages, ratios).
type Float float64

func (Float) irValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) irValue() {}

// Of lifts a Go value into a Value.
// Strings are NFC-normalized so canonically equivalent text compares equal.
func Of(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case String:
		return String(NormalizeText(string(val))), nil
	case Value:
		return val, nil
	case string:
		return String(NormalizeText(val)), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case bool:
		return Bool(val), nil
	default:
		return nil, fmt.Errorf("unsupported literal type: %T", v)
	}
}

// MustOf is Of for values whose type is known to be supported.
func MustOf(v any) Value {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Param converts a Value to a database/sql parameter.
func Param(v Value) (any, error) {
	switch val := v.(type) {
	case Null:
		return nil, nil
	case String:
		return string(val), nil
	case Int:
		return int64(val), nil
	case Float:
		return float64(val), nil
	case Bool:
		return bool(val), nil
	default:
		return nil, fmt.Errorf("unsupported Value type for SQL parameter: %T", v)
	}
}

// Key renders a Value as a stable string, used to identify expressions.
// Distinct kinds never collide: strings are quoted, floats carry a suffix.
func Key(v Value) string {
	switch val := v.(type) {
	case Null:
		return "null"
	case String:
		return strconv.Quote(string(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64) + "f"
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return fmt.Sprintf("%T", v)
	}
}

// NormalizeText returns s in Unicode normalization form C.
// Text is normalized at every write and filter boundary.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}
