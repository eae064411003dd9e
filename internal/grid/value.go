// Package grid provides the in-memory tabular data model for the editor:
// scalar cell values, rows, and table snapshots with client-side filtering,
// pagination, and CSV encoding.
package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the scalar type stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged union over the scalar types a cell can hold:
// string, number, boolean, or null. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the scalar type tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null or missing.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string payload. Valid only for KindString.
func (v Value) Str() string {
	return v.str
}

// Num returns the numeric payload. Valid only for KindNumber.
func (v Value) Num() float64 {
	return v.num
}

// Truth returns the boolean payload. Valid only for KindBool.
func (v Value) Truth() bool {
	return v.b
}

// Equal reports whether two values are the same scalar. Null compares equal
// to null regardless of how either null was produced (absent cell, SQL NULL,
// JSON null); a null never equals a non-null.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	}
	return false
}

// Display returns the value as shown in the grid and in CSV exports.
// Null renders as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// MarshalJSON encodes the value as the corresponding JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes any JSON scalar into the matching Value kind.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(x)
	case float64:
		*v = Number(x)
	case bool:
		*v = Bool(x)
	default:
		return fmt.Errorf("cell value must be a scalar, got %T", raw)
	}
	return nil
}

// maxExactInt is the largest integer magnitude a float64 represents
// exactly. Wider integers keep their decimal form as a string instead of
// rounding through the number branch.
const maxExactInt = 1 << 53

// FromAny converts a scalar returned by a database driver into a Value.
// Unrecognized types fall back to their fmt representation as a string.
func FromAny(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Null()
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return intValue(int64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return intValue(x)
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return uintValue(x)
	}
	return String(fmt.Sprintf("%v", raw))
}

func intValue(i int64) Value {
	if i > maxExactInt || i < -maxExactInt {
		return String(strconv.FormatInt(i, 10))
	}
	return Number(float64(i))
}

func uintValue(u uint64) Value {
	if u > maxExactInt {
		return String(strconv.FormatUint(u, 10))
	}
	return Number(float64(u))
}
