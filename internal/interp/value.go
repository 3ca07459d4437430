package interp

import (
	"fmt"
	"strings"
)

// ValueKind tags a runtime value.
type ValueKind uint8

const (
	// ValUnit is the unit value.
	ValUnit ValueKind = iota
	// ValInt covers all integer widths.
	ValInt
	// ValBool is a boolean.
	ValBool
	// ValStr is a string.
	ValStr
	// ValBytes is a byte buffer.
	ValBytes
	// ValRecord is an ordered field list.
	ValRecord
)

// Value is one runtime value. Field order in records follows the literal
// that built them.
type Value struct {
	Kind   ValueKind
	Int    int64
	Bool   bool
	Str    string
	Bytes  []byte
	Fields []FieldVal
}

// FieldVal is one record field.
type FieldVal struct {
	Name string
	Val  Value
}

// Unit is the unit value.
var Unit = Value{Kind: ValUnit}

// IntVal wraps an integer.
func IntVal(v int64) Value { return Value{Kind: ValInt, Int: v} }

// BoolVal wraps a boolean.
func BoolVal(v bool) Value { return Value{Kind: ValBool, Bool: v} }

// StrVal wraps a string.
func StrVal(v string) Value { return Value{Kind: ValStr, Str: v} }

// BytesVal wraps a byte buffer.
func BytesVal(v []byte) Value { return Value{Kind: ValBytes, Bytes: v} }

// Field returns the value of a record field.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Val, true
		}
	}
	return Value{}, false
}

func (v Value) setField(name string, val Value) bool {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			v.Fields[i].Val = val
			return true
		}
	}
	return false
}

// Equal is deep structural equality.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValUnit:
		return true
	case ValInt:
		return v.Int == o.Int
	case ValBool:
		return v.Bool == o.Bool
	case ValStr:
		return v.Str == o.Str
	case ValBytes:
		return string(v.Bytes) == string(o.Bytes)
	case ValRecord:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for i := range v.Fields {
			if v.Fields[i].Name != o.Fields[i].Name {
				return false
			}
			if !v.Fields[i].Val.Equal(o.Fields[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case ValUnit:
		return "()"
	case ValInt:
		return fmt.Sprintf("%d", v.Int)
	case ValBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValStr:
		return v.Str
	case ValBytes:
		return fmt.Sprintf("bytes[%d]", len(v.Bytes))
	case ValRecord:
		var sb strings.Builder
		sb.WriteString("{ ")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", f.Name, f.Val)
		}
		sb.WriteString(" }")
		return sb.String()
	}
	return "<invalid>"
}
