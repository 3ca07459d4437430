// Package types models Gaut's closed type universe: primitive tags,
// structural records, and borrow references. There are no unification
// variables; every comparison is a recursive structural equality check.
package types

import (
	"strings"
)

// Kind tags a type.
type Kind uint8

const (
	// KindInvalid is the zero Kind; it never compares equal to anything.
	KindInvalid Kind = iota
	// KindI32 is a 32-bit signed integer.
	KindI32
	// KindI64 is a 64-bit signed integer.
	KindI64
	// KindU8 is an unsigned byte.
	KindU8
	// KindBool is a boolean.
	KindBool
	// KindStr is a UTF-8 string.
	KindStr
	// KindBytes is a raw byte buffer.
	KindBytes
	// KindUnit is the type of blocks without a tail expression.
	KindUnit
	// KindRef is a borrow &T.
	KindRef
	// KindRecord is a structural record.
	KindRecord
)

// Type is one resolved Gaut type. Ref uses Elem; Record uses Fields and an
// optional Alias naming the declared record type the structure came from.
type Type struct {
	Kind   Kind
	Elem   *Type
	Fields []Field
	Alias  string
}

// Field is one record field; field order is declaration order and is
// significant both for equality and emission.
type Field struct {
	Name string
	Ty   Type
}

// Primitive singletons.
var (
	I32   = Type{Kind: KindI32}
	I64   = Type{Kind: KindI64}
	U8    = Type{Kind: KindU8}
	Bool  = Type{Kind: KindBool}
	Str   = Type{Kind: KindStr}
	Bytes = Type{Kind: KindBytes}
	Unit  = Type{Kind: KindUnit}
)

// Ref constructs the borrow type &elem.
func Ref(elem Type) Type {
	return Type{Kind: KindRef, Elem: &elem}
}

// Record constructs a structural record type.
func Record(fields []Field) Type {
	return Type{Kind: KindRecord, Fields: fields}
}

// PrimitiveByName maps source spellings of primitive types.
func PrimitiveByName(name string) (Type, bool) {
	switch name {
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "u8":
		return U8, true
	case "bool":
		return Bool, true
	case "Str":
		return Str, true
	case "Bytes":
		return Bytes, true
	case "Unit":
		return Unit, true
	}
	return Type{}, false
}

// Equal reports structural equality; record aliases are ignored, only the
// field structure counts.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInvalid:
		return false
	case KindRef:
		return Equal(*a.Elem, *b.Elem)
	case KindRecord:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
			if !Equal(a.Fields[i].Ty, b.Fields[i].Ty) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// ContainsRef reports whether ty is or transitively embeds a borrow.
func ContainsRef(ty Type) bool {
	switch ty.Kind {
	case KindRef:
		return true
	case KindRecord:
		for _, f := range ty.Fields {
			if ContainsRef(f.Ty) {
				return true
			}
		}
	}
	return false
}

// Field returns the type of a record field, looking through references.
func (t Type) Field(name string) (Type, bool) {
	cur := t
	for cur.Kind == KindRef {
		cur = *cur.Elem
	}
	if cur.Kind != KindRecord {
		return Type{}, false
	}
	for _, f := range cur.Fields {
		if f.Name == name {
			return f.Ty, true
		}
	}
	return Type{}, false
}

// IsUnit reports whether t is the unit type.
func (t Type) IsUnit() bool { return t.Kind == KindUnit }

// IsStr reports whether t is Str.
func (t Type) IsStr() bool { return t.Kind == KindStr }

// IsBytes reports whether t is Bytes.
func (t Type) IsBytes() bool { return t.Kind == KindBytes }

func (t Type) String() string {
	switch t.Kind {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU8:
		return "u8"
	case KindBool:
		return "bool"
	case KindStr:
		return "Str"
	case KindBytes:
		return "Bytes"
	case KindUnit:
		return "Unit"
	case KindRef:
		return "&" + t.Elem.String()
	case KindRecord:
		if t.Alias != "" {
			return t.Alias
		}
		var sb strings.Builder
		sb.WriteString("{ ")
		for i, f := range t.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			sb.WriteString(f.Ty.String())
		}
		sb.WriteString(" }")
		return sb.String()
	}
	return "<invalid>"
}
