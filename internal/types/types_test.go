package types

import (
	"testing"
)

func TestStructuralEquality(t *testing.T) {
	point := Record([]Field{{Name: "x", Ty: I32}, {Name: "y", Ty: I32}})
	same := Record([]Field{{Name: "x", Ty: I32}, {Name: "y", Ty: I32}})
	reordered := Record([]Field{{Name: "y", Ty: I32}, {Name: "x", Ty: I32}})

	if !Equal(point, same) {
		t.Error("identical records must be equal")
	}
	if Equal(point, reordered) {
		t.Error("field order is significant")
	}
	aliased := same
	aliased.Alias = "Point"
	if !Equal(point, aliased) {
		t.Error("alias must not affect equality")
	}
}

func TestRefEquality(t *testing.T) {
	if !Equal(Ref(I32), Ref(I32)) {
		t.Error("&i32 == &i32")
	}
	if Equal(Ref(I32), Ref(Bool)) {
		t.Error("&i32 != &bool")
	}
	if Equal(Ref(I32), I32) {
		t.Error("&i32 != i32")
	}
}

func TestInvalidNeverEqual(t *testing.T) {
	if Equal(Type{}, Type{}) {
		t.Error("invalid types must not compare equal")
	}
}

func TestContainsRef(t *testing.T) {
	nested := Record([]Field{
		{Name: "tag", Ty: I32},
		{Name: "view", Ty: Ref(Str)},
	})
	if !ContainsRef(nested) {
		t.Error("record with borrowed field contains a ref")
	}
	if ContainsRef(Record([]Field{{Name: "n", Ty: I32}})) {
		t.Error("plain record has no refs")
	}
}

func TestFieldLookupThroughRef(t *testing.T) {
	point := Record([]Field{{Name: "x", Ty: I32}})
	got, ok := Ref(point).Field("x")
	if !ok || !Equal(got, I32) {
		t.Errorf("Field(x) through ref = %v, %v", got, ok)
	}
	if _, ok := point.Field("z"); ok {
		t.Error("unknown field must not resolve")
	}
}

func TestStringForms(t *testing.T) {
	tests := []struct {
		ty   Type
		want string
	}{
		{I32, "i32"},
		{Ref(Str), "&Str"},
		{Record([]Field{{Name: "x", Ty: I32}}), "{ x: i32 }"},
	}
	for _, tt := range tests {
		if got := tt.ty.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
