package ir

import "testing"

func TestContextConcreteOf(t *testing.T) {
	ctx := NewContext()

	if got := ctx.ConcreteOf(ctx.IntLiteralType); got != ctx.IntType {
		t.Errorf("ConcreteOf(IntLiteralType) = %v, want IntType", got)
	}
	if got := ctx.ConcreteOf(ctx.FloatLiteralType); got != ctx.FloatType {
		t.Errorf("ConcreteOf(FloatLiteralType) = %v, want FloatType", got)
	}
	if got := ctx.ConcreteOf(ctx.BoolType); got != ctx.BoolType {
		t.Errorf("ConcreteOf(BoolType) = %v, want unchanged BoolType", got)
	}
}

func TestTypeIsLiteral(t *testing.T) {
	ctx := NewContext()

	if !ctx.IntLiteralType.IsLiteral() {
		t.Error("IntLiteralType.IsLiteral() = false, want true")
	}
	if ctx.IntType.IsLiteral() {
		t.Error("IntType.IsLiteral() = true, want false")
	}
}

func TestTypeField(t *testing.T) {
	st := &Type{Kind: KindStruct, Name: "Point", Fields: []StructField{
		{Name: "x", Type: &Type{Kind: KindFloat}},
		{Name: "y", Type: &Type{Kind: KindFloat}},
	}}

	f, ok := st.Field("y")
	if !ok || f.Name != "y" {
		t.Fatalf("Field(y) = %v, %v", f, ok)
	}
	if _, ok := st.Field("z"); ok {
		t.Error("Field(z) found, want not found")
	}
}

func TestCloneArrayType(t *testing.T) {
	root := NewSymbolTable(nil)
	dst := NewSymbolTable(root)

	arr := &Type{Kind: KindArray, Element: &Type{Kind: KindInt}, Count: 4}
	clone := CloneArrayType(dst, arr)

	if clone == arr {
		t.Error("CloneArrayType returned the same pointer, want a fresh copy")
	}
	if clone.Count != 4 || clone.Element != arr.Element {
		t.Errorf("clone = %+v, want Count=4 with shared Element", clone)
	}
	if len(dst.ownedTypes) != 1 || dst.ownedTypes[0] != clone {
		t.Error("clone was not recorded as owned by dst")
	}

	// A non-array type passes through unchanged.
	scalar := &Type{Kind: KindBool}
	if got := CloneArrayType(dst, scalar); got != scalar {
		t.Error("CloneArrayType returned a different pointer for a non-array type")
	}
}
