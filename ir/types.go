package ir

// TypeKind distinguishes the shapes a Type can take.
type TypeKind uint8

const (
	KindVoid TypeKind = iota
	KindBool
	KindInt
	KindFloat
	// KindIntLiteral and KindFloatLiteral are placeholder types assigned to
	// untyped numeric literals before context fixes their concrete type.
	// They must never appear on a concrete variable declaration (see
	// Context.ConcreteOf and the cloner's literal-type demotion).
	KindIntLiteral
	KindFloatLiteral
	KindArray
	KindStruct
)

// Type is a resolved type in the IR. Scalar and literal types are canonical
// singletons handed out by a Context; array types are owned by whichever
// SymbolTable introduced them and must be re-parented, not shared, when
// cloned.
type Type struct {
	Kind TypeKind

	// Name is the declared name for KindStruct; empty otherwise.
	Name string

	// Fields holds struct members, in declaration order. Only meaningful
	// for KindStruct.
	Fields []StructField

	// Element is the element type for KindArray.
	Element *Type

	// Count is the array length for KindArray. Zero means unsized.
	Count int
}

// StructField is one member of a struct Type.
type StructField struct {
	Name string
	Type *Type
}

// IsScalar reports whether t is a non-aggregate numeric or boolean type.
func (t *Type) IsScalar() bool {
	switch t.Kind {
	case KindBool, KindInt, KindFloat, KindIntLiteral, KindFloatLiteral:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether t is one of the untyped-literal placeholder
// kinds that must never reach a concrete variable declaration.
func (t *Type) IsLiteral() bool {
	return t.Kind == KindIntLiteral || t.Kind == KindFloatLiteral
}

// Field looks up a struct member by name.
func (t *Type) Field(name string) (StructField, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// Context provides the canonical type handles shared by every node in a
// program: one pointer per basic kind, interned once and reused everywhere.
// IntLiteral and FloatLiteral are used only for literal-type detection and
// demotion; the inliner never installs them into a symbol table.
type Context struct {
	VoidType         *Type
	BoolType         *Type
	IntType          *Type
	FloatType        *Type
	IntLiteralType   *Type
	FloatLiteralType *Type
}

// NewContext builds a Context with freshly interned canonical types.
func NewContext() *Context {
	return &Context{
		VoidType:         &Type{Kind: KindVoid},
		BoolType:         &Type{Kind: KindBool},
		IntType:          &Type{Kind: KindInt},
		FloatType:        &Type{Kind: KindFloat},
		IntLiteralType:   &Type{Kind: KindIntLiteral},
		FloatLiteralType: &Type{Kind: KindFloatLiteral},
	}
}

// ConcreteOf returns the concrete type that a literal placeholder type
// demotes to, or t itself if t is not a literal type.
func (c *Context) ConcreteOf(t *Type) *Type {
	switch t.Kind {
	case KindIntLiteral:
		return c.IntType
	case KindFloatLiteral:
		return c.FloatType
	default:
		return t
	}
}

// CloneArrayType re-parents a copy of an array Type into dst, as required by
// the single-owner invariant on array type instances. Scalar and struct
// types are never cloned this way; callers reuse the existing pointer.
func CloneArrayType(dst *SymbolTable, t *Type) *Type {
	if t.Kind != KindArray {
		return t
	}
	clone := &Type{
		Kind:    KindArray,
		Element: t.Element,
		Count:   t.Count,
	}
	dst.ownType(clone)
	return clone
}
