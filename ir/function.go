package ir

import "sync/atomic"

// FunctionDeclaration is a function's signature: name, return type,
// parameters, and modifiers. Definition is a non-owning link to the body;
// it is nil for forward declarations, externs, and builtins, none of which
// the inliner may ever substitute (see IsSafeToInline rule 1 in the inline
// package).
type FunctionDeclaration struct {
	Name       string
	ReturnType *Type
	Parameters []*Variable
	Modifiers  Modifiers

	Definition *FunctionDefinition

	// callCount is maintained by the upstream parser and read by the
	// inliner with relaxed/acquire semantics; the inliner itself never
	// writes it.
	callCount atomic.Int64
}

// IsInlineHinted reports whether the declaration carries the `inline`
// modifier.
func (d *FunctionDeclaration) IsInlineHinted() bool {
	return d.Modifiers.Has(ModInline)
}

// IsVoid reports whether the function returns no value.
func (d *FunctionDeclaration) IsVoid() bool {
	return d.ReturnType == nil || d.ReturnType.Kind == KindVoid
}

// CallCount returns the number of call sites the parser has recorded for
// this declaration so far.
func (d *FunctionDeclaration) CallCount() int64 {
	return d.callCount.Load()
}

// AddCall increments the call count. It exists for test fixtures and the
// upstream parser; the inliner never calls it.
func (d *FunctionDeclaration) AddCall(delta int64) {
	d.callCount.Add(delta)
}

// FunctionDefinition pairs a declaration with its body block.
type FunctionDefinition struct {
	Declaration *FunctionDeclaration
	Body        *Statement // always a Block
}

// Program is the root of an IR tree: an ordered list of top-level
// elements plus the root symbol table they resolve names against.
type Program struct {
	Elements []ProgramElement
	Root     *SymbolTable
}

// ProgramElement is any top-level construct: a function definition, a
// forward declaration, or a global variable declaration. Only
// FunctionDefinitions are interesting to the inliner; the others are
// carried through untouched.
type ProgramElement interface {
	programElement()
}

func (*FunctionDefinition) programElement() {}

// GlobalElement wraps a global variable declaration as a program element.
type GlobalElement struct {
	Variable *Variable
}

func (*GlobalElement) programElement() {}

// ForwardDeclElement wraps a function declaration with no definition
// (extern/builtin/forward) as a program element.
type ForwardDeclElement struct {
	Declaration *FunctionDeclaration
}

func (*ForwardDeclElement) programElement() {}
