package ir

// Statement is a node in a function body. Like Expression, every statement
// carries the source offset it originated from (or, for a clone, the
// offset of the call site that produced it).
type Statement struct {
	Kind   StatementKind
	Offset int32
}

// StatementKind is implemented by every concrete statement variant.
type StatementKind interface {
	statementKind()
}

// Block is a sequence of statements, optionally introducing a lexical
// scope of its own. IsScope matters only for textual emission: a block
// that is the body of if/for/while/do must have IsScope true, or a
// following statement could be mis-absorbed into the control-flow body by
// a brace-based emitter (see the Scope Repair component).
type Block struct {
	Statements []*Statement
	Symbols    *SymbolTable // nil if the block introduces no new scope
	IsScope    bool
}

func (*Block) statementKind() {}

// ExpressionStatement evaluates Expr for its side effects and discards the
// value.
type ExpressionStatement struct {
	Expr *Expression
}

func (ExpressionStatement) statementKind() {}

// VarDecl is a single variable declaration statement.
type VarDecl struct {
	Variable *Variable
}

func (VarDecl) statementKind() {}

// VarDeclsGroup is a group of variable declarations sharing one declared
// type, e.g. `int a, b = 1, c;`.
type VarDeclsGroup struct {
	Variables []*Variable
}

func (VarDeclsGroup) statementKind() {}

// If is `if (Test) True [else False]`.
type If struct {
	Test  *Expression
	True  *Statement
	False *Statement // nil if there is no else branch
}

func (If) statementKind() {}

// For is a C-style for loop. Symbols holds the loop header's own scope
// (the variable declared in Init, if any).
type For struct {
	Init    *Statement // nil, or a VarDecl/VarDeclsGroup/ExpressionStatement
	Test    *Expression
	Next    *Expression
	Body    *Statement
	Symbols *SymbolTable
}

func (For) statementKind() {}

// While is `while (Test) Body`.
type While struct {
	Test *Expression
	Body *Statement
}

func (While) statementKind() {}

// Do is `do Body while (Test);`.
type Do struct {
	Body *Statement
	Test *Expression
}

func (Do) statementKind() {}

// Switch is a switch statement over Value, with Symbols holding any scope
// the switch header introduces.
type Switch struct {
	Value   *Expression
	Cases   []*Statement // each a SwitchCase
	Symbols *SymbolTable
}

func (Switch) statementKind() {}

// SwitchCase is one case of a Switch. Value is nil for the default case.
type SwitchCase struct {
	Value      *Expression
	Statements []*Statement
}

func (SwitchCase) statementKind() {}

// Return is `return [Expr];`. Expr is nil for a void return.
type Return struct {
	Expr *Expression
}

func (Return) statementKind() {}

// Break is `break;`.
type Break struct{}

func (Break) statementKind() {}

// Continue is `continue;`.
type Continue struct{}

func (Continue) statementKind() {}

// Discard is `discard;` (fragment-shader kill).
type Discard struct{}

func (Discard) statementKind() {}

// InlineMarker is a semantic no-op left at each inlined call site,
// recording the callee that was substituted there. It exists purely for
// recursion detection (the inline package's containsRecursiveCall follows InlineMarkers the
// same way it follows live FunctionCalls) and for diagnostic output.
type InlineMarker struct {
	Callee *FunctionDeclaration
}

func (InlineMarker) statementKind() {}

// Nop is a statement with no effect, used as filler where a slot must hold
// a statement but nothing needs to happen.
type Nop struct{}

func (Nop) statementKind() {}
