package inline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderinline/ir"
)

func programWithOneCall(call *ir.Expression, stmts ...*ir.Statement) *ir.Program {
	root := ir.NewSymbolTable(nil)
	syms := ir.NewSymbolTable(root)
	body := &ir.Statement{Kind: &ir.Block{Symbols: syms, Statements: stmts}}
	decl := &ir.FunctionDeclaration{Name: "main"}
	def := &ir.FunctionDefinition{Declaration: decl, Body: body}
	return &ir.Program{Root: root, Elements: []ir.ProgramElement{def}}
}

func TestCollectCandidatesFindsPlainCall(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	stmt := &ir.Statement{Kind: ir.ExpressionStatement{Expr: call}}

	prog := programWithOneCall(call, stmt)
	cands := collectCandidates(prog)

	require.Len(t, cands, 1)
	require.Equal(t, callee, cands[0].Call.Callee)
}

func TestCollectCandidatesSkipsShortCircuitRightOperand(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	guarded := &ir.Expression{Kind: ir.BinaryExpr{
		Op:    ir.BinLogicalAnd,
		Left:  &ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(true)}},
		Right: call,
	}}
	stmt := &ir.Statement{Kind: ir.ExpressionStatement{Expr: guarded}}

	prog := programWithOneCall(guarded, stmt)
	cands := collectCandidates(prog)

	require.Empty(t, cands, "a call behind && must never be a candidate")
}

func TestCollectCandidatesSkipsTernaryArms(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	ternary := &ir.Expression{Kind: ir.TernaryExpr{
		Test:  &ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(true)}},
		True:  call,
		False: intLit(0),
	}}
	stmt := &ir.Statement{Kind: ir.ExpressionStatement{Expr: ternary}}

	prog := programWithOneCall(ternary, stmt)
	cands := collectCandidates(prog)

	require.Empty(t, cands, "a call inside a ternary arm must never be a candidate")
}

func TestCollectCandidatesSkipsForInit(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	initVar := &ir.Variable{Name: "i", Type: &ir.Type{Kind: ir.KindInt}, InitialValue: call}
	forStmt := &ir.Statement{Kind: ir.For{
		Init: &ir.Statement{Kind: ir.VarDecl{Variable: initVar}},
		Test: &ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(false)}},
		Body: &ir.Statement{Kind: &ir.Block{}},
	}}

	prog := programWithOneCall(call, forStmt)
	cands := collectCandidates(prog)

	require.Empty(t, cands, "a call in a for-loop initializer must never be a candidate")
}

func TestCollectCandidatesFindsCallInIfBody(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	ifStmt := &ir.Statement{Kind: ir.If{
		Test: &ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(true)}},
		True: &ir.Statement{Kind: ir.ExpressionStatement{Expr: call}},
	}}

	prog := programWithOneCall(call, ifStmt)
	cands := collectCandidates(prog)

	require.Len(t, cands, 1)
	require.True(t, cands[0].EnclosingSlot.NeedsScopeRepair, "a call inside an if body sits in a single-statement slot")
}

func TestCollectCandidatesSkipsForTestAndNext(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	testCall := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	nextCall := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	forStmt := &ir.Statement{Kind: ir.For{
		Test: testCall,
		Next: nextCall,
		Body: &ir.Statement{Kind: &ir.Block{}},
	}}

	prog := programWithOneCall(testCall, forStmt)
	cands := collectCandidates(prog)

	require.Empty(t, cands, "a call in a for-loop's test or next expression must never be a candidate: both run once per iteration")
}

func TestCollectCandidatesSkipsWhileTest(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	whileStmt := &ir.Statement{Kind: ir.While{
		Test: call,
		Body: &ir.Statement{Kind: &ir.Block{}},
	}}

	prog := programWithOneCall(call, whileStmt)
	cands := collectCandidates(prog)

	require.Empty(t, cands, "a call in a while-loop's test must never be a candidate: it runs once per iteration")
}

func TestCollectCandidatesSkipsDoTest(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	doStmt := &ir.Statement{Kind: ir.Do{
		Body: &ir.Statement{Kind: &ir.Block{}},
		Test: call,
	}}

	prog := programWithOneCall(call, doStmt)
	cands := collectCandidates(prog)

	require.Empty(t, cands, "a call in a do-loop's test must never be a candidate: it runs once per iteration")
}

func TestCollectCandidatesFindsCallInLoopBody(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	whileStmt := &ir.Statement{Kind: ir.While{
		Test: &ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(true)}},
		Body: &ir.Statement{Kind: &ir.Block{Statements: []*ir.Statement{
			{Kind: ir.ExpressionStatement{Expr: call}},
		}}},
	}}

	prog := programWithOneCall(call, whileStmt)
	cands := collectCandidates(prog)

	require.Len(t, cands, 1, "a call inside a loop body, as opposed to its test, is a viable candidate")
}

func TestCandidateRewriteUpdatesCallSlot(t *testing.T) {
	callee := &ir.FunctionDeclaration{Name: "f"}
	call := &ir.Expression{Kind: ir.FunctionCall{Callee: callee}}
	stmt := &ir.Statement{Kind: ir.ExpressionStatement{Expr: call}}

	prog := programWithOneCall(call, stmt)
	cands := collectCandidates(prog)
	require.Len(t, cands, 1)

	placeholder := &ir.Expression{Kind: ir.Literal{Value: ir.LiteralBool(false)}}
	cands[0].CallSlot.Set(placeholder)

	es := stmt.Kind.(ir.ExpressionStatement)
	require.Same(t, placeholder, es.Expr, "CallSlot.Set must mutate the statement's expression field in place")
}
