package inline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderinline/ir"
)

func newCloner(ctx *ir.Context) *cloner {
	return &cloner{ctx: ctx, names: &namer{}, offset: 7}
}

func TestCloneExpressionRewritesVariableReference(t *testing.T) {
	ctx := ir.NewContext()
	c := newCloner(ctx)

	orig := &ir.Variable{Name: "x", Type: ctx.IntType}
	replacement := &ir.Variable{Name: "_0_x", Type: ctx.IntType}
	vm := varMap{orig: replacement}

	expr := &ir.Expression{Type: ctx.IntType, Kind: ir.VariableReference{Variable: orig, Role: ir.RoleRead}}
	clone := c.cloneExpression(vm, expr)

	ref, ok := clone.Kind.(ir.VariableReference)
	require.True(t, ok)
	require.Equal(t, replacement, ref.Variable)
	require.Equal(t, ir.RoleRead, ref.Role)
	require.Equal(t, int32(7), clone.Offset)
	require.NotSame(t, expr, clone)
}

func TestCloneExpressionUnmappedVariablePassesThrough(t *testing.T) {
	ctx := ir.NewContext()
	c := newCloner(ctx)

	v := &ir.Variable{Name: "g", Type: ctx.IntType}
	expr := &ir.Expression{Type: ctx.IntType, Kind: ir.VariableReference{Variable: v, Role: ir.RoleRead}}

	clone := c.cloneExpression(varMap{}, expr)
	ref := clone.Kind.(ir.VariableReference)
	require.Same(t, v, ref.Variable)
}

func TestCloneVariableDemotesLiteralType(t *testing.T) {
	ctx := ir.NewContext()
	dst := ir.NewSymbolTable(nil)
	c := newCloner(ctx)

	v := &ir.Variable{Name: "lit", Type: ctx.IntLiteralType}
	vm := varMap{}
	clone := c.cloneVariable(vm, dst, v)

	require.Equal(t, ctx.IntType, clone.Type)
	require.Same(t, clone, vm[v])
	sym, ok := dst.LookupLocal(clone.Name)
	require.True(t, ok)
	require.Same(t, clone, sym.Variable)
}

// Return Lowering table (tail-only, non-void): `return E;` with no early
// returns anywhere in the function becomes a single assignment.
func TestLowerReturnListTailOnlyNonVoid(t *testing.T) {
	ctx := ir.NewContext()
	c := newCloner(ctx)
	result := &ir.Variable{Name: "_1_f", Type: ctx.IntType}

	list := c.lowerReturnList(varMap{}, result, false, ir.Return{Expr: intLit(5)})
	require.Len(t, list, 1)

	es, ok := list[0].Kind.(ir.ExpressionStatement)
	require.True(t, ok)
	assign := es.Expr.Kind.(ir.BinaryExpr)
	require.Equal(t, ir.BinAssign, assign.Op)
}

// Return Lowering table (early, non-void): becomes assignment + break.
func TestLowerReturnListEarlyNonVoid(t *testing.T) {
	ctx := ir.NewContext()
	c := newCloner(ctx)
	result := &ir.Variable{Name: "_1_f", Type: ctx.IntType}

	list := c.lowerReturnList(varMap{}, result, true, ir.Return{Expr: intLit(0)})
	require.Len(t, list, 2)
	require.IsType(t, ir.ExpressionStatement{}, list[0].Kind)
	require.IsType(t, ir.Break{}, list[1].Kind)
}

// Return Lowering table (tail-only, void): contributes no statement.
func TestLowerReturnListTailOnlyVoid(t *testing.T) {
	c := newCloner(ir.NewContext())
	list := c.lowerReturnList(varMap{}, nil, false, ir.Return{})
	require.Empty(t, list)
}

// Return Lowering table (early, void): becomes a bare break.
func TestLowerReturnListEarlyVoid(t *testing.T) {
	c := newCloner(ir.NewContext())
	list := c.lowerReturnList(varMap{}, nil, true, ir.Return{})
	require.Len(t, list, 1)
	require.IsType(t, ir.Break{}, list[0].Kind)
}

// A return spliced into a list context (an ordinary block) must not be
// wrapped in an extra Block -- it contributes its statements directly as
// siblings.
func TestCloneStatementListDoesNotWrapInListContext(t *testing.T) {
	ctx := ir.NewContext()
	dst := ir.NewSymbolTable(nil)
	c := newCloner(ctx)
	result := &ir.Variable{Name: "_1_f", Type: ctx.IntType}

	list := c.cloneStatementList(varMap{}, dst, result, true, retStmt(intLit(0)))
	require.Len(t, list, 2, "early non-void return in a list context splices as 2 siblings, not a wrapping Block")
	require.IsType(t, ir.ExpressionStatement{}, list[0].Kind)
	require.IsType(t, ir.Break{}, list[1].Kind)
}

// The same return, cloned into a single-statement slot (e.g. an if body),
// must collapse into exactly one statement, wrapping in a scoped Block
// when Return Lowering produced more than one.
func TestCloneStatementSingleWrapsInSingleSlot(t *testing.T) {
	ctx := ir.NewContext()
	dst := ir.NewSymbolTable(nil)
	c := newCloner(ctx)
	result := &ir.Variable{Name: "_1_f", Type: ctx.IntType}

	single := c.cloneStatementSingle(varMap{}, dst, result, true, retStmt(intLit(0)))
	blk, ok := single.Kind.(*ir.Block)
	require.True(t, ok, "2-statement lowering in a single slot must wrap in a Block")
	require.True(t, blk.IsScope)
	require.Len(t, blk.Statements, 2)
}

// Reproduces the early-return/do-loop worked scenario end to end at the
// cloner level: int f(int x) { if (x<0) return 0; return x+1; }
// Cloning the whole body with haveEarlyReturns=true must produce, at the
// top level, an If whose True branch is a wrapping Block ending in break,
// followed directly (unwrapped) by the tail assignment and its own break.
func TestCloneBlockEarlyReturnShape(t *testing.T) {
	ctx := ir.NewContext()
	c := newCloner(ctx)

	param := &ir.Variable{Name: "x", Type: ctx.IntType}
	bodySyms := ir.NewSymbolTable(nil)
	bodySyms.InsertVariable(param)

	cond := &ir.Expression{Kind: ir.BinaryExpr{Op: ir.BinLess, Left: &ir.Expression{Kind: ir.VariableReference{Variable: param}}, Right: intLit(0)}}
	body := &ir.Block{
		Symbols: bodySyms,
		IsScope: true,
		Statements: []*ir.Statement{
			{Kind: ir.If{Test: cond, True: retStmt(intLit(0))}},
			retStmt(&ir.Expression{Kind: ir.BinaryExpr{
				Op:   ir.BinAdd,
				Left: &ir.Expression{Kind: ir.VariableReference{Variable: param}},
				Right: intLit(1),
			}}),
		},
	}

	dst := ir.NewSymbolTable(nil)
	result := &ir.Variable{Name: "_1_f", Type: ctx.IntType}
	vm := varMap{param: &ir.Variable{Name: "_0_x", Type: ctx.IntType}}

	cloned := c.cloneBlock(vm, dst, result, true, body)
	// The if (wrapping its own 2-statement early-return lowering) is one
	// top-level statement; the trailing return also lowers to 2
	// statements (assign + break, since the function has an early return
	// elsewhere) which splice in as direct, unwrapped siblings.
	require.Len(t, cloned.Statements, 3)

	ifStmt, ok := cloned.Statements[0].Kind.(ir.If)
	require.True(t, ok)
	trueBlk, ok := ifStmt.True.Kind.(*ir.Block)
	require.True(t, ok, "the early return's 2-statement lowering must wrap since If.True is a single slot")
	require.Len(t, trueBlk.Statements, 2)
	require.IsType(t, ir.Break{}, trueBlk.Statements[1].Kind)

	require.IsType(t, ir.ExpressionStatement{}, cloned.Statements[1].Kind, "tail return's assignment is a direct sibling")
	require.IsType(t, ir.Break{}, cloned.Statements[2].Kind, "tail return's break is a direct sibling too")
}
