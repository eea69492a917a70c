package inline

import "github.com/gogpu/shaderinline/ir"

// IsSafeToInline decides whether fn may ever be substituted at a call site,
// independent of any particular call site. This is a per-function
// property, memoized by the driver across a pass.
func IsSafeToInline(settings Settings, fn *ir.FunctionDeclaration) bool {
	if fn == nil || fn.Definition == nil || fn.Definition.Body == nil {
		// No body: extern, builtin, or forward declaration.
		return false
	}
	if containsRecursiveCall(fn) {
		return false
	}

	counts := countReturns(fn.Definition.Body)
	if hasEarlyReturn(counts) && !settings.canUseDoLoops() {
		// An early return can only be lowered via a do{}while(false)
		// escape; without that construct on the target, it cannot be
		// expressed.
		return false
	}
	if counts.inBreakable > 0 {
		// A return inside a nested switch/for/while/do would lower to a
		// break that escapes the nested construct instead of the
		// do{}while(false) emulation loop wrapping the inlined body.
		return false
	}

	if !fn.IsInlineHinted() && fn.CallCount() > 1 {
		if countIRNodes(fn.Definition.Body) >= settings.InlineThreshold {
			return false
		}
	}

	return true
}

// countIRNodes counts every statement and expression node reachable from
// body, used against Settings.InlineThreshold.
func countIRNodes(body *ir.Statement) int {
	return countStatementNodes(body)
}

func countStatementNodes(stmt *ir.Statement) int {
	if stmt == nil {
		return 0
	}
	n := 1
	switch k := stmt.Kind.(type) {
	case *ir.Block:
		for _, s := range k.Statements {
			n += countStatementNodes(s)
		}
	case ir.ExpressionStatement:
		n += countExpressionNodes(k.Expr)
	case ir.VarDecl:
		if k.Variable != nil {
			n += countExpressionNodes(k.Variable.InitialValue)
		}
	case ir.VarDeclsGroup:
		for _, v := range k.Variables {
			n += countExpressionNodes(v.InitialValue)
		}
	case ir.If:
		n += countExpressionNodes(k.Test) + countStatementNodes(k.True) + countStatementNodes(k.False)
	case ir.For:
		n += countStatementNodes(k.Init) + countExpressionNodes(k.Test) +
			countExpressionNodes(k.Next) + countStatementNodes(k.Body)
	case ir.While:
		n += countExpressionNodes(k.Test) + countStatementNodes(k.Body)
	case ir.Do:
		n += countStatementNodes(k.Body) + countExpressionNodes(k.Test)
	case ir.Switch:
		n += countExpressionNodes(k.Value)
		for _, cs := range k.Cases {
			n += countStatementNodes(cs)
		}
	case ir.SwitchCase:
		n += countExpressionNodes(k.Value)
		for _, s := range k.Statements {
			n += countStatementNodes(s)
		}
	case ir.Return:
		n += countExpressionNodes(k.Expr)
	}
	return n
}

func countExpressionNodes(expr *ir.Expression) int {
	if expr == nil {
		return 0
	}
	n := 1
	switch k := expr.Kind.(type) {
	case ir.FieldAccess:
		n += countExpressionNodes(k.Base)
	case ir.IndexExpr:
		n += countExpressionNodes(k.Base) + countExpressionNodes(k.Index)
	case ir.Swizzle:
		n += countExpressionNodes(k.Base)
	case ir.Constructor:
		for _, a := range k.Arguments {
			n += countExpressionNodes(a)
		}
	case ir.UnaryExpr:
		n += countExpressionNodes(k.Operand)
	case ir.BinaryExpr:
		n += countExpressionNodes(k.Left) + countExpressionNodes(k.Right)
	case ir.TernaryExpr:
		n += countExpressionNodes(k.Test) + countExpressionNodes(k.True) + countExpressionNodes(k.False)
	case ir.FunctionCall:
		for _, a := range k.Arguments {
			n += countExpressionNodes(a)
		}
	case ir.ExternalFunctionCall:
		for _, a := range k.Arguments {
			n += countExpressionNodes(a)
		}
	}
	return n
}
