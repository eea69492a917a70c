package inline

import "github.com/gogpu/shaderinline/ir"

// returnCounts is the result of one walk over a function body, sufficient
// to answer every Returns Analyzer query.
type returnCounts struct {
	total       int
	atTail      int
	inBreakable int
}

// countReturns walks body once and tallies every return statement by two
// independent axes: whether it sits at the syntactic tail of linear
// control flow, and whether it lies inside at least one breakable
// construct (switch/while/do/for).
func countReturns(body *ir.Statement) returnCounts {
	var c returnCounts
	walkReturns(body, true, 0, &c)
	return c
}

// walkReturns recurses through stmt. atTail is true only while every
// statement visited so far on the path from the function body has been the
// last statement of its enclosing block (or a top-level if/else branch);
// breakableDepth counts enclosing switch/while/do/for constructs.
func walkReturns(stmt *ir.Statement, atTail bool, breakableDepth int, c *returnCounts) {
	if stmt == nil {
		return
	}
	switch k := stmt.Kind.(type) {
	case *ir.Block:
		n := len(k.Statements)
		for i, s := range k.Statements {
			walkReturns(s, atTail && i == n-1, breakableDepth, c)
		}

	case ir.If:
		// Both arms can be the tail of the enclosing control flow; an if
		// with no else is never itself a tail return site, but its
		// branches individually are exactly as tail-like as the if
		// statement is.
		walkReturns(k.True, atTail, breakableDepth, c)
		walkReturns(k.False, atTail, breakableDepth, c)

	case ir.Switch:
		for _, cs := range k.Cases {
			walkReturns(cs, false, breakableDepth+1, c)
		}

	case ir.SwitchCase:
		for _, s := range k.Statements {
			walkReturns(s, false, breakableDepth, c)
		}

	case ir.While:
		walkReturns(k.Body, false, breakableDepth+1, c)

	case ir.Do:
		walkReturns(k.Body, false, breakableDepth+1, c)

	case ir.For:
		walkReturns(k.Body, false, breakableDepth+1, c)

	case ir.Return:
		c.total++
		if atTail {
			c.atTail++
		}
		if breakableDepth > 0 {
			c.inBreakable++
		}

	default:
		// ExpressionStatement, VarDecl, VarDeclsGroup, Break, Continue,
		// Discard, InlineMarker, Nop: none can contain a return.
	}
}

// countAllReturns returns the total number of return statements anywhere
// inside body.
func countAllReturns(body *ir.Statement) int {
	return countReturns(body).total
}

// countReturnsAtTail returns the number of returns that lie at the
// syntactic tail of linear control flow.
func countReturnsAtTail(body *ir.Statement) int {
	return countReturns(body).atTail
}

// countReturnsInBreakable returns the number of returns that lexically lie
// inside at least one switch/while/do/for.
func countReturnsInBreakable(body *ir.Statement) int {
	return countReturns(body).inBreakable
}

// hasEarlyReturn reports whether the function body tallied in c has a
// return that is not at the syntactic tail of its control flow.
func hasEarlyReturn(c returnCounts) bool {
	return c.total > c.atTail
}

// containsRecursiveCall reports whether fn's body contains a FunctionCall
// resolving to fn itself, or an InlineMarker referring to fn — the latter
// catches chains of previously-inlined recursion, where the original
// recursive call expression no longer exists but its trace does.
func containsRecursiveCall(fn *ir.FunctionDeclaration) bool {
	if fn == nil || fn.Definition == nil {
		return false
	}
	return statementReferencesFunction(fn.Definition.Body, fn)
}

func statementReferencesFunction(stmt *ir.Statement, fn *ir.FunctionDeclaration) bool {
	if stmt == nil {
		return false
	}
	switch k := stmt.Kind.(type) {
	case *ir.Block:
		for _, s := range k.Statements {
			if statementReferencesFunction(s, fn) {
				return true
			}
		}
	case ir.If:
		return expressionReferencesFunction(k.Test, fn) ||
			statementReferencesFunction(k.True, fn) ||
			statementReferencesFunction(k.False, fn)
	case ir.For:
		return statementReferencesFunction(k.Init, fn) ||
			expressionReferencesFunction(k.Test, fn) ||
			expressionReferencesFunction(k.Next, fn) ||
			statementReferencesFunction(k.Body, fn)
	case ir.While:
		return expressionReferencesFunction(k.Test, fn) || statementReferencesFunction(k.Body, fn)
	case ir.Do:
		return statementReferencesFunction(k.Body, fn) || expressionReferencesFunction(k.Test, fn)
	case ir.Switch:
		if expressionReferencesFunction(k.Value, fn) {
			return true
		}
		for _, cs := range k.Cases {
			if statementReferencesFunction(cs, fn) {
				return true
			}
		}
	case ir.SwitchCase:
		for _, s := range k.Statements {
			if statementReferencesFunction(s, fn) {
				return true
			}
		}
	case ir.ExpressionStatement:
		return expressionReferencesFunction(k.Expr, fn)
	case ir.VarDecl:
		return k.Variable != nil && expressionReferencesFunction(k.Variable.InitialValue, fn)
	case ir.VarDeclsGroup:
		for _, v := range k.Variables {
			if expressionReferencesFunction(v.InitialValue, fn) {
				return true
			}
		}
	case ir.Return:
		return expressionReferencesFunction(k.Expr, fn)
	case ir.InlineMarker:
		return k.Callee == fn
	}
	return false
}

func expressionReferencesFunction(expr *ir.Expression, fn *ir.FunctionDeclaration) bool {
	if expr == nil {
		return false
	}
	switch k := expr.Kind.(type) {
	case ir.FunctionCall:
		if k.Callee == fn {
			return true
		}
		for _, a := range k.Arguments {
			if expressionReferencesFunction(a, fn) {
				return true
			}
		}
	case ir.ExternalFunctionCall:
		for _, a := range k.Arguments {
			if expressionReferencesFunction(a, fn) {
				return true
			}
		}
	case ir.FieldAccess:
		return expressionReferencesFunction(k.Base, fn)
	case ir.IndexExpr:
		return expressionReferencesFunction(k.Base, fn) || expressionReferencesFunction(k.Index, fn)
	case ir.Swizzle:
		return expressionReferencesFunction(k.Base, fn)
	case ir.Constructor:
		for _, a := range k.Arguments {
			if expressionReferencesFunction(a, fn) {
				return true
			}
		}
	case ir.UnaryExpr:
		return expressionReferencesFunction(k.Operand, fn)
	case ir.BinaryExpr:
		return expressionReferencesFunction(k.Left, fn) || expressionReferencesFunction(k.Right, fn)
	case ir.TernaryExpr:
		return expressionReferencesFunction(k.Test, fn) ||
			expressionReferencesFunction(k.True, fn) ||
			expressionReferencesFunction(k.False, fn)
	}
	return false
}
