package inline

import "github.com/gogpu/shaderinline/ir"

// InlinedCall is the substitution built for one call site: a list of
// statements to splice into the enclosing statement list immediately
// before the call's own statement, and an expression to substitute for the
// FunctionCall itself.
type InlinedCall struct {
	Prelude     []*ir.Statement
	Replacement *ir.Expression
}

// InlineCall builds the substitution for call, a call to a function already
// established safe by IsSafeToInline. dst is the symbol table in scope at
// the call site; every materialized temporary is declared there so later
// passes see it as an ordinary local.
//
// An `in` argument that is a plain variable reference, to a parameter the
// callee body never writes, is passed through: the parameter is aliased
// directly to the caller's variable instead of materializing a redundant
// copy. Every other argument — anything with side effects, or a parameter
// the callee writes — is materialized into a freshly named local
// initialized from a clone of the argument expression, so it is evaluated
// exactly once, in argument order, before the callee's body runs.
// Out/inout parameters additionally get a copy-back statement after the
// body that writes the parameter's final value back to the original
// argument location.
func InlineCall(ctx *ir.Context, names *namer, settings Settings, dst *ir.SymbolTable, offset int32, call ir.FunctionCall) InlinedCall {
	fn := call.Callee
	vm := varMap{}
	c := &cloner{ctx: ctx, names: names, offset: offset}

	var prelude []*ir.Statement
	prelude = append(prelude, &ir.Statement{Offset: offset, Kind: ir.InlineMarker{Callee: fn}})

	var writebacks []*ir.Statement
	for i, param := range fn.Parameters {
		var arg *ir.Expression
		if i < len(call.Arguments) {
			arg = call.Arguments[i]
		}

		if !param.IsOut() && arg != nil {
			if ref, ok := arg.Kind.(ir.VariableReference); ok && !paramIsWritten(fn.Definition.Body, param) {
				vm[param] = ref.Variable
				continue
			}
		}

		argType := param.Type
		if arg != nil && arg.Type != nil {
			argType = arg.Type
		}
		temp := &ir.Variable{
			Name:    names.unique(dst, param.Name),
			Type:    argType,
			Storage: ir.StorageLocal,
		}
		temp.InitialValue = c.cloneExpression(vm, arg)
		dst.InsertVariable(temp)
		vm[param] = temp
		prelude = append(prelude, &ir.Statement{Offset: offset, Kind: ir.VarDecl{Variable: temp}})

		if param.IsOut() && arg != nil {
			writebacks = append(writebacks, &ir.Statement{
				Offset: offset,
				Kind: ir.ExpressionStatement{
					Expr: &ir.Expression{
						Offset: offset,
						Type:   param.Type,
						Kind: ir.BinaryExpr{
							Op:    ir.BinAssign,
							Left:  cloneAsWriteTarget(c, arg),
							Right: &ir.Expression{Offset: offset, Type: param.Type, Kind: ir.VariableReference{Variable: temp, Role: ir.RoleRead}},
						},
					},
				},
			})
		}
	}

	var resultVar *ir.Variable
	if !fn.IsVoid() {
		resultVar = &ir.Variable{
			Name:    names.unique(dst, fn.Name),
			Type:    fn.ReturnType,
			Storage: ir.StorageLocal,
		}
		dst.InsertVariable(resultVar)
		prelude = append(prelude, &ir.Statement{Offset: offset, Kind: ir.VarDecl{Variable: resultVar}})
	}

	haveEarly := hasEarlyReturn(countReturns(fn.Definition.Body))
	bodyBlock := fn.Definition.Body.Kind.(*ir.Block)
	clonedBody := c.cloneBlock(vm, dst, resultVar, haveEarly, bodyBlock)

	if haveEarly {
		// Safety already guaranteed settings.canUseDoLoops() whenever an
		// early return exists, via IsSafeToInline.
		doStmt := &ir.Statement{
			Offset: offset,
			Kind: ir.Do{
				Body: &ir.Statement{Offset: offset, Kind: clonedBody},
				Test: &ir.Expression{Offset: offset, Type: ctx.BoolType, Kind: ir.Literal{Value: ir.LiteralBool(false)}},
			},
		}
		prelude = append(prelude, doStmt)
	} else {
		prelude = append(prelude, clonedBody.Statements...)
	}

	prelude = append(prelude, writebacks...)

	var replacement *ir.Expression
	if fn.IsVoid() {
		// A void call has no value; the expression it occupied is only
		// ever used in a discarded ExpressionStatement, so any value
		// will do.
		replacement = &ir.Expression{Offset: offset, Type: ctx.BoolType, Kind: ir.Literal{Value: ir.LiteralBool(false)}}
	} else {
		replacement = &ir.Expression{Offset: offset, Type: resultVar.Type, Kind: ir.VariableReference{Variable: resultVar, Role: ir.RoleRead}}
	}

	return InlinedCall{Prelude: prelude, Replacement: replacement}
}

// cloneAsWriteTarget clones arg (with no variable substitution, since it
// refers to names in the caller's own scope) for use as the left-hand side
// of an out-parameter copy-back assignment, forcing the role to a write
// where the expression is a bare variable reference.
func cloneAsWriteTarget(c *cloner, arg *ir.Expression) *ir.Expression {
	cloned := c.cloneExpression(nil, arg)
	if ref, ok := cloned.Kind.(ir.VariableReference); ok {
		cloned.Kind = ir.VariableReference{Variable: ref.Variable, Role: ir.RoleWrite}
	}
	return cloned
}

// paramIsWritten reports whether body contains a direct assignment to
// param, which rules out aliasing param to the caller's own argument
// variable: a write through the alias would corrupt the caller's variable.
func paramIsWritten(body *ir.Statement, param *ir.Variable) bool {
	return statementWritesVariable(body, param)
}

func statementWritesVariable(stmt *ir.Statement, v *ir.Variable) bool {
	if stmt == nil {
		return false
	}
	switch k := stmt.Kind.(type) {
	case *ir.Block:
		for _, s := range k.Statements {
			if statementWritesVariable(s, v) {
				return true
			}
		}
	case ir.ExpressionStatement:
		return expressionWritesVariable(k.Expr, v)
	case ir.VarDecl:
		return k.Variable != nil && expressionWritesVariable(k.Variable.InitialValue, v)
	case ir.VarDeclsGroup:
		for _, decl := range k.Variables {
			if expressionWritesVariable(decl.InitialValue, v) {
				return true
			}
		}
	case ir.If:
		return expressionWritesVariable(k.Test, v) ||
			statementWritesVariable(k.True, v) ||
			statementWritesVariable(k.False, v)
	case ir.For:
		return statementWritesVariable(k.Init, v) ||
			expressionWritesVariable(k.Test, v) ||
			expressionWritesVariable(k.Next, v) ||
			statementWritesVariable(k.Body, v)
	case ir.While:
		return expressionWritesVariable(k.Test, v) || statementWritesVariable(k.Body, v)
	case ir.Do:
		return statementWritesVariable(k.Body, v) || expressionWritesVariable(k.Test, v)
	case ir.Switch:
		if expressionWritesVariable(k.Value, v) {
			return true
		}
		for _, cs := range k.Cases {
			if statementWritesVariable(cs, v) {
				return true
			}
		}
	case ir.SwitchCase:
		for _, s := range k.Statements {
			if statementWritesVariable(s, v) {
				return true
			}
		}
	case ir.Return:
		return expressionWritesVariable(k.Expr, v)
	}
	return false
}

func expressionWritesVariable(expr *ir.Expression, v *ir.Variable) bool {
	if expr == nil {
		return false
	}
	switch k := expr.Kind.(type) {
	case ir.VariableReference:
		return k.Variable == v && k.Role != ir.RoleRead
	case ir.FunctionCall:
		for _, a := range k.Arguments {
			if expressionWritesVariable(a, v) {
				return true
			}
		}
	case ir.ExternalFunctionCall:
		for _, a := range k.Arguments {
			if expressionWritesVariable(a, v) {
				return true
			}
		}
	case ir.FieldAccess:
		return expressionWritesVariable(k.Base, v)
	case ir.IndexExpr:
		return expressionWritesVariable(k.Base, v) || expressionWritesVariable(k.Index, v)
	case ir.Swizzle:
		return expressionWritesVariable(k.Base, v)
	case ir.Constructor:
		for _, a := range k.Arguments {
			if expressionWritesVariable(a, v) {
				return true
			}
		}
	case ir.UnaryExpr:
		return expressionWritesVariable(k.Operand, v)
	case ir.BinaryExpr:
		return expressionWritesVariable(k.Left, v) || expressionWritesVariable(k.Right, v)
	case ir.TernaryExpr:
		return expressionWritesVariable(k.Test, v) ||
			expressionWritesVariable(k.True, v) ||
			expressionWritesVariable(k.False, v)
	}
	return false
}
