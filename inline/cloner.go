package inline

import "github.com/gogpu/shaderinline/ir"

// varMap rewrites variable references during a clone: if the original
// Variable has an entry, a reference to the replacement is produced
// (preserving the occurrence's read/write role); otherwise the original
// reference is cloned unchanged. Keyed by Variable identity rather than by
// name, since name collisions across nested scopes would otherwise be
// unsafe.
type varMap map[*ir.Variable]*ir.Variable

// cloner implements the IR Cloner and Return Lowering passes. One cloner
// is used per inlined call site.
type cloner struct {
	ctx    *ir.Context
	names  *namer
	offset int32
}

// cloneExpression deep-copies an expression subtree, applying vm on the
// fly. Every new node is tagged with the cloner's call-site offset.
func (c *cloner) cloneExpression(vm varMap, expr *ir.Expression) *ir.Expression {
	if expr == nil {
		return nil
	}
	out := &ir.Expression{Offset: c.offset, Type: expr.Type}

	switch k := expr.Kind.(type) {
	case ir.Literal, ir.ExternalValue, ir.FunctionReference, ir.TypeReference, ir.Setting:
		// Opaque leaves: cloned by value, nothing nested to rewrite.
		out.Kind = k

	case ir.VariableReference:
		if replacement, ok := vm[k.Variable]; ok {
			out.Kind = ir.VariableReference{Variable: replacement, Role: k.Role}
		} else {
			out.Kind = ir.VariableReference{Variable: k.Variable, Role: k.Role}
		}

	case ir.FieldAccess:
		out.Kind = ir.FieldAccess{Base: c.cloneExpression(vm, k.Base), Field: k.Field}

	case ir.IndexExpr:
		out.Kind = ir.IndexExpr{
			Base:  c.cloneExpression(vm, k.Base),
			Index: c.cloneExpression(vm, k.Index),
		}

	case ir.Swizzle:
		out.Kind = ir.Swizzle{Base: c.cloneExpression(vm, k.Base), Components: k.Components}

	case ir.Constructor:
		out.Kind = ir.Constructor{Arguments: c.cloneExpressionList(vm, k.Arguments)}

	case ir.UnaryExpr:
		out.Kind = ir.UnaryExpr{Op: k.Op, Operand: c.cloneExpression(vm, k.Operand)}

	case ir.BinaryExpr:
		out.Kind = ir.BinaryExpr{
			Op:    k.Op,
			Left:  c.cloneExpression(vm, k.Left),
			Right: c.cloneExpression(vm, k.Right),
		}

	case ir.TernaryExpr:
		out.Kind = ir.TernaryExpr{
			Test:  c.cloneExpression(vm, k.Test),
			True:  c.cloneExpression(vm, k.True),
			False: c.cloneExpression(vm, k.False),
		}

	case ir.FunctionCall:
		out.Kind = ir.FunctionCall{Callee: k.Callee, Arguments: c.cloneExpressionList(vm, k.Arguments)}

	case ir.ExternalFunctionCall:
		out.Kind = ir.ExternalFunctionCall{Name: k.Name, Arguments: c.cloneExpressionList(vm, k.Arguments)}

	default:
		out.Kind = k
	}
	return out
}

func (c *cloner) cloneExpressionList(vm varMap, in []*ir.Expression) []*ir.Expression {
	if in == nil {
		return nil
	}
	out := make([]*ir.Expression, len(in))
	for i, e := range in {
		out[i] = c.cloneExpression(vm, e)
	}
	return out
}

// cloneStatementList clones stmt and returns the statements that should
// replace it. This is almost always a single statement, but a lowered
// `return` can expand to zero statements (a dropped no-op) or two
// (assignment followed by break) — see lowerReturnList. A caller that owns
// a statement *list* slot (a Block or SwitchCase body) splices the result
// in directly; a caller that owns a single-statement slot (If/For/While/Do
// body) must call cloneStatementSingle instead, which collapses the list
// back into exactly one node.
func (c *cloner) cloneStatementList(vm varMap, dst *ir.SymbolTable, resultVar *ir.Variable, haveEarlyReturns bool, stmt *ir.Statement) []*ir.Statement {
	if stmt == nil {
		return nil
	}
	if ret, ok := stmt.Kind.(ir.Return); ok {
		return c.lowerReturnList(vm, resultVar, haveEarlyReturns, ret)
	}
	return []*ir.Statement{c.cloneOneStatement(vm, dst, resultVar, haveEarlyReturns, stmt)}
}

// cloneStatementSingle clones stmt for a single-statement slot, wrapping
// the result in a scoped Block if Return Lowering expanded it to more than
// one statement, and substituting a Nop if it lowered to none.
func (c *cloner) cloneStatementSingle(vm varMap, dst *ir.SymbolTable, resultVar *ir.Variable, haveEarlyReturns bool, stmt *ir.Statement) *ir.Statement {
	list := c.cloneStatementList(vm, dst, resultVar, haveEarlyReturns, stmt)
	switch len(list) {
	case 0:
		return &ir.Statement{Offset: c.offset, Kind: ir.Nop{}}
	case 1:
		return list[0]
	default:
		return &ir.Statement{Offset: c.offset, Kind: &ir.Block{Statements: list, IsScope: true}}
	}
}

// cloneOneStatement clones every statement kind that is not a `return`
// (return is handled by cloneStatementList, since only it can change
// statement count).
func (c *cloner) cloneOneStatement(vm varMap, dst *ir.SymbolTable, resultVar *ir.Variable, haveEarlyReturns bool, stmt *ir.Statement) *ir.Statement {
	out := &ir.Statement{Offset: c.offset}

	switch k := stmt.Kind.(type) {
	case *ir.Block:
		out.Kind = c.cloneBlock(vm, dst, resultVar, haveEarlyReturns, k)

	case ir.ExpressionStatement:
		out.Kind = ir.ExpressionStatement{Expr: c.cloneExpression(vm, k.Expr)}

	case ir.VarDecl:
		newVar := c.cloneVariable(vm, dst, k.Variable)
		out.Kind = ir.VarDecl{Variable: newVar}

	case ir.VarDeclsGroup:
		newVars := make([]*ir.Variable, len(k.Variables))
		for i, v := range k.Variables {
			newVars[i] = c.cloneVariable(vm, dst, v)
		}
		out.Kind = ir.VarDeclsGroup{Variables: newVars}

	case ir.If:
		out.Kind = ir.If{
			Test:  c.cloneExpression(vm, k.Test),
			True:  c.cloneStatementSingle(vm, dst, resultVar, haveEarlyReturns, k.True),
			False: c.cloneStatementSingleOrNil(vm, dst, resultVar, haveEarlyReturns, k.False),
		}

	case ir.For:
		innerSyms, innerDst := c.childScopeIfNeeded(dst, k.Symbols)
		out.Kind = ir.For{
			Init:    c.cloneStatementSingleOrNil(vm, innerDst, resultVar, haveEarlyReturns, k.Init),
			Test:    c.cloneExpression(vm, k.Test),
			Next:    c.cloneExpression(vm, k.Next),
			Body:    c.cloneStatementSingle(vm, innerDst, resultVar, haveEarlyReturns, k.Body),
			Symbols: innerSyms,
		}

	case ir.While:
		out.Kind = ir.While{
			Test: c.cloneExpression(vm, k.Test),
			Body: c.cloneStatementSingle(vm, dst, resultVar, haveEarlyReturns, k.Body),
		}

	case ir.Do:
		out.Kind = ir.Do{
			Body: c.cloneStatementSingle(vm, dst, resultVar, haveEarlyReturns, k.Body),
			Test: c.cloneExpression(vm, k.Test),
		}

	case ir.Switch:
		innerSyms, innerDst := c.childScopeIfNeeded(dst, k.Symbols)
		cases := make([]*ir.Statement, len(k.Cases))
		for i, cs := range k.Cases {
			cases[i] = c.cloneOneStatement(vm, innerDst, resultVar, haveEarlyReturns, cs)
		}
		out.Kind = ir.Switch{
			Value:   c.cloneExpression(vm, k.Value),
			Cases:   cases,
			Symbols: innerSyms,
		}

	case ir.SwitchCase:
		var stmts []*ir.Statement
		for _, s := range k.Statements {
			stmts = append(stmts, c.cloneStatementList(vm, dst, resultVar, haveEarlyReturns, s)...)
		}
		out.Kind = ir.SwitchCase{
			Value:      c.cloneExpression(vm, k.Value),
			Statements: stmts,
		}

	case ir.Break, ir.Continue, ir.Discard, ir.InlineMarker, ir.Nop:
		out.Kind = k

	default:
		out.Kind = k
	}
	return out
}

// cloneStatementSingleOrNil is cloneStatementSingle, preserving a nil
// input (an absent else-branch or for-loop initializer) as nil.
func (c *cloner) cloneStatementSingleOrNil(vm varMap, dst *ir.SymbolTable, resultVar *ir.Variable, haveEarlyReturns bool, stmt *ir.Statement) *ir.Statement {
	if stmt == nil {
		return nil
	}
	return c.cloneStatementSingle(vm, dst, resultVar, haveEarlyReturns, stmt)
}

// childScopeIfNeeded mirrors a construct's own optional scope: if the
// original introduced one (a non-nil Symbols field), a fresh child table is
// created and used as the destination for nested declarations.
func (c *cloner) childScopeIfNeeded(dst *ir.SymbolTable, original *ir.SymbolTable) (*ir.SymbolTable, *ir.SymbolTable) {
	if original == nil {
		return nil, dst
	}
	child := ir.NewSymbolTable(dst)
	return child, child
}

// cloneBlock deep-copies a block, installing a fresh child SymbolTable when
// the original block introduces its own scope, and flattening any
// Return-Lowering expansions of its direct children in place.
func (c *cloner) cloneBlock(vm varMap, dst *ir.SymbolTable, resultVar *ir.Variable, haveEarlyReturns bool, blk *ir.Block) *ir.Block {
	innerSyms, innerDst := c.childScopeIfNeeded(dst, blk.Symbols)

	var stmts []*ir.Statement
	for _, s := range blk.Statements {
		stmts = append(stmts, c.cloneStatementList(vm, innerDst, resultVar, haveEarlyReturns, s)...)
	}
	return &ir.Block{Statements: stmts, Symbols: innerSyms, IsScope: blk.IsScope}
}

// cloneVariable installs a freshly renamed Variable in dst for the
// original v, records the mapping in vm, and clones v's initializer (if
// any) and its array type (if any), respecting array-type ownership.
func (c *cloner) cloneVariable(vm varMap, dst *ir.SymbolTable, v *ir.Variable) *ir.Variable {
	typ := v.Type
	if typ != nil && typ.IsLiteral() {
		// A literal placeholder type must never land on a concrete
		// declaration; demote it.
		typ = c.ctx.ConcreteOf(typ)
	}
	if typ != nil && typ.Kind == ir.KindArray {
		typ = ir.CloneArrayType(dst, typ)
	}

	newVar := &ir.Variable{
		Name:      c.names.unique(dst, v.Name),
		Type:      typ,
		Modifiers: v.Modifiers,
		Storage:   v.Storage,
	}
	vm[v] = newVar
	dst.InsertVariable(newVar)

	if v.InitialValue != nil {
		newVar.InitialValue = c.cloneExpression(vm, v.InitialValue)
	}
	return newVar
}

// lowerReturnList implements the Return Lowering table, returning the
// statements a `return` expands to:
//
//	non-void, tail-only   -> [ resultVar = clone(E); ]
//	non-void, early       -> [ resultVar = clone(E);  break; ]
//	void, tail-only       -> [ ]   (no extra statement)
//	void, early           -> [ break; ]
func (c *cloner) lowerReturnList(vm varMap, resultVar *ir.Variable, haveEarlyReturns bool, ret ir.Return) []*ir.Statement {
	isVoid := resultVar == nil

	var assignStmt *ir.Statement
	if !isVoid {
		assign := &ir.Expression{
			Offset: c.offset,
			Type:   resultVar.Type,
			Kind: ir.BinaryExpr{
				Op:    ir.BinAssign,
				Left:  &ir.Expression{Offset: c.offset, Type: resultVar.Type, Kind: ir.VariableReference{Variable: resultVar, Role: ir.RoleWrite}},
				Right: c.cloneExpression(vm, ret.Expr),
			},
		}
		assignStmt = &ir.Statement{Offset: c.offset, Kind: ir.ExpressionStatement{Expr: assign}}
	}
	breakStmt := &ir.Statement{Offset: c.offset, Kind: ir.Break{}}

	switch {
	case !isVoid && !haveEarlyReturns:
		return []*ir.Statement{assignStmt}
	case !isVoid && haveEarlyReturns:
		return []*ir.Statement{assignStmt, breakStmt}
	case isVoid && !haveEarlyReturns:
		return nil
	default: // isVoid && haveEarlyReturns
		return []*ir.Statement{breakStmt}
	}
}
