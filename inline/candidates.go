package inline

import "github.com/gogpu/shaderinline/ir"

// Slot is an addressable statement-list position: Get/Set close over the
// concrete field or slice index it refers to, so the Candidate Analyzer can
// describe "the statement at index 3 of this block" or "the True branch of
// this if" uniformly. NeedsScopeRepair is true for slots that hold a
// single statement directly inside if/for/while/do, where substituting a
// multi-statement replacement requires wrapping it in a scope-carrying
// Block.
type Slot struct {
	// ID distinguishes one Slot from another for deduplication purposes
	// (the driver rewrites at most one candidate per slot per pass). Get
	// and Set are closures and so are not themselves comparable; ID is
	// assigned once, at the point a Slot is constructed, and shared by
	// every candidate that addresses the same position.
	ID               int
	Get              func() *ir.Statement
	Set              func(*ir.Statement)
	NeedsScopeRepair bool
}

var slotIDCounter int

func nextSlotID() int {
	slotIDCounter++
	return slotIDCounter
}

// ExprSlot is the expression-tree analogue of Slot, addressing the single
// expression field a FunctionCall was found under.
type ExprSlot struct {
	Get func() *ir.Expression
	Set func(*ir.Expression)
}

// Candidate is one inlinable call site found during the Candidate
// Analyzer's traversal.
type Candidate struct {
	Symbols       *ir.SymbolTable
	EnclosingSlot Slot
	CallSlot      ExprSlot
	Call          ir.FunctionCall
}

// blockSlot builds a Slot for statement index i of blk's own list, relying
// on slice aliasing: blk.Statements[i] = s mutates the slice in place and
// needs no explicit write-back through a parent pointer.
func blockSlot(blk *ir.Block, i int) Slot {
	return Slot{
		ID:  nextSlotID(),
		Get: func() *ir.Statement { return blk.Statements[i] },
		Set: func(s *ir.Statement) { blk.Statements[i] = s },
	}
}

// singleSlot builds a Slot for a single-statement field reached through
// parent, a statement whose Kind is a value type (so the field must be
// read, mutated as a copy, and reassigned through parent.Kind). get/set
// address the specific field (e.g. If.True) on a fresh copy of the kind.
func singleSlot(parent *ir.Statement, get func() *ir.Statement, set func(*ir.Statement)) Slot {
	return Slot{ID: nextSlotID(), Get: get, Set: set, NeedsScopeRepair: true}
}

// collectCandidates walks prog looking for every call site eligible to be
// considered for inlining, and returns them together with the lexical
// scope and rewrite slots needed to later replace them.
//
// The right operand of && and ||, and the true/false arms of ?:, are never
// visited: those expressions are not unconditionally evaluated, and
// substituting an inlined call's prelude there would run it even when the
// original guarded evaluation would have skipped it. A for-loop's Init
// statement and the individual initializers inside a VarDeclsGroup are not
// viable enclosing slots (there is nowhere to splice a multi-statement
// prelude), so calls found there are never recorded as candidates. A
// for-loop's Test and Next, a while-loop's Test, and a do-loop's Test all
// run once per iteration; splicing a prelude before the loop would instead
// evaluate the callee once, so none of them are visited either — only loop
// bodies are.
func collectCandidates(prog *ir.Program) []Candidate {
	var out []Candidate
	for _, elem := range prog.Elements {
		def, ok := elem.(*ir.FunctionDefinition)
		if !ok || def.Body == nil {
			continue
		}
		blk, ok := def.Body.Kind.(*ir.Block)
		if !ok {
			continue
		}
		syms := blk.Symbols
		if syms == nil {
			syms = prog.Root
		}
		walkBlockForCandidates(syms, blk, &out)
	}
	return out
}

func walkBlockForCandidates(syms *ir.SymbolTable, blk *ir.Block, out *[]Candidate) {
	for i := range blk.Statements {
		i := i
		slot := blockSlot(blk, i)
		walkStatementForCandidates(syms, slot, blk.Statements[i], out)
	}
}

// walkStatementForCandidates visits stmt, which is addressable through
// slot, recording every call found in an evaluated expression position and
// recursing into nested statement lists and single-statement bodies.
func walkStatementForCandidates(syms *ir.SymbolTable, slot Slot, stmt *ir.Statement, out *[]Candidate) {
	if stmt == nil {
		return
	}
	switch k := stmt.Kind.(type) {
	case *ir.Block:
		inner := k.Symbols
		if inner == nil {
			inner = syms
		}
		walkBlockForCandidates(inner, k, out)

	case ir.ExpressionStatement:
		walkExprForCandidates(syms, slot, exprFieldSlot(stmt, func() *ir.Expression { return k.Expr }, func(e *ir.Expression) {
			k.Expr = e
			stmt.Kind = k
		}), k.Expr, out)

	case ir.VarDecl:
		if k.Variable != nil && k.Variable.InitialValue != nil {
			v := k.Variable
			walkExprForCandidates(syms, slot, exprFieldSlot(stmt, func() *ir.Expression { return v.InitialValue }, func(e *ir.Expression) { v.InitialValue = e }), v.InitialValue, out)
		}

	case ir.VarDeclsGroup:
		// Not a viable enclosing slot per statement; each initializer's
		// calls are skipped intentionally.

	case ir.If:
		walkExprForCandidates(syms, slot, exprFieldSlot(stmt, func() *ir.Expression { return k.Test }, func(e *ir.Expression) { k.Test = e; stmt.Kind = k }), k.Test, out)
		if k.True != nil {
			trueSlot := singleSlot(stmt, func() *ir.Statement { return k.True }, func(s *ir.Statement) { k.True = s; stmt.Kind = k })
			walkStatementForCandidates(syms, trueSlot, k.True, out)
		}
		if k.False != nil {
			falseSlot := singleSlot(stmt, func() *ir.Statement { return k.False }, func(s *ir.Statement) { k.False = s; stmt.Kind = k })
			walkStatementForCandidates(syms, falseSlot, k.False, out)
		}

	case ir.For:
		// Init, Test, and Next are not viable candidate sites: Init has
		// nowhere to splice a multi-statement prelude, and Test/Next run
		// once per iteration, so a prelude spliced before the loop would
		// evaluate the callee once instead of on every pass.
		inner := k.Symbols
		if inner == nil {
			inner = syms
		}
		if k.Body != nil {
			bodySlot := singleSlot(stmt, func() *ir.Statement { return k.Body }, func(s *ir.Statement) { k.Body = s; stmt.Kind = k })
			walkStatementForCandidates(inner, bodySlot, k.Body, out)
		}

	case ir.While:
		// Test runs once per iteration; only the body is a viable
		// candidate site.
		if k.Body != nil {
			bodySlot := singleSlot(stmt, func() *ir.Statement { return k.Body }, func(s *ir.Statement) { k.Body = s; stmt.Kind = k })
			walkStatementForCandidates(syms, bodySlot, k.Body, out)
		}

	case ir.Do:
		// Test runs once per iteration; only the body is a viable
		// candidate site.
		if k.Body != nil {
			bodySlot := singleSlot(stmt, func() *ir.Statement { return k.Body }, func(s *ir.Statement) { k.Body = s; stmt.Kind = k })
			walkStatementForCandidates(syms, bodySlot, k.Body, out)
		}

	case ir.Switch:
		inner := k.Symbols
		if inner == nil {
			inner = syms
		}
		walkExprForCandidates(inner, slot, exprFieldSlot(stmt, func() *ir.Expression { return k.Value }, func(e *ir.Expression) { k.Value = e; stmt.Kind = k }), k.Value, out)
		for i := range k.Cases {
			i := i
			caseSlot := singleSlot(stmt, func() *ir.Statement { return k.Cases[i] }, func(s *ir.Statement) { k.Cases[i] = s })
			walkStatementForCandidates(inner, caseSlot, k.Cases[i], out)
		}

	case ir.SwitchCase:
		// SwitchCase.Value is a case label, never evaluated as a call
		// candidate site; only the body statements are walked.
		for i := range k.Statements {
			i := i
			caseStmtSlot := blockSlotOf(k.Statements, i)
			walkStatementForCandidates(syms, caseStmtSlot, k.Statements[i], out)
		}

	default:
		// Return, Break, Continue, Discard, InlineMarker, Nop: Return's
		// Expr is evaluated but a return is never itself replaced
		// in-place as an enclosing slot the same way a plain statement
		// is; its single-statement occupancy rules align with the
		// single-statement slots above when it appears under If/For/etc.
		if ret, ok := stmt.Kind.(ir.Return); ok && ret.Expr != nil {
			walkExprForCandidates(syms, slot, exprFieldSlot(stmt, func() *ir.Expression { return ret.Expr }, func(e *ir.Expression) { ret.Expr = e; stmt.Kind = ret }), ret.Expr, out)
		}
	}
}

// blockSlotOf is blockSlot for a bare statement slice not owned by a Block
// value (a SwitchCase's Statements).
func blockSlotOf(stmts []*ir.Statement, i int) Slot {
	return Slot{
		ID:  nextSlotID(),
		Get: func() *ir.Statement { return stmts[i] },
		Set: func(s *ir.Statement) { stmts[i] = s },
	}
}

// exprFieldSlot is a helper for constructing the "top of one statement's
// expression field" case. The enclosingSlot passed to the eventual
// Candidate is always the statement-list slot (blockSlot or a single-body
// slot); an ExprSlot built here becomes the Candidate's CallSlot when the
// call sits directly in that field, and otherwise only carries the walk
// down the expression tree.
func exprFieldSlot(_ *ir.Statement, get func() *ir.Expression, set func(*ir.Expression)) ExprSlot {
	return ExprSlot{Get: get, Set: set}
}

// walkExprForCandidates visits expr, reachable through exprSlot, recording
// a Candidate for every FunctionCall found, and recursing into every
// unconditionally-evaluated subexpression. enclosingSlot is the statement
// slot the candidate's rewrite will ultimately splice its prelude into.
func walkExprForCandidates(syms *ir.SymbolTable, enclosingSlot Slot, exprSlot ExprSlot, expr *ir.Expression, out *[]Candidate) {
	if expr == nil {
		return
	}
	switch k := expr.Kind.(type) {
	case ir.FunctionCall:
		for i := range k.Arguments {
			i := i
			argSlot := ExprSlot{
				Get: func() *ir.Expression { return k.Arguments[i] },
				Set: func(e *ir.Expression) { k.Arguments[i] = e },
			}
			walkExprForCandidates(syms, enclosingSlot, argSlot, k.Arguments[i], out)
		}
		if k.Callee != nil {
			*out = append(*out, Candidate{
				Symbols:       syms,
				EnclosingSlot: enclosingSlot,
				CallSlot:      exprSlot,
				Call:          k,
			})
		}

	case ir.ExternalFunctionCall:
		for i := range k.Arguments {
			i := i
			argSlot := ExprSlot{
				Get: func() *ir.Expression { return k.Arguments[i] },
				Set: func(e *ir.Expression) { k.Arguments[i] = e },
			}
			walkExprForCandidates(syms, enclosingSlot, argSlot, k.Arguments[i], out)
		}

	case ir.FieldAccess:
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Base }, func(e *ir.Expression) { k.Base = e; expr.Kind = k }), k.Base, out)

	case ir.IndexExpr:
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Base }, func(e *ir.Expression) { k.Base = e; expr.Kind = k }), k.Base, out)
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Index }, func(e *ir.Expression) { k.Index = e; expr.Kind = k }), k.Index, out)

	case ir.Swizzle:
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Base }, func(e *ir.Expression) { k.Base = e; expr.Kind = k }), k.Base, out)

	case ir.Constructor:
		for i := range k.Arguments {
			i := i
			argSlot := ExprSlot{
				Get: func() *ir.Expression { return k.Arguments[i] },
				Set: func(e *ir.Expression) { k.Arguments[i] = e },
			}
			walkExprForCandidates(syms, enclosingSlot, argSlot, k.Arguments[i], out)
		}

	case ir.UnaryExpr:
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Operand }, func(e *ir.Expression) { k.Operand = e; expr.Kind = k }), k.Operand, out)

	case ir.BinaryExpr:
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Left }, func(e *ir.Expression) { k.Left = e; expr.Kind = k }), k.Left, out)
		if !k.Op.IsShortCircuit() {
			walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Right }, func(e *ir.Expression) { k.Right = e; expr.Kind = k }), k.Right, out)
		}
		// A short-circuit operator's right operand is conditionally
		// evaluated; splicing an inlined prelude there would run it
		// unconditionally, so it is never visited.

	case ir.TernaryExpr:
		walkExprForCandidates(syms, enclosingSlot, exprFieldSlot(nil, func() *ir.Expression { return k.Test }, func(e *ir.Expression) { k.Test = e; expr.Kind = k }), k.Test, out)
		// True/False are conditionally evaluated; never visited.
	}
}
