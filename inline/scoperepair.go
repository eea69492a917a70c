package inline

import "github.com/gogpu/shaderinline/ir"

// spliceSlot installs prelude immediately before original at slot's
// position. Both cases fold prelude and original into one Block, since a
// Slot only ever addresses a single statement pointer and can't grow a
// parent list in place; the difference is whether that Block needs its own
// scope.
//
// When slot sits inside an ordinary statement list (a Block or
// SwitchCase body), the new Block nests inside the existing list scope and
// needs no scope of its own. When slot is the single statement directly
// occupying an if/for/while/do body, Scope Repair applies: the Block gets
// IsScope=true and a fresh, empty child SymbolTable of syms, so a
// brace-based emitter keeps the whole replacement inside the construct's
// body. The inlined temporaries themselves stay declared in syms, where
// InlineCall installed them.
func spliceSlot(syms *ir.SymbolTable, slot Slot, prelude []*ir.Statement, original *ir.Statement) {
	combined := make([]*ir.Statement, 0, len(prelude)+1)
	combined = append(combined, prelude...)
	combined = append(combined, original)

	blk := &ir.Block{Statements: combined}
	if slot.NeedsScopeRepair {
		blk.Symbols = ir.NewSymbolTable(syms)
		blk.IsScope = true
	}
	slot.Set(&ir.Statement{Offset: original.Offset, Kind: blk})
}
