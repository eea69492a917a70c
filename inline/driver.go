package inline

import (
	"tlog.app/go/errors"

	"github.com/gogpu/shaderinline/ir"
)

// maxPassMultiplier bounds AnalyzeToFixpoint at (len(program.Elements)+1)
// times this factor, so a latent cycle in the safety/candidate logic cannot spin
// forever; ordinary programs converge in a handful of passes long before
// hitting it.
const maxPassMultiplier = 8

// Inliner runs the whole-program call-inlining pipeline: collect
// candidates, filter by per-function safety, rewrite a conflict-free
// subset, and repeat to a fixpoint.
type Inliner struct {
	ctx      *ir.Context
	settings Settings
	names    *namer
}

// Reset (re)configures the Inliner for a fresh run. ctx must be non-nil;
// it supplies the canonical bool type of the do-loop test and of the void
// call placeholder, and the concrete types that literal placeholder types
// are demoted to on cloned declarations.
func (in *Inliner) Reset(ctx *ir.Context, settings Settings) error {
	if ctx == nil {
		return errors.New("inline: Reset requires a non-nil Context")
	}
	in.ctx = ctx
	in.settings = settings
	in.names = &namer{}
	return nil
}

// Analyze runs one pass over prog: it collects every call candidate,
// discards the ones whose callee is unsafe to inline, then rewrites a
// maximal conflict-free subset (at most one rewrite per enclosing slot per
// pass, since rewriting a slot invalidates any other candidate sharing it).
// It reports whether any rewrite was made.
func (in *Inliner) Analyze(prog *ir.Program) bool {
	if prog == nil {
		return false
	}
	candidates := collectCandidates(prog)
	if len(candidates) == 0 {
		return false
	}

	safe := make(map[*ir.FunctionDeclaration]bool)
	isSafe := func(fn *ir.FunctionDeclaration) bool {
		if v, ok := safe[fn]; ok {
			return v
		}
		v := IsSafeToInline(in.settings, fn)
		safe[fn] = v
		return v
	}

	usedSlots := make(map[int]bool)
	changed := false

	for _, cand := range candidates {
		if !isSafe(cand.Call.Callee) {
			continue
		}
		if usedSlots[cand.EnclosingSlot.ID] {
			// Another candidate sharing this slot was already rewritten
			// this pass; defer to the next pass, since the slot's
			// current contents no longer match what was walked.
			continue
		}
		usedSlots[cand.EnclosingSlot.ID] = true

		enclosing := cand.EnclosingSlot.Get()
		result := InlineCall(in.ctx, in.names, in.settings, cand.Symbols, enclosing.Offset, cand.Call)

		cand.CallSlot.Set(result.Replacement)
		spliceSlot(cand.Symbols, cand.EnclosingSlot, result.Prelude, enclosing)
		changed = true
	}

	return changed
}

// AnalyzeToFixpoint repeatedly calls Analyze until a pass makes no change,
// or until the pass-count safety cap is reached, and returns the number of
// passes run.
func (in *Inliner) AnalyzeToFixpoint(prog *ir.Program) int {
	passCap := maxPassMultiplier
	if prog != nil {
		passCap = len(prog.Elements)*maxPassMultiplier + maxPassMultiplier
	}
	passes := 0
	for passes < passCap {
		passes++
		if !in.Analyze(prog) {
			break
		}
	}
	return passes
}
