// Package inline implements a whole-program IR-to-IR function-call inliner
// for the shading-language IR defined in package ir.
//
// The pipeline runs as stages: a Returns Analyzer and Naming
// Service (returns.go, naming.go) feed an IR Cloner with Return Lowering
// (cloner.go), which a Call Rewriter (call.go) uses to build the
// replacement for one call site at a time. A Candidate Analyzer and Driver
// (candidates.go, driver.go) run a single traversal of the program, filter
// candidates by safety (safety.go), and apply rewrites to a disjoint subset
// per pass, re-running to a fixpoint. Scope Repair (scoperepair.go) patches
// up block scoping after a substitution lands inside an if/for/while/do
// body.
package inline

// CapabilitySet describes what the compilation target can express. The
// inliner consults it for exactly one fact: whether `do { } while(false)`
// loops are available to emulate early returns.
type CapabilitySet interface {
	CanUseDoLoops() bool
}

// StaticCaps is the simplest CapabilitySet: a fixed answer baked in at
// construction time.
type StaticCaps struct {
	DoLoops bool
}

// CanUseDoLoops implements CapabilitySet.
func (c StaticCaps) CanUseDoLoops() bool {
	return c.DoLoops
}

// Settings configures one inliner instance. It is read-only from the
// inliner's perspective; only the host compiler constructs or mutates it.
type Settings struct {
	// InlineThreshold bounds the IR node count of a non-inline-hinted,
	// multiply-called function: it is considered for inlining only while
	// its count is strictly below this value. Functions called at most
	// once are always tried, irrespective of this value.
	InlineThreshold int

	// Caps reports what the compilation target can express.
	Caps CapabilitySet
}

// DefaultSettings returns a Settings with a modest inline threshold and a
// capability set that permits do-loops.
func DefaultSettings() Settings {
	return Settings{
		InlineThreshold: 50,
		Caps:            StaticCaps{DoLoops: true},
	}
}

// canUseDoLoops reports whether s.Caps allows do-loop early-return
// emulation; a nil Caps is treated as not supporting do-loops, which is
// the conservative choice.
func (s Settings) canUseDoLoops() bool {
	return s.Caps != nil && s.Caps.CanUseDoLoops()
}
