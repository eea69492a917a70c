package inline

import (
	"strconv"
	"strings"

	"github.com/gogpu/shaderinline/ir"
)

// namer generates symbol-table-unique identifiers for inlined temporaries.
// Its counter is monotonically increasing and persists across calls, so
// names are unique per inliner lifetime rather than merely per call site.
type namer struct {
	counter int
}

// unique produces a name of the form "_<N><sep><base>" where sep is "_"
// unless base already starts with "_" (in which case sep is empty, to
// avoid the forbidden "__" digraph), retrying with the next N until the
// name is unused anywhere in dst's lookup chain.
func (n *namer) unique(dst *ir.SymbolTable, base string) string {
	sep := "_"
	if strings.HasPrefix(base, "_") {
		sep = ""
	}
	for {
		candidate := "_" + strconv.Itoa(n.counter) + sep + base
		n.counter++
		if !dst.Has(candidate) {
			return dst.OwnName(candidate)
		}
	}
}
