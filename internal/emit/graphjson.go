package emit

import "connlint/internal/ir"

// renderGraphJSON writes the same graph as flat nodes/edges data for
// consumers that do not speak DOT.
func renderGraphJSON(bundle *ir.Bundle, opts Options) ([]byte, error) {
	return marshal(bundle.Graph, opts.Pretty)
}
