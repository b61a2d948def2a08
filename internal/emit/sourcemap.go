package emit

import "connlint/internal/ir"

// sourceMapEntry resolves one node id back to its source position.
type sourceMapEntry struct {
	Kind ir.Kind `json:"kind"`
	Name string  `json:"name"`
	Loc  ir.Loc  `json:"loc"`
}

type sourceMapDocument struct {
	Path      string                    `json:"path"`
	IRVersion string                    `json:"ir_version"`
	Nodes     map[string]sourceMapEntry `json:"nodes"`
}

// renderSourceMap writes the id-to-location index over every IR node.
func renderSourceMap(bundle *ir.Bundle, opts Options) ([]byte, error) {
	nodes := map[string]sourceMapEntry{}
	if bundle.Root != nil {
		bundle.Root.Walk(func(n *ir.Node) bool {
			nodes[n.ID] = sourceMapEntry{Kind: n.Kind, Name: n.Name, Loc: n.Loc}
			return true
		})
	}
	doc := sourceMapDocument{
		Path:      bundle.Path,
		IRVersion: ir.IRVersion,
		Nodes:     nodes,
	}
	return marshal(doc, opts.Pretty)
}
