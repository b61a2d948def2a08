package ir

// Lambda is one discovered block/lambda body, recorded flat so downstream
// tools can address bodies without re-walking the tree.
type Lambda struct {
	Owner string `json:"owner"` // qualified label, e.g. "action:create_invoice"
	Role  string `json:"role"`  // sub-key, e.g. "execute", or "body" for methods
	Loc   Loc    `json:"loc"`
}

// Call is one resolved internal method dispatch, recorded for the
// cycle/reachability analysis.
type Call struct {
	From string `json:"from"` // owning label
	To   string `json:"to"`   // "method:<name>"
	Name string `json:"name"` // bare method name
	Loc  Loc    `json:"loc"`
}

// Bundle is the aggregate result of one analyzer run. It is created once
// per run and never mutated afterward; no state persists between runs
// beyond written output files.
type Bundle struct {
	Root     *Node          `json:"root"` // nil when no connector was found
	Issues   []Issue        `json:"issues"`
	Graph    *Graph         `json:"graph"`
	Stats    map[string]int `json:"stats"`
	Salvaged bool           `json:"salvaged"`
	Lambdas  []Lambda       `json:"lambdas"`

	// Run metadata carried for the human-readable emitters.
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// Stat returns a named counter, zero when absent.
func (b *Bundle) Stat(name string) int {
	if b.Stats == nil {
		return 0
	}
	return b.Stats[name]
}

// IssuesBySeverity returns the issues with the given severity, in order.
func (b *Bundle) IssuesBySeverity(sev Severity) []Issue {
	var out []Issue
	for _, issue := range b.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// NodesByKind returns every node of the given kind in pre-order.
func (b *Bundle) NodesByKind(kind Kind) []*Node {
	var out []*Node
	b.Root.Walk(func(n *Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}
