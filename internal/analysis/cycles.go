// Package analysis runs the post-walk passes over collected call
// records: method-call cycle detection via Tarjan's strongly-connected
// components, plus the undefined/unused method sets. Everything here is
// a pure function over already-collected data; the syntax tree is never
// re-traversed.
package analysis

import (
	"fmt"
	"strings"

	"connlint/internal/ir"
)

// methodPrefix qualifies method labels in the call graph.
const methodPrefix = "method:"

// adjacency maps a method name to the method names it calls, in
// first-seen order.
type adjacency struct {
	edges map[string][]string
	nodes []string // deterministic visitation order
	seen  map[string]bool
}

func newAdjacency() *adjacency {
	return &adjacency{edges: map[string][]string{}, seen: map[string]bool{}}
}

func (a *adjacency) addNode(name string) {
	if a.seen[name] {
		return
	}
	a.seen[name] = true
	a.nodes = append(a.nodes, name)
}

func (a *adjacency) addEdge(from, to string) {
	a.addNode(from)
	a.addNode(to)
	for _, have := range a.edges[from] {
		if have == to {
			return
		}
	}
	a.edges[from] = append(a.edges[from], to)
}

// DetectCycles finds call cycles among internal methods and reports one
// method_cycle error per strongly-connected component of size > 1, plus
// one per self-calling singleton. The cycle is named in visitation
// order and located at an arbitrary contained edge.
func DetectCycles(calls []ir.Call, defined []string, issues *ir.Collector) {
	adj := newAdjacency()
	for _, name := range defined {
		adj.addNode(name)
	}

	// Edge location index: first call site seen for each method pair.
	edgeLoc := map[[2]string]ir.Loc{}
	for _, call := range calls {
		from, ok := strings.CutPrefix(call.From, methodPrefix)
		if !ok {
			continue // only method-to-method edges participate in cycles
		}
		adj.addEdge(from, call.Name)
		key := [2]string{from, call.Name}
		if _, have := edgeLoc[key]; !have {
			edgeLoc[key] = call.Loc
		}
	}

	for _, scc := range tarjanSCC(adj) {
		switch {
		case len(scc) > 1:
			path := reconstructCyclePath(scc, adj)
			loc := sccEdgeLoc(scc, adj, edgeLoc)
			issues.Add(ir.Issue{
				Severity: ir.SeverityError,
				Code:     ir.CodeMethodCycle,
				Message:  fmt.Sprintf("method call cycle: %s", strings.Join(path, " -> ")),
				Loc:      loc,
				Context:  scc,
			})
		case len(scc) == 1 && hasSelfLoop(scc[0], adj):
			name := scc[0]
			issues.Add(ir.Issue{
				Severity: ir.SeverityError,
				Code:     ir.CodeMethodCycle,
				Message:  fmt.Sprintf("method %q calls itself", name),
				Loc:      edgeLoc[[2]string{name, name}],
				Context:  []string{name},
			})
		}
	}
}

func hasSelfLoop(node string, adj *adjacency) bool {
	for _, neighbor := range adj.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// sccEdgeLoc picks the location of any recorded edge inside the SCC.
func sccEdgeLoc(scc []string, adj *adjacency, edgeLoc map[[2]string]ir.Loc) ir.Loc {
	inSCC := map[string]bool{}
	for _, n := range scc {
		inSCC[n] = true
	}
	for _, from := range scc {
		for _, to := range adj.edges[from] {
			if inSCC[to] {
				if loc, ok := edgeLoc[[2]string{from, to}]; ok {
					return loc
				}
			}
		}
	}
	return ir.Loc{}
}

// tarjanSCC finds strongly-connected components using Tarjan's
// algorithm. Visitation follows the adjacency's deterministic node
// order, so output is stable for identical input.
func tarjanSCC(adj *adjacency) [][]string {
	var (
		index   = 0
		stack   []string
		indices = map[string]int{}
		lowlink = map[string]int{}
		onStack = map[string]bool{}
		sccs    [][]string
	)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range adj.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// reconstructCyclePath walks edges inside the SCC from its first node
// back to itself, producing a readable cycle like [a b a].
func reconstructCyclePath(scc []string, adj *adjacency) []string {
	if len(scc) == 0 {
		return nil
	}
	inSCC := map[string]bool{}
	for _, n := range scc {
		inSCC[n] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := map[string]bool{}

	for {
		visited[current] = true

		next := ""
		for _, neighbor := range adj.edges[current] {
			if inSCC[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
