package ir

import "encoding/json"

// Graph node classes, used by the DOT emitter to pick shapes.
const (
	GraphKindAction  = "action"
	GraphKindTrigger = "trigger"
	GraphKindMethod  = "method"
	GraphKindLambda  = "lambda"
	GraphKindHTTP    = "http"
	GraphKindOther   = "other"
)

// GraphNode is one vertex, identified by its qualified label
// (e.g. "action:create_invoice#execute", "method:find_user",
// "http:GET /api/users").
type GraphNode struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// GraphEdge is one directed edge between two labels.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

type edgeKey struct {
	from, to, label string
}

// Graph is a directed multigraph over call-graph participants.
// Nodes and edges are sets: duplicate registration is a no-op.
// Iteration order is insertion order, which keeps output deterministic.
type Graph struct {
	nodes     map[string]GraphNode
	nodeOrder []string
	edges     map[edgeKey]struct{}
	edgeOrder []GraphEdge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: map[string]GraphNode{},
		edges: map[edgeKey]struct{}{},
	}
}

// AddNode registers a vertex. Re-registering an existing label is a no-op;
// the first kind wins.
func (g *Graph) AddNode(label, kind string) {
	if _, ok := g.nodes[label]; ok {
		return
	}
	g.nodes[label] = GraphNode{Label: label, Kind: kind}
	g.nodeOrder = append(g.nodeOrder, label)
}

// AddEdge registers a directed edge, creating endpoint nodes with kind
// "other" if they were not registered first. Duplicate edges are no-ops.
func (g *Graph) AddEdge(from, to, label string) {
	g.AddNode(from, GraphKindOther)
	g.AddNode(to, GraphKindOther)
	key := edgeKey{from, to, label}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = struct{}{}
	g.edgeOrder = append(g.edgeOrder, GraphEdge{From: from, To: to, Label: label})
}

// HasNode reports whether a label is registered.
func (g *Graph) HasNode(label string) bool {
	_, ok := g.nodes[label]
	return ok
}

// Nodes returns vertices in insertion order.
func (g *Graph) Nodes() []GraphNode {
	out := make([]GraphNode, 0, len(g.nodeOrder))
	for _, label := range g.nodeOrder {
		out = append(out, g.nodes[label])
	}
	return out
}

// Edges returns edges in insertion order.
func (g *Graph) Edges() []GraphEdge {
	out := make([]GraphEdge, len(g.edgeOrder))
	copy(out, g.edgeOrder)
	return out
}

// NodeCount returns the number of vertices.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// graphJSON is the flat wire shape shared by the JSON emitters.
type graphJSON struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// MarshalJSON encodes the graph as flat node/edge lists.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{Nodes: g.Nodes(), Edges: g.Edges()})
}

// UnmarshalJSON rebuilds the graph from flat node/edge lists.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var flat graphJSON
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	g.nodes = map[string]GraphNode{}
	g.nodeOrder = nil
	g.edges = map[edgeKey]struct{}{}
	g.edgeOrder = nil
	for _, n := range flat.Nodes {
		g.AddNode(n.Label, n.Kind)
	}
	for _, e := range flat.Edges {
		g.AddEdge(e.From, e.To, e.Label)
	}
	return nil
}
