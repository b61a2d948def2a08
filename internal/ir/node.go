package ir

// Kind identifies the role of a Node in the connector tree.
type Kind string

// Node kinds, one per connector construct the walker understands.
const (
	KindConnector         Kind = "connector"
	KindConnection        Kind = "connection"
	KindTest              Kind = "test"
	KindMethods           Kind = "methods"
	KindMethod            Kind = "method"
	KindObjectDefinitions Kind = "object_definitions"
	KindObjectDefinition  Kind = "object_definition"
	KindActions           Kind = "actions"
	KindAction            Kind = "action"
	KindTriggers          Kind = "triggers"
	KindTrigger           Kind = "trigger"
	KindPickLists         Kind = "pick_lists"
	KindWebhookKeys       Kind = "webhook_keys"
	KindStreams           Kind = "streams"
	KindStream            Kind = "stream"
)

// Loc is a source position: 1-based line, 0-based column, byte range.
type Loc struct {
	Line      int `json:"line"`
	Col       int `json:"col"`
	StartByte int `json:"start_byte"`
	EndByte   int `json:"end_byte"`
}

// IsZero reports whether the location carries no position information.
func (l Loc) IsZero() bool {
	return l == Loc{}
}

// Node is one element of the IR tree. Nodes are immutable: trees are
// rebuilt bottom-up via WithChildren / WithChild, never mutated in place.
//
// The ID is a deterministic content-addressed hash of (kind, name, loc),
// so identical input always yields identical IDs.
type Node struct {
	ID       string            `json:"id"`
	Kind     Kind              `json:"kind"`
	Name     string            `json:"name"`
	Loc      Loc               `json:"loc"`
	Meta     map[string]string `json:"meta,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// NewNode constructs a leaf Node and computes its content-addressed ID.
// The meta map is copied; callers may reuse theirs.
func NewNode(kind Kind, name string, loc Loc, meta map[string]string) *Node {
	n := &Node{
		Kind: kind,
		Name: name,
		Loc:  loc,
		Meta: copyMeta(meta),
	}
	n.ID = NodeID(kind, name, loc)
	return n
}

// WithChildren returns a copy of n with the given children appended.
// The ID is unchanged: identity derives from (kind, name, loc) only.
func (n *Node) WithChildren(children ...*Node) *Node {
	out := *n
	out.Children = make([]*Node, 0, len(n.Children)+len(children))
	out.Children = append(out.Children, n.Children...)
	out.Children = append(out.Children, children...)
	return &out
}

// WithChild returns a copy of n with one child appended.
func (n *Node) WithChild(child *Node) *Node {
	return n.WithChildren(child)
}

// WithMeta returns a copy of n with one meta entry set.
func (n *Node) WithMeta(key, value string) *Node {
	out := *n
	out.Meta = copyMeta(n.Meta)
	if out.Meta == nil {
		out.Meta = map[string]string{}
	}
	out.Meta[key] = value
	return &out
}

// Walk visits n and every descendant in pre-order.
// The visit function returning false prunes that subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

func copyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
