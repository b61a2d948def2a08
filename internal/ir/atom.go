package ir

// Atom is one self-contained context record: a node or lambda body
// addressed by its qualified path, suitable for bulk ingestion into an
// external index. Atoms are derived from a Bundle and carry enough
// context to be consumed without the rest of the tree.
type Atom struct {
	ID        string `json:"id"`
	Path      string `json:"path"` // slash-qualified, e.g. "connector/actions/action:create_invoice"
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Loc       Loc    `json:"loc"`
	Docstring string `json:"docstring,omitempty"`
	Source    string `json:"source,omitempty"`
}
