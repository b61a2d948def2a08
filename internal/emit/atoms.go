package emit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"connlint/internal/ir"
)

// maxAtomSource caps the source excerpt carried per atom.
const maxAtomSource = 2000

// BuildAtoms flattens a bundle into context atoms: one per IR node plus
// one per lambda body. Order is pre-order over the tree followed by the
// lambda list, so identical bundles yield identical atom streams.
func BuildAtoms(bundle *ir.Bundle, opts Options) []ir.Atom {
	var atoms []ir.Atom

	slice := func(loc ir.Loc) string {
		if opts.Source == nil {
			return ""
		}
		return string(opts.Source.Slice(loc.StartByte, loc.EndByte, maxAtomSource))
	}

	var walk func(n *ir.Node, parent string)
	walk = func(n *ir.Node, parent string) {
		path := fmt.Sprintf("%s:%s", n.Kind, n.Name)
		if parent != "" {
			path = parent + "/" + path
		}
		atoms = append(atoms, ir.Atom{
			ID:        ir.AtomID(path, n.Loc),
			Path:      path,
			Kind:      string(n.Kind),
			Name:      n.Name,
			Loc:       n.Loc,
			Docstring: n.Meta["docstring"],
			Source:    slice(n.Loc),
		})
		for _, c := range n.Children {
			walk(c, path)
		}
	}
	if bundle.Root != nil {
		walk(bundle.Root, "")
	}

	for _, lam := range bundle.Lambdas {
		path := lam.Owner + "/" + lam.Role
		atoms = append(atoms, ir.Atom{
			ID:     ir.AtomID(path, lam.Loc),
			Path:   path,
			Kind:   "lambda",
			Name:   lam.Role,
			Loc:    lam.Loc,
			Source: slice(lam.Loc),
		})
	}
	return atoms
}

// renderAtoms writes atoms as NDJSON, one compact object per line.
func renderAtoms(bundle *ir.Bundle, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, atom := range BuildAtoms(bundle, opts) {
		if err := enc.Encode(atom); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
