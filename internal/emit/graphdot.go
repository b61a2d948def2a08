package emit

import (
	"bytes"
	"fmt"
	"strings"

	"connlint/internal/ir"
)

// nodeShapes maps graph node kinds to DOT shapes.
var nodeShapes = map[string]string{
	ir.GraphKindAction:  "box",
	ir.GraphKindTrigger: "diamond",
	ir.GraphKindMethod:  "oval",
	ir.GraphKindLambda:  "ellipse",
	ir.GraphKindHTTP:    "parallelogram",
	ir.GraphKindOther:   "plain",
}

// renderDot writes the call graph as a directed DOT description: one
// shaped node per vertex, one line per edge.
func renderDot(bundle *ir.Bundle, opts Options) ([]byte, error) {
	name := opts.GraphName
	if name == "" {
		name = "connector"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  rankdir=LR;\n")

	for _, node := range bundle.Graph.Nodes() {
		shape := nodeShapes[node.Kind]
		if shape == "" {
			shape = nodeShapes[ir.GraphKindOther]
		}
		fmt.Fprintf(&buf, "  %q [shape=%s];\n", escapeDot(node.Label), shape)
	}

	for _, edge := range bundle.Graph.Edges() {
		if edge.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
				escapeDot(edge.From), escapeDot(edge.To), escapeDot(edge.Label))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", escapeDot(edge.From), escapeDot(edge.To))
		}
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// escapeDot neutralizes characters that would break a quoted DOT id.
// %q at the call sites handles quotes; newlines are flattened here.
func escapeDot(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
