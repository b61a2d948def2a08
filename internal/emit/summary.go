package emit

import (
	"bytes"
	"fmt"
	"sort"

	"connlint/internal/ir"
)

// summarySections lists the member kinds rendered as summary tables,
// in document order.
var summarySections = []struct {
	heading string
	kind    ir.Kind
}{
	{"Actions", ir.KindAction},
	{"Triggers", ir.KindTrigger},
	{"Methods", ir.KindMethod},
	{"Object definitions", ir.KindObjectDefinition},
	{"Streams", ir.KindStream},
}

// renderSummary writes the human-readable Markdown report.
func renderSummary(bundle *ir.Bundle, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	name := "connector"
	if bundle.Root != nil && bundle.Root.Name != "" {
		name = bundle.Root.Name
	}
	fmt.Fprintf(&buf, "# %s\n\n", name)
	fmt.Fprintf(&buf, "- **File:** `%s` (%d lines)\n", bundle.Path, bundle.Lines)
	if bundle.Salvaged {
		buf.WriteString("- **Mode:** salvage (full parse failed; results are partial)\n")
	}
	if bundle.Root != nil && bundle.Root.Meta["root_keys"] != "" {
		fmt.Fprintf(&buf, "- **Root keys:** %s\n", bundle.Root.Meta["root_keys"])
	}
	fmt.Fprintf(&buf, "- **Issues:** %d error(s), %d warning(s), %d info\n",
		len(bundle.IssuesBySeverity(ir.SeverityError)),
		len(bundle.IssuesBySeverity(ir.SeverityWarning)),
		len(bundle.IssuesBySeverity(ir.SeverityInfo)))

	if doc := rootDocstring(bundle); doc != "" {
		fmt.Fprintf(&buf, "\n> %s\n", doc)
	}

	for _, section := range summarySections {
		nodes := bundle.NodesByKind(section.kind)
		if len(nodes) == 0 {
			continue
		}
		sort.SliceStable(nodes, func(i, j int) bool {
			return nodes[i].Name < nodes[j].Name
		})
		fmt.Fprintf(&buf, "\n## %s (%d)\n\n", section.heading, len(nodes))
		buf.WriteString("| Name | Line |\n|---|---|\n")
		for _, n := range nodes {
			fmt.Fprintf(&buf, "| %s | %d |\n", n.Name, n.Loc.Line)
		}
	}

	if len(bundle.Issues) > 0 {
		fmt.Fprintf(&buf, "\n## Issues (%d)\n\n", len(bundle.Issues))
		buf.WriteString("| Severity | Code | Line | Message |\n|---|---|---|---|\n")
		for _, issue := range bundle.Issues {
			fmt.Fprintf(&buf, "| %s | %s | %d | %s |\n",
				issue.Severity, issue.Code, issue.Loc.Line, issue.Message)
		}
	}

	if len(bundle.Stats) > 0 {
		keys := make([]string, 0, len(bundle.Stats))
		for k := range bundle.Stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteString("\n## Counters\n\n")
		for _, k := range keys {
			fmt.Fprintf(&buf, "- %s: %d\n", k, bundle.Stats[k])
		}
	}

	return buf.Bytes(), nil
}

func rootDocstring(bundle *ir.Bundle) string {
	if bundle.Root == nil {
		return ""
	}
	return bundle.Root.Meta["docstring"]
}
