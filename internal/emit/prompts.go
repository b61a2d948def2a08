package emit

import (
	"bytes"
	"fmt"

	"connlint/internal/ir"
)

// renderPrompts writes fixed review-prompt boilerplate. It lives here
// only because it shares the output-writing mechanism; the content does
// not depend on the analyzed connector beyond the artifact base name.
func renderPrompts(bundle *ir.Bundle, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Connector review prompts\n\n")
	buf.WriteString("Templates for reviewing an analyzed connector. Attach the\n")
	buf.WriteString("artifacts named below to whichever tool consumes the prompt.\n")

	fmt.Fprintf(&buf, `
## Structure review

Given the intermediate representation in %s.ir.json, summarize the
connector's actions, triggers, and reusable methods. Flag any action
missing input_fields, execute, or output_fields, and any trigger missing
input_fields, output_fields, or dedup.

## Call-graph review

Given the call graph in %s.graph.json (or %s.graph.dot), identify
methods that are unreachable from any action or trigger, dispatches to
methods that are never defined, and any cycles among method bodies.

## HTTP surface review

Given the event stream in %s.events.ndjson, list every outbound HTTP
call with its verb and endpoint, and note calls made from unexpected
owners such as pick lists or object definitions.

## Issue triage

Given the findings in %s.sarif.json, group results by rule, order the
groups by severity, and propose a fix for each error-level result.
`, opts.Base, opts.Base, opts.Base, opts.Base, opts.Base)

	return buf.Bytes(), nil
}
