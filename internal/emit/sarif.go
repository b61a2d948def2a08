package emit

import "connlint/internal/ir"

// Minimal SARIF 2.1.0 document shapes. Only the fields viewers actually
// consume are emitted.
type sarifDocument struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

var sarifLevels = map[ir.Severity]string{
	ir.SeverityInfo:    "note",
	ir.SeverityWarning: "warning",
	ir.SeverityError:   "error",
}

// renderSARIF maps the issue list onto SARIF for code-review tooling.
// Each distinct issue code becomes a rule, in first-appearance order.
func renderSARIF(bundle *ir.Bundle, opts Options) ([]byte, error) {
	var rules []sarifRule
	seen := map[string]bool{}
	results := make([]sarifResult, 0, len(bundle.Issues))

	for _, issue := range bundle.Issues {
		if !seen[issue.Code] {
			seen[issue.Code] = true
			rules = append(rules, sarifRule{ID: issue.Code})
		}

		result := sarifResult{
			RuleID:  issue.Code,
			Level:   sarifLevels[issue.Severity],
			Message: sarifMessage{Text: issue.Message},
		}
		if !issue.Loc.IsZero() {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: bundle.Path},
					Region: &sarifRegion{
						StartLine:   issue.Loc.Line,
						StartColumn: issue.Loc.Col + 1,
					},
				},
			}}
		}
		results = append(results, result)
	}

	doc := sarifDocument{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    ir.ToolName,
				Version: ir.ToolVersion,
				Rules:   rules,
			}},
			Results: results,
		}},
	}
	return marshal(doc, opts.Pretty)
}
