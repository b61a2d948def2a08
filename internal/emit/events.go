package emit

import (
	"bytes"
	"encoding/json"
	"strings"

	"connlint/internal/ir"
)

// event is one NDJSON record for streaming consumers. Type discriminates
// the payload: "issue", "http_call", or the trailing "run_summary".
type event struct {
	Type     string         `json:"type"`
	Severity ir.Severity    `json:"severity,omitempty"`
	Code     string         `json:"code,omitempty"`
	Message  string         `json:"message,omitempty"`
	Loc      *ir.Loc        `json:"loc,omitempty"`
	Context  []string       `json:"context,omitempty"`
	From     string         `json:"from,omitempty"`
	To       string         `json:"to,omitempty"`
	Path     string         `json:"path,omitempty"`
	Salvaged bool           `json:"salvaged,omitempty"`
	Stats    map[string]int `json:"stats,omitempty"`
}

// renderEvents writes the event stream: one line per issue, one per
// outbound HTTP call edge, and a final run summary line.
func renderEvents(bundle *ir.Bundle, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, issue := range bundle.Issues {
		loc := issue.Loc
		ev := event{
			Type:     "issue",
			Severity: issue.Severity,
			Code:     issue.Code,
			Message:  issue.Message,
			Context:  issue.Context,
		}
		if !loc.IsZero() {
			ev.Loc = &loc
		}
		if err := enc.Encode(ev); err != nil {
			return nil, err
		}
	}

	for _, edge := range bundle.Graph.Edges() {
		if !strings.HasPrefix(edge.To, "http:") {
			continue
		}
		ev := event{Type: "http_call", From: edge.From, To: edge.To}
		if err := enc.Encode(ev); err != nil {
			return nil, err
		}
	}

	summary := event{
		Type:     "run_summary",
		Path:     bundle.Path,
		Salvaged: bundle.Salvaged,
		Stats:    bundle.Stats,
	}
	if err := enc.Encode(summary); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
