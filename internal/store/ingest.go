package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"connlint/internal/ir"
)

// IngestRun records one analyzer run: a runs row, every atom, and the
// HTTP verb/endpoint facts pulled from the call graph. The whole run is
// written in a single transaction and the generated run id is returned.
func (s *Store) IngestRun(ctx context.Context, bundle *ir.Bundle, atoms []ir.Atom) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("ingest run: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	salvaged := 0
	if bundle.Salvaged {
		salvaged = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, path, tool_version, ir_version, salvaged, lines, issue_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, bundle.Path, ir.ToolVersion, ir.IRVersion, salvaged, bundle.Lines, len(bundle.Issues))
	if err != nil {
		return "", fmt.Errorf("ingest run: insert run: %w", err)
	}

	insertAtom, err := tx.PrepareContext(ctx, `
		INSERT INTO atoms (id, run_id, path, kind, name, line, col, start_byte, end_byte, docstring, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, id) DO NOTHING
	`)
	if err != nil {
		return "", fmt.Errorf("ingest run: prepare atoms: %w", err)
	}
	defer insertAtom.Close()

	for _, atom := range atoms {
		_, err := insertAtom.ExecContext(ctx,
			atom.ID, runID, atom.Path, atom.Kind, atom.Name,
			atom.Loc.Line, atom.Loc.Col, atom.Loc.StartByte, atom.Loc.EndByte,
			atom.Docstring, atom.Source,
		)
		if err != nil {
			return "", fmt.Errorf("ingest run: insert atom %s: %w", atom.Path, err)
		}
	}

	for _, edge := range bundle.Graph.Edges() {
		verb, endpoint, ok := splitHTTPLabel(edge.To)
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO http_calls (run_id, caller, verb, endpoint)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_id, caller, verb, endpoint) DO NOTHING
		`, runID, edge.From, verb, endpoint)
		if err != nil {
			return "", fmt.Errorf("ingest run: insert http call: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("ingest run: commit: %w", err)
	}
	return runID, nil
}

// splitHTTPLabel decomposes a graph label like "http:GET /api/users"
// into its verb and endpoint. The endpoint may be empty when the path
// argument was not a literal.
func splitHTTPLabel(label string) (verb, endpoint string, ok bool) {
	rest, found := strings.CutPrefix(label, "http:")
	if !found {
		return "", "", false
	}
	verb, endpoint, _ = strings.Cut(rest, " ")
	return verb, endpoint, true
}
