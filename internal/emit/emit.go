// Package emit renders a Bundle into the requested output artifacts.
// Every emitter is a pure function of the Bundle (plus, for some, the
// raw source); none assumes another emitter ran first, and emitters
// needing source text degrade by skipping when it is unavailable.
package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"connlint/internal/ir"
	"connlint/internal/source"
)

// Kind names one output artifact.
type Kind string

const (
	KindIR        Kind = "ir"
	KindDot       Kind = "dot"
	KindGraphJSON Kind = "graphjson"
	KindSummary   Kind = "summary"
	KindEvents    Kind = "events"
	KindSARIF     Kind = "sarif"
	KindSchema    Kind = "schema"
	KindSourceMap Kind = "sourcemap"
	KindAtoms     Kind = "atoms"
	KindIndex     Kind = "index"
	KindPrompts   Kind = "prompts"
)

// suffixes maps each kind to its documented file suffix.
var suffixes = map[Kind]string{
	KindIR:        "ir.json",
	KindDot:       "graph.dot",
	KindGraphJSON: "graph.json",
	KindSummary:   "summary.md",
	KindEvents:    "events.ndjson",
	KindSARIF:     "sarif.json",
	KindSchema:    "schema.json",
	KindSourceMap: "sourcemap.json",
	KindAtoms:     "atoms.ndjson",
	KindIndex:     "atoms.db",
	KindPrompts:   "prompts.md",
}

// DefaultKinds is the standard emission set. The SQLite index and the
// prompt templates are opt-in.
func DefaultKinds() []Kind {
	return []Kind{
		KindIR, KindDot, KindGraphJSON, KindSummary, KindEvents,
		KindSARIF, KindSchema, KindSourceMap, KindAtoms,
	}
}

// AllKinds returns every known kind, in default-then-optional order.
func AllKinds() []Kind {
	return append(DefaultKinds(), KindIndex, KindPrompts)
}

// ParseKinds resolves user-supplied kind names. The special name "all"
// expands to every kind; an empty list means the default set.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return DefaultKinds(), nil
	}
	var kinds []Kind
	seen := map[Kind]bool{}
	add := func(k Kind) {
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	for _, name := range names {
		if name == "all" {
			for _, k := range AllKinds() {
				add(k)
			}
			continue
		}
		k := Kind(name)
		if _, ok := suffixes[k]; !ok {
			return nil, fmt.Errorf("unknown emission kind %q", name)
		}
		add(k)
	}
	return kinds, nil
}

// Options configures one emission pass.
type Options struct {
	Dir       string
	Base      string
	Pretty    bool
	GraphName string
	Source    *source.File // optional; source-dependent emitters skip when nil
}

// Filename returns the output path for a kind under the options.
func (o Options) Filename(kind Kind) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s.%s", o.Base, suffixes[kind]))
}

// renderers produce file content in memory. The SQLite index is the one
// kind written directly to disk instead.
var renderers = map[Kind]func(*ir.Bundle, Options) ([]byte, error){
	KindIR:        renderIR,
	KindDot:       renderDot,
	KindGraphJSON: renderGraphJSON,
	KindSummary:   renderSummary,
	KindEvents:    renderEvents,
	KindSARIF:     renderSARIF,
	KindSchema:    renderSchema,
	KindSourceMap: renderSourceMap,
	KindAtoms:     renderAtoms,
	KindPrompts:   renderPrompts,
}

// Render produces one artifact's content in memory without touching the
// filesystem. The index kind has no in-memory rendering.
func Render(kind Kind, bundle *ir.Bundle, opts Options) ([]byte, error) {
	render, ok := renderers[kind]
	if !ok {
		return nil, fmt.Errorf("kind %q has no in-memory rendering", kind)
	}
	return render(bundle, opts)
}

// Write renders each requested kind to one file under the output
// directory, creating the directory idempotently first. It returns the
// paths written, in request order.
func Write(bundle *ir.Bundle, kinds []Kind, opts Options) ([]string, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", opts.Dir, err)
	}

	var written []string
	for _, kind := range kinds {
		path := opts.Filename(kind)

		if kind == KindIndex {
			if err := writeIndex(bundle, path, opts); err != nil {
				return written, fmt.Errorf("emitting %s: %w", kind, err)
			}
			written = append(written, path)
			continue
		}

		render, ok := renderers[kind]
		if !ok {
			return written, fmt.Errorf("unknown emission kind %q", kind)
		}
		data, err := render(bundle, opts)
		if err != nil {
			return written, fmt.Errorf("emitting %s: %w", kind, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// marshal applies the pretty-print toggle uniformly.
func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
