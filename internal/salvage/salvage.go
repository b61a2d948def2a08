// Package salvage is the degraded extraction path used when the full
// parser fails outright. It makes one linear token pass over the source,
// tracking brace nesting, and recovers the connector's top-level keys
// plus the member names declared under the action, trigger and method
// containers. This path must never raise: any internal failure yields an
// empty, annotated result.
package salvage

import (
	"fmt"

	"connlint/internal/ir"
)

// Member is one declared container entry found during salvage.
type Member struct {
	Name string `json:"name"`
	Loc  ir.Loc `json:"loc"`
}

// Result is the best-effort structural extraction.
type Result struct {
	RootKeys []string `json:"root_keys"`
	Actions  []Member `json:"actions"`
	Triggers []Member `json:"triggers"`
	Methods  []Member `json:"methods"`
	Notes    []string `json:"notes"`
}

// Scan limits. The forward scan is bounded so pathological input cannot
// make the fallback path slower than the parse it replaced.
const (
	maxTokens  = 1 << 20
	maxMembers = 10000
)

// Scan performs the salvage pass over src.
func Scan(src []byte) (result *Result) {
	result = &Result{}

	defer func() {
		if r := recover(); r != nil {
			result = &Result{Notes: []string{fmt.Sprintf("salvage recovered from internal failure: %v", r)}}
		}
	}()

	s := &scanner{src: src, line: 1}

	// Container currently being collected, if any.
	collecting := ""
	containerDepth := -1
	awaitingOpen := false

	for tokens := 0; tokens < maxTokens; tokens++ {
		tok, ok := s.next()
		if !ok {
			break
		}

		switch tok.kind {
		case tokLBrace:
			s.depth++
			if awaitingOpen {
				awaitingOpen = false
				containerDepth = s.depth
			}
		case tokRBrace:
			if s.depth > 0 {
				s.depth--
			} else {
				result.addNote("unbalanced closing brace at line %d", tok.loc.Line)
			}
			if collecting != "" && s.depth < containerDepth {
				collecting = ""
				containerDepth = -1
			}
		case tokLabel:
			// Root key: only trusted at nesting depth <= 1.
			if s.depth <= 1 && collecting == "" {
				result.RootKeys = appendUnique(result.RootKeys, tok.text)
				if isContainerKey(tok.text) {
					collecting = tok.text
					awaitingOpen = true
				}
			}
			if collecting != "" && !awaitingOpen && s.depth == containerDepth {
				result.addMember(collecting, Member{Name: tok.text, Loc: tok.loc})
			}
		}

		if len(result.Actions)+len(result.Triggers)+len(result.Methods) >= maxMembers {
			result.addNote("member limit reached; extraction truncated")
			break
		}
	}

	if s.depth != 0 {
		result.addNote("unbalanced braces: %d left open", s.depth)
	}
	if s.pos < len(s.src) {
		result.addNote("scan truncated before end of input")
	}
	return result
}

func (r *Result) addMember(container string, m Member) {
	switch container {
	case "actions":
		r.Actions = append(r.Actions, m)
	case "triggers":
		r.Triggers = append(r.Triggers, m)
	case "methods":
		r.Methods = append(r.Methods, m)
	}
}

func (r *Result) addNote(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func isContainerKey(key string) bool {
	return key == "actions" || key == "triggers" || key == "methods"
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
