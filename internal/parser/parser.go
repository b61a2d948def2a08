// Package parser turns connector source text into a full syntax tree
// using tree-sitter, decorated with source positions and a leading
// comment table. Parsing never raises: recoverable grammar errors become
// diagnostics, and a total failure is reported as a nil tree plus a
// fatal message so the caller can fall back to the salvage lexer.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"connlint/internal/ir"
)

// Diag is one non-fatal parse diagnostic.
type Diag struct {
	Message string
	Loc     ir.Loc
}

// Result is the outcome of one parse. When Tree is nil, Fatal explains
// why and the caller should use the salvage path.
type Result struct {
	Tree     *sitter.Tree
	Source   []byte
	Comments *CommentTable
	Diags    []Diag
	Fatal    string
	Grammar  Grammar
}

// Usable reports whether the parse produced a tree worth walking.
func (r *Result) Usable() bool {
	return r != nil && r.Tree != nil && r.Tree.RootNode() != nil
}

// maxDiags bounds the number of syntax diagnostics collected from one
// tree; pathological inputs produce one ERROR node per token.
const maxDiags = 25

// Parse parses src with the most compatible grammar for dialectVersion.
// It never panics: any failure inside the parser is converted into a
// fatal Result.
func Parse(ctx context.Context, src []byte, dialectVersion string) (result *Result) {
	grammar := SelectGrammar(dialectVersion)
	result = &Result{Source: src, Grammar: grammar}

	defer func() {
		if r := recover(); r != nil {
			result.Tree = nil
			result.Fatal = fmt.Sprintf("parser panic: %v", r)
		}
	}()

	p := sitter.NewParser()
	p.SetLanguage(grammar.Language)

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		result.Fatal = fmt.Sprintf("parse failed: %v", err)
		return result
	}
	if tree == nil || tree.RootNode() == nil {
		result.Fatal = "parse produced no tree"
		return result
	}

	result.Tree = tree
	result.Comments = collectComments(tree.RootNode(), src)
	result.Diags = collectDiags(tree.RootNode())
	return result
}

// collectDiags walks the tree and records ERROR and MISSING nodes as
// non-fatal diagnostics, capped at maxDiags.
func collectDiags(root *sitter.Node) []Diag {
	var diags []Diag

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if len(diags) >= maxDiags {
			return
		}
		if n.IsError() {
			diags = append(diags, Diag{
				Message: "syntax error",
				Loc:     NodeLoc(n),
			})
		} else if n.IsMissing() {
			diags = append(diags, Diag{
				Message: fmt.Sprintf("missing %s", n.Type()),
				Loc:     NodeLoc(n),
			})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return diags
}

// NodeLoc converts a tree-sitter node position to an IR location.
// Lines are 1-based, columns 0-based.
func NodeLoc(n *sitter.Node) ir.Loc {
	return ir.Loc{
		Line:      int(n.StartPoint().Row) + 1,
		Col:       int(n.StartPoint().Column),
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
}

// Text returns the source text of a node.
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}
