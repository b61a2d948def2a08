package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CommentTable associates comments with the lines they end on, so the
// walker can recover the comment block immediately preceding a node.
type CommentTable struct {
	byEndLine map[int]string // 1-based line -> stripped comment text
}

// collectComments gathers every comment node in the tree.
func collectComments(root *sitter.Node, src []byte) *CommentTable {
	table := &CommentTable{byEndLine: map[int]string{}}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			line := int(n.EndPoint().Row) + 1
			table.byEndLine[line] = stripMarker(Text(n, src))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return table
}

// Leading returns the text of the comment lines immediately preceding
// startLine, in source order, with comment markers stripped. A gap of a
// single non-comment line ends the block.
func (t *CommentTable) Leading(startLine int) string {
	if t == nil {
		return ""
	}

	var lines []string
	for line := startLine - 1; line >= 1; line-- {
		text, ok := t.byEndLine[line]
		if !ok {
			break
		}
		lines = append(lines, text)
	}
	if len(lines) == 0 {
		return ""
	}

	// Collected bottom-up; restore source order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

// stripMarker removes the leading comment marker and one space.
func stripMarker(text string) string {
	text = strings.TrimPrefix(text, "#")
	return strings.TrimPrefix(text, " ")
}
