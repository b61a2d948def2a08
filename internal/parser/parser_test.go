package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidSource(t *testing.T) {
	src := []byte(`{
  title: 'Demo',
  connection: {}
}
`)
	res := Parse(context.Background(), src, "")
	require.True(t, res.Usable())
	assert.Empty(t, res.Fatal)
	assert.Equal(t, "program", res.Tree.RootNode().Type())
}

func TestParse_RecoverableErrorsBecomeDiags(t *testing.T) {
	// Unclosed brace: tree-sitter still produces a tree with ERROR or
	// MISSING nodes rather than failing outright.
	src := []byte("{\n  title: 'Demo',\n")
	res := Parse(context.Background(), src, "")
	require.True(t, res.Usable())
	assert.NotEmpty(t, res.Diags)
}

func TestParse_EmptySource(t *testing.T) {
	res := Parse(context.Background(), nil, "")
	require.True(t, res.Usable())
	assert.Empty(t, res.Diags)
}

func TestSelectGrammar(t *testing.T) {
	assert.Equal(t, defaultGrammar, SelectGrammar(""))
	assert.Equal(t, defaultGrammar, SelectGrammar("no-such-dialect"))
	assert.Equal(t, "ruby", SelectGrammar("ruby-3").Name)
}

func TestCommentTable_Leading(t *testing.T) {
	src := []byte(`# Connects to the Example API.
# Requires an API key.
{
  title: 'Example'
}
`)
	res := Parse(context.Background(), src, "")
	require.True(t, res.Usable())

	got := res.Comments.Leading(3)
	assert.Equal(t, "Connects to the Example API.\nRequires an API key.", got)

	assert.Empty(t, res.Comments.Leading(1), "nothing precedes line 1")
}

func TestCommentTable_GapEndsBlock(t *testing.T) {
	src := []byte(`# stale comment

{
  title: 'Example'
}
`)
	res := Parse(context.Background(), src, "")
	require.True(t, res.Usable())

	// Blank line between comment and node: no association.
	assert.Empty(t, res.Comments.Leading(3))
}

func TestText_OutOfRange(t *testing.T) {
	assert.Empty(t, Text(nil, []byte("x")))
}
