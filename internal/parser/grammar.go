package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Grammar is one registered tree-sitter grammar for the connector dialect.
type Grammar struct {
	Name     string
	Version  string
	Language *sitter.Language
}

// grammars is the registry of available grammars, newest first. The
// connector dialect tracks the Ruby grammar; minor dialect revisions map
// onto whichever registered grammar is the closest match.
var grammars = []Grammar{
	{Name: "ruby", Version: "ruby-3", Language: ruby.GetLanguage()},
}

// defaultGrammar is the fallback when no registered grammar matches the
// requested dialect version.
var defaultGrammar = grammars[0]

// SelectGrammar returns the most compatible registered grammar for the
// requested dialect version, falling back to the default. An empty
// version always selects the default.
func SelectGrammar(version string) Grammar {
	if version == "" {
		return defaultGrammar
	}
	for _, g := range grammars {
		if g.Version == version || g.Name == version {
			return g
		}
	}
	return defaultGrammar
}
