package walker

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"connlint/internal/parser"
)

// Syntax helpers over the tree-sitter grammar. Everything here is
// defensive: malformed structure yields ("", false) rather than panics.

// hashPairs returns the pair children of a hash node in source order.
func hashPairs(hash *sitter.Node) []*sitter.Node {
	if hash == nil || hash.Type() != "hash" {
		return nil
	}
	var pairs []*sitter.Node
	for i := 0; i < int(hash.NamedChildCount()); i++ {
		child := hash.NamedChild(i)
		if child.Type() == "pair" {
			pairs = append(pairs, child)
		}
	}
	return pairs
}

// pairKey extracts the declared key name of a pair node, normalizing the
// three key spellings: `name:`, `:name =>`, `'name' =>`.
func pairKey(pair *sitter.Node, src []byte) (string, bool) {
	key := pair.ChildByFieldName("key")
	if key == nil {
		return "", false
	}
	switch key.Type() {
	case "hash_key_symbol", "identifier", "constant":
		return parser.Text(key, src), true
	case "simple_symbol":
		return strings.TrimPrefix(parser.Text(key, src), ":"), true
	case "string":
		return stringLiteral(key, src)
	default:
		return "", false
	}
}

// pairValue returns the value node of a pair.
func pairValue(pair *sitter.Node) *sitter.Node {
	return pair.ChildByFieldName("value")
}

// stringLiteral returns the content of a plain string literal with no
// interpolation.
func stringLiteral(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	if n.NamedChildCount() == 0 {
		return "", true // empty string literal
	}
	if n.NamedChildCount() != 1 {
		return "", false
	}
	content := n.NamedChild(0)
	if content.Type() != "string_content" {
		return "", false
	}
	return parser.Text(content, src), true
}

// resolveLambda resolves a value node to its block/lambda body. The
// dialect writes bodies three ways: `lambda do ... end`, `-> { ... }`,
// and a bare `proc { ... }`. Returns the node to scan and true, or
// (nil, false) when the value is not a lambda.
func resolveLambda(value *sitter.Node, src []byte) (*sitter.Node, bool) {
	if value == nil {
		return nil, false
	}
	switch value.Type() {
	case "lambda":
		if body := value.ChildByFieldName("body"); body != nil {
			return body, true
		}
		return value, true
	case "do_block", "block":
		return value, true
	case "call":
		method := parser.Text(value.ChildByFieldName("method"), src)
		if method != "lambda" && method != "proc" {
			return nil, false
		}
		if block := value.ChildByFieldName("block"); block != nil {
			return block, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// firstArg returns the first named argument of a call node, or nil.
func firstArg(call *sitter.Node) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	return args.NamedChild(0)
}

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*[!?]?$`)

// literalMethodName extracts a literal plain-identifier dispatch target
// from a call's first argument: `:find_user` or `'find_user'`. Anything
// else (variables, interpolation, expressions) is not statically
// resolvable.
func literalMethodName(arg *sitter.Node, src []byte) (string, bool) {
	if arg == nil {
		return "", false
	}
	var name string
	switch arg.Type() {
	case "simple_symbol":
		name = strings.TrimPrefix(parser.Text(arg, src), ":")
	case "string":
		s, ok := stringLiteral(arg, src)
		if !ok {
			return "", false
		}
		name = s
	default:
		return "", false
	}
	if !plainIdent.MatchString(name) {
		return "", false
	}
	return name, true
}
