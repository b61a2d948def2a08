package walker

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// minConnectorScore is the minimum number of recognized top-level keys a
// mapping must declare to be treated as the connector definition.
const minConnectorScore = 2

// locateConnector finds the most plausible connector definition: the
// literal key/value mapping with the highest count of recognized
// top-level keys, anywhere in the tree. Ties break to the first mapping
// encountered in stable pre-order, which keeps selection deterministic
// for byte-identical input. Returns nil when no mapping scores at least
// minConnectorScore.
func locateConnector(root *sitter.Node, src []byte) *sitter.Node {
	var best *sitter.Node
	bestScore := 0

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "hash" {
			score := scoreHash(n, src)
			// Strictly greater replaces: pre-order position wins ties.
			if score > bestScore {
				best = n
				bestScore = score
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	if bestScore < minConnectorScore {
		return nil
	}
	return best
}

// scoreHash counts the keys of a hash that belong to the recognized
// top-level key set.
func scoreHash(hash *sitter.Node, src []byte) int {
	score := 0
	for _, pair := range hashPairs(hash) {
		key, ok := pairKey(pair, src)
		if !ok {
			continue
		}
		if _, recognized := recognizedRootKeys[key]; recognized {
			score++
		}
	}
	return score
}
