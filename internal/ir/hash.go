package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without id collisions.
const (
	DomainNode = "connlint/node/v1"
	DomainAtom = "connlint/atom/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NodeID computes the content-addressed ID for a Node.
// Stable across runs given the same (kind, name, loc): byte-identical
// input always yields byte-identical ids.
func NodeID(kind Kind, name string, loc Loc) string {
	obj := map[string]any{
		"kind": string(kind),
		"name": name,
		"loc": map[string]any{
			"line":       loc.Line,
			"col":        loc.Col,
			"start_byte": loc.StartByte,
			"end_byte":   loc.EndByte,
		},
	}

	// The input is built from closed types above, so canonical marshal
	// cannot fail here.
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		panic(err)
	}
	return hashWithDomain(DomainNode, canonical)
}

// AtomID computes the content-addressed ID for a context atom, derived
// from its qualified path and location.
func AtomID(path string, loc Loc) string {
	obj := map[string]any{
		"path": path,
		"loc": map[string]any{
			"line":       loc.Line,
			"col":        loc.Col,
			"start_byte": loc.StartByte,
			"end_byte":   loc.EndByte,
		},
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		panic(err)
	}
	return hashWithDomain(DomainAtom, canonical)
}
