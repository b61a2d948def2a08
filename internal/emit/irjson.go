package emit

import "connlint/internal/ir"

// irDocument is the top-level IR artifact shape. The version fields let
// downstream consumers reject documents they do not understand.
type irDocument struct {
	Tool      string     `json:"tool"`
	Version   string     `json:"version"`
	IRVersion string     `json:"ir_version"`
	Bundle    *ir.Bundle `json:"bundle"`
}

func renderIR(bundle *ir.Bundle, opts Options) ([]byte, error) {
	doc := irDocument{
		Tool:      ir.ToolName,
		Version:   ir.ToolVersion,
		IRVersion: ir.IRVersion,
		Bundle:    bundle,
	}
	return marshal(doc, opts.Pretty)
}
