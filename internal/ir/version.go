package ir

// Version identifiers stamped into emitted artifacts.
const (
	// ToolName is the analyzer name used in SARIF and schema output.
	ToolName = "connlint"

	// ToolVersion is the analyzer release version.
	ToolVersion = "0.3.0"

	// IRVersion is the IR document schema version. Bump on any change
	// to the Bundle wire shape.
	IRVersion = "1"
)
