package emit

import "connlint/internal/ir"

// schemaDocument describes the shape of the IR artifact so consumers can
// validate what they are reading without access to this codebase.
type schemaDocument struct {
	Tool       string            `json:"tool"`
	Version    string            `json:"version"`
	IRVersion  string            `json:"ir_version"`
	NodeKinds  []string          `json:"node_kinds"`
	GraphKinds []string          `json:"graph_kinds"`
	Severities []string          `json:"severities"`
	IssueCodes []string          `json:"issue_codes"`
	Artifacts  map[string]string `json:"artifacts"`
}

func renderSchema(bundle *ir.Bundle, opts Options) ([]byte, error) {
	artifacts := make(map[string]string, len(suffixes))
	for kind, suffix := range suffixes {
		artifacts[string(kind)] = suffix
	}

	doc := schemaDocument{
		Tool:      ir.ToolName,
		Version:   ir.ToolVersion,
		IRVersion: ir.IRVersion,
		NodeKinds: []string{
			string(ir.KindConnector), string(ir.KindConnection), string(ir.KindTest),
			string(ir.KindMethods), string(ir.KindMethod),
			string(ir.KindObjectDefinitions), string(ir.KindObjectDefinition),
			string(ir.KindActions), string(ir.KindAction),
			string(ir.KindTriggers), string(ir.KindTrigger),
			string(ir.KindPickLists), string(ir.KindWebhookKeys),
			string(ir.KindStreams), string(ir.KindStream),
		},
		GraphKinds: []string{
			ir.GraphKindAction, ir.GraphKindTrigger, ir.GraphKindMethod,
			ir.GraphKindLambda, ir.GraphKindHTTP, ir.GraphKindOther,
		},
		Severities: []string{
			string(ir.SeverityInfo), string(ir.SeverityWarning), string(ir.SeverityError),
		},
		IssueCodes: []string{
			ir.CodeParseFailed, ir.CodeSyntaxError, ir.CodeNoConnectorHash,
			ir.CodeUnknownRootKey, ir.CodeActionNotHash, ir.CodeTriggerNotHash,
			ir.CodeActionMissingKeys, ir.CodeTriggerMissingKeys,
			ir.CodeDuplicateAction, ir.CodeDuplicateTrigger, ir.CodeNotLambda,
			ir.CodeDynamicCall, ir.CodeDangerousCall, ir.CodeDangerousXstr,
			ir.CodeMethodCycle, ir.CodeUndefinedMethod, ir.CodeUnusedMethod,
			ir.CodeWarningCapReached, ir.CodeSalvageNote, ir.CodeWalkRecovered,
		},
		Artifacts: artifacts,
	}
	return marshal(doc, opts.Pretty)
}
