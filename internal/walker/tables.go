package walker

import "connlint/internal/ir"

// recognizedRootKeys maps the fixed recognized top-level key set to the
// section kind each one produces. Scoring candidate mappings counts
// matches against this table.
var recognizedRootKeys = map[string]ir.Kind{
	"connection":         ir.KindConnection,
	"test":               ir.KindTest,
	"actions":            ir.KindActions,
	"triggers":           ir.KindTriggers,
	"methods":            ir.KindMethods,
	"object_definitions": ir.KindObjectDefinitions,
	"pick_lists":         ir.KindPickLists,
	"webhook_keys":       ir.KindWebhookKeys,
	"streams":            ir.KindStreams,
}

// descriptiveRootKeys are top-level keys that are neither sections nor
// unknown: they describe the connector and never trigger diagnostics.
var descriptiveRootKeys = map[string]bool{
	"title":       true,
	"description": true,
}

// Required sub-keys per member kind. Missing entries produce
// *_missing_required_keys warnings listing exactly the absent ones.
var (
	requiredActionKeys  = []string{"input_fields", "execute", "output_fields"}
	requiredTriggerKeys = []string{"input_fields", "output_fields", "dedup"}
)

// Sub-keys whose values are expected to be block/lambda bodies and get
// registered into the call graph.
var (
	actionLambdaKeys = []string{"input_fields", "execute", "output_fields", "sample_output"}

	triggerLambdaKeys = []string{
		"input_fields", "output_fields", "dedup", "sample_output",
		"poll", "webhook_notification", "webhook_subscribe", "webhook_unsubscribe",
	}

	streamLambdaKeys = []string{"poll"}
)

// httpVerbs is the fixed outbound HTTP verb set.
var httpVerbs = map[string]bool{
	"get":     true,
	"post":    true,
	"put":     true,
	"patch":   true,
	"delete":  true,
	"options": true,
	"head":    true,
}

// dispatchCall is the capability-invocation primitive for internal
// method dispatch: call(:method_name, input).
const dispatchCall = "call"

// errorHandlerCalls register error handling on the owning body; they
// become synthetic self-edges in the graph.
var errorHandlerCalls = map[string]bool{
	"after_error_response": true,
}

// checkpointCalls mark streaming checkpoints; also synthetic self-edges.
var checkpointCalls = map[string]bool{
	"checkpoint":  true,
	"checkpoint!": true,
}

// dangerousCalls are explicitly unsafe primitives flagged wherever they
// appear inside a registered body.
var dangerousCalls = map[string]bool{
	"eval":   true,
	"system": true,
}
