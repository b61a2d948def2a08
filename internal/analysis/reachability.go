package analysis

import (
	"fmt"

	"connlint/internal/ir"
)

// ReportUndefined emits one undefined_method warning per call site
// whose target method is never defined.
func ReportUndefined(calls []ir.Call, defined []string, issues *ir.Collector) {
	definedSet := map[string]bool{}
	for _, name := range defined {
		definedSet[name] = true
	}

	for _, call := range calls {
		if definedSet[call.Name] {
			continue
		}
		issues.Add(ir.Issue{
			Severity: ir.SeverityWarning,
			Code:     ir.CodeUndefinedMethod,
			Message:  fmt.Sprintf("%s calls undefined method %q", call.From, call.Name),
			Loc:      call.Loc,
			Context:  []string{call.Name, call.From},
		})
	}
}

// ReportUnused emits one unused_method info issue per method defined
// but never called, in definition order.
func ReportUnused(calls []ir.Call, defined []string, issues *ir.Collector) {
	called := map[string]bool{}
	for _, call := range calls {
		called[call.Name] = true
	}

	for _, name := range defined {
		if called[name] {
			continue
		}
		issues.Add(ir.Issue{
			Severity: ir.SeverityInfo,
			Code:     ir.CodeUnusedMethod,
			Message:  fmt.Sprintf("method %q is defined but never called", name),
			Context:  []string{name},
		})
	}
}

// Run executes the full post-walk analysis in a fixed order: cycles,
// then undefined call sites, then unused definitions.
func Run(calls []ir.Call, defined []string, issues *ir.Collector) {
	DetectCycles(calls, defined, issues)
	ReportUndefined(calls, defined, issues)
	ReportUnused(calls, defined, issues)
}
