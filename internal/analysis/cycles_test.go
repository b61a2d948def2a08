package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connlint/internal/ir"
)

func methodCall(from, to string, line int) ir.Call {
	return ir.Call{
		From: "method:" + from,
		To:   "method:" + to,
		Name: to,
		Loc:  ir.Loc{Line: line},
	}
}

func issuesWithCode(issues []ir.Issue, code string) []ir.Issue {
	var out []ir.Issue
	for _, issue := range issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

func TestDetectCycles_NoCalls(t *testing.T) {
	c := ir.NewCollector(0)
	DetectCycles(nil, []string{"a", "b"}, c)
	assert.Empty(t, c.Issues())
}

func TestDetectCycles_DAG(t *testing.T) {
	c := ir.NewCollector(0)
	calls := []ir.Call{
		methodCall("a", "b", 10),
		methodCall("b", "c", 20),
		methodCall("a", "c", 12),
	}
	DetectCycles(calls, []string{"a", "b", "c"}, c)
	assert.Empty(t, c.Issues(), "a DAG has no cycles")
}

func TestDetectCycles_TwoNodeCycle(t *testing.T) {
	c := ir.NewCollector(0)
	calls := []ir.Call{
		methodCall("a", "b", 10),
		methodCall("b", "a", 20),
	}
	DetectCycles(calls, []string{"a", "b"}, c)

	cycles := issuesWithCode(c.Issues(), ir.CodeMethodCycle)
	require.Len(t, cycles, 1, "exactly one cycle issue for A<->B")

	issue := cycles[0]
	assert.Equal(t, ir.SeverityError, issue.Severity)
	assert.Contains(t, issue.Message, "a")
	assert.Contains(t, issue.Message, "b")
	assert.ElementsMatch(t, []string{"a", "b"}, issue.Context)
	assert.NotZero(t, issue.Loc.Line, "located at a contained edge")
}

func TestDetectCycles_SelfRecursion(t *testing.T) {
	c := ir.NewCollector(0)
	calls := []ir.Call{methodCall("loop", "loop", 7)}
	DetectCycles(calls, []string{"loop"}, c)

	cycles := issuesWithCode(c.Issues(), ir.CodeMethodCycle)
	require.Len(t, cycles, 1)
	assert.Contains(t, cycles[0].Message, "calls itself")
	assert.Equal(t, []string{"loop"}, cycles[0].Context)
	assert.Equal(t, 7, cycles[0].Loc.Line)
}

func TestDetectCycles_NonMethodCallersIgnored(t *testing.T) {
	// An action calling a method does not form a method cycle even when
	// the method calls back into the same name space.
	c := ir.NewCollector(0)
	calls := []ir.Call{
		{From: "action:sync#execute", To: "method:page", Name: "page", Loc: ir.Loc{Line: 3}},
		methodCall("page", "fetch", 9),
	}
	DetectCycles(calls, []string{"page", "fetch"}, c)
	assert.Empty(t, c.Issues())
}

func TestDetectCycles_Deterministic(t *testing.T) {
	calls := []ir.Call{
		methodCall("a", "b", 1),
		methodCall("b", "c", 2),
		methodCall("c", "a", 3),
	}

	run := func() []ir.Issue {
		c := ir.NewCollector(0)
		DetectCycles(calls, []string{"a", "b", "c"}, c)
		return c.Issues()
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run(), "identical input must yield identical issues")
	}
}

func TestReportUndefined_PerCallSite(t *testing.T) {
	c := ir.NewCollector(0)
	calls := []ir.Call{
		{From: "action:a#execute", Name: "ghost", Loc: ir.Loc{Line: 4}},
		{From: "method:b", Name: "ghost", Loc: ir.Loc{Line: 9}},
		{From: "method:b", Name: "real", Loc: ir.Loc{Line: 10}},
	}
	ReportUndefined(calls, []string{"b", "real"}, c)

	undefined := issuesWithCode(c.Issues(), ir.CodeUndefinedMethod)
	require.Len(t, undefined, 2, "one warning per call site")
	assert.Equal(t, 4, undefined[0].Loc.Line)
	assert.Equal(t, 9, undefined[1].Loc.Line)
}

func TestReportUnused(t *testing.T) {
	c := ir.NewCollector(0)
	calls := []ir.Call{{From: "action:a#execute", Name: "used"}}
	ReportUnused(calls, []string{"used", "dormant"}, c)

	unused := issuesWithCode(c.Issues(), ir.CodeUnusedMethod)
	require.Len(t, unused, 1)
	assert.Equal(t, ir.SeverityInfo, unused[0].Severity)
	assert.Equal(t, []string{"dormant"}, unused[0].Context)
}

func TestRun_OrderIsStable(t *testing.T) {
	c := ir.NewCollector(0)
	calls := []ir.Call{
		methodCall("a", "a", 2),
		{From: "method:a", Name: "ghost", Loc: ir.Loc{Line: 5}},
	}
	Run(calls, []string{"a", "dormant"}, c)

	var codes []string
	for _, issue := range c.Issues() {
		codes = append(codes, issue.Code)
	}
	assert.Equal(t, []string{
		ir.CodeMethodCycle,
		ir.CodeUndefinedMethod,
		ir.CodeUnusedMethod,
	}, codes)
}
