package ir

// Severity classifies an Issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Stable rule identifiers. Emitters treat these as rule IDs (SARIF rules,
// event types), so they must never be renamed once published.
const (
	CodeParseFailed           = "parse_failed"
	CodeSyntaxError           = "syntax_error"
	CodeNoConnectorHash       = "no_connector_hash"
	CodeUnknownRootKey        = "unknown_root_key"
	CodeActionNotHash         = "action_not_hash"
	CodeTriggerNotHash        = "trigger_not_hash"
	CodeActionMissingKeys     = "action_missing_required_keys"
	CodeTriggerMissingKeys    = "trigger_missing_required_keys"
	CodeDuplicateAction       = "duplicate_action"
	CodeDuplicateTrigger      = "duplicate_trigger"
	CodeNotLambda             = "not_lambda"
	CodeDynamicCall           = "dynamic_call"
	CodeDangerousCall         = "dangerous_call"
	CodeDangerousXstr         = "dangerous_xstr"
	CodeMethodCycle           = "method_cycle"
	CodeUndefinedMethod       = "undefined_method"
	CodeUnusedMethod          = "unused_method"
	CodeWarningCapReached     = "warning_cap_reached"
	CodeSalvageNote           = "salvage_note"
	CodeWalkRecovered         = "walk_recovered"
)

// Issue is one diagnostic attached to a Bundle. Issues never abort
// processing; they accumulate and ride along with the result.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Loc      Loc      `json:"loc"`
	Context  []string `json:"context,omitempty"`
}

// Collector accumulates Issues and enforces the warning cap.
//
// Warning-severity issues are capped at maxWarnings; once the cap is
// exceeded a single synthetic warning_cap_reached info issue is appended
// and further warnings are dropped. Error and info issues are never capped.
type Collector struct {
	maxWarnings int
	warnings    int
	capped      bool
	issues      []Issue
}

// DefaultMaxWarnings is the default warning cap.
const DefaultMaxWarnings = 10000

// NewCollector creates a Collector with the given warning cap.
// A cap of zero or below means DefaultMaxWarnings.
func NewCollector(maxWarnings int) *Collector {
	if maxWarnings <= 0 {
		maxWarnings = DefaultMaxWarnings
	}
	return &Collector{maxWarnings: maxWarnings}
}

// Add records an issue, applying the warning cap.
func (c *Collector) Add(issue Issue) {
	if issue.Severity != SeverityWarning {
		c.issues = append(c.issues, issue)
		return
	}
	if c.warnings >= c.maxWarnings {
		if !c.capped {
			c.capped = true
			c.issues = append(c.issues, Issue{
				Severity: SeverityInfo,
				Code:     CodeWarningCapReached,
				Message:  "warning cap reached; further warnings dropped",
			})
		}
		return
	}
	c.warnings++
	c.issues = append(c.issues, issue)
}

// Issues returns the collected issues in insertion order.
func (c *Collector) Issues() []Issue {
	return c.issues
}

// WarningCount returns the number of warnings kept (post-cap).
func (c *Collector) WarningCount() int {
	return c.warnings
}
