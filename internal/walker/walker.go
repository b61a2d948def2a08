// Package walker locates the connector definition inside a parsed
// source file and extracts it into the IR: one Node per declared
// section, call-graph registrations for every block/lambda body, and
// Issues for structural and safety violations.
package walker

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"connlint/internal/ir"
	"connlint/internal/parser"
)

// Result is everything one walk produces. Calls and DefinedMethods feed
// the cycle/reachability analysis; the rest lands in the Bundle.
type Result struct {
	Root           *ir.Node
	Graph          *ir.Graph
	Stats          map[string]int
	Lambdas        []ir.Lambda
	Calls          []ir.Call
	DefinedMethods []string
}

// Walker carries the per-run state of one extraction pass.
type Walker struct {
	src      []byte
	comments *parser.CommentTable
	issues   *ir.Collector

	graph   *ir.Graph
	stats   map[string]int
	lambdas []ir.Lambda
	calls   []ir.Call

	defined    []string
	definedSet map[string]bool
}

// Walk runs the extraction over a usable parse result. Issues go to the
// shared collector; the walk itself never fails.
func Walk(parsed *parser.Result, issues *ir.Collector) *Result {
	w := &Walker{
		src:        parsed.Source,
		comments:   parsed.Comments,
		issues:     issues,
		graph:      ir.NewGraph(),
		stats:      map[string]int{},
		definedSet: map[string]bool{},
	}

	root := parsed.Tree.RootNode()

	// File-wide safety scan, independent of any registered body.
	w.scanSubshells(root)

	connector := locateConnector(root, w.src)
	if connector == nil {
		issues.Add(ir.Issue{
			Severity: ir.SeverityWarning,
			Code:     ir.CodeNoConnectorHash,
			Message:  "no mapping with at least two recognized connector keys found",
		})
		return w.result(nil)
	}

	return w.result(w.extractConnector(connector))
}

func (w *Walker) result(root *ir.Node) *Result {
	return &Result{
		Root:           root,
		Graph:          w.graph,
		Stats:          w.stats,
		Lambdas:        w.lambdas,
		Calls:          w.calls,
		DefinedMethods: w.defined,
	}
}

func (w *Walker) bump(counter string) {
	w.stats[counter]++
}

// extractConnector builds the connector root Node and one child per
// recognized declared section. The tree is assembled bottom-up: children
// are built first, then attached via copy.
func (w *Walker) extractConnector(hash *sitter.Node) *ir.Node {
	pairs := hashPairs(hash)

	name := "connector"
	var declaredKeys []string
	for _, pair := range pairs {
		key, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		declaredKeys = append(declaredKeys, key)
		if key == "title" {
			if title, ok := stringLiteral(pairValue(pair), w.src); ok && title != "" {
				name = title
			}
		}
	}

	meta := map[string]string{"root_keys": strings.Join(declaredKeys, ",")}
	if doc := w.comments.Leading(int(hash.StartPoint().Row) + 1); doc != "" {
		meta["docstring"] = doc
	}
	connector := ir.NewNode(ir.KindConnector, name, parser.NodeLoc(hash), meta)

	var sections []*ir.Node
	for _, pair := range pairs {
		key, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		if descriptiveRootKeys[key] {
			continue
		}
		kind, recognized := recognizedRootKeys[key]
		if !recognized {
			w.issues.Add(ir.Issue{
				Severity: ir.SeverityInfo,
				Code:     ir.CodeUnknownRootKey,
				Message:  fmt.Sprintf("unrecognized top-level key %q", key),
				Loc:      parser.NodeLoc(pair),
				Context:  []string{key},
			})
			continue
		}
		if section := w.extractSection(kind, pair); section != nil {
			sections = append(sections, section)
		}
	}

	return connector.WithChildren(sections...)
}

func (w *Walker) extractSection(kind ir.Kind, pair *sitter.Node) *ir.Node {
	value := pairValue(pair)
	loc := parser.NodeLoc(pair)

	switch kind {
	case ir.KindConnection:
		return w.extractConnection(value, loc)
	case ir.KindTest:
		return w.extractTest(value, loc)
	case ir.KindActions:
		return w.extractMembers(memberSpec{
			containerKind: ir.KindActions, memberKind: ir.KindAction,
			label: "action", graphKind: ir.GraphKindAction,
			required: requiredActionKeys, lambdaKeys: actionLambdaKeys,
			notHashCode: ir.CodeActionNotHash, missingCode: ir.CodeActionMissingKeys,
			duplicateCode: ir.CodeDuplicateAction, counter: "actions",
		}, value, loc)
	case ir.KindTriggers:
		return w.extractMembers(memberSpec{
			containerKind: ir.KindTriggers, memberKind: ir.KindTrigger,
			label: "trigger", graphKind: ir.GraphKindTrigger,
			required: requiredTriggerKeys, lambdaKeys: triggerLambdaKeys,
			notHashCode: ir.CodeTriggerNotHash, missingCode: ir.CodeTriggerMissingKeys,
			duplicateCode: ir.CodeDuplicateTrigger, counter: "triggers",
		}, value, loc)
	case ir.KindMethods:
		return w.extractMethods(value, loc)
	case ir.KindObjectDefinitions:
		return w.extractObjectDefinitions(value, loc)
	case ir.KindPickLists:
		return w.extractPickLists(value, loc)
	case ir.KindWebhookKeys:
		return w.extractWebhookKeys(value, loc)
	case ir.KindStreams:
		return w.extractStreams(value, loc)
	default:
		return nil
	}
}

func (w *Walker) extractConnection(value *sitter.Node, loc ir.Loc) *ir.Node {
	meta := map[string]string{}
	if keys := declaredKeys(value, w.src); len(keys) > 0 {
		meta["keys"] = strings.Join(keys, ",")
	}
	return ir.NewNode(ir.KindConnection, "connection", loc, meta)
}

func (w *Walker) extractTest(value *sitter.Node, loc ir.Loc) *ir.Node {
	node := ir.NewNode(ir.KindTest, "test", loc, nil)
	if body, ok := resolveLambda(value, w.src); ok {
		w.registerBody("test", "body", ir.GraphKindLambda, body)
	} else {
		w.addNotLambda("test", "body", loc)
	}
	return node
}

// memberSpec parameterizes action and trigger extraction, which differ
// only in tables and issue codes.
type memberSpec struct {
	containerKind ir.Kind
	memberKind    ir.Kind
	label         string
	graphKind     string
	required      []string
	lambdaKeys    []string
	notHashCode   string
	missingCode   string
	duplicateCode string
	counter       string
}

func (w *Walker) extractMembers(spec memberSpec, value *sitter.Node, loc ir.Loc) *ir.Node {
	container := ir.NewNode(spec.containerKind, string(spec.containerKind), loc, nil)

	seen := map[string]int{}
	var members []*ir.Node
	for _, pair := range hashPairs(value) {
		name, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		memberLoc := parser.NodeLoc(pair)
		w.bump(spec.counter)

		seen[name]++
		occurrence := seen[name]
		if occurrence > 1 {
			w.issues.Add(ir.Issue{
				Severity: ir.SeverityWarning,
				Code:     spec.duplicateCode,
				Message:  fmt.Sprintf("duplicate %s %q", spec.label, name),
				Loc:      memberLoc,
				Context:  []string{name},
			})
		}

		// Duplicate members register under occurrence-suffixed labels so
		// both stay addressable in the graph.
		owner := spec.label + ":" + name
		if occurrence > 1 {
			owner = fmt.Sprintf("%s:%s@%d", spec.label, name, occurrence)
		}

		memberValue := pairValue(pair)
		if memberValue == nil || memberValue.Type() != "hash" {
			w.issues.Add(ir.Issue{
				Severity: ir.SeverityWarning,
				Code:     spec.notHashCode,
				Message:  fmt.Sprintf("%s %q is not a mapping", spec.label, name),
				Loc:      memberLoc,
				Context:  []string{name},
			})
			members = append(members, ir.NewNode(spec.memberKind, name, memberLoc, nil))
			continue
		}

		keys := declaredKeys(memberValue, w.src)
		meta := map[string]string{"keys": strings.Join(keys, ",")}
		if occurrence > 1 {
			meta["occurrence"] = fmt.Sprintf("%d", occurrence)
		}

		if missing := missingKeys(spec.required, keys); len(missing) > 0 {
			w.issues.Add(ir.Issue{
				Severity: ir.SeverityWarning,
				Code:     spec.missingCode,
				Message:  fmt.Sprintf("%s %q missing required keys: %s", spec.label, name, strings.Join(missing, ", ")),
				Loc:      memberLoc,
				Context:  missing,
			})
		}

		w.registerMemberBodies(owner, spec.graphKind, spec.lambdaKeys, memberValue)
		members = append(members, ir.NewNode(spec.memberKind, name, memberLoc, meta))
	}

	return container.WithChildren(members...)
}

// registerMemberBodies resolves each relevant sub-key of a member to a
// block/lambda body and registers it into the call graph.
func (w *Walker) registerMemberBodies(owner, graphKind string, lambdaKeys []string, value *sitter.Node) {
	for _, pair := range hashPairs(value) {
		key, ok := pairKey(pair, w.src)
		if !ok || !contains(lambdaKeys, key) {
			continue
		}
		if body, ok := resolveLambda(pairValue(pair), w.src); ok {
			w.registerBody(owner, key, graphKind, body)
		} else {
			w.addNotLambda(owner, key, parser.NodeLoc(pair))
		}
	}
}

func (w *Walker) extractMethods(value *sitter.Node, loc ir.Loc) *ir.Node {
	container := ir.NewNode(ir.KindMethods, "methods", loc, nil)

	var members []*ir.Node
	for _, pair := range hashPairs(value) {
		name, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		memberLoc := parser.NodeLoc(pair)
		w.bump("methods")

		if !w.definedSet[name] {
			w.definedSet[name] = true
			w.defined = append(w.defined, name)
		}

		if body, ok := resolveLambda(pairValue(pair), w.src); ok {
			w.registerBody("method:"+name, "body", ir.GraphKindMethod, body)
		} else {
			w.addNotLambda("method:"+name, "body", memberLoc)
		}
		members = append(members, ir.NewNode(ir.KindMethod, name, memberLoc, nil))
	}

	return container.WithChildren(members...)
}

func (w *Walker) extractObjectDefinitions(value *sitter.Node, loc ir.Loc) *ir.Node {
	container := ir.NewNode(ir.KindObjectDefinitions, "object_definitions", loc, nil)

	var members []*ir.Node
	for _, pair := range hashPairs(value) {
		name, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		memberLoc := parser.NodeLoc(pair)
		w.bump("object_definitions")

		memberValue := pairValue(pair)
		keys := declaredKeys(memberValue, w.src)
		meta := map[string]string{}
		if len(keys) > 0 {
			meta["keys"] = strings.Join(keys, ",")
		}
		w.registerMemberBodies("object_definition:"+name, ir.GraphKindLambda, []string{"fields"}, memberValue)
		members = append(members, ir.NewNode(ir.KindObjectDefinition, name, memberLoc, meta))
	}

	return container.WithChildren(members...)
}

// extractPickLists registers each pick-list body. Pick lists have no
// member node kind: the container records the declared names and each
// body shows up in the lambda records and graph.
func (w *Walker) extractPickLists(value *sitter.Node, loc ir.Loc) *ir.Node {
	var names []string
	for _, pair := range hashPairs(value) {
		name, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		names = append(names, name)
		w.bump("pick_lists")

		if body, ok := resolveLambda(pairValue(pair), w.src); ok {
			w.registerBody("pick_list:"+name, "body", ir.GraphKindLambda, body)
		} else {
			w.addNotLambda("pick_list:"+name, "body", parser.NodeLoc(pair))
		}
	}

	meta := map[string]string{}
	if len(names) > 0 {
		meta["names"] = strings.Join(names, ",")
	}
	return ir.NewNode(ir.KindPickLists, "pick_lists", loc, meta)
}

// extractWebhookKeys handles the webhook_keys section, whose value is a
// single lambda rather than a container.
func (w *Walker) extractWebhookKeys(value *sitter.Node, loc ir.Loc) *ir.Node {
	node := ir.NewNode(ir.KindWebhookKeys, "webhook_keys", loc, nil)
	if body, ok := resolveLambda(value, w.src); ok {
		w.registerBody("webhook_keys", "body", ir.GraphKindLambda, body)
	} else {
		w.addNotLambda("webhook_keys", "body", loc)
	}
	return node
}

func (w *Walker) extractStreams(value *sitter.Node, loc ir.Loc) *ir.Node {
	container := ir.NewNode(ir.KindStreams, "streams", loc, nil)

	var members []*ir.Node
	for _, pair := range hashPairs(value) {
		name, ok := pairKey(pair, w.src)
		if !ok {
			continue
		}
		memberLoc := parser.NodeLoc(pair)
		w.bump("streams")

		memberValue := pairValue(pair)
		keys := declaredKeys(memberValue, w.src)
		meta := map[string]string{}
		if len(keys) > 0 {
			meta["keys"] = strings.Join(keys, ",")
		}
		w.registerMemberBodies("stream:"+name, ir.GraphKindLambda, streamLambdaKeys, memberValue)
		members = append(members, ir.NewNode(ir.KindStream, name, memberLoc, meta))
	}

	return container.WithChildren(members...)
}

func (w *Walker) addNotLambda(owner, role string, loc ir.Loc) {
	w.issues.Add(ir.Issue{
		Severity: ir.SeverityWarning,
		Code:     ir.CodeNotLambda,
		Message:  fmt.Sprintf("%s %s is not a block/lambda body", owner, role),
		Loc:      loc,
		Context:  []string{owner, role},
	})
}

// declaredKeys lists the keys of a hash value in source order; nil when
// the value is not a hash.
func declaredKeys(value *sitter.Node, src []byte) []string {
	var keys []string
	for _, pair := range hashPairs(value) {
		if key, ok := pairKey(pair, src); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// missingKeys returns the required keys absent from declared, sorted
// for stable issue context.
func missingKeys(required, declared []string) []string {
	have := map[string]bool{}
	for _, k := range declared {
		have[k] = true
	}
	var missing []string
	for _, k := range required {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

func contains(list []string, s string) bool {
	for _, have := range list {
		if have == s {
			return true
		}
	}
	return false
}
