package walker

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"connlint/internal/ir"
	"connlint/internal/parser"
)

// httpLabelLimit caps the literal path fragment carried on an HTTP graph
// node label.
const httpLabelLimit = 50

// registerBody records a resolved block/lambda body: it adds the owning
// label to the graph, remembers the lambda record, and scans the body
// sub-tree for call expressions.
//
// A failure inside one body's traversal must not abort sibling bodies,
// so the scan recovers at this boundary and degrades to an issue.
func (w *Walker) registerBody(owner, role, graphKind string, body *sitter.Node) {
	label := owner
	if role != "body" {
		label = owner + "#" + role
	}
	w.graph.AddNode(label, graphKind)
	w.lambdas = append(w.lambdas, ir.Lambda{Owner: owner, Role: role, Loc: parser.NodeLoc(body)})
	w.bump("lambdas")

	defer func() {
		if r := recover(); r != nil {
			w.issues.Add(ir.Issue{
				Severity: ir.SeverityWarning,
				Code:     ir.CodeWalkRecovered,
				Message:  fmt.Sprintf("body scan failed for %s: %v", label, r),
				Loc:      parser.NodeLoc(body),
			})
		}
	}()

	w.scanCalls(label, body)
}

// scanCalls performs the full sub-tree scan of one body, classifying
// call expressions into HTTP calls, internal method dispatch,
// error-handler and checkpoint registrations, and dangerous primitives.
func (w *Walker) scanCalls(label string, body *sitter.Node) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call" {
			w.classifyCall(label, n)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
}

func (w *Walker) classifyCall(label string, call *sitter.Node) {
	method := parser.Text(call.ChildByFieldName("method"), w.src)
	switch {
	case httpVerbs[method]:
		w.registerHTTPCall(label, method, call)

	case method == dispatchCall:
		w.registerDispatch(label, call)

	case errorHandlerCalls[method]:
		w.graph.AddEdge(label, label, "error_handler")
		w.bump("error_handlers")

	case checkpointCalls[method]:
		w.graph.AddEdge(label, label, "checkpoint")
		w.bump("streaming_checkpoints")

	case dangerousCalls[method]:
		w.issues.Add(ir.Issue{
			Severity: ir.SeverityWarning,
			Code:     ir.CodeDangerousCall,
			Message:  fmt.Sprintf("call to dangerous primitive %q in %s", method, label),
			Loc:      parser.NodeLoc(call),
			Context:  []string{label, method},
		})
	}
}

// registerHTTPCall adds a synthetic HTTP node labeled with the verb and
// up to httpLabelLimit literal characters of the first argument, when
// the argument is a plain string literal.
func (w *Walker) registerHTTPCall(label, verb string, call *sitter.Node) {
	httpLabel := "http:" + strings.ToUpper(verb)
	if path, ok := stringLiteral(firstArg(call), w.src); ok && path != "" {
		if len(path) > httpLabelLimit {
			path = path[:httpLabelLimit]
		}
		httpLabel += " " + path
	}

	w.graph.AddNode(httpLabel, ir.GraphKindHTTP)
	w.graph.AddEdge(label, httpLabel, "calls")
	w.bump("http_calls")
	w.bump("http_" + verb)
}

// registerDispatch resolves a capability-invocation call. A literal
// plain-identifier first argument becomes a method-call record and a
// graph edge; a non-literal argument cannot be resolved statically and
// produces a dynamic_call warning with no edge. Precision over recall.
func (w *Walker) registerDispatch(label string, call *sitter.Node) {
	arg := firstArg(call)
	name, ok := literalMethodName(arg, w.src)
	if !ok {
		w.issues.Add(ir.Issue{
			Severity: ir.SeverityWarning,
			Code:     ir.CodeDynamicCall,
			Message:  fmt.Sprintf("dynamic method dispatch in %s cannot be resolved statically", label),
			Loc:      parser.NodeLoc(call),
			Context:  []string{label},
		})
		return
	}

	target := "method:" + name
	w.graph.AddNode(target, ir.GraphKindMethod)
	w.graph.AddEdge(label, target, "dispatch")
	w.calls = append(w.calls, ir.Call{From: label, To: target, Name: name, Loc: parser.NodeLoc(call)})
	w.bump("method_calls")
}

// scanSubshells is the file-wide scan for external-command-execution
// literals (backticks and %x), independent of registered bodies.
func (w *Walker) scanSubshells(root *sitter.Node) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "subshell" {
			w.issues.Add(ir.Issue{
				Severity: ir.SeverityWarning,
				Code:     ir.CodeDangerousXstr,
				Message:  "external command execution literal",
				Loc:      parser.NodeLoc(n),
			})
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
}
