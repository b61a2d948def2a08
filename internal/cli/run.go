package cli

import (
	"context"
	"fmt"
	"strings"

	"connlint/internal/analysis"
	"connlint/internal/emit"
	"connlint/internal/ir"
	"connlint/internal/irschema"
	"connlint/internal/parser"
	"connlint/internal/salvage"
	"connlint/internal/source"
	"connlint/internal/walker"
)

// RunSummary is the success payload reported after a run.
type RunSummary struct {
	Path      string   `json:"path"`
	Salvaged  bool     `json:"salvaged"`
	Errors    int      `json:"errors"`
	Warnings  int      `json:"warnings"`
	Infos     int      `json:"infos"`
	Artifacts []string `json:"artifacts"`
}

func (s RunSummary) String() string {
	mode := "full"
	if s.Salvaged {
		mode = "salvage"
	}
	return fmt.Sprintf("%s: %s analysis, %d error(s), %d warning(s), %d info; wrote %d artifact(s):\n  %s",
		s.Path, mode, s.Errors, s.Warnings, s.Infos, len(s.Artifacts),
		strings.Join(s.Artifacts, "\n  "))
}

// Run executes the whole pipeline for one input file:
// read -> parse -> (walk | salvage) -> analyze -> emit.
func Run(ctx context.Context, path string, opts *Options, formatter *OutputFormatter) error {
	kinds, err := emit.ParseKinds(opts.Emit)
	if err != nil {
		return WrapExitError(ExitCommandError, "resolving emission kinds", err)
	}

	file, err := source.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading input", err)
	}
	formatter.VerboseLog("loaded %s (%d bytes, %d lines)", file.Path, len(file.Bytes), file.Lines)

	bundle := BuildBundle(ctx, file, opts.Dialect, opts.MaxWarnings, formatter)

	emitOpts := emit.Options{
		Dir:       opts.Out,
		Base:      opts.Base,
		Pretty:    opts.Pretty,
		GraphName: opts.GraphName,
		Source:    file,
	}

	if opts.ValidateIR {
		validateIR(bundle, emitOpts, formatter)
	}

	written, err := emit.Write(bundle, kinds, emitOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "writing artifacts", err)
	}

	summary := RunSummary{
		Path:      file.Path,
		Salvaged:  bundle.Salvaged,
		Errors:    len(bundle.IssuesBySeverity(ir.SeverityError)),
		Warnings:  len(bundle.IssuesBySeverity(ir.SeverityWarning)),
		Infos:     len(bundle.IssuesBySeverity(ir.SeverityInfo)),
		Artifacts: written,
	}
	return formatter.Success(summary)
}

// BuildBundle runs the analysis pipeline over loaded source and returns
// the immutable result. It never fails: a parser breakdown falls back to
// the salvage path and is reported through Issues.
func BuildBundle(ctx context.Context, file *source.File, dialect string, maxWarnings int, formatter *OutputFormatter) *ir.Bundle {
	collector := ir.NewCollector(maxWarnings)

	parsed := parser.Parse(ctx, file.Bytes, dialect)
	if !parsed.Usable() {
		formatter.VerboseLog("full parse failed (%s); using salvage path", parsed.Fatal)
		return salvageBundle(file, parsed.Fatal, collector)
	}
	formatter.VerboseLog("parsed with grammar %s %s", parsed.Grammar.Name, parsed.Grammar.Version)

	for _, diag := range parsed.Diags {
		collector.Add(ir.Issue{
			Severity: ir.SeverityWarning,
			Code:     ir.CodeSyntaxError,
			Message:  diag.Message,
			Loc:      diag.Loc,
		})
	}

	res := walker.Walk(parsed, collector)
	analysis.Run(res.Calls, res.DefinedMethods, collector)

	return &ir.Bundle{
		Root:    res.Root,
		Issues:  collector.Issues(),
		Graph:   res.Graph,
		Stats:   res.Stats,
		Lambdas: res.Lambdas,
		Path:    file.Path,
		Lines:   file.Lines,
	}
}

// salvageBundle builds the degraded result from the token-scan fallback:
// a parse_failed error, the recovered structure as bare nodes, and one
// salvage_note per scanner annotation.
func salvageBundle(file *source.File, fatal string, collector *ir.Collector) *ir.Bundle {
	collector.Add(ir.Issue{
		Severity: ir.SeverityError,
		Code:     ir.CodeParseFailed,
		Message:  fmt.Sprintf("full parse failed: %s", fatal),
	})

	sal := salvage.Scan(file.Bytes)
	for _, note := range sal.Notes {
		collector.Add(ir.Issue{
			Severity: ir.SeverityInfo,
			Code:     ir.CodeSalvageNote,
			Message:  note,
		})
	}

	stats := map[string]int{}
	root := ir.NewNode(ir.KindConnector, "connector", ir.Loc{}, map[string]string{
		"root_keys": strings.Join(sal.RootKeys, ","),
	})

	sections := []struct {
		container ir.Kind
		member    ir.Kind
		counter   string
		members   []salvage.Member
	}{
		{ir.KindActions, ir.KindAction, "actions", sal.Actions},
		{ir.KindTriggers, ir.KindTrigger, "triggers", sal.Triggers},
		{ir.KindMethods, ir.KindMethod, "methods", sal.Methods},
	}
	for _, section := range sections {
		if len(section.members) == 0 {
			continue
		}
		stats[section.counter] = len(section.members)
		container := ir.NewNode(section.container, string(section.container), ir.Loc{}, nil)
		var children []*ir.Node
		for _, member := range section.members {
			children = append(children, ir.NewNode(section.member, member.Name, member.Loc, nil))
		}
		root = root.WithChild(container.WithChildren(children...))
	}

	return &ir.Bundle{
		Root:     root,
		Issues:   collector.Issues(),
		Graph:    ir.NewGraph(),
		Stats:    stats,
		Salvaged: true,
		Path:     file.Path,
		Lines:    file.Lines,
	}
}

// validateIR renders the IR document and checks it against the embedded
// schema. A mismatch means an emitter bug, so it is surfaced as a
// diagnostic rather than a run failure.
func validateIR(bundle *ir.Bundle, opts emit.Options, formatter *OutputFormatter) {
	data, err := emit.Render(emit.KindIR, bundle, opts)
	if err != nil {
		fmt.Fprintf(formatter.GetErrWriter(), "warning: could not render IR document for validation: %v\n", err)
		return
	}
	if err := irschema.Validate(data); err != nil {
		fmt.Fprintf(formatter.GetErrWriter(), "warning: IR document failed schema self-check: %v\n", err)
		return
	}
	formatter.VerboseLog("IR document passed schema self-check")
}
