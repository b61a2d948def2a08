package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connlint/internal/ir"
	"connlint/internal/source"
)

const sampleConnector = `
connector = {
  title: "Acme",
  connection: {
    fields: []
  },
  actions: {
    create: {
      input_fields: lambda do |d| d end,
      execute: lambda do |c, i| post("/things", i) end,
      output_fields: lambda do |d| d end
    }
  }
}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.rb")
	require.NoError(t, os.WriteFile(path, []byte(sampleConnector), 0644))
	return path
}

func textFormatter(buf *bytes.Buffer) *OutputFormatter {
	return &OutputFormatter{Format: "text", Writer: buf, ErrWriter: &bytes.Buffer{}}
}

func TestRun_WritesDefaultArtifacts(t *testing.T) {
	input := writeSample(t)
	outDir := t.TempDir()

	var buf bytes.Buffer
	opts := &Options{Out: outDir, Base: "connector", GraphName: "connector", Format: "text"}
	err := Run(context.Background(), input, opts, textFormatter(&buf))
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 9, "default emission set writes nine artifacts")
	assert.Contains(t, buf.String(), "full analysis")
}

func TestRun_MissingInputExitsTwo(t *testing.T) {
	var buf bytes.Buffer
	opts := &Options{Out: t.TempDir(), Base: "connector", Format: "text"}
	err := Run(context.Background(), "/nonexistent/connector.rb", opts, textFormatter(&buf))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_UnknownEmitKindExitsTwo(t *testing.T) {
	input := writeSample(t)
	var buf bytes.Buffer
	opts := &Options{Out: t.TempDir(), Base: "connector", Emit: []string{"bogus"}, Format: "text"}
	err := Run(context.Background(), input, opts, textFormatter(&buf))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_JSONOutput(t *testing.T) {
	input := writeSample(t)
	var buf bytes.Buffer
	formatter := &OutputFormatter{Format: "json", Writer: &buf, ErrWriter: &bytes.Buffer{}}
	opts := &Options{Out: t.TempDir(), Base: "connector", Emit: []string{"ir"}, Format: "json"}
	require.NoError(t, Run(context.Background(), input, opts, formatter))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRun_ValidateIRPasses(t *testing.T) {
	input := writeSample(t)
	var stderr bytes.Buffer
	formatter := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: &stderr}
	opts := &Options{
		Out: t.TempDir(), Base: "connector", Emit: []string{"ir"},
		Format: "text", ValidateIR: true,
	}
	require.NoError(t, Run(context.Background(), input, opts, formatter))
	assert.NotContains(t, stderr.String(), "failed schema self-check")
}

func TestBuildBundle_FullParse(t *testing.T) {
	file := &source.File{Path: "sample.rb", Bytes: []byte(sampleConnector), Lines: 14}
	bundle := BuildBundle(context.Background(), file, "", 0, textFormatter(&bytes.Buffer{}))

	require.NotNil(t, bundle.Root)
	assert.False(t, bundle.Salvaged)
	assert.Equal(t, "Acme", bundle.Root.Name)
	assert.Equal(t, 1, bundle.Stat("actions"))
}

func TestSalvageBundle(t *testing.T) {
	src := []byte(`
connector = {
  title: "Broken",
  actions: {
    create: {
  triggers: {
    updated: {}
`)
	file := &source.File{Path: "broken.rb", Bytes: src, Lines: 8}
	collector := ir.NewCollector(0)
	bundle := salvageBundle(file, "tree unavailable", collector)

	assert.True(t, bundle.Salvaged)
	require.NotNil(t, bundle.Root)

	fatal := bundle.IssuesBySeverity(ir.SeverityError)
	require.Len(t, fatal, 1)
	assert.Equal(t, ir.CodeParseFailed, fatal[0].Code)

	var actionNames []string
	for _, n := range bundle.NodesByKind(ir.KindAction) {
		actionNames = append(actionNames, n.Name)
	}
	assert.Contains(t, actionNames, "create")
}

func TestLoadConfig_Strict(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("out: custom\npretty: true\nmax_warnings: 50\n"), 0644))
	cfg, err := LoadConfig(good)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Out)
	require.NotNil(t, cfg.Pretty)
	assert.True(t, *cfg.Pretty)
	require.NotNil(t, cfg.MaxWarnings)
	assert.Equal(t, 50, *cfg.MaxWarnings)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("out: custom\ntypo_key: 1\n"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err, "unknown keys are rejected")
}

func TestNewRootCommand_FlagDefaults(t *testing.T) {
	cmd := NewRootCommand()

	out, err := cmd.Flags().GetString("out")
	require.NoError(t, err)
	assert.Equal(t, "./out", out)

	base, err := cmd.Flags().GetString("base")
	require.NoError(t, err)
	assert.Equal(t, "connector", base)

	maxWarnings, err := cmd.Flags().GetInt("max-warnings")
	require.NoError(t, err)
	assert.Equal(t, ir.DefaultMaxWarnings, maxWarnings)
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "whatever.rb"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
