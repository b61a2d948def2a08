// Package cli wires the analyzer pipeline behind a cobra command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"connlint/internal/ir"
)

// Options holds every flag of the analyze command.
type Options struct {
	Out         string
	Base        string
	Emit        []string
	Pretty      bool
	GraphName   string
	MaxWarnings int
	Dialect     string
	ConfigPath  string
	Format      string
	Verbose     bool
	ValidateIR  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the connlint root command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "connlint <connector-file>",
		Short:         "Static analyzer for connector definition files",
		Long:          "connlint parses a connector definition without executing it,\nextracts its structure and call graph, and emits analysis artifacts.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath != "" {
				cfg, err := LoadConfig(opts.ConfigPath)
				if err != nil {
					return WrapExitError(ExitCommandError, "loading config", err)
				}
				applyConfig(cmd, opts, cfg)
			}

			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			return Run(cmd.Context(), args[0], opts, formatter)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "./out", "output directory")
	cmd.Flags().StringVar(&opts.Base, "base", "connector", "base name for output files")
	cmd.Flags().StringSliceVar(&opts.Emit, "emit", nil, "emission kinds (repeatable or CSV; \"all\" selects everything)")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "pretty-print JSON artifacts")
	cmd.Flags().StringVar(&opts.GraphName, "graph-name", "connector", "DOT graph name")
	cmd.Flags().IntVar(&opts.MaxWarnings, "max-warnings", ir.DefaultMaxWarnings, "warning cap")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "dialect version for grammar selection")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "optional YAML config file")
	cmd.Flags().BoolVar(&opts.ValidateIR, "validate-ir", false, "self-check the IR document against the embedded schema")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

// applyConfig fills options from the config file for every flag the user
// did not set explicitly.
func applyConfig(cmd *cobra.Command, opts *Options, cfg *Config) {
	changed := cmd.Flags().Changed

	if !changed("out") && cfg.Out != "" {
		opts.Out = cfg.Out
	}
	if !changed("base") && cfg.Base != "" {
		opts.Base = cfg.Base
	}
	if !changed("emit") && len(cfg.Emit) > 0 {
		opts.Emit = cfg.Emit
	}
	if !changed("pretty") && cfg.Pretty != nil {
		opts.Pretty = *cfg.Pretty
	}
	if !changed("graph-name") && cfg.GraphName != "" {
		opts.GraphName = cfg.GraphName
	}
	if !changed("max-warnings") && cfg.MaxWarnings != nil {
		opts.MaxWarnings = *cfg.MaxWarnings
	}
	if !changed("dialect") && cfg.Dialect != "" {
		opts.Dialect = cfg.Dialect
	}
	if !changed("validate-ir") && cfg.ValidateIR != nil {
		opts.ValidateIR = *cfg.ValidateIR
	}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
