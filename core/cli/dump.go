package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/emenda-labs/libstub/core/config"
	"github.com/emenda-labs/libstub/core/linker"
	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/arch"
)

// DumpOptions holds the parsed flags and arguments of "dump".
type DumpOptions struct {
	Inputs []string
	Arches []string
	Exact  bool
	MinOS  string
	Format string
}

// DumpRunFunc is the handler for "dump", injected by cmd/libstub.
type DumpRunFunc func(ctx context.Context, opts DumpOptions) error

// NewDumpCmd creates the "dump" subcommand. Flags left unset take their
// value from g.Config.
func NewDumpCmd(g *GlobalOptions, runFunc DumpRunFunc) *cobra.Command {
	var opts DumpOptions

	cmd := &cobra.Command{
		Use:   "dump INPUT...",
		Short: "Resolve stubs and print their interfaces",
		Long: "Resolve each stub for the requested architectures and print the result. " +
			"An input may be a .tbd file, a directory, a .zip bundle or an http(s) URL.",
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			applyDumpConfig(cmd, g.Config, &opts)
			return validateDumpFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Arches, "arch", nil, "Architecture to resolve; repeatable (default from config, x86_64)")
	cmd.Flags().BoolVar(&opts.Exact, "exact", false, "Require an exact architecture match instead of an ABI-compatible one")
	cmd.Flags().StringVar(&opts.MinOS, "min-os", "", "Deployment target used for $ld$hide$ directives, e.g. 10.14")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format: text, json or yaml")

	return cmd
}

func applyDumpConfig(cmd *cobra.Command, cfg *config.Config, opts *DumpOptions) {
	if cfg == nil {
		cfg = config.GetDefConf()
	}
	flags := cmd.Flags()
	if !flags.Changed("arch") {
		opts.Arches = cfg.Arch
	}
	if !flags.Changed("exact") {
		opts.Exact = cfg.Exact
	}
	if !flags.Changed("min-os") {
		opts.MinOS = cfg.MinOS
	}
	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
}

func validateDumpFlags(opts DumpOptions) error {
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("at least one input is required")
	}
	switch opts.Format {
	case config.FormatText, config.FormatJSON, config.FormatYAML:
	default:
		return fmt.Errorf("--format must be one of text, json or yaml, got %q", opts.Format)
	}
	if _, err := parseArches(opts.Arches); err != nil {
		return err
	}
	return validateMinOS(opts.MinOS)
}

// Request converts the options into a linker request. The options must have
// passed validation.
func (o DumpOptions) Request() (linker.Request, error) {
	return buildRequest(o.Arches, o.Exact, o.MinOS)
}

func buildRequest(names []string, exact bool, minOS string) (linker.Request, error) {
	archs, err := parseArches(names)
	if err != nil {
		return linker.Request{}, err
	}
	if err := validateMinOS(minOS); err != nil {
		return linker.Request{}, err
	}

	mode := stub.MatchABICompatible
	if exact {
		mode = stub.MatchExact
	}
	return linker.Request{
		Archs: archs,
		Mode:  mode,
		MinOS: stub.ParseVersion(minOS),
	}, nil
}

func parseArches(names []string) ([]arch.Architecture, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one --arch is required")
	}
	out := make([]arch.Architecture, 0, len(names))
	for _, name := range names {
		a := arch.ByName(strings.TrimSpace(name))
		if a == arch.None {
			return nil, fmt.Errorf("unknown architecture %q (known: %s)", name, knownArches())
		}
		out = append(out, a)
	}
	return out, nil
}

func knownArches() string {
	var names []string
	for _, a := range arch.All() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

// validateMinOS accepts an empty value or a MAJOR[.MINOR[.PATCH]] version
// without pre-release or build suffixes.
func validateMinOS(v string) error {
	if v == "" {
		return nil
	}
	sv := "v" + v
	if !semver.IsValid(sv) || semver.Prerelease(sv) != "" || semver.Build(sv) != "" {
		return fmt.Errorf("--min-os must look like 10.14 or 10.14.6, got %q", v)
	}
	return nil
}
