package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/libstub/core/config"
	"github.com/emenda-labs/libstub/core/linker"
)

// DiffOptions holds the parsed flags and arguments of "diff".
type DiffOptions struct {
	Old   string
	New   string
	Arch  string
	Exact bool
	MinOS string
}

// DiffRunFunc is the handler for "diff", injected by cmd/libstub.
type DiffRunFunc func(ctx context.Context, opts DiffOptions) error

// NewDiffCmd creates the "diff" subcommand.
func NewDiffCmd(g *GlobalOptions, runFunc DiffRunFunc) *cobra.Command {
	var opts DiffOptions

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare the interfaces of two stubs",
		Long:  "Resolve two stubs for one architecture and list the changes a client linking against OLD would see with NEW.",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Old, opts.New = args[0], args[1]
			applyDiffConfig(cmd, g.Config, &opts)
			return validateDiffFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Arch, "arch", "", "Architecture to compare (default: first configured arch)")
	cmd.Flags().BoolVar(&opts.Exact, "exact", false, "Require an exact architecture match")
	cmd.Flags().StringVar(&opts.MinOS, "min-os", "", "Deployment target used for $ld$hide$ directives")

	return cmd
}

func applyDiffConfig(cmd *cobra.Command, cfg *config.Config, opts *DiffOptions) {
	if cfg == nil {
		cfg = config.GetDefConf()
	}
	flags := cmd.Flags()
	if !flags.Changed("arch") && len(cfg.Arch) > 0 {
		opts.Arch = cfg.Arch[0]
	}
	if !flags.Changed("exact") {
		opts.Exact = cfg.Exact
	}
	if !flags.Changed("min-os") {
		opts.MinOS = cfg.MinOS
	}
}

func validateDiffFlags(opts DiffOptions) error {
	if opts.Old == "" || opts.New == "" {
		return fmt.Errorf("both OLD and NEW are required")
	}
	_, err := opts.Request()
	return err
}

// Request converts the options into a single-architecture linker request.
func (o DiffOptions) Request() (linker.Request, error) {
	return buildRequest([]string{o.Arch}, o.Exact, o.MinOS)
}
