package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// ProbeOptions holds the arguments of "probe".
type ProbeOptions struct {
	Inputs []string
}

// ProbeRunFunc is the handler for "probe", injected by cmd/libstub.
type ProbeRunFunc func(ctx context.Context, opts ProbeOptions) error

// NewProbeCmd creates the "probe" subcommand.
func NewProbeCmd(runFunc ProbeRunFunc) *cobra.Command {
	var opts ProbeOptions

	cmd := &cobra.Command{
		Use:   "probe INPUT...",
		Short: "Report whether inputs look like text-based stubs",
		Long:  "Run the cheap format check on each input and print one line per stub found.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			return runFunc(cmd.Context(), opts)
		},
	}

	return cmd
}
