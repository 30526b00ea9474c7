package cli

import (
	"github.com/spf13/cobra"

	"github.com/emenda-labs/libstub/core/config"
)

// GlobalOptions holds the persistent flags and the configuration they load.
// Config is populated before any subcommand runs.
type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Config     *config.Config
}

// NewRootCmd creates the top-level libstub command.
func NewRootCmd(version string, g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "libstub",
		Short:         "Read text-based dynamic library stubs",
		Long:          "Libstub parses text-based dylib stubs (.tbd) and resolves the interface a linker sees for one architecture.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadGlobals(cmd, g)
		},
	}

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&g.ConfigFile, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "Log level: debug, info, warn, error or crit")
	cmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "", "Log format: logfmt or json")

	return cmd
}

func loadGlobals(cmd *cobra.Command, g *GlobalOptions) error {
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = g.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g.Config = cfg
	return nil
}
