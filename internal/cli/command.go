package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirinfo/internal/config"
)

// PromptText is shown when no path argument is given.
const PromptText = "Input directory path: "

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var (
		cfgFile     string
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:   "dirinfo [flags] [path]",
		Short: "Count files and bytes per directory",
		Long: heredoc.Doc(`
			dirinfo walks a directory tree and reports how many files and bytes
			it contains, in total and for every directory on its own.

			Positional Arguments:
			  path    Directory to analyze. If omitted, dirinfo asks for one
			          and keeps asking until an existing directory is given.

			Output formats:
			  text    Summary and per-directory details (default)
			  json    Machine readable statistics
			  table   Aligned table with binary size units

			Flags may also be set through DIRINFO_* environment variables or
			a config.yaml in the dirinfo config directory.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			return logic(cmd, cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringP("output", "o", config.DefaultOutput, fmt.Sprintf("Output format: one of %v", config.Outputs))
	flags.Bool("debug", false, "Enable debug output")
	flags.StringVar(&cfgFile, "config", "", fmt.Sprintf("Config file (default %s/config.yaml)", config.Dir()))
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version and exit")

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}
