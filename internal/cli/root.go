package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/buildinfo"
)

// Execute runs the rdep-analyzer CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (why, report,
// parse, graph, cache, completion), configures logging based on the
// --verbose flag, loads the optional TOML configuration, and executes the
// command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger and configuration are attached to the context and accessible
// to all commands via loggerFromContext and configFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "rdep-analyzer",
		Short:        "Explain why installed Gentoo packages are present",
		Long: `rdep-analyzer walks the reverse-dependency chain reported by
emerge --pretend --verbose --emptytree --depclean and, for every hop, parses
the dependee's dependency variables to show the exact atoms, any-of groups
and USE conditionals that pull the package in.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/rdep-analyzer/config.toml)")

	root.AddCommand(newWhyCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
