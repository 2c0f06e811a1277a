package main

import (
	"github.com/spf13/cobra"

	"github.com/xbuild/xbuild/internal/domain/rules"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

// loaderFunc parses the configuration file and populates app in place. It
// is invoked once, lazily, by the first subcommand's PersistentPreRunE
// that needs a verified registry — "clean" never calls it.
type loaderFunc func(configPath string, verbose bool) error

func newRootCmd(app *AppContext, load loaderFunc) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "xbuild",
		Short:         "xbuild orchestrates a multi-stage toolchain bootstrap",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "xbuild.yaml", "Path to the orchestrator configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	ensureLoaded := func(cmd *cobra.Command, _ []string) error {
		if app.Rules != nil {
			return nil
		}
		return load(flags.configPath, flags.verbose)
	}

	cmd.AddCommand(newKindCmd(app, ensureLoaded, "build", rules.Build))
	cmd.AddCommand(newKindCmd(app, ensureLoaded, "test", rules.Test))
	cmd.AddCommand(newKindCmd(app, ensureLoaded, "bench", rules.Bench))
	cmd.AddCommand(newKindCmd(app, ensureLoaded, "doc", rules.Doc))
	cmd.AddCommand(newKindCmd(app, ensureLoaded, "dist", rules.Dist))
	cmd.AddCommand(newKindCmd(app, ensureLoaded, "install", rules.Install))
	cmd.AddCommand(newCleanCmd())

	return cmd
}
