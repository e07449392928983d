package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "legisync",
		Short:   "Legislative data reconciliation CLI",
		Version: a.build.Version,
		Long: `Legisync reconciles legislative data published by a jurisdiction's
source into a canonical remote store.

Run the steps in dependency order: sessions, then members, then legislation,
then votes. Each step is idempotent; re-running it creates nothing that
already exists.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetVersionTemplate("legisync {{.Version}}\n")
	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	// Values are copied onto the config by ApplyFlags, only when set.
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.legisync.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.Bool("no-color", false, "disable colored output")
	pf.StringP("format", "o", a.config.Format, "output format: table, json, yaml")
	pf.String("log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.String("store", a.config.StoreDriver, "remote store driver: rest, sqlite, memory")
	pf.String("store-url", a.config.StoreURL, "base URL of the rest store")
	pf.String("sqlite-path", a.config.SQLitePath, "database file of the sqlite store")
	pf.String("source", a.config.Source, "source implementation: local, feed")
	pf.String("source-path", a.config.SourcePath, "data directory of a local source")
	pf.String("source-url", a.config.SourceURL, "base URL of a feed source")

	a.registerCommands(root)
	return root
}

// setupCommand reloads the config when --config names a file, applies the
// flags on top and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		cfg, err := LoadConfig(f.Value.String())
		if err != nil {
			return err
		}
		a.config = cfg
	}
	a.config.ApplyFlags(cmd.Flags())

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(1)
}
