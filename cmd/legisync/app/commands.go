package app

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/cmd/legisync/cmd/initialize"
	"github.com/openstatehouse/legisync/cmd/legisync/cmd/legislation"
	"github.com/openstatehouse/legisync/cmd/legisync/cmd/sessions"
	synccmd "github.com/openstatehouse/legisync/cmd/legisync/cmd/sync"
	"github.com/openstatehouse/legisync/cmd/legisync/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(legislation.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(initialize.NewCommand(a))
	rootCmd.AddCommand(sessions.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
