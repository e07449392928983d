// Package sync implements the step-by-step reconciliation commands.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/application"
)

// NewCommand creates the sync command and its per-step subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Reconcile source data into the remote store",
		Long: `Sync reconciles what the source publishes into the remote store.

Steps depend on each other: sessions must exist before their members, members
before the legislation they sponsor, and legislation before its votes. The
"all" subcommand runs them in that order.`,
		Example: `  legisync sync sessions
  legisync sync members 2025_26
  legisync sync legislation 2025_26 --max-page 0
  legisync sync votes hb1 hb2
  legisync sync all --votes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newChambersCommand(app))
	cmd.AddCommand(newSessionsCommand(app))
	cmd.AddCommand(newMembersCommand(app))
	cmd.AddCommand(newLegislationCommand(app))
	cmd.AddCommand(newVotesCommand(app))
	cmd.AddCommand(newAllCommand(app))

	return cmd
}
