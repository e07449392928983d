// Package sessions implements session management commands.
package sessions

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/cmdutil"
)

// NewCommand creates the sessions command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		GroupID: "management",
		Short:   "Manage sessions in the remote store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDeleteCommand(app))
	return cmd
}

func newDeleteCommand(app application.Application) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <session>",
		Short: "Delete a session from the remote store",
		Long: `Delete removes one session of the jurisdiction from the remote store.
This is the only command that deletes anything. It requires --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cmdutil.ExternalIDs(args)
			if err != nil {
				return err
			}
			if !yes {
				cmd.PrintErrf("Refusing to delete session %s without --yes\n", ids[0])
				return nil
			}

			ctx := cmdutil.Context(cmd, app)
			syncer, err := app.Syncer(ctx)
			if err != nil {
				return err
			}
			if err := syncer.DeleteSession(ctx, ids[0]); err != nil {
				return err
			}
			app.Logger().Info().Str("session", ids[0].String()).Msg("Session deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}
