// Package legislation implements read-only legislation commands.
package legislation

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/cmdutil"
)

// NewCommand creates the legislation command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "legislation",
		GroupID: "core",
		Short:   "Inspect legislation in the remote store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.PageFlags

	cmd := &cobra.Command{
		Use:     "list <session>",
		Aliases: []string{"ls"},
		Short:   "List one page of a session's legislation without syncing",
		Args:    cobra.ExactArgs(1),
		Example: `  legisync legislation list 2025_26
  legisync legislation list 2025_26 --page 2 --page-size 50 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cmdutil.ExternalIDs(args)
			if err != nil {
				return err
			}
			ctx := cmdutil.Context(cmd, app)
			syncer, err := app.Syncer(ctx)
			if err != nil {
				return err
			}
			page, err := syncer.ListLegislation(ctx, ids[0], flags.Page, flags.PageSize)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, page)
		},
	}

	flags = cmdutil.AddPageFlags(cmd)
	return cmd
}
