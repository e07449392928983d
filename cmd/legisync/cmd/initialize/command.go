// Package initialize implements the command that bootstraps a jurisdiction
// in an empty remote store.
package initialize

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync"
	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/cmdutil"
	"github.com/openstatehouse/legisync/pkg/errors"
)

// NewCommand creates the init command.
func NewCommand(app application.Application) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:     "init",
		GroupID: "management",
		Short:   "Check or create the source's jurisdiction in the store",
		Long: `Init resolves the jurisdiction the source describes in the remote store.

Without flags it only checks that the jurisdiction exists. With
--dangerously-create-jurisdiction a missing jurisdiction is created together
with every chamber the source declares. No other command creates
jurisdictions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdutil.Context(cmd, app)
			syncer, err := app.Syncer(ctx, legisync.WithDangerouslyCreateJurisdiction(create))
			if err != nil {
				if errors.IsNotFound(err) {
					app.Logger().Error().Msg("Jurisdiction missing, re-run with --dangerously-create-jurisdiction to create it")
				}
				return err
			}

			if created := syncer.Created(); created != nil {
				return cmdutil.Print(cmd, app, created)
			}

			j := syncer.Jurisdiction()
			app.Logger().Info().
				Int64("jurisdiction_id", int64(j.ID)).
				Str("jurisdiction", j.Name).
				Msg("Jurisdiction already exists")
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "dangerously-create-jurisdiction", false,
		"Create the jurisdiction and its chambers if the store lacks them")

	return cmd
}
