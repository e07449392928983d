package sync

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/cmdutil"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

func newChambersCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "chambers",
		Short: "Create chambers the source declares and the store lacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdutil.Context(cmd, app)
			syncer, err := app.Syncer(ctx)
			if err != nil {
				return err
			}
			result, err := syncer.SyncChambers(ctx)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, result)
		},
	}
}

func newSessionsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "Create new sessions and update known ones",
		Long: `Sessions creates every session the store lacks and links it to each
chamber of the jurisdiction. Known sessions get their name and dates
refreshed, and are linked to any chamber they are missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdutil.Context(cmd, app)
			syncer, err := app.Syncer(ctx)
			if err != nil {
				return err
			}
			result, err := syncer.SyncSessions(ctx)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, result)
		},
	}
}

func newMembersCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "members <session>...",
		Short: "Create members of every chamber during the given sessions",
		Args:  cobra.MinimumNArgs(1),
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

			results := make([]*pkgsync.MembersResult, 0, len(ids))
			for _, id := range ids {
				result, err := syncer.UpdateMembers(ctx, id)
				if err != nil {
					return err
				}
				results = append(results, result)
			}
			if len(results) == 1 {
				return cmdutil.Print(cmd, app, results[0])
			}
			return cmdutil.Print(cmd, app, &pkgsync.Result{Members: results})
		},
	}
}

func newLegislationCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.MaxPageFlags

	cmd := &cobra.Command{
		Use:   "legislation <session>",
		Short: "Upsert legislation of a session that changed at the source",
		Long: `Legislation pages through the session's legislation, most recently
updated first when the source supports it, and upserts every item that is new
or differs from the store. Paging stops at an empty page, at the source's
last page, or after --max-page.`,
		Args: cobra.ExactArgs(1),
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
			result, err := syncer.UpdateLegislationWithPagination(ctx, ids[0], flags.Bound())
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd, app, result)
		},
	}

	flags = cmdutil.AddMaxPageFlags(cmd)
	return cmd
}

func newVotesCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "votes <legislation>...",
		Short: "Upsert the votes on the given legislation",
		Args:  cobra.MinimumNArgs(1),
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

			results := make([]*pkgsync.VotesResult, 0, len(ids))
			for _, id := range ids {
				result, err := syncer.UpdateLegislationVotes(ctx, id)
				if err != nil {
					return err
				}
				results = append(results, result)
			}
			if len(results) == 1 {
				return cmdutil.Print(cmd, app, results[0])
			}
			return cmdutil.Print(cmd, app, &pkgsync.Result{Votes: results})
		},
	}
}
