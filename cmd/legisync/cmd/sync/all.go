package sync

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/cmdutil"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// allFlags holds the flags of "sync all".
type allFlags struct {
	*cmdutil.MaxPageFlags
	Sessions []string
	Votes    bool
	Timeout  time.Duration
	PageSize int
}

func newAllCommand(app application.Application) *cobra.Command {
	flags := &allFlags{}

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every step in dependency order",
		Args:  cobra.NoArgs,
		Example: `  legisync sync all
  legisync sync all --session 2025_26 --votes
  legisync sync all --max-page 1 --timeout 10m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := cmdutil.ExternalIDs(flags.Sessions)
			if err != nil {
				return err
			}
			ctx := cmdutil.Context(cmd, app)
			syncer, err := app.Syncer(ctx)
			if err != nil {
				return err
			}

			opts := []pkgsync.Option{
				pkgsync.WithSessions(sessions...),
				pkgsync.WithVotes(flags.Votes),
				pkgsync.WithTimeout(flags.Timeout),
			}
			if flags.PageSize > 0 {
				opts = append(opts, pkgsync.WithPageSize(flags.PageSize))
			}
			if bound := flags.Bound(); bound != nil {
				opts = append(opts, pkgsync.WithMaxPage(*bound))
			}

			result, err := syncer.SyncAll(ctx, opts...)
			if err != nil {
				return err
			}
			app.Logger().Info().Msg(result.Summary())
			return cmdutil.Print(cmd, app, result)
		},
	}

	flags.MaxPageFlags = cmdutil.AddMaxPageFlags(cmd)
	cmd.Flags().StringSliceVar(&flags.Sessions, "session", nil, "Limit members and legislation to these sessions (repeatable)")
	cmd.Flags().BoolVar(&flags.Votes, "votes", false, "Also sync votes on every upserted piece of legislation")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Abort the whole run after this long (0 means no limit)")
	cmd.Flags().IntVar(&flags.PageSize, "page-size", 0, "Legislation items per source page (default from config)")

	return cmd
}
