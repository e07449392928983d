// Package version implements the version command.
package version

import (
	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/cmdutil"
)

// NewCommand creates the version command. --details prints the full build
// stamp in the selected output format.
func NewCommand(app application.Application) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			build := app.Build()
			if details {
				return cmdutil.Print(cmd, app, build)
			}
			cmd.SetOut(app.Out())
			cmd.Printf("legisync %s\n", build.Version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "Show build details")
	return cmd
}
