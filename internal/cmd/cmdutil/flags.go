// Package cmdutil provides shared flags and output helpers for legisync commands.
package cmdutil

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openstatehouse/legisync/internal/cmd/alerts"
	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/cmd/output"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
)

// PageFlags holds flags for commands that read one page of legislation.
type PageFlags struct {
	Page     int
	PageSize int
}

// AddPageFlags adds --page and --page-size to a command.
func AddPageFlags(cmd *cobra.Command) *PageFlags {
	flags := &PageFlags{}

	cmd.Flags().IntVar(&flags.Page, "page", 0,
		"0-indexed page to show")
	cmd.Flags().IntVar(&flags.PageSize, "page-size", 20,
		"Items per page")

	return flags
}

// MaxPageFlags bounds legislation paging.
type MaxPageFlags struct {
	MaxPage int
}

// AddMaxPageFlags adds --max-page to a command.
func AddMaxPageFlags(cmd *cobra.Command) *MaxPageFlags {
	flags := &MaxPageFlags{}

	cmd.Flags().IntVar(&flags.MaxPage, "max-page", -1,
		"Last 0-indexed source page to fetch (-1 fetches every page)")

	return flags
}

// Bound returns nil when every page should be fetched.
func (f *MaxPageFlags) Bound() *int {
	if f.MaxPage < 0 {
		return nil
	}
	return &f.MaxPage
}

// ExternalIDs converts positional arguments into external ids.
func ExternalIDs(args []string) ([]legislature.ExternalID, error) {
	ids := make([]legislature.ExternalID, 0, len(args))
	for _, arg := range args {
		if arg == "" {
			return nil, errors.NewValidationError("external_id", arg, "external id must not be empty")
		}
		ids = append(ids, legislature.ExternalID(arg))
	}
	return ids, nil
}

// Context attaches the application logger to the command context.
func Context(cmd *cobra.Command, app application.Application) context.Context {
	return logging.WithLogger(cmd.Context(), app.Logger())
}

// Print renders v in the application's output format and reports any
// alerts the result carries on the command's error stream.
func Print(cmd *cobra.Command, app application.Application, v any) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	if err := output.Render(app.Out(), format, v); err != nil {
		return err
	}
	return alerts.NewWriter(cmd.ErrOrStderr(), string(format), false).Write(alerts.ForResult(v)...)
}
