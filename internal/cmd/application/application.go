// Package application provides the application interface for legisync commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            syncer, err := app.Syncer(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use syncer
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    SyncerFunc: func(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error) {
//	        return legisync.New(ctx, local.New(data), memory.New(), opts...)
//	    },
//	}
//	cmd := sessions.NewCommand(mock)
package application

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/openstatehouse/legisync"
)

// Application provides the application interface that commands need.
// The App struct from cmd/legisync/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Syncer connects the configured source and store and returns a syncer
	// bound to the source's jurisdiction. Every call builds a new syncer.
	Syncer(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Out is where command results are written.
	Out() io.Writer

	// Build is the version stamped into the binary.
	Build() BuildInfo
}

// BuildInfo is set by the release build through -ldflags.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"built" yaml:"built"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}
