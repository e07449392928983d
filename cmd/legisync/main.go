// Command legisync reconciles a jurisdiction's legislative data into a
// canonical remote store.
package main

import (
	"context"
	"os"
	"time"

	"github.com/openstatehouse/legisync/cmd/legisync/app"
	"github.com/openstatehouse/legisync/internal/cmd/application"
)

// Set by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	a, err := app.New(application.BuildInfo{Version: version, Commit: commit, Date: date, BuiltBy: builtBy})
	app.ExitOnError(err)

	ctx, stop := app.ContextWithSignals(context.Background())
	err = a.Execute(ctx, os.Args[1:])
	stop()

	// The signal context may already be done, so closing the store gets its own.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	if serr := a.Shutdown(shutdownCtx); serr != nil {
		a.Logger().Error().Err(serr).Msg("Closing store")
	}
	cancel()

	app.ExitOnError(err)
}
