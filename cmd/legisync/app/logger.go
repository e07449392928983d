package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/openstatehouse/legisync/pkg/logging"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger builds the CLI logger from config. Caller info is added at
// debug and trace.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
		Fields:    map[string]any{"store": config.StoreDriver, "source": config.Source},
	})
}

// determineLogLevel applies, highest first: --log-level or
// LEGISYNC_LOG_LEVEL, then --quiet, then --verbose, then info.
func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		if slices.Contains(logLevels, config.LogLevel) {
			return config.LogLevel
		}
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using \"info\"\n", config.LogLevel)
		return "info"
	case config.Quiet:
		return "warn"
	case config.Verbose:
		return "debug"
	default:
		return "info"
	}
}
