package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	runIDKey
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// WithRunID tags ctx and its logger with the id of one sync run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return WithField(context.WithValue(ctx, runIDKey, runID), "run_id", runID)
}

// RunID returns the sync run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithJurisdiction tags the logger with the jurisdiction external id.
func WithJurisdiction(ctx context.Context, externalID string) context.Context {
	return WithField(ctx, "jurisdiction", externalID)
}

// WithSession tags the logger with the session external id.
func WithSession(ctx context.Context, externalID string) context.Context {
	return WithField(ctx, "session", externalID)
}

// WithChamber tags the logger with the chamber external id.
func WithChamber(ctx context.Context, externalID string) context.Context {
	return WithField(ctx, "chamber", externalID)
}

// WithStep tags the logger with the orchestrator step being run.
func WithStep(ctx context.Context, step string) context.Context {
	return WithField(ctx, "step", step)
}

// WithField adds one field to the logger carried by ctx.
func WithField(ctx context.Context, key string, value any) context.Context {
	return WithFields(ctx, map[string]any{key: value})
}

// WithFields adds fields to the logger carried by ctx.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	lc := FromContext(ctx).With()
	for k, v := range fields {
		lc = addFieldToContext(lc, k, v)
	}
	l := lc.Logger()
	return WithLogger(ctx, &l)
}

func addFieldToContext(lc zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return lc.Str(key, v)
	case int:
		return lc.Int(key, v)
	case bool:
		return lc.Bool(key, v)
	case error:
		return lc.AnErr(key, v)
	default:
		return lc.Interface(key, v)
	}
}
