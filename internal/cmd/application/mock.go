package application

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/openstatehouse/legisync"
)

// Mock is an Application for command tests. Nil fields fall back to a no-op
// logger, the table format and io.Discard.
type Mock struct {
	SyncerFunc       func(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error)
	OutputFormatFunc func() string
	Writer           io.Writer
	Info             BuildInfo
	Log              *zerolog.Logger
}

var _ Application = (*Mock)(nil)

// Syncer calls SyncerFunc, or returns a nil syncer.
func (m *Mock) Syncer(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error) {
	if m.SyncerFunc == nil {
		return nil, nil
	}
	return m.SyncerFunc(ctx, opts...)
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.Log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.Log
}

func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc == nil {
		return "table"
	}
	return m.OutputFormatFunc()
}

func (m *Mock) Out() io.Writer {
	if m.Writer == nil {
		return io.Discard
	}
	return m.Writer
}

// Build returns Info with "dev" standing in for an empty version.
func (m *Mock) Build() BuildInfo {
	info := m.Info
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}
