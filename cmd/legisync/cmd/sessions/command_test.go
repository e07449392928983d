package sessions

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync"
	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/sources/local"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
)

func setup(t *testing.T) (*application.Mock, *memory.Store) {
	t.Helper()
	store := memory.New()
	source := local.New(local.Data{
		Jurisdiction: sources.Jurisdiction{
			Name:       "Georgia",
			ExternalID: "ga",
			Chambers:   []sources.Chamber{{Name: "House", ExternalID: "lower"}},
		},
		Sessions: []sources.Session{{Name: "2025-2026", ExternalID: "2025_26"}},
	})

	syncer, err := legisync.New(context.Background(), source, store, legisync.WithDangerouslyCreateJurisdiction(true))
	require.NoError(t, err)
	_, err = syncer.SyncSessions(context.Background())
	require.NoError(t, err)

	return &application.Mock{
		SyncerFunc: func(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error) {
			return legisync.New(ctx, source, store, opts...)
		},
		Writer: &bytes.Buffer{},
	}, store
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	app, store := setup(t)
	cmd := NewCommand(app)
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"delete", "2025_26"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stderr.String(), "--yes")
	assert.Equal(t, 0, store.Calls(memory.OpDeleteSession))
}

func TestDeleteSession(t *testing.T) {
	app, store := setup(t)
	cmd := NewCommand(app)
	cmd.SetArgs([]string{"delete", "2025_26", "--yes"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	found, err := store.ListSessions(context.Background(), remote.SessionFilter{ExternalID: "2025_26"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDeleteUnknownSession(t *testing.T) {
	app, _ := setup(t)
	cmd := NewCommand(app)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"delete", "1999", "-y"})

	err := cmd.ExecuteContext(context.Background())
	assert.True(t, errors.IsNotFound(err))
}
