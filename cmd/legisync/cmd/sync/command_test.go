package sync

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync"
	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/sources/local"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
)

func testData() local.Data {
	updated := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return local.Data{
		Jurisdiction: sources.Jurisdiction{
			Name:       "Georgia",
			ExternalID: "ga",
			Chambers:   []sources.Chamber{{Name: "House", ExternalID: "lower"}},
		},
		Sessions: []sources.Session{{Name: "2025-2026", ExternalID: "2025_26"}},
		Members: map[legislature.ExternalID]map[legislature.ExternalID][]sources.Member{
			"2025_26": {"lower": {{ExternalID: "m1", Name: "Ada"}}},
		},
		Legislation: map[legislature.ExternalID][]sources.Legislation{
			"2025_26": {{
				ExternalID: "hb1", ChamberExternalID: "lower", NameID: "HB 1", Title: "Budget",
				UpdatedAt: &updated, Sponsors: []sources.Sponsor{{MemberExternalID: "m1"}},
			}},
		},
		Votes: map[legislature.ExternalID][]sources.Vote{
			"hb1": {{ChamberExternalID: "lower", Motion: "passage", Yes: 1}},
		},
	}
}

// newMock returns an application backed by a local source and a shared
// memory store that already knows the jurisdiction.
func newMock(t *testing.T, format string) (*application.Mock, *memory.Store, *bytes.Buffer) {
	t.Helper()
	store := memory.New()
	source := local.New(testData())
	_, err := legisync.New(context.Background(), source, store, legisync.WithDangerouslyCreateJurisdiction(true))
	require.NoError(t, err)

	var out bytes.Buffer
	return &application.Mock{
		SyncerFunc: func(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error) {
			return legisync.New(ctx, source, store, opts...)
		},
		OutputFormatFunc: func() string { return format },
		Writer:           &out,
	}, store, &out
}

func run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestSyncSteps(t *testing.T) {
	app, store, out := newMock(t, "json")
	ctx := context.Background()

	require.NoError(t, run(t, NewCommand(app), "sessions"))
	assert.Contains(t, out.String(), `"2025_26"`)
	sessions, err := store.ListSessions(ctx, remote.SessionFilter{ExternalID: "2025_26"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	out.Reset()
	require.NoError(t, run(t, NewCommand(app), "members", "2025_26"))
	assert.Contains(t, out.String(), `"maybe_new"`)

	out.Reset()
	require.NoError(t, run(t, NewCommand(app), "legislation", "2025_26", "--max-page", "0"))
	assert.Contains(t, out.String(), `"pages_fetched": 1`)

	out.Reset()
	require.NoError(t, run(t, NewCommand(app), "votes", "hb1"))
	votes, err := store.ListVotes(ctx, remote.VoteFilter{})
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestSyncAll(t *testing.T) {
	app, store, out := newMock(t, "table")

	require.NoError(t, run(t, NewCommand(app), "all", "--votes"))
	assert.Contains(t, out.String(), "legislation")
	assert.Equal(t, 1, store.Calls(memory.OpUpsertVote))
}

func TestSyncAllSessionFilter(t *testing.T) {
	app, store, _ := newMock(t, "json")

	require.NoError(t, run(t, NewCommand(app), "all", "--session", "1999"))
	assert.Equal(t, 0, store.Calls(memory.OpCreateMember))
	assert.Equal(t, 0, store.Calls(memory.OpUpsertLegislation))
}

func TestSyncArgs(t *testing.T) {
	app, _, _ := newMock(t, "json")

	assert.Error(t, run(t, NewCommand(app), "members"))
	assert.Error(t, run(t, NewCommand(app), "legislation", "a", "b"))
	assert.Error(t, run(t, NewCommand(app), "sessions", "extra"))
}
