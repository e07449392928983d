package legisync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/internal/sources/local"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/internal/utils/ptr"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/sources"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

func testData() local.Data {
	day := func(d int) *time.Time {
		t := time.Date(2025, time.February, d, 9, 0, 0, 0, time.UTC)
		return &t
	}
	var bills []sources.Legislation
	for i := 1; i <= 5; i++ {
		bills = append(bills, sources.Legislation{
			ExternalID:        legislature.ExternalID("HB" + string(rune('0'+i))),
			ChamberExternalID: "house",
			NameID:            "HB " + string(rune('0'+i)),
			Title:             "Bill",
			UpdatedAt:         day(i),
			Sponsors:          []sources.Sponsor{{MemberExternalID: "h1", Primary: true}},
		})
	}
	return local.Data{
		Jurisdiction: sources.Jurisdiction{
			Name:       "Georgia",
			ExternalID: "ga",
			Chambers: []sources.Chamber{
				{Name: "House", ExternalID: "house"},
				{Name: "Senate", ExternalID: "senate"},
			},
		},
		Sessions: []sources.Session{{Name: "2025-2026", ExternalID: "2025_26"}},
		Members: map[legislature.ExternalID]map[legislature.ExternalID][]sources.Member{
			"2025_26": {
				"house":  {{ExternalID: "h1", Name: "Alex Rivera"}},
				"senate": {{ExternalID: "s1", Name: "Jordan Hale"}},
			},
		},
		Legislation: map[legislature.ExternalID][]sources.Legislation{"2025_26": bills},
		Votes: map[legislature.ExternalID][]sources.Vote{
			"HB5": {{ChamberExternalID: "house", Motion: "Passage", Yes: 1,
				MemberVotes: []sources.MemberVote{{MemberExternalID: "h1", Choice: legislature.VoteYes}}}},
		},
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("missing jurisdiction fails without the create flag", func(t *testing.T) {
		store := memory.New()
		_, err := New(ctx, local.New(testData()), store)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), "WithDangerouslyCreateJurisdiction")
		assert.Equal(t, 0, store.Calls(memory.OpCreateJurisdiction))
	})

	t.Run("create flag creates jurisdiction and chambers", func(t *testing.T) {
		store := memory.New()
		syncer, err := New(ctx, local.New(testData()), store, WithDangerouslyCreateJurisdiction(true))
		require.NoError(t, err)

		require.NotNil(t, syncer.Created())
		assert.True(t, syncer.Created().JurisdictionCreated)
		assert.Len(t, syncer.Created().ChambersCreated, 2)
		assert.Equal(t, "Georgia", syncer.Jurisdiction().Name)
		assert.NotEmpty(t, syncer.RunID())
	})

	t.Run("existing jurisdiction is reused", func(t *testing.T) {
		store := memory.New()
		_, err := New(ctx, local.New(testData()), store, WithDangerouslyCreateJurisdiction(true))
		require.NoError(t, err)

		syncer, err := New(ctx, local.New(testData()), store, WithDangerouslyCreateJurisdiction(true))
		require.NoError(t, err)
		assert.Nil(t, syncer.Created())
		assert.Equal(t, 1, store.Calls(memory.OpCreateJurisdiction))
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(ctx, local.New(testData()), memory.New(), WithPageSize(0))
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("nil collaborators", func(t *testing.T) {
		_, err := New(ctx, nil, memory.New())
		assert.Error(t, err)
	})
}

func newSyncer(t *testing.T, opts ...Option) (*Syncer, *memory.Store) {
	t.Helper()
	store := memory.New()
	opts = append(opts, WithDangerouslyCreateJurisdiction(true))
	syncer, err := New(context.Background(), local.New(testData()), store, opts...)
	require.NoError(t, err)
	return syncer, store
}

func TestSyncerOperations(t *testing.T) {
	ctx := context.Background()
	syncer, store := newSyncer(t, WithPageSize(2), WithRunID("run-1"))

	var sessionsCreated, membersCreated, upserts, votes int
	syncer.OnSessionCreated(func(legislature.Session) { sessionsCreated++ })
	syncer.OnMemberCreated(func(legislature.Member) { membersCreated++ })
	syncer.OnLegislationUpserted(func(_ legislature.Legislation, created bool) {
		if created {
			upserts++
		}
	})
	syncer.OnVoteUpserted(func(legislature.Vote, bool) { votes++ })

	sessions, err := syncer.SyncSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions.Created, 1)
	assert.Equal(t, 1, sessionsCreated)

	members, err := syncer.UpdateMembers(ctx, "2025_26")
	require.NoError(t, err)
	assert.Equal(t, 2, members.CreatedCount())
	assert.Equal(t, 2, membersCreated)

	t.Run("max page bounds legislation", func(t *testing.T) {
		result, err := syncer.UpdateLegislationWithPagination(ctx, "2025_26", ptr.To(1))
		require.NoError(t, err)
		assert.Equal(t, 2, result.PagesFetched)
		assert.Len(t, result.Created, 4)
		assert.Equal(t, legislature.ExternalID("HB5"), result.Created[0].ExternalID)
	})

	t.Run("unbounded legislation picks up the rest", func(t *testing.T) {
		result, err := syncer.UpdateLegislationWithPagination(ctx, "2025_26", nil)
		require.NoError(t, err)
		assert.Equal(t, 3, result.PagesFetched)
		assert.Len(t, result.Created, 1)
		assert.Equal(t, 4, result.Unchanged)
		assert.Equal(t, 5, upserts)
	})

	t.Run("negative max page is rejected", func(t *testing.T) {
		_, err := syncer.UpdateLegislationWithPagination(ctx, "2025_26", ptr.To(-1))
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("votes", func(t *testing.T) {
		result, err := syncer.UpdateLegislationVotes(ctx, "HB5")
		require.NoError(t, err)
		assert.Len(t, result.Created, 1)
		assert.Equal(t, 1, votes)
	})

	t.Run("list legislation", func(t *testing.T) {
		page, err := syncer.ListLegislation(ctx, "2025_26", 0, 3)
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 2, page.NumPages)

		_, err = syncer.ListLegislation(ctx, "2025_26", -1, 3)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("delete session", func(t *testing.T) {
		require.NoError(t, syncer.DeleteSession(ctx, "2025_26"))
		assert.Equal(t, 1, store.Calls(memory.OpDeleteSession))

		_, err := syncer.UpdateMembers(ctx, "2025_26")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestSyncerLogsRunID(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	syncer, _ := newSyncer(t, WithRunID("run-42"))
	_, err := syncer.SyncSessions(ctx)
	require.NoError(t, err)

	tl.AssertContains(t, "run-42")
	tl.AssertContains(t, "Sessions reconciled")
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()
	syncer, _ := newSyncer(t)

	result, err := syncer.SyncAll(ctx, pkgsync.WithPageSize(2), pkgsync.WithVotes(true))
	require.NoError(t, err)

	assert.True(t, result.HasChanges())
	require.Len(t, result.Members, 1)
	require.Len(t, result.Legislation, 1)
	assert.Len(t, result.Legislation[0].Created, 5)
	assert.Len(t, result.Votes, 5)
	assert.Contains(t, result.Summary(), "legislation of 2025_26")

	again, err := syncer.SyncAll(ctx)
	require.NoError(t, err)
	assert.False(t, again.HasChanges())
	assert.Equal(t, "No changes detected", again.Summary())

	t.Run("session filter", func(t *testing.T) {
		filtered, err := syncer.SyncAll(ctx, pkgsync.WithSessions("1999_00"))
		require.NoError(t, err)
		assert.Empty(t, filtered.Legislation)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := syncer.SyncAll(ctx, pkgsync.WithPageSize(-1))
		assert.True(t, errors.IsValidationError(err))
	})
}
