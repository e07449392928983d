package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
)

func seedJurisdiction(t *testing.T, store *memory.Store) *legislature.Jurisdiction {
	t.Helper()
	j, err := store.CreateJurisdiction(context.Background(), remote.JurisdictionCreate{Name: "Georgia", ExternalID: "ga"})
	require.NoError(t, err)
	return j
}

func TestJurisdiction(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		store := memory.New()
		r := New(store, "ga")

		_, err := r.Jurisdiction(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))

		var nf *errors.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "jurisdiction", nf.Resource)
		assert.Equal(t, "ga", nf.ID)
	})

	t.Run("fetched once then cached", func(t *testing.T) {
		store := memory.New()
		want := seedJurisdiction(t, store)
		r := New(store, "ga")

		got, err := r.Jurisdiction(ctx)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)

		again, err := r.Jurisdiction(ctx)
		require.NoError(t, err)
		assert.Same(t, got, again)
		assert.Equal(t, 1, store.Calls(memory.OpListJurisdictions))
	})

	t.Run("store seeds without a round trip", func(t *testing.T) {
		store := memory.New()
		r := New(store, "ga")
		r.StoreJurisdiction(legislature.Jurisdiction{ID: 42, Name: "Georgia", ExternalID: "ga"})

		got, err := r.Jurisdiction(ctx)
		require.NoError(t, err)
		assert.Equal(t, legislature.InternalID(42), got.ID)
		assert.Equal(t, 0, store.TotalCalls())
	})
}

func TestChamberAndSessionLookup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	j := seedJurisdiction(t, store)

	house, err := store.CreateChamber(ctx, remote.ChamberCreate{Name: "House", ExternalID: "house", JurisdictionID: j.ID})
	require.NoError(t, err)
	session, err := store.CreateSession(ctx, remote.SessionCreate{Name: "2025-2026", ExternalID: "2025_26", JurisdictionID: j.ID})
	require.NoError(t, err)

	r := New(store, "ga")

	got, err := r.Chamber(ctx, "house")
	require.NoError(t, err)
	assert.Equal(t, house.ID, got.ID)

	s, err := r.Session(ctx, "2025_26")
	require.NoError(t, err)
	assert.Equal(t, session.ID, s.ID)

	_, err = r.Chamber(ctx, "senate")
	assert.True(t, errors.IsNotFound(err))

	store.ResetCalls()
	_, err = r.Chamber(ctx, "house")
	require.NoError(t, err)
	_, err = r.Session(ctx, "2025_26")
	require.NoError(t, err)
	assert.Equal(t, 0, store.TotalCalls(), "cached lookups must not reach the store")

	r.EvictSession("2025_26")
	_, err = r.Session(ctx, "2025_26")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Calls(memory.OpListSessions))
}

func TestStoreBypassesRemote(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := New(store, "ga")

	r.StoreChamber(legislature.Chamber{ID: 7, ExternalID: "house"})
	r.StoreSession(legislature.Session{ID: 8, ExternalID: "2025_26"})
	r.StoreMember(legislature.Member{ID: 9, ExternalID: "m1", SessionID: 8})
	r.StoreLegislation(legislature.Legislation{ID: 10, ExternalID: "HB1"})

	c, err := r.Chamber(ctx, "house")
	require.NoError(t, err)
	assert.Equal(t, legislature.InternalID(7), c.ID)

	s, err := r.Session(ctx, "2025_26")
	require.NoError(t, err)
	assert.Equal(t, legislature.InternalID(8), s.ID)

	m, err := r.Member(ctx, 8, "m1")
	require.NoError(t, err)
	assert.Equal(t, legislature.InternalID(9), m.ID)

	l, err := r.Legislation(ctx, "HB1")
	require.NoError(t, err)
	assert.Equal(t, legislature.InternalID(10), l.ID)

	assert.Equal(t, 0, store.TotalCalls())

	stats := r.Stats()
	assert.Equal(t, 1, stats[legislature.KindChamber])
	assert.Equal(t, 1, stats[legislature.KindMember])
	assert.Equal(t, 0, stats[legislature.KindJurisdiction])
}

func TestMembersAreScopedBySession(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := New(store, "ga")

	r.StoreMember(legislature.Member{ID: 1, ExternalID: "m1", SessionID: 100})

	_, err := r.Member(ctx, 200, "m1")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, store.Calls(memory.OpListMembers))
}

// ambiguousStore returns two jurisdictions for any lookup.
type ambiguousStore struct {
	*memory.Store
}

func (a ambiguousStore) ListJurisdictions(context.Context, remote.JurisdictionFilter) ([]legislature.Jurisdiction, error) {
	return []legislature.Jurisdiction{{ID: 1, ExternalID: "ga"}, {ID: 2, ExternalID: "ga"}}, nil
}

func TestAmbiguousLookup(t *testing.T) {
	r := New(ambiguousStore{memory.New()}, "ga")

	_, err := r.Jurisdiction(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsInconsistent(err))
	assert.False(t, errors.IsNotFound(err))

	var inc *errors.InconsistencyError
	require.True(t, errors.As(err, &inc))
	assert.Equal(t, 2, inc.Count)
}

func TestRemoteErrorsPropagate(t *testing.T) {
	store := memory.New()
	boom := errors.NewAPIError("memory", 500, "boom")
	store.FailOn(memory.OpListJurisdictions, "", boom)

	r := New(store, "ga")
	_, err := r.Jurisdiction(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Stats()[legislature.KindJurisdiction])
}
