package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/internal/sources/local"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/sources"
)

func TestMembersSyncChamber(t *testing.T) {
	ctx := context.Background()
	h := newHarness(local.New(gaData()))
	h.bootstrap(t)

	first, err := h.members().SyncChamber(ctx, "2025_26", "house")
	require.NoError(t, err)
	assert.Len(t, first.MaybeNew, 2)
	assert.Empty(t, first.Duplicates)

	h.fresh()
	second, err := h.members().SyncChamber(ctx, "2025_26", "house")
	require.NoError(t, err)
	assert.Empty(t, second.MaybeNew)
	assert.Len(t, second.Duplicates, 2)
	assert.Equal(t, 2, h.store.Calls(memory.OpCreateMember))
}

func TestMembersSyncChamberExistenceOnly(t *testing.T) {
	ctx := context.Background()
	data := gaData()
	h := newHarness(local.New(data))
	h.bootstrap(t)

	_, err := h.members().SyncChamber(ctx, "2025_26", "senate")
	require.NoError(t, err)

	data.Members["2025_26"]["senate"][0].Party = "I"
	h.source = local.New(data)

	result, err := h.members().SyncChamber(ctx, "2025_26", "senate")
	require.NoError(t, err)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, "R", result.Duplicates[0].Party, "known members are not compared field by field")
}

func TestMembersSyncSession(t *testing.T) {
	ctx := context.Background()
	data := gaData()
	data.Jurisdiction.Chambers = append(data.Jurisdiction.Chambers, sources.Chamber{Name: "Joint", ExternalID: "joint"})
	h := newHarness(local.New(data))
	h.bootstrap(t)

	var created []legislature.ExternalID
	reconciler := NewMembers(h.source, h.store, h.resolver, func(m legislature.Member) {
		created = append(created, m.ExternalID)
	})

	result, err := reconciler.SyncSession(ctx, "2025_26")
	require.NoError(t, err)
	assert.Equal(t, 3, result.CreatedCount())
	assert.Equal(t, []legislature.ExternalID{"joint"}, result.SkippedChambers, "chamber without a roster is skipped")
	assert.ElementsMatch(t, []legislature.ExternalID{"h1", "h2", "s1"}, created)
	assert.Contains(t, result.Summary(), "skipped: joint")
}

func TestMembersSyncSessionErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session is fatal", func(t *testing.T) {
		h := newHarness(local.New(gaData()))
		h.bootstrap(t)

		_, err := h.members().SyncSession(ctx, "1999_00")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		h := newHarness(local.New(gaData()))
		h.bootstrap(t)
		h.store.FailOn(memory.OpCreateMember, "s1", errors.NewAPIError("memory", 500, "boom"))

		_, err := h.members().SyncSession(ctx, "2025_26")
		require.Error(t, err)
		assert.Equal(t, 500, errors.StatusCode(err))
	})
}
