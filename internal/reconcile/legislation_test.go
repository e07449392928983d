package reconcile

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
	"github.com/openstatehouse/legisync/pkg/sources"
)

func drive(t *testing.T, loop *Loop) int {
	t.Helper()
	iterations := 0
	for {
		iterations++
		status, err := loop.RunLoop(context.Background())
		require.NoError(t, err)
		if status == Finished {
			return iterations
		}
		require.Less(t, iterations, 1000, "loop did not terminate")
	}
}

func TestLoopTermination(t *testing.T) {
	tests := []struct {
		name      string
		numPages  int
		maxPage   *int
		emptyFrom int
		wantPages []int
	}{
		{name: "single page", numPages: 1, wantPages: []int{0}},
		{name: "all pages", numPages: 5, wantPages: []int{0, 1, 2, 3, 4}},
		{name: "max page bounds the loop", numPages: 5, maxPage: ptr.To(2), wantPages: []int{0, 1, 2}},
		{name: "max page zero", numPages: 5, maxPage: ptr.To(0), wantPages: []int{0}},
		{name: "max page beyond last page", numPages: 3, maxPage: ptr.To(10), wantPages: []int{0, 1, 2}},
		{name: "empty page stops early", numPages: 5, emptyFrom: 2, wantPages: []int{0, 1, 2}},
		{name: "no pages", numPages: 0, wantPages: []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newPagedSource(tt.numPages, 2)
			if tt.emptyFrom > 0 {
				src.emptyFrom = tt.emptyFrom
			}
			loop := NewLoop(src, "2025_26", 2, tt.maxPage)

			iterations := drive(t, loop)

			var pages []int
			for _, r := range src.requests {
				pages = append(pages, r.page)
			}
			assert.Equal(t, tt.wantPages, pages)
			assert.Equal(t, len(tt.wantPages), iterations)
			assert.Equal(t, len(tt.wantPages), loop.PagesFetched())

			// Calling again after Finished fetches nothing
			status, err := loop.RunLoop(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Finished, status)
			assert.Len(t, src.requests, len(tt.wantPages))
		})
	}
}

func TestLoopAccumulatesAndDrains(t *testing.T) {
	src := newPagedSource(3, 2)
	loop := NewLoop(src, "2025_26", 2, nil)
	drive(t, loop)

	items := loop.Drain()
	assert.Len(t, items, 6)
	assert.Equal(t, legislature.ExternalID("HB0"), items[0].ExternalID)
	assert.Empty(t, loop.Drain())
}

func TestLoopOrderingFallback(t *testing.T) {
	t.Run("falls back to earliest once", func(t *testing.T) {
		src := newPagedSource(2, 1)
		src.unsupported[sources.OrderLatest] = true
		loop := NewLoop(src, "2025_26", 1, nil)

		drive(t, loop)

		assert.Equal(t, []pageRequest{
			{page: 0, orderBy: sources.OrderLatest},
			{page: 0, orderBy: sources.OrderEarliest},
			{page: 1, orderBy: sources.OrderEarliest},
		}, src.requests)
		assert.Equal(t, sources.OrderEarliest, loop.OrderBy())
	})

	t.Run("second failure propagates", func(t *testing.T) {
		src := newPagedSource(2, 1)
		src.unsupported[sources.OrderLatest] = true
		src.unsupported[sources.OrderEarliest] = true
		loop := NewLoop(src, "2025_26", 1, nil)

		_, err := loop.RunLoop(context.Background())
		assert.ErrorIs(t, err, sources.ErrOrderingUnsupported)
		assert.Len(t, src.requests, 2)
	})

	t.Run("other errors do not trigger fallback", func(t *testing.T) {
		src := newPagedSource(2, 1)
		src.failWith = errors.NewAPIError("feed", 500, "boom")
		loop := NewLoop(src, "2025_26", 1, nil)

		_, err := loop.RunLoop(context.Background())
		require.Error(t, err)
		assert.Len(t, src.requests, 1)
		assert.Equal(t, sources.OrderLatest, loop.OrderBy())
	})
}

func TestLoopCanceledContext(t *testing.T) {
	src := newPagedSource(3, 1)
	loop := NewLoop(src, "2025_26", 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loop.RunLoop(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.requests)
}

func TestNeedsUpdate(t *testing.T) {
	at := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	later := at.Add(time.Hour)

	external := sources.Legislation{
		ExternalID:      "HB1",
		Title:           "Budget",
		Status:          "introduced",
		StatusText:      "Read first time",
		StatusUpdatedAt: &at,
		ExternalURL:     "https://example.org/hb1",
		Type:            "bill",
		NameID:          "HB 1",
	}
	current := legislature.Legislation{
		ExternalID:      "HB1",
		Title:           "Budget",
		Status:          "introduced",
		StatusText:      "Read first time",
		StatusUpdatedAt: ptr.To(at.In(time.FixedZone("EST", -5*3600))),
		ExternalURL:     "https://example.org/hb1",
		Type:            "bill",
		NameID:          "HB 1 (old)",
	}

	assert.False(t, NeedsUpdate(external, current), "untracked fields and time zones do not matter")

	mutations := map[string]func(*sources.Legislation){
		"title":             func(l *sources.Legislation) { l.Title = "Budget (amended)" },
		"status":            func(l *sources.Legislation) { l.Status = "passed" },
		"status text":       func(l *sources.Legislation) { l.StatusText = "Passed House" },
		"status updated at": func(l *sources.Legislation) { l.StatusUpdatedAt = &later },
		"status time nil":   func(l *sources.Legislation) { l.StatusUpdatedAt = nil },
		"external url":      func(l *sources.Legislation) { l.ExternalURL = "https://example.org/hb1v2" },
		"type":              func(l *sources.Legislation) { l.Type = "resolution" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			changed := external
			mutate(&changed)
			assert.True(t, NeedsUpdate(changed, current))
		})
	}
}

func TestLegislationSync(t *testing.T) {
	ctx := context.Background()
	data := gaData()
	h := newHarness(local.New(data))
	h.bootstrap(t)
	_, err := h.members().SyncSession(ctx, "2025_26")
	require.NoError(t, err)

	var upserts int
	reconciler := NewLegislation(h.source, h.store, h.resolver, func(legislature.Legislation, bool) { upserts++ })

	first, err := reconciler.Sync(ctx, "2025_26", 2, nil)
	require.NoError(t, err)
	assert.Len(t, first.Created, 3)
	assert.Empty(t, first.Updated)
	assert.Equal(t, 2, first.PagesFetched)
	assert.Equal(t, "latest", first.OrderBy)
	assert.Equal(t, 1, first.SkippedSponsors)
	assert.Equal(t, legislature.ExternalID("HB1"), first.Created[0].ExternalID, "most recently updated first")
	assert.Len(t, first.Created[0].SponsorIDs, 1)
	assert.Equal(t, 3, upserts)

	t.Run("unchanged items are skipped", func(t *testing.T) {
		h.fresh()
		result, err := h.legislation().Sync(ctx, "2025_26", 50, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Created)
		assert.Empty(t, result.Updated)
		assert.Equal(t, 3, result.Unchanged)
		assert.Equal(t, 3, h.store.Calls(memory.OpUpsertLegislation))
	})

	t.Run("changed items are updated", func(t *testing.T) {
		data.Legislation["2025_26"][1].Status = "passed"
		h.source = local.New(data)

		result, err := h.legislation().Sync(ctx, "2025_26", 50, nil)
		require.NoError(t, err)
		require.Len(t, result.Updated, 1)
		assert.Equal(t, legislature.ExternalID("HB2"), result.Updated[0].ExternalID)
		assert.Equal(t, 2, result.Unchanged)
	})

	t.Run("list returns the store view", func(t *testing.T) {
		page, err := h.legislation().List(ctx, "2025_26", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 2, page.NumPages)
		assert.Len(t, page.Items, 1)
	})
}

func TestLegislationSyncFallsBackForUndatedSource(t *testing.T) {
	ctx := context.Background()
	data := gaData()
	for i := range data.Legislation["2025_26"] {
		data.Legislation["2025_26"][i].UpdatedAt = nil
	}
	h := newHarness(local.New(data))
	h.bootstrap(t)

	result, err := h.legislation().Sync(ctx, "2025_26", 50, nil)
	require.NoError(t, err)
	assert.Equal(t, "earliest", result.OrderBy)
	assert.Len(t, result.Created, 3)
}

func TestLegislationSyncErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		h := newHarness(local.New(gaData()))
		h.bootstrap(t)
		_, err := h.legislation().Sync(ctx, "nope", 50, nil)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("unknown chamber is fatal", func(t *testing.T) {
		data := gaData()
		data.Legislation["2025_26"][0].ChamberExternalID = "joint"
		h := newHarness(local.New(data))
		h.bootstrap(t)

		_, err := h.legislation().Sync(ctx, "2025_26", 50, nil)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, 0, h.store.Calls(memory.OpUpsertLegislation))
	})

	t.Run("max page bounds fetching", func(t *testing.T) {
		h := newHarness(local.New(gaData()))
		h.bootstrap(t)
		result, err := h.legislation().Sync(ctx, "2025_26", 1, ptr.To(1))
		require.NoError(t, err)
		assert.Equal(t, 2, result.PagesFetched)
		assert.Len(t, result.Created, 2)
	})

	t.Run("external id owned by another session", func(t *testing.T) {
		data := gaData()
		data.Sessions = append(data.Sessions, sources.Session{Name: "2027-2028 Regular Session", ExternalID: "2027_28"})
		data.Legislation["2027_28"] = []sources.Legislation{
			{ExternalID: "HB1", ChamberExternalID: "house", NameID: "HB 1", Title: "Budget, again"},
		}
		h := newHarness(local.New(data))
		h.bootstrap(t)
		_, err := h.legislation().Sync(ctx, "2025_26", 50, nil)
		require.NoError(t, err)
		h.store.ResetCalls()

		_, err = h.legislation().Sync(ctx, "2027_28", 50, nil)
		require.Error(t, err)
		assert.True(t, errors.IsInconsistent(err))
		assert.Equal(t, 0, h.store.Calls(memory.OpUpsertLegislation))

		owned, err := h.legislation().List(ctx, "2025_26", 0, 50)
		require.NoError(t, err)
		assert.Equal(t, 3, owned.Total)
	})
}
