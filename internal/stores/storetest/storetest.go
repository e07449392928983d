// Package storetest provides a contract suite every remote.Store
// implementation runs in its own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) remote.Store

// Graph is a jurisdiction with one linked chamber and session.
type Graph struct {
	Jurisdiction *legislature.Jurisdiction
	Chamber      *legislature.Chamber
	Session      *legislature.Session
}

// Seed creates a Graph in store.
func Seed(t *testing.T, store remote.Store) Graph {
	t.Helper()
	ctx := context.Background()

	j, err := store.CreateJurisdiction(ctx, remote.JurisdictionCreate{Name: "Georgia", ExternalID: "ga"})
	require.NoError(t, err)
	c, err := store.CreateChamber(ctx, remote.ChamberCreate{Name: "House", ExternalID: "lower", JurisdictionID: j.ID})
	require.NoError(t, err)
	s, err := store.CreateSession(ctx, remote.SessionCreate{Name: "2025-2026", ExternalID: "2025_26", JurisdictionID: j.ID})
	require.NoError(t, err)
	require.NoError(t, store.LinkChamberSession(ctx, legislature.ChamberSessionLink{SessionID: s.ID, ChamberID: c.ID}))

	return Graph{Jurisdiction: j, Chamber: c, Session: s}
}

// Run exercises the remote.Store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("jurisdictions", func(t *testing.T) { testJurisdictions(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("links", func(t *testing.T) { testLinks(t, newStore(t)) })
	t.Run("members", func(t *testing.T) { testMembers(t, newStore(t)) })
	t.Run("legislation", func(t *testing.T) { testLegislation(t, newStore(t)) })
	t.Run("votes", func(t *testing.T) { testVotes(t, newStore(t)) })
}

func testJurisdictions(t *testing.T, store remote.Store) {
	ctx := context.Background()
	g := Seed(t, store)

	found, err := store.ListJurisdictions(ctx, remote.JurisdictionFilter{ExternalID: "ga"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, g.Jurisdiction.ID, found[0].ID)
	require.Len(t, found[0].Chambers, 1)
	assert.Equal(t, g.Chamber.ID, found[0].Chambers[0].ID)

	none, err := store.ListJurisdictions(ctx, remote.JurisdictionFilter{ExternalID: "tx"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.CreateJurisdiction(ctx, remote.JurisdictionCreate{Name: "Georgia again", ExternalID: "ga"})
	assert.True(t, errors.IsConflict(err), "duplicate jurisdiction: %v", err)

	_, err = store.CreateChamber(ctx, remote.ChamberCreate{Name: "Senate", ExternalID: "upper", JurisdictionID: 9999})
	assert.True(t, errors.IsNotFound(err), "chamber of missing jurisdiction: %v", err)

	_, err = store.CreateChamber(ctx, remote.ChamberCreate{Name: "House", ExternalID: "lower", JurisdictionID: g.Jurisdiction.ID})
	assert.True(t, errors.IsConflict(err), "duplicate chamber: %v", err)

	chambers, err := store.ListChambers(ctx, remote.ChamberFilter{ExternalID: "lower", JurisdictionID: g.Jurisdiction.ID})
	require.NoError(t, err)
	assert.Len(t, chambers, 1)
}

func testSessions(t *testing.T, store remote.Store) {
	ctx := context.Background()
	g := Seed(t, store)

	starts := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	updated, err := store.UpdateSession(ctx, g.Session.ID, remote.SessionUpdate{Name: "2025-2026 Regular", StartsAt: &starts})
	require.NoError(t, err)
	assert.Equal(t, "2025-2026 Regular", updated.Name)
	require.NotNil(t, updated.StartsAt)
	assert.True(t, starts.Equal(*updated.StartsAt))

	found, err := store.ListSessions(ctx, remote.SessionFilter{ExternalID: "2025_26", JurisdictionID: g.Jurisdiction.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, []legislature.InternalID{g.Chamber.ID}, found[0].ChamberIDs)

	_, err = store.UpdateSession(ctx, 9999, remote.SessionUpdate{Name: "missing"})
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, store.DeleteSession(ctx, g.Session.ID))
	assert.True(t, errors.IsNotFound(store.DeleteSession(ctx, g.Session.ID)))

	found, err = store.ListSessions(ctx, remote.SessionFilter{ExternalID: "2025_26"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func testLinks(t *testing.T, store remote.Store) {
	ctx := context.Background()
	g := Seed(t, store)

	err := store.LinkChamberSession(ctx, legislature.ChamberSessionLink{SessionID: g.Session.ID, ChamberID: g.Chamber.ID})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err), "relink: %v", err)

	err = store.LinkChamberSession(ctx, legislature.ChamberSessionLink{SessionID: 9999, ChamberID: g.Chamber.ID})
	assert.True(t, errors.IsNotFound(err))
}

func testMembers(t *testing.T, store remote.Store) {
	ctx := context.Background()
	g := Seed(t, store)

	m, err := store.CreateMember(ctx, remote.MemberCreate{
		ExternalID: "m1", Name: "Ada", Party: "D", ChamberID: g.Chamber.ID, SessionID: g.Session.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	_, err = store.CreateMember(ctx, remote.MemberCreate{
		ExternalID: "m1", Name: "Ada", ChamberID: g.Chamber.ID, SessionID: g.Session.ID,
	})
	assert.True(t, errors.IsConflict(err), "duplicate member: %v", err)

	senate, err := store.CreateChamber(ctx, remote.ChamberCreate{Name: "Senate", ExternalID: "upper", JurisdictionID: g.Jurisdiction.ID})
	require.NoError(t, err)
	_, err = store.CreateMember(ctx, remote.MemberCreate{
		ExternalID: "m2", Name: "Grace", ChamberID: senate.ID, SessionID: g.Session.ID,
	})
	require.Error(t, err, "member of an unlinked chamber")

	found, err := store.ListMembers(ctx, remote.MemberFilter{ExternalID: "m1", SessionID: g.Session.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, m.ID, found[0].ID)
	assert.Equal(t, "D", found[0].Party)

	found, err = store.ListMembers(ctx, remote.MemberFilter{ChamberID: senate.ID})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func testLegislation(t *testing.T, store remote.Store) {
	ctx := context.Background()
	g := Seed(t, store)

	introduced := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	for _, ext := range []legislature.ExternalID{"hb1", "hb2", "hb3"} {
		_, err := store.UpsertLegislation(ctx, remote.LegislationUpsert{
			ExternalID: ext, NameID: ext.String(), Title: "Title " + ext.String(),
			IntroducedAt: &introduced, ChamberID: g.Chamber.ID, SessionID: g.Session.ID,
		})
		require.NoError(t, err)
	}

	first, err := store.ListLegislation(ctx, remote.LegislationFilter{ExternalID: "hb1"})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	id := first.Items[0].ID

	again, err := store.UpsertLegislation(ctx, remote.LegislationUpsert{
		ExternalID: "hb1", NameID: "HB 1", Title: "Budget", Status: "passed",
		ChamberID: g.Chamber.ID, SessionID: g.Session.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, id, again.ID, "upsert keeps identity")
	assert.Equal(t, "passed", again.Status)
	assert.Nil(t, again.IntroducedAt)

	page, err := store.ListLegislation(ctx, remote.LegislationFilter{SessionID: g.Session.ID, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.NumPages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, "hb3", page.Items[0].ExternalID)

	beyond, err := store.ListLegislation(ctx, remote.LegislationFilter{SessionID: g.Session.ID, Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)

	_, err = store.UpsertLegislation(ctx, remote.LegislationUpsert{
		ExternalID: "hb9", NameID: "HB 9", Title: "Orphan", ChamberID: g.Chamber.ID, SessionID: 9999,
	})
	assert.True(t, errors.IsNotFound(err))

	// Ownership is fixed at creation.
	next, err := store.CreateSession(ctx, remote.SessionCreate{Name: "2027-2028", ExternalID: "2027_28", JurisdictionID: g.Jurisdiction.ID})
	require.NoError(t, err)
	moved, err := store.UpsertLegislation(ctx, remote.LegislationUpsert{
		ExternalID: "hb2", NameID: "HB 2", Title: "Roads", ChamberID: g.Chamber.ID, SessionID: next.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, g.Session.ID, moved.SessionID)
	assert.Equal(t, "Roads", moved.Title)
	owned, err := store.ListLegislation(ctx, remote.LegislationFilter{SessionID: g.Session.ID, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, owned.Total)
}

func testVotes(t *testing.T, store remote.Store) {
	ctx := context.Background()
	g := Seed(t, store)

	m, err := store.CreateMember(ctx, remote.MemberCreate{ExternalID: "m1", Name: "Ada", ChamberID: g.Chamber.ID, SessionID: g.Session.ID})
	require.NoError(t, err)
	bill, err := store.UpsertLegislation(ctx, remote.LegislationUpsert{
		ExternalID: "hb1", NameID: "HB 1", Title: "Budget", ChamberID: g.Chamber.ID, SessionID: g.Session.ID,
		SponsorIDs: []legislature.InternalID{m.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []legislature.InternalID{m.ID}, bill.SponsorIDs)

	votedAt := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	v, err := store.UpsertVote(ctx, remote.VoteUpsert{
		ExternalID: "hb1|lower|passage", LegislationID: bill.ID, ChamberID: g.Chamber.ID,
		Motion: "passage", VotedAt: &votedAt, Yes: 1,
		MemberVotes: []legislature.MemberVote{{MemberID: m.ID, Choice: legislature.VoteYes}},
	})
	require.NoError(t, err)

	again, err := store.UpsertVote(ctx, remote.VoteUpsert{
		ExternalID: "hb1|lower|passage", LegislationID: bill.ID, ChamberID: g.Chamber.ID,
		Motion: "passage", VotedAt: &votedAt, No: 1,
		MemberVotes: []legislature.MemberVote{{MemberID: m.ID, Choice: legislature.VoteNo}},
	})
	require.NoError(t, err)
	assert.Equal(t, v.ID, again.ID)

	votes, err := store.ListVotes(ctx, remote.VoteFilter{LegislationID: bill.ID})
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, 1, votes[0].No)
	assert.Equal(t, []legislature.MemberVote{{MemberID: m.ID, Choice: legislature.VoteNo}}, votes[0].MemberVotes)
	require.NotNil(t, votes[0].VotedAt)
	assert.True(t, votedAt.Equal(*votes[0].VotedAt))

	_, err = store.UpsertVote(ctx, remote.VoteUpsert{ExternalID: "x", LegislationID: 9999, ChamberID: g.Chamber.ID})
	assert.True(t, errors.IsNotFound(err))
}
