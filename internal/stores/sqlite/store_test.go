package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/internal/stores/storetest"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "legisync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) remote.Store { return createTestStore(t) })
}

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legisync.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legisync.db")
	ctx := context.Background()

	first, err := Open(path)
	require.NoError(t, err)
	g := storetest.Seed(t, first)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	sessions, err := second.ListSessions(ctx, remote.SessionFilter{ExternalID: "2025_26"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, g.Session.ID, sessions[0].ID)
	assert.Equal(t, []legislature.InternalID{g.Chamber.ID}, sessions[0].ChamberIDs)
}

func TestDeleteSessionCascades(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	g := storetest.Seed(t, s)

	_, err := s.CreateMember(ctx, remote.MemberCreate{ExternalID: "m1", Name: "Ada", ChamberID: g.Chamber.ID, SessionID: g.Session.ID})
	require.NoError(t, err)
	bill, err := s.UpsertLegislation(ctx, remote.LegislationUpsert{
		ExternalID: "hb1", NameID: "HB 1", Title: "Budget", ChamberID: g.Chamber.ID, SessionID: g.Session.ID,
	})
	require.NoError(t, err)
	_, err = s.UpsertVote(ctx, remote.VoteUpsert{ExternalID: "v1", LegislationID: bill.ID, ChamberID: g.Chamber.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(ctx, g.Session.ID))

	members, err := s.ListMembers(ctx, remote.MemberFilter{})
	require.NoError(t, err)
	assert.Empty(t, members)

	page, err := s.ListLegislation(ctx, remote.LegislationFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	votes, err := s.ListVotes(ctx, remote.VoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestUnlinkedMemberIsUnprocessable(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	g := storetest.Seed(t, s)

	senate, err := s.CreateChamber(ctx, remote.ChamberCreate{Name: "Senate", ExternalID: "upper", JurisdictionID: g.Jurisdiction.ID})
	require.NoError(t, err)

	_, err = s.CreateMember(ctx, remote.MemberCreate{ExternalID: "m1", Name: "Ada", ChamberID: senate.ID, SessionID: g.Session.ID})
	require.Error(t, err)
	assert.Equal(t, 422, errors.StatusCode(err))
}
