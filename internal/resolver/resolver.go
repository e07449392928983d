// Package resolver maps external identifiers to remote store entities for the
// duration of one sync run.
//
// A lookup first consults the cache. On a miss the store is listed with an
// external-id filter: no match yields a *errors.NotFoundError, exactly one is
// cached and returned, more than one yields a *errors.InconsistencyError.
// Entities the engine has just created are seeded with the Store* methods so
// that the next lookup costs no round trip.
//
// A Resolver is owned by a single goroutine and is not safe for concurrent use.
package resolver

import (
	"context"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
)

// MemberKey identifies a member within one session. The same person may be
// returned by the source for several sessions, each a distinct remote member.
type MemberKey struct {
	Session    legislature.InternalID
	ExternalID legislature.ExternalID
}

// Resolver is a run-scoped identity cache over a remote store.
type Resolver struct {
	store          remote.Store
	jurisdictionID legislature.ExternalID

	jurisdiction *legislature.Jurisdiction
	chambers     *cache[legislature.ExternalID, legislature.Chamber]
	sessions     *cache[legislature.ExternalID, legislature.Session]
	members      *cache[MemberKey, legislature.Member]
	legislation  *cache[legislature.ExternalID, legislature.Legislation]
}

// New creates a cold resolver for the jurisdiction with the given external id.
func New(store remote.Store, jurisdiction legislature.ExternalID) *Resolver {
	r := &Resolver{
		store:          store,
		jurisdictionID: jurisdiction,
	}

	r.chambers = newCache(legislature.KindChamber, func(ctx context.Context, id legislature.ExternalID) ([]legislature.Chamber, error) {
		j, err := r.Jurisdiction(ctx)
		if err != nil {
			return nil, err
		}
		return store.ListChambers(ctx, remote.ChamberFilter{ExternalID: id, JurisdictionID: j.ID})
	}, func(id legislature.ExternalID) string { return id.String() })

	r.sessions = newCache(legislature.KindSession, func(ctx context.Context, id legislature.ExternalID) ([]legislature.Session, error) {
		j, err := r.Jurisdiction(ctx)
		if err != nil {
			return nil, err
		}
		return store.ListSessions(ctx, remote.SessionFilter{ExternalID: id, JurisdictionID: j.ID})
	}, func(id legislature.ExternalID) string { return id.String() })

	r.members = newCache(legislature.KindMember, func(ctx context.Context, key MemberKey) ([]legislature.Member, error) {
		return store.ListMembers(ctx, remote.MemberFilter{ExternalID: key.ExternalID, SessionID: key.Session})
	}, func(key MemberKey) string { return key.ExternalID.String() })

	r.legislation = newCache(legislature.KindLegislation, func(ctx context.Context, id legislature.ExternalID) ([]legislature.Legislation, error) {
		page, err := store.ListLegislation(ctx, remote.LegislationFilter{ExternalID: id})
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	}, func(id legislature.ExternalID) string { return id.String() })

	return r
}

// JurisdictionExternalID returns the external id the resolver is bound to.
func (r *Resolver) JurisdictionExternalID() legislature.ExternalID {
	return r.jurisdictionID
}

// Jurisdiction resolves the run's jurisdiction.
func (r *Resolver) Jurisdiction(ctx context.Context) (*legislature.Jurisdiction, error) {
	if r.jurisdiction != nil {
		return r.jurisdiction, nil
	}

	found, err := r.store.ListJurisdictions(ctx, remote.JurisdictionFilter{ExternalID: r.jurisdictionID})
	if err != nil {
		return nil, err
	}

	j, err := single(legislature.KindJurisdiction, r.jurisdictionID.String(), found)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Int64("jurisdiction_id", int64(j.ID)).
		Msg("Resolved jurisdiction")

	r.jurisdiction = j
	return j, nil
}

// StoreJurisdiction seeds the jurisdiction cell.
func (r *Resolver) StoreJurisdiction(j legislature.Jurisdiction) {
	r.jurisdiction = &j
}

// Chamber resolves a chamber of the run's jurisdiction.
func (r *Resolver) Chamber(ctx context.Context, id legislature.ExternalID) (*legislature.Chamber, error) {
	return r.chambers.resolve(ctx, id)
}

// StoreChamber seeds a chamber.
func (r *Resolver) StoreChamber(c legislature.Chamber) {
	r.chambers.store(c.ExternalID, c)
}

// Session resolves a session of the run's jurisdiction.
func (r *Resolver) Session(ctx context.Context, id legislature.ExternalID) (*legislature.Session, error) {
	return r.sessions.resolve(ctx, id)
}

// StoreSession seeds a session.
func (r *Resolver) StoreSession(s legislature.Session) {
	r.sessions.store(s.ExternalID, s)
}

// EvictSession drops a session from the cache.
func (r *Resolver) EvictSession(id legislature.ExternalID) {
	r.sessions.evict(id)
}

// Member resolves a member sitting during the given session.
func (r *Resolver) Member(ctx context.Context, session legislature.InternalID, id legislature.ExternalID) (*legislature.Member, error) {
	return r.members.resolve(ctx, MemberKey{Session: session, ExternalID: id})
}

// StoreMember seeds a member under its session.
func (r *Resolver) StoreMember(m legislature.Member) {
	r.members.store(MemberKey{Session: m.SessionID, ExternalID: m.ExternalID}, m)
}

// Legislation resolves a piece of legislation.
func (r *Resolver) Legislation(ctx context.Context, id legislature.ExternalID) (*legislature.Legislation, error) {
	return r.legislation.resolve(ctx, id)
}

// StoreLegislation seeds a piece of legislation.
func (r *Resolver) StoreLegislation(l legislature.Legislation) {
	r.legislation.store(l.ExternalID, l)
}

// Stats reports cache occupancy per kind.
func (r *Resolver) Stats() map[legislature.Kind]int {
	jurisdictions := 0
	if r.jurisdiction != nil {
		jurisdictions = 1
	}
	return map[legislature.Kind]int{
		legislature.KindJurisdiction: jurisdictions,
		legislature.KindChamber:      r.chambers.len(),
		legislature.KindSession:      r.sessions.len(),
		legislature.KindMember:       r.members.len(),
		legislature.KindLegislation:  r.legislation.len(),
	}
}

// single enforces the zero-or-one contract of external-id lookups.
func single[T any](kind legislature.Kind, id string, found []T) (*T, error) {
	switch len(found) {
	case 0:
		return nil, errors.NewNotFoundError(kind.String(), id)
	case 1:
		v := found[0]
		return &v, nil
	default:
		return nil, errors.NewInconsistencyError(kind.String(), id, len(found))
	}
}
