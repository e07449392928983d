package reconcile

import (
	"context"

	"github.com/openstatehouse/legisync/internal/resolver"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// Members ensures the members of a chamber during a session exist. Known
// members are only checked for existence; their fields are not compared.
type Members struct {
	deps
	onCreated func(legislature.Member)
}

// NewMembers creates a member reconciler.
func NewMembers(source sources.Source, store remote.Store, res *resolver.Resolver, onCreated func(legislature.Member)) *Members {
	return &Members{deps: newDeps(source, store, res), onCreated: onCreated}
}

// SyncChamber reconciles the members of one chamber-session pair.
func (r *Members) SyncChamber(ctx context.Context, sessionID, chamberID legislature.ExternalID) (*pkgsync.ChamberMembersResult, error) {
	ctx = logging.WithChamber(logging.WithSession(ctx, sessionID.String()), chamberID.String())

	session, err := r.resolver.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	chamber, err := r.resolver.Chamber(ctx, chamberID)
	if err != nil {
		return nil, err
	}

	fetched, err := r.source.ListMembers(ctx, sessionID, chamberID)
	if err != nil {
		return nil, err
	}

	existing, err := r.store.ListMembers(ctx, remote.MemberFilter{ChamberID: chamber.ID, SessionID: session.ID})
	if err != nil {
		return nil, errors.WrapResource("list", legislature.KindMember.String(), chamberID.String(), err)
	}
	known := make(map[legislature.ExternalID]legislature.Member, len(existing))
	for _, m := range existing {
		if m.ExternalID != "" {
			known[m.ExternalID] = m
		}
	}

	result := &pkgsync.ChamberMembersResult{Chamber: chamberID}
	for _, ext := range fetched {
		if m, ok := known[ext.ExternalID]; ok {
			r.resolver.StoreMember(m)
			result.Duplicates = append(result.Duplicates, m)
			continue
		}

		m, err := r.store.CreateMember(ctx, remote.MemberCreate{
			ExternalID: ext.ExternalID,
			Name:       ext.Name,
			Party:      ext.Party,
			District:   ext.District,
			URL:        ext.URL,
			ChamberID:  chamber.ID,
			SessionID:  session.ID,
		})
		if err != nil {
			return nil, errors.WrapResource("create", legislature.KindMember.String(), ext.ExternalID.String(), err)
		}
		r.resolver.StoreMember(*m)
		known[m.ExternalID] = *m
		result.MaybeNew = append(result.MaybeNew, *m)

		if r.onCreated != nil {
			r.onCreated(*m)
		}
	}

	logging.FromContext(ctx).Info().
		Int("created", len(result.MaybeNew)).
		Int("duplicates", len(result.Duplicates)).
		Msg("Chamber members reconciled")

	return result, nil
}

// SyncSession reconciles members for every chamber of the jurisdiction.
// Chambers the source or the store does not know are skipped; any other
// error aborts.
func (r *Members) SyncSession(ctx context.Context, sessionID legislature.ExternalID) (*pkgsync.MembersResult, error) {
	declared := r.source.Jurisdiction()

	// An unknown session is fatal, unlike an unknown chamber
	if _, err := r.resolver.Session(ctx, sessionID); err != nil {
		return nil, err
	}

	result := &pkgsync.MembersResult{Session: sessionID}
	for _, c := range declared.Chambers {
		chamberResult, err := r.SyncChamber(ctx, sessionID, c.ExternalID)
		if err != nil {
			if errors.IsNotFound(err) {
				logging.FromContext(ctx).Debug().
					Str("session", sessionID.String()).
					Str("chamber", c.ExternalID.String()).
					Err(err).
					Msg("Skipping chamber")
				result.SkippedChambers = append(result.SkippedChambers, c.ExternalID)
				continue
			}
			return nil, err
		}
		result.Chambers = append(result.Chambers, *chamberResult)
	}
	return result, nil
}
