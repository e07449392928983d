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

// Sessions ensures sessions exist and are linked to every chamber of their
// jurisdiction.
type Sessions struct {
	deps
	onCreated func(legislature.Session)
}

// NewSessions creates a session reconciler. onCreated, if not nil, runs for
// every session created and fully linked.
func NewSessions(source sources.Source, store remote.Store, res *resolver.Resolver, onCreated func(legislature.Session)) *Sessions {
	return &Sessions{deps: newDeps(source, store, res), onCreated: onCreated}
}

// Sync creates unknown sessions and updates known ones, linking every session
// to every chamber each time. A chamber link that fails with anything but a
// conflict aborts the call; a session created in that call is deleted again,
// so no session is left linked to a subset of its chambers.
func (r *Sessions) Sync(ctx context.Context) (*pkgsync.SessionsResult, error) {
	// Step 1: Resolve the jurisdiction
	j, err := r.resolver.Jurisdiction(ctx)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithJurisdiction(ctx, j.ExternalID.String())
	logger := logging.FromContext(ctx)

	// Step 2: Load what the store already has
	existing, err := r.store.ListSessions(ctx, remote.SessionFilter{JurisdictionID: j.ID})
	if err != nil {
		return nil, errors.WrapResource("list", legislature.KindSession.String(), j.ExternalID.String(), err)
	}
	known := make(map[legislature.ExternalID]legislature.Session, len(existing))
	for _, s := range existing {
		if s.ExternalID != "" {
			known[s.ExternalID] = s
		}
	}

	chambers, err := r.store.ListChambers(ctx, remote.ChamberFilter{JurisdictionID: j.ID})
	if err != nil {
		return nil, errors.WrapResource("list", legislature.KindChamber.String(), j.ExternalID.String(), err)
	}

	// Step 3: Fetch the source's sessions
	fetched, err := r.source.ListSessions(ctx)
	if err != nil {
		return nil, errors.WrapResource("fetch", legislature.KindSession.String(), j.ExternalID.String(), err)
	}

	// Step 4: Update or create each one
	result := &pkgsync.SessionsResult{}
	for _, ext := range fetched {
		if current, ok := known[ext.ExternalID]; ok {
			updated, err := r.store.UpdateSession(ctx, current.ID, remote.SessionUpdate{
				Name:     ext.Name,
				StartsAt: ext.StartsAt,
				EndsAt:   ext.EndsAt,
			})
			if err != nil {
				return nil, errors.WrapResource("update", legislature.KindSession.String(), ext.ExternalID.String(), err)
			}
			// Repairs links missing from an earlier run or for chambers added since.
			if err := r.linkAll(ctx, updated, chambers); err != nil {
				return nil, err
			}
			r.resolver.StoreSession(*updated)
			result.Updated = append(result.Updated, *updated)
			continue
		}

		created, err := r.store.CreateSession(ctx, remote.SessionCreate{
			Name:           ext.Name,
			ExternalID:     ext.ExternalID,
			URL:            ext.URL,
			StartsAt:       ext.StartsAt,
			EndsAt:         ext.EndsAt,
			JurisdictionID: j.ID,
		})
		if err != nil {
			return nil, errors.WrapResource("create", legislature.KindSession.String(), ext.ExternalID.String(), err)
		}

		if err := r.linkAll(ctx, created, chambers); err != nil {
			if derr := r.store.DeleteSession(ctx, created.ID); derr != nil {
				logger.Error().Err(derr).
					Str("session", ext.ExternalID.String()).
					Int64("session_id", int64(created.ID)).
					Msg("Rolling back partially linked session")
			}
			return nil, err
		}

		r.resolver.StoreSession(*created)
		result.Created = append(result.Created, *created)
		logger.Info().
			Str("session", ext.ExternalID.String()).
			Int64("session_id", int64(created.ID)).
			Int("chambers", len(chambers)).
			Msg("Created session")

		if r.onCreated != nil {
			r.onCreated(*created)
		}
	}

	logger.Info().
		Int("created", len(result.Created)).
		Int("updated", len(result.Updated)).
		Msg("Sessions reconciled")

	return result, nil
}

// linkAll links session to every chamber. A conflict means the link already
// exists and counts as success.
func (r *Sessions) linkAll(ctx context.Context, session *legislature.Session, chambers []legislature.Chamber) error {
	for _, c := range chambers {
		err := r.store.LinkChamberSession(ctx, legislature.ChamberSessionLink{
			SessionID: session.ID,
			ChamberID: c.ID,
		})
		switch {
		case err == nil:
		case errors.IsConflict(err):
			logging.FromContext(ctx).Debug().
				Str("session", session.ExternalID.String()).
				Str("chamber", c.ExternalID.String()).
				Msg("Chamber already linked")
		default:
			return errors.WrapResource("link", legislature.KindSession.String(), session.ExternalID.String(), err)
		}
		session.ChamberIDs = appendUnique(session.ChamberIDs, c.ID)
	}
	return nil
}

// Delete removes a session from the store and forgets it.
func (r *Sessions) Delete(ctx context.Context, id legislature.ExternalID) error {
	s, err := r.resolver.Session(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.DeleteSession(ctx, s.ID); err != nil {
		return errors.WrapResource("delete", legislature.KindSession.String(), id.String(), err)
	}
	r.resolver.EvictSession(id)
	logging.FromContext(ctx).Info().
		Str("session", id.String()).
		Int64("session_id", int64(s.ID)).
		Msg("Deleted session")
	return nil
}

func appendUnique(ids []legislature.InternalID, id legislature.InternalID) []legislature.InternalID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
