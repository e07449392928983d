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

// Jurisdictions ensures the jurisdiction and its declared chambers exist.
type Jurisdictions struct {
	deps
}

// NewJurisdictions creates a jurisdiction reconciler.
func NewJurisdictions(source sources.Source, store remote.Store, res *resolver.Resolver) *Jurisdictions {
	return &Jurisdictions{deps: newDeps(source, store, res)}
}

// Get resolves the jurisdiction without creating it.
func (r *Jurisdictions) Get(ctx context.Context) (*legislature.Jurisdiction, error) {
	return r.resolver.Jurisdiction(ctx)
}

// Sync resolves or creates the jurisdiction, then creates every declared
// chamber the store does not know yet. Re-running it with unchanged source
// data only re-fetches.
func (r *Jurisdictions) Sync(ctx context.Context) (*pkgsync.JurisdictionResult, error) {
	declared := r.source.Jurisdiction()
	ctx = logging.WithJurisdiction(ctx, declared.ExternalID.String())
	logger := logging.FromContext(ctx)

	result := &pkgsync.JurisdictionResult{}

	// Step 1: Resolve or create the jurisdiction
	j, err := r.resolver.Jurisdiction(ctx)
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		j, err = r.store.CreateJurisdiction(ctx, remote.JurisdictionCreate{
			Name:       declared.Name,
			ExternalID: declared.ExternalID,
			URL:        declared.URL,
		})
		if err != nil {
			return nil, errors.WrapResource("create", legislature.KindJurisdiction.String(), declared.ExternalID.String(), err)
		}
		r.resolver.StoreJurisdiction(*j)
		result.JurisdictionCreated = true
		logger.Info().Int64("jurisdiction_id", int64(j.ID)).Msg("Created jurisdiction")
	default:
		return nil, err
	}
	result.JurisdictionID = j.ID
	result.JurisdictionName = j.Name

	// Step 2: Diff declared chambers against the store
	existing, err := r.store.ListChambers(ctx, remote.ChamberFilter{JurisdictionID: j.ID})
	if err != nil {
		return nil, errors.WrapResource("list", legislature.KindChamber.String(), declared.ExternalID.String(), err)
	}
	known := make(map[legislature.ExternalID]legislature.Chamber, len(existing))
	for _, c := range existing {
		if c.ExternalID != "" {
			known[c.ExternalID] = c
		}
	}

	// Step 3: Create what is missing
	for _, decl := range declared.Chambers {
		if c, ok := known[decl.ExternalID]; ok {
			r.resolver.StoreChamber(c)
			result.ChambersUpdated = append(result.ChambersUpdated, c)
			continue
		}

		c, err := r.store.CreateChamber(ctx, remote.ChamberCreate{
			Name:           decl.Name,
			ExternalID:     decl.ExternalID,
			URL:            decl.URL,
			JurisdictionID: j.ID,
		})
		if err != nil {
			return nil, errors.WrapResource("create", legislature.KindChamber.String(), decl.ExternalID.String(), err)
		}
		r.resolver.StoreChamber(*c)
		result.ChambersCreated = append(result.ChambersCreated, *c)
		logger.Info().
			Str("chamber", decl.ExternalID.String()).
			Int64("chamber_id", int64(c.ID)).
			Msg("Created chamber")
	}

	logger.Info().
		Bool("jurisdiction_created", result.JurisdictionCreated).
		Int("chambers_created", len(result.ChambersCreated)).
		Int("chambers_existing", len(result.ChambersUpdated)).
		Msg("Jurisdiction reconciled")

	return result, nil
}
