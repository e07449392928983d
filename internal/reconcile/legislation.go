package reconcile

import (
	"context"
	"fmt"

	"github.com/openstatehouse/legisync/internal/resolver"
	"github.com/openstatehouse/legisync/internal/utils/ptr"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// LoopStatus reports whether a pagination loop has more pages to fetch.
type LoopStatus int

const (
	// NeedsAnotherLoop means RunLoop should be called again.
	NeedsAnotherLoop LoopStatus = iota
	// Finished means the loop is done and the accumulator can be drained.
	Finished
)

// String returns the string representation of a loop status.
func (s LoopStatus) String() string {
	if s == Finished {
		return "finished"
	}
	return "needs_another_loop"
}

// Loop pages through a session's legislation. It fetches at most
// min(numPages, maxPage+1) pages, plus one retry if the source cannot order
// by recency.
type Loop struct {
	source  sources.Source
	session legislature.ExternalID

	page     int
	pageSize int
	orderBy  sources.OrderBy
	maxPage  *int
	fellBack bool
	done     bool
	fetched  int

	accumulator []sources.Legislation
}

// NewLoop creates a loop starting at page 0 ordered by recency. A nil maxPage
// fetches every page.
func NewLoop(source sources.Source, session legislature.ExternalID, pageSize int, maxPage *int) *Loop {
	return &Loop{
		source:   source,
		session:  session,
		pageSize: pageSize,
		orderBy:  sources.OrderLatest,
		maxPage:  maxPage,
	}
}

// RunLoop fetches the current page and appends its items to the
// accumulator. If the source rejects recency ordering the loop switches to
// OrderEarliest once and retries the same page.
func (l *Loop) RunLoop(ctx context.Context) (LoopStatus, error) {
	if l.done {
		return Finished, nil
	}
	if err := ctx.Err(); err != nil {
		return Finished, err
	}

	page, err := l.source.FetchLegislation(ctx, l.session, l.orderBy, l.page, l.pageSize)
	if errors.Is(err, sources.ErrOrderingUnsupported) && !l.fellBack && l.orderBy == sources.OrderLatest {
		logging.FromContext(ctx).Warn().
			Int("page", l.page).
			Msg("Source cannot order by recency, falling back to earliest first")
		l.fellBack = true
		l.orderBy = sources.OrderEarliest
		page, err = l.source.FetchLegislation(ctx, l.session, l.orderBy, l.page, l.pageSize)
	}
	if err != nil {
		return Finished, err
	}
	l.fetched++

	l.accumulator = append(l.accumulator, page.Items...)

	logging.FromContext(ctx).Debug().
		Int("page", l.page).
		Int("num_pages", page.NumPages).
		Int("items", len(page.Items)).
		Str("order_by", l.orderBy.String()).
		Msg("Fetched legislation page")

	if len(page.Items) == 0 ||
		l.page >= page.NumPages-1 ||
		(l.maxPage != nil && l.page >= *l.maxPage) {
		l.done = true
		return Finished, nil
	}

	l.page++
	return NeedsAnotherLoop, nil
}

// Drain returns the accumulated items and empties the accumulator.
func (l *Loop) Drain() []sources.Legislation {
	items := l.accumulator
	l.accumulator = nil
	return items
}

// Page returns the page the next RunLoop call fetches.
func (l *Loop) Page() int { return l.page }

// OrderBy returns the ordering currently in use.
func (l *Loop) OrderBy() sources.OrderBy { return l.orderBy }

// PagesFetched returns the number of pages successfully fetched.
func (l *Loop) PagesFetched() int { return l.fetched }

// NeedsUpdate reports whether any tracked field of the fetched record differs
// from the store's view: title, status, status text, status time, external
// URL or type.
func NeedsUpdate(external sources.Legislation, current legislature.Legislation) bool {
	return external.Title != current.Title ||
		external.Status != current.Status ||
		external.StatusText != current.StatusText ||
		!ptr.EqualTime(external.StatusUpdatedAt, current.StatusUpdatedAt) ||
		external.ExternalURL != current.ExternalURL ||
		external.Type != current.Type
}

// Legislation upserts a session's legislation.
type Legislation struct {
	deps
	onUpserted func(legislature.Legislation, bool)
}

// NewLegislation creates a legislation reconciler. onUpserted, if not nil,
// runs after every upsert with whether the item was created.
func NewLegislation(source sources.Source, store remote.Store, res *resolver.Resolver, onUpserted func(legislature.Legislation, bool)) *Legislation {
	return &Legislation{deps: newDeps(source, store, res), onUpserted: onUpserted}
}

// Sync pages through the session's legislation and upserts every item whose
// tracked fields changed.
func (r *Legislation) Sync(ctx context.Context, sessionID legislature.ExternalID, pageSize int, maxPage *int) (*pkgsync.LegislationResult, error) {
	ctx = logging.WithSession(ctx, sessionID.String())
	logger := logging.FromContext(ctx)

	// Step 1: The session must already exist
	session, err := r.resolver.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Step 2: Page through the source
	loop := NewLoop(r.source, sessionID, pageSize, maxPage)
	for {
		status, err := loop.RunLoop(ctx)
		if err != nil {
			return nil, errors.WrapResource("fetch", legislature.KindLegislation.String(), sessionID.String(), err)
		}
		if status == Finished {
			break
		}
	}

	result := &pkgsync.LegislationResult{
		Session:      sessionID,
		PagesFetched: loop.PagesFetched(),
		OrderBy:      loop.OrderBy().String(),
	}

	// Step 3: Upsert what changed
	for _, item := range loop.Drain() {
		if err := r.upsert(ctx, session, item, result); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("created", len(result.Created)).
		Int("updated", len(result.Updated)).
		Int("unchanged", result.Unchanged).
		Int("pages", result.PagesFetched).
		Str("order_by", result.OrderBy).
		Msg("Legislation reconciled")

	return result, nil
}

func (r *Legislation) upsert(ctx context.Context, session *legislature.Session, item sources.Legislation, result *pkgsync.LegislationResult) error {
	chamber, err := r.resolver.Chamber(ctx, item.ChamberExternalID)
	if err != nil {
		return err
	}

	created := false
	current, err := r.resolver.Legislation(ctx, item.ExternalID)
	switch {
	case err == nil:
		if current.SessionID != session.ID {
			return &errors.InconsistencyError{
				Resource: legislature.KindLegislation.String(),
				ID:       item.ExternalID.String(),
				Message:  fmt.Sprintf("owned by session %d, reported again for session %s", current.SessionID, session.ExternalID),
			}
		}
		if !NeedsUpdate(item, *current) {
			result.Unchanged++
			return nil
		}
	case errors.IsNotFound(err):
		created = true
	default:
		return err
	}

	sponsors := make([]legislature.InternalID, 0, len(item.Sponsors))
	for _, sp := range item.Sponsors {
		m, err := r.resolver.Member(ctx, session.ID, sp.MemberExternalID)
		if err != nil {
			if errors.IsNotFound(err) {
				result.SkippedSponsors++
				continue
			}
			return err
		}
		sponsors = append(sponsors, m.ID)
	}

	l, err := r.store.UpsertLegislation(ctx, remote.LegislationUpsert{
		ExternalID:      item.ExternalID,
		NameID:          item.NameID,
		Title:           item.Title,
		Type:            item.Type,
		Status:          item.Status,
		StatusText:      item.StatusText,
		StatusUpdatedAt: item.StatusUpdatedAt,
		ExternalURL:     item.ExternalURL,
		IntroducedAt:    item.IntroducedAt,
		ChamberID:       chamber.ID,
		SessionID:       session.ID,
		SponsorIDs:      sponsors,
	})
	if err != nil {
		return errors.WrapResource("upsert", legislature.KindLegislation.String(), item.ExternalID.String(), err)
	}
	r.resolver.StoreLegislation(*l)

	if created {
		result.Created = append(result.Created, *l)
	} else {
		result.Updated = append(result.Updated, *l)
	}

	if r.onUpserted != nil {
		r.onUpserted(*l, created)
	}
	return nil
}

// List returns one 0-indexed page of the store's legislation for a session
// without syncing anything.
func (r *Legislation) List(ctx context.Context, sessionID legislature.ExternalID, page, pageSize int) (legislature.Page[legislature.Legislation], error) {
	session, err := r.resolver.Session(ctx, sessionID)
	if err != nil {
		return legislature.Page[legislature.Legislation]{}, err
	}
	return r.store.ListLegislation(ctx, remote.LegislationFilter{
		SessionID: session.ID,
		Page:      page,
		PageSize:  pageSize,
	})
}
