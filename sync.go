package legisync

import (
	"context"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// SyncChambers creates the chambers the source declares and the store lacks.
// The jurisdiction itself already exists, so it is never created here.
func (s *Syncer) SyncChambers(ctx context.Context) (*pkgsync.JurisdictionResult, error) {
	return s.jurisdictions.Sync(s.context(ctx))
}

// SyncSessions creates unknown sessions and updates known ones. Every
// session ends up linked to every chamber.
func (s *Syncer) SyncSessions(ctx context.Context) (*pkgsync.SessionsResult, error) {
	return s.sessions.Sync(s.context(ctx))
}

// UpdateMembers reconciles members for every chamber during a session.
func (s *Syncer) UpdateMembers(ctx context.Context, session legislature.ExternalID) (*pkgsync.MembersResult, error) {
	return s.members.SyncSession(s.context(ctx), session)
}

// UpdateLegislationWithPagination pages through the session's legislation and
// upserts what changed. maxPage is the last 0-indexed page fetched; nil
// fetches every page.
func (s *Syncer) UpdateLegislationWithPagination(ctx context.Context, session legislature.ExternalID, maxPage *int) (*pkgsync.LegislationResult, error) {
	if maxPage != nil && *maxPage < 0 {
		return nil, &errors.ValidationError{
			Field:   "max_page",
			Value:   *maxPage,
			Message: "max page must be non-negative",
		}
	}
	return s.legislation.Sync(s.context(ctx), session, s.config.pageSize, maxPage)
}

// UpdateLegislationVotes reconciles the votes on one piece of legislation.
func (s *Syncer) UpdateLegislationVotes(ctx context.Context, legislation legislature.ExternalID) (*pkgsync.VotesResult, error) {
	return s.votes.Sync(s.context(ctx), legislation)
}

// ListLegislation returns one 0-indexed page of the store's legislation for a
// session without syncing.
func (s *Syncer) ListLegislation(ctx context.Context, session legislature.ExternalID, page, pageSize int) (legislature.Page[legislature.Legislation], error) {
	if page < 0 || pageSize <= 0 {
		return legislature.Page[legislature.Legislation]{}, &errors.ValidationError{
			Field:   "page",
			Value:   page,
			Message: "page must be non-negative and page size positive",
		}
	}
	return s.legislation.List(s.context(ctx), session, page, pageSize)
}

// DeleteSession removes a session from the store. It is the only operation
// that deletes anything.
func (s *Syncer) DeleteSession(ctx context.Context, session legislature.ExternalID) error {
	return s.sessions.Delete(s.context(ctx), session)
}

// SyncAll runs every reconciler in dependency order: chambers, sessions,
// members and legislation for each session, then optionally votes for every
// upserted piece of legislation.
func (s *Syncer) SyncAll(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error) {
	// Step 1: Parse options, paging defaults to the Syncer's page size
	options := pkgsync.NewOptions(append([]pkgsync.Option{pkgsync.WithPageSize(s.config.pageSize)}, opts...)...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Setup context with timeout
	ctx = s.context(ctx)
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {} // No-op cancel if no timeout
	}
	defer cancel()

	result := &pkgsync.Result{}
	var err error

	// Step 3: Chambers
	if result.Chambers, err = s.jurisdictions.Sync(logging.WithStep(ctx, "chambers")); err != nil {
		return nil, errors.NewSyncError("chambers", nil, err)
	}

	// Step 4: Sessions
	if result.Sessions, err = s.sessions.Sync(logging.WithStep(ctx, "sessions")); err != nil {
		return nil, errors.NewSyncError("sessions", nil, err)
	}

	sessions := append(append([]legislature.Session{}, result.Sessions.Created...), result.Sessions.Updated...)
	for _, session := range sessions {
		if !options.IncludesSession(session.ExternalID) {
			continue
		}
		sctx := logging.WithSession(ctx, session.ExternalID.String())
		ids := []string{session.ExternalID.String()}

		// Step 5: Members
		members, err := s.members.SyncSession(logging.WithStep(sctx, "members"), session.ExternalID)
		if err != nil {
			return nil, errors.NewSyncError("members", ids, err)
		}
		result.Members = append(result.Members, members)

		// Step 6: Legislation
		legislation, err := s.legislation.Sync(logging.WithStep(sctx, "legislation"), session.ExternalID, options.PageSize, options.MaxPage)
		if err != nil {
			return nil, errors.NewSyncError("legislation", ids, err)
		}
		result.Legislation = append(result.Legislation, legislation)

		// Step 7: Votes
		if !options.IncludeVotes {
			continue
		}
		for _, l := range append(append([]legislature.Legislation{}, legislation.Created...), legislation.Updated...) {
			votes, err := s.votes.Sync(logging.WithStep(sctx, "votes"), l.ExternalID)
			if err != nil {
				return nil, errors.NewSyncError("votes", []string{l.ExternalID.String()}, err)
			}
			result.Votes = append(result.Votes, votes)
		}
	}

	if result.HasChanges() {
		logging.FromContext(ctx).Info().
			Int("sessions", len(result.Legislation)).
			Msg("Sync completed with changes")
	} else {
		logging.FromContext(ctx).Info().Msg("No changes detected")
	}

	return result, nil
}
