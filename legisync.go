// Package legisync reconciles legislative data from a pluggable external
// source into a canonical remote store.
//
// A Syncer is bound to the one jurisdiction its source describes. Operations
// are meant to run in dependency order: sessions, then members, then
// legislation, then votes for individual pieces of legislation.
//
//	syncer, err := legisync.New(ctx, source, store)
//	if err != nil {
//	    return err
//	}
//	if _, err := syncer.SyncSessions(ctx); err != nil {
//	    return err
//	}
//	if _, err := syncer.UpdateMembers(ctx, "2025_26"); err != nil {
//	    return err
//	}
//	result, err := syncer.UpdateLegislationWithPagination(ctx, "2025_26", nil)
//
// A Syncer is not safe for concurrent use. Its identity cache lives as long
// as the Syncer; a new Syncer starts cold.
package legisync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openstatehouse/legisync/internal/reconcile"
	"github.com/openstatehouse/legisync/internal/resolver"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// Syncer composes the reconcilers for one jurisdiction.
type Syncer struct {
	source   sources.Source
	store    remote.Store
	resolver *resolver.Resolver
	config   *config
	runID    string

	jurisdiction *legislature.Jurisdiction
	created      *pkgsync.JurisdictionResult

	// Event hooks
	hooks *hooks

	jurisdictions *reconcile.Jurisdictions
	sessions      *reconcile.Sessions
	members       *reconcile.Members
	legislation   *reconcile.Legislation
	votes         *reconcile.Votes
}

// New resolves the source's jurisdiction in the store and returns a Syncer
// bound to it. A missing jurisdiction is an error unless
// WithDangerouslyCreateJurisdiction is given, in which case the jurisdiction
// and its declared chambers are created.
func New(ctx context.Context, source sources.Source, store remote.Store, opts ...Option) (*Syncer, error) {
	if source == nil || store == nil {
		return nil, &errors.ValidationError{Message: "source and store are required"}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	declared := source.Jurisdiction()
	s := &Syncer{
		source:   source,
		store:    store,
		resolver: resolver.New(store, declared.ExternalID),
		config:   cfg,
		runID:    cfg.runID,
		hooks:    newHooks(),
	}
	s.jurisdictions = reconcile.NewJurisdictions(source, store, s.resolver)
	s.sessions = reconcile.NewSessions(source, store, s.resolver, s.hooks.sessionCreated)
	s.members = reconcile.NewMembers(source, store, s.resolver, s.hooks.memberCreated)
	s.legislation = reconcile.NewLegislation(source, store, s.resolver, s.hooks.legislationUpserted)
	s.votes = reconcile.NewVotes(source, store, s.resolver, s.hooks.voteUpserted)

	ctx = s.context(ctx)
	logger := logging.FromContext(ctx)

	j, err := s.jurisdictions.Get(ctx)
	switch {
	case err == nil:
		logger.Debug().Int64("jurisdiction_id", int64(j.ID)).Msg("Jurisdiction found")
	case errors.IsNotFound(err) && cfg.dangerouslyCreateJurisdiction:
		logger.Warn().Msg("Jurisdiction not found, creating it and its chambers")
		result, err := s.jurisdictions.Sync(ctx)
		if err != nil {
			return nil, err
		}
		s.created = result
		if j, err = s.resolver.Jurisdiction(ctx); err != nil {
			return nil, err
		}
	case errors.IsNotFound(err):
		return nil, fmt.Errorf("jurisdiction %s is not in the store; create it with WithDangerouslyCreateJurisdiction: %w",
			declared.ExternalID, err)
	default:
		return nil, err
	}

	s.jurisdiction = j
	return s, nil
}

// Jurisdiction returns the jurisdiction the Syncer is bound to.
func (s *Syncer) Jurisdiction() legislature.Jurisdiction {
	return *s.jurisdiction
}

// Created returns the result of creating the jurisdiction during New, or nil
// if it already existed.
func (s *Syncer) Created() *pkgsync.JurisdictionResult {
	return s.created
}

// RunID returns the id stamped on every log line of this Syncer.
func (s *Syncer) RunID() string {
	return s.runID
}

// OnSessionCreated registers a callback for when sessions are created.
func (s *Syncer) OnSessionCreated(fn SessionCreatedHook) {
	s.hooks.OnSessionCreated(fn)
}

// OnMemberCreated registers a callback for when members are created.
func (s *Syncer) OnMemberCreated(fn MemberCreatedHook) {
	s.hooks.OnMemberCreated(fn)
}

// OnLegislationUpserted registers a callback for when legislation is upserted.
func (s *Syncer) OnLegislationUpserted(fn LegislationUpsertedHook) {
	s.hooks.OnLegislationUpserted(fn)
}

// OnVoteUpserted registers a callback for when votes are upserted.
func (s *Syncer) OnVoteUpserted(fn VoteUpsertedHook) {
	s.hooks.OnVoteUpserted(fn)
}

// context tags ctx with the run id and jurisdiction for logging.
func (s *Syncer) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, s.runID)
	return logging.WithJurisdiction(ctx, s.resolver.JurisdictionExternalID().String())
}
