// Package rest implements the remote store over its REST API.
//
// Endpoints:
//
//	GET/POST   /jurisdictions
//	GET/POST   /chambers
//	GET/POST   /sessions
//	PATCH/DELETE /sessions/{id}
//	POST       /sessions/{id}/chambers/{chamber_id}
//	GET/POST   /members
//	GET/PUT    /legislation
//	GET/PUT    /votes
//
// List filters travel as query parameters. Legislation listings are paged
// (0-indexed); every other listing returns a JSON array.
package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/openstatehouse/legisync/internal/transport"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
)

// ServiceName identifies the store in errors.
const ServiceName = "remote-store"

// Store is a remote.Store backed by HTTP.
type Store struct {
	client *transport.Client
}

var _ remote.Store = (*Store)(nil)

// New creates a REST store over client.
func New(client *transport.Client) *Store {
	return &Store{client: client}
}

// NewFromURL creates a REST store for baseURL authenticating with a Bearer
// token when apiKey is not empty.
func NewFromURL(baseURL, apiKey string, opts ...transport.Option) *Store {
	if apiKey != "" {
		opts = append([]transport.Option{transport.WithAuth(transport.BearerAuth{}, apiKey)}, opts...)
	}
	return New(transport.New(ServiceName, baseURL, opts...))
}

// query builds list filters, skipping zero values.
type query url.Values

func (q query) ext(key string, id legislature.ExternalID) query {
	if id != "" {
		url.Values(q).Set(key, id.String())
	}
	return q
}

func (q query) id(key string, id legislature.InternalID) query {
	if id != 0 {
		url.Values(q).Set(key, strconv.FormatInt(int64(id), 10))
	}
	return q
}

func (q query) int(key string, v int, keepZero bool) query {
	if v != 0 || keepZero {
		url.Values(q).Set(key, strconv.Itoa(v))
	}
	return q
}

func newQuery() query {
	return query(url.Values{})
}

// ListJurisdictions implements remote.JurisdictionStore.
func (s *Store) ListJurisdictions(ctx context.Context, filter remote.JurisdictionFilter) ([]legislature.Jurisdiction, error) {
	var out []legislature.Jurisdiction
	q := newQuery().ext("external_id", filter.ExternalID)
	if err := s.client.Get(ctx, "/jurisdictions", url.Values(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateJurisdiction implements remote.JurisdictionStore.
func (s *Store) CreateJurisdiction(ctx context.Context, req remote.JurisdictionCreate) (*legislature.Jurisdiction, error) {
	var out legislature.Jurisdiction
	if err := s.client.Post(ctx, "/jurisdictions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListChambers implements remote.ChamberStore.
func (s *Store) ListChambers(ctx context.Context, filter remote.ChamberFilter) ([]legislature.Chamber, error) {
	var out []legislature.Chamber
	q := newQuery().
		ext("external_id", filter.ExternalID).
		id("jurisdiction_id", filter.JurisdictionID)
	if err := s.client.Get(ctx, "/chambers", url.Values(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateChamber implements remote.ChamberStore.
func (s *Store) CreateChamber(ctx context.Context, req remote.ChamberCreate) (*legislature.Chamber, error) {
	var out legislature.Chamber
	if err := s.client.Post(ctx, "/chambers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions implements remote.SessionStore.
func (s *Store) ListSessions(ctx context.Context, filter remote.SessionFilter) ([]legislature.Session, error) {
	var out []legislature.Session
	q := newQuery().
		ext("external_id", filter.ExternalID).
		id("jurisdiction_id", filter.JurisdictionID)
	if err := s.client.Get(ctx, "/sessions", url.Values(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession implements remote.SessionStore.
func (s *Store) CreateSession(ctx context.Context, req remote.SessionCreate) (*legislature.Session, error) {
	var out legislature.Session
	if err := s.client.Post(ctx, "/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSession implements remote.SessionStore.
func (s *Store) UpdateSession(ctx context.Context, id legislature.InternalID, req remote.SessionUpdate) (*legislature.Session, error) {
	var out legislature.Session
	if err := s.client.Patch(ctx, fmt.Sprintf("/sessions/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession implements remote.SessionStore.
func (s *Store) DeleteSession(ctx context.Context, id legislature.InternalID) error {
	return s.client.Delete(ctx, fmt.Sprintf("/sessions/%d", id))
}

// LinkChamberSession implements remote.SessionStore.
func (s *Store) LinkChamberSession(ctx context.Context, link legislature.ChamberSessionLink) error {
	return s.client.Post(ctx, fmt.Sprintf("/sessions/%d/chambers/%d", link.SessionID, link.ChamberID), link, nil)
}

// ListMembers implements remote.MemberStore.
func (s *Store) ListMembers(ctx context.Context, filter remote.MemberFilter) ([]legislature.Member, error) {
	var out []legislature.Member
	q := newQuery().
		ext("external_id", filter.ExternalID).
		id("chamber_id", filter.ChamberID).
		id("session_id", filter.SessionID)
	if err := s.client.Get(ctx, "/members", url.Values(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMember implements remote.MemberStore.
func (s *Store) CreateMember(ctx context.Context, req remote.MemberCreate) (*legislature.Member, error) {
	var out legislature.Member
	if err := s.client.Post(ctx, "/members", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLegislation implements remote.LegislationStore.
func (s *Store) ListLegislation(ctx context.Context, filter remote.LegislationFilter) (legislature.Page[legislature.Legislation], error) {
	var out legislature.Page[legislature.Legislation]
	q := newQuery().
		ext("external_id", filter.ExternalID).
		id("session_id", filter.SessionID).
		id("chamber_id", filter.ChamberID).
		int("page", filter.Page, true).
		int("page_size", filter.PageSize, false)
	if err := s.client.Get(ctx, "/legislation", url.Values(q), &out); err != nil {
		return legislature.Page[legislature.Legislation]{}, err
	}
	return out, nil
}

// UpsertLegislation implements remote.LegislationStore.
func (s *Store) UpsertLegislation(ctx context.Context, req remote.LegislationUpsert) (*legislature.Legislation, error) {
	var out legislature.Legislation
	if err := s.client.Put(ctx, "/legislation", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVotes implements remote.VoteStore.
func (s *Store) ListVotes(ctx context.Context, filter remote.VoteFilter) ([]legislature.Vote, error) {
	var out []legislature.Vote
	q := newQuery().
		ext("external_id", filter.ExternalID).
		id("legislation_id", filter.LegislationID)
	if err := s.client.Get(ctx, "/votes", url.Values(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertVote implements remote.VoteStore.
func (s *Store) UpsertVote(ctx context.Context, req remote.VoteUpsert) (*legislature.Vote, error) {
	var out legislature.Vote
	if err := s.client.Put(ctx, "/votes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
