// Package remote defines the contract legisync expects from the canonical
// remote store. The store is a black box reachable through typed list,
// create and update operations; failures surface as *errors.APIError so
// callers can inspect the status code (409 Conflict in particular).
//
// List operations accept an external-id filter. For a given entity kind the
// store is expected to return zero or one match for it; more than one match
// is a data-integrity problem that callers report rather than handle.
package remote

import (
	"context"
	"time"

	"github.com/openstatehouse/legisync/pkg/legislature"
)

// Store is the full remote store contract.
type Store interface {
	JurisdictionStore
	ChamberStore
	SessionStore
	MemberStore
	LegislationStore
	VoteStore
}

// JurisdictionStore lists and creates jurisdictions.
type JurisdictionStore interface {
	ListJurisdictions(ctx context.Context, filter JurisdictionFilter) ([]legislature.Jurisdiction, error)
	CreateJurisdiction(ctx context.Context, req JurisdictionCreate) (*legislature.Jurisdiction, error)
}

// ChamberStore lists and creates chambers.
type ChamberStore interface {
	ListChambers(ctx context.Context, filter ChamberFilter) ([]legislature.Chamber, error)
	CreateChamber(ctx context.Context, req ChamberCreate) (*legislature.Chamber, error)
}

// SessionStore manages sessions and their chamber links.
type SessionStore interface {
	ListSessions(ctx context.Context, filter SessionFilter) ([]legislature.Session, error)
	CreateSession(ctx context.Context, req SessionCreate) (*legislature.Session, error)
	UpdateSession(ctx context.Context, id legislature.InternalID, req SessionUpdate) (*legislature.Session, error)
	DeleteSession(ctx context.Context, id legislature.InternalID) error
	// LinkChamberSession associates a session with a chamber. Linking an
	// already linked pair fails with a 409 Conflict APIError.
	LinkChamberSession(ctx context.Context, link legislature.ChamberSessionLink) error
}

// MemberStore lists and creates chamber members.
type MemberStore interface {
	ListMembers(ctx context.Context, filter MemberFilter) ([]legislature.Member, error)
	CreateMember(ctx context.Context, req MemberCreate) (*legislature.Member, error)
}

// LegislationStore lists and upserts legislation. Upserts are keyed by
// external id on the store side.
type LegislationStore interface {
	ListLegislation(ctx context.Context, filter LegislationFilter) (legislature.Page[legislature.Legislation], error)
	UpsertLegislation(ctx context.Context, req LegislationUpsert) (*legislature.Legislation, error)
}

// VoteStore lists and upserts votes. Upserts are keyed by external id on
// the store side.
type VoteStore interface {
	ListVotes(ctx context.Context, filter VoteFilter) ([]legislature.Vote, error)
	UpsertVote(ctx context.Context, req VoteUpsert) (*legislature.Vote, error)
}

// JurisdictionFilter narrows ListJurisdictions.
type JurisdictionFilter struct {
	ExternalID legislature.ExternalID
}

// ChamberFilter narrows ListChambers. Zero values do not filter.
type ChamberFilter struct {
	ExternalID     legislature.ExternalID
	JurisdictionID legislature.InternalID
}

// SessionFilter narrows ListSessions. Zero values do not filter.
type SessionFilter struct {
	ExternalID     legislature.ExternalID
	JurisdictionID legislature.InternalID
}

// MemberFilter narrows ListMembers. Zero values do not filter.
type MemberFilter struct {
	ExternalID legislature.ExternalID
	ChamberID  legislature.InternalID
	SessionID  legislature.InternalID
}

// LegislationFilter narrows ListLegislation. Page is 0-indexed; a zero
// PageSize lets the store pick its default.
type LegislationFilter struct {
	ExternalID legislature.ExternalID
	SessionID  legislature.InternalID
	ChamberID  legislature.InternalID
	Page       int
	PageSize   int
}

// VoteFilter narrows ListVotes. Zero values do not filter.
type VoteFilter struct {
	ExternalID    legislature.ExternalID
	LegislationID legislature.InternalID
}

// JurisdictionCreate is the payload for CreateJurisdiction.
type JurisdictionCreate struct {
	Name       string                 `json:"name"`
	ExternalID legislature.ExternalID `json:"external_id"`
	URL        string                 `json:"url,omitempty"`
}

// ChamberCreate is the payload for CreateChamber.
type ChamberCreate struct {
	Name           string                 `json:"name"`
	ExternalID     legislature.ExternalID `json:"external_id"`
	URL            string                 `json:"url,omitempty"`
	JurisdictionID legislature.InternalID `json:"jurisdiction_id"`
}

// SessionCreate is the payload for CreateSession.
type SessionCreate struct {
	Name           string                 `json:"name"`
	ExternalID     legislature.ExternalID `json:"external_id"`
	URL            string                 `json:"url,omitempty"`
	StartsAt       *time.Time             `json:"starts_at,omitempty"`
	EndsAt         *time.Time             `json:"ends_at,omitempty"`
	JurisdictionID legislature.InternalID `json:"jurisdiction_id"`
}

// SessionUpdate is the payload for UpdateSession.
type SessionUpdate struct {
	Name     string     `json:"name"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// MemberCreate is the payload for CreateMember. The member is linked to the
// chamber-session pair it is created for.
type MemberCreate struct {
	ExternalID legislature.ExternalID `json:"external_id"`
	Name       string                 `json:"name"`
	Party      string                 `json:"party,omitempty"`
	District   string                 `json:"district,omitempty"`
	URL        string                 `json:"url,omitempty"`
	ChamberID  legislature.InternalID `json:"chamber_id"`
	SessionID  legislature.InternalID `json:"session_id"`
}

// LegislationUpsert is the payload for UpsertLegislation.
type LegislationUpsert struct {
	ExternalID      legislature.ExternalID   `json:"external_id"`
	NameID          string                   `json:"name_id"`
	Title           string                   `json:"title"`
	Type            string                   `json:"type,omitempty"`
	Status          string                   `json:"status,omitempty"`
	StatusText      string                   `json:"status_text,omitempty"`
	StatusUpdatedAt *time.Time               `json:"status_updated_at,omitempty"`
	ExternalURL     string                   `json:"external_url,omitempty"`
	IntroducedAt    *time.Time               `json:"introduced_at,omitempty"`
	ChamberID       legislature.InternalID   `json:"chamber_id"`
	SessionID       legislature.InternalID   `json:"session_id"`
	SponsorIDs      []legislature.InternalID `json:"sponsor_ids,omitempty"`
}

// VoteUpsert is the payload for UpsertVote.
type VoteUpsert struct {
	ExternalID    legislature.ExternalID   `json:"external_id"`
	LegislationID legislature.InternalID   `json:"legislation_id"`
	ChamberID     legislature.InternalID   `json:"chamber_id"`
	Motion        string                   `json:"motion,omitempty"`
	Result        string                   `json:"result,omitempty"`
	VotedAt       *time.Time               `json:"voted_at,omitempty"`
	Yes           int                      `json:"yes"`
	No            int                      `json:"no"`
	Other         int                      `json:"other"`
	MemberVotes   []legislature.MemberVote `json:"member_votes,omitempty"`
}
