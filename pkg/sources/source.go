// Package sources defines the contract for external legislative data sources.
// A source returns everything it knows, unfiltered: deciding what already
// exists in the remote store and what must be created or updated is the
// reconciliation engine's job, never the source's.
//
// Example usage:
//
//	src, err := registry.Get(sources.LocalID, registry.Config{Path: "./data/ga"})
//	if err != nil {
//	    return err
//	}
//	page, err := src.FetchLegislation(ctx, "2025_26", sources.OrderLatest, 0, 50)
//	if errors.Is(err, sources.ErrOrderingUnsupported) {
//	    page, err = src.FetchLegislation(ctx, "2025_26", sources.OrderEarliest, 0, 50)
//	}
package sources

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/openstatehouse/legisync/pkg/legislature"
)

// ErrOrderingUnsupported is returned by FetchLegislation when the source
// cannot order results by recency.
var ErrOrderingUnsupported = errors.New("ordering by recency unsupported")

// ID represents the identifier of a source implementation.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Built-in source identifiers.
const (
	LocalID ID = "local"
	FeedID  ID = "feed"
)

// IDs returns all built-in source identifiers.
func IDs() []ID {
	return []ID{LocalID, FeedID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// OrderBy selects the ordering of a legislation page.
type OrderBy string

// Orderings.
const (
	// OrderLatest returns the most recently updated legislation first.
	OrderLatest OrderBy = "latest"
	// OrderEarliest returns the least recently updated legislation first.
	OrderEarliest OrderBy = "earliest"
)

// String returns the string representation of an ordering.
func (o OrderBy) String() string {
	return string(o)
}

// Source is a pluggable fetcher of legislative data.
type Source interface {
	// ID returns the implementation identifier of this source
	ID() ID

	// Jurisdiction returns the jurisdiction this source describes.
	// It is fixed at construction and never fails.
	Jurisdiction() Jurisdiction

	// ListSessions returns every session of the jurisdiction
	ListSessions(ctx context.Context) ([]Session, error)

	// ListMembers returns every member of a chamber during a session
	ListMembers(ctx context.Context, session, chamber legislature.ExternalID) ([]Member, error)

	// FetchLegislation returns one 0-indexed page of a session's legislation.
	// With OrderLatest items must be most-recently-updated first; sources
	// that cannot honor that return ErrOrderingUnsupported.
	FetchLegislation(ctx context.Context, session legislature.ExternalID, orderBy OrderBy, page, pageSize int) (legislature.Page[Legislation], error)

	// ListVotes returns every vote recorded on one piece of legislation
	ListVotes(ctx context.Context, legislation legislature.ExternalID) ([]Vote, error)
}

// Jurisdiction is the source's description of the jurisdiction it covers.
type Jurisdiction struct {
	Name       string                 `json:"name" yaml:"name"`
	ExternalID legislature.ExternalID `json:"external_id" yaml:"external_id"`
	URL        string                 `json:"url,omitempty" yaml:"url,omitempty"`
	Chambers   []Chamber              `json:"chambers" yaml:"chambers"`
}

// Chamber is a chamber declared by the source.
type Chamber struct {
	Name       string                 `json:"name" yaml:"name"`
	ExternalID legislature.ExternalID `json:"external_id" yaml:"external_id"`
	URL        string                 `json:"url,omitempty" yaml:"url,omitempty"`
}

// Session is a legislative session as the source reports it.
type Session struct {
	Name       string                 `json:"name" yaml:"name"`
	ExternalID legislature.ExternalID `json:"external_id" yaml:"external_id"`
	URL        string                 `json:"url,omitempty" yaml:"url,omitempty"`
	StartsAt   *time.Time             `json:"starts_at,omitempty" yaml:"starts_at,omitempty"`
	EndsAt     *time.Time             `json:"ends_at,omitempty" yaml:"ends_at,omitempty"`
}

// Member is a chamber member as the source reports it.
type Member struct {
	ExternalID legislature.ExternalID `json:"external_id" yaml:"external_id"`
	Name       string                 `json:"name" yaml:"name"`
	Party      string                 `json:"party,omitempty" yaml:"party,omitempty"`
	District   string                 `json:"district,omitempty" yaml:"district,omitempty"`
	URL        string                 `json:"url,omitempty" yaml:"url,omitempty"`
}

// Sponsor links a piece of legislation to a sponsoring member.
type Sponsor struct {
	MemberExternalID legislature.ExternalID `json:"member_external_id" yaml:"member_external_id"`
	Primary          bool                   `json:"primary,omitempty" yaml:"primary,omitempty"`
}

// Legislation is a bill or resolution as the source reports it.
type Legislation struct {
	ExternalID        legislature.ExternalID `json:"external_id" yaml:"external_id"`
	ChamberExternalID legislature.ExternalID `json:"chamber_external_id" yaml:"chamber_external_id"`
	NameID            string                 `json:"name_id" yaml:"name_id"`
	Title             string                 `json:"title" yaml:"title"`
	Type              string                 `json:"type,omitempty" yaml:"type,omitempty"`
	Status            string                 `json:"status,omitempty" yaml:"status,omitempty"`
	StatusText        string                 `json:"status_text,omitempty" yaml:"status_text,omitempty"`
	StatusUpdatedAt   *time.Time             `json:"status_updated_at,omitempty" yaml:"status_updated_at,omitempty"`
	ExternalURL       string                 `json:"external_url,omitempty" yaml:"external_url,omitempty"`
	IntroducedAt      *time.Time             `json:"introduced_at,omitempty" yaml:"introduced_at,omitempty"`
	UpdatedAt         *time.Time             `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	Sponsors          []Sponsor              `json:"sponsors,omitempty" yaml:"sponsors,omitempty"`
}

// MemberVote is one member's choice on a vote as the source reports it.
type MemberVote struct {
	MemberExternalID legislature.ExternalID `json:"member_external_id" yaml:"member_external_id"`
	Choice           legislature.VoteChoice `json:"choice" yaml:"choice"`
}

// Vote is a roll call as the source reports it. ExternalID is the
// composite key supplied by the source; see VoteKey.
type Vote struct {
	ExternalID        legislature.ExternalID `json:"external_id" yaml:"external_id"`
	ChamberExternalID legislature.ExternalID `json:"chamber_external_id" yaml:"chamber_external_id"`
	Motion            string                 `json:"motion,omitempty" yaml:"motion,omitempty"`
	Result            string                 `json:"result,omitempty" yaml:"result,omitempty"`
	VotedAt           *time.Time             `json:"voted_at,omitempty" yaml:"voted_at,omitempty"`
	Yes               int                    `json:"yes" yaml:"yes"`
	No                int                    `json:"no" yaml:"no"`
	Other             int                    `json:"other" yaml:"other"`
	MemberVotes       []MemberVote           `json:"member_votes,omitempty" yaml:"member_votes,omitempty"`
}

// VoteKey builds a composite external key for sources whose votes have no
// identifier of their own.
func VoteKey(legislation legislature.ExternalID, chamber legislature.ExternalID, motion string, votedAt *time.Time) legislature.ExternalID {
	parts := []string{legislation.String(), chamber.String(), motion}
	if votedAt != nil {
		parts = append(parts, votedAt.UTC().Format(time.RFC3339))
	}
	return legislature.ExternalID(strings.Join(parts, "|"))
}
