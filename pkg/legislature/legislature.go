// Package legislature defines the canonical entity graph held by the remote
// store: jurisdictions own chambers and sessions, sessions are linked to every
// chamber of their jurisdiction, and members, legislation and votes hang off a
// (chamber, session) pair.
//
// Every entity carries two identifiers. The InternalID is assigned by the
// remote store when the entity is created; the ExternalID is owned by the
// source system and is the join key used during reconciliation.
package legislature

import "time"

// ExternalID is an opaque identifier owned by the external source system.
// Only equality is meaningful.
type ExternalID string

// String returns the string representation of an external ID.
func (id ExternalID) String() string {
	return string(id)
}

// InternalID is an identifier assigned by the remote store.
type InternalID int64

// Kind names an entity type of the graph.
type Kind string

// Entity kinds.
const (
	KindJurisdiction Kind = "jurisdiction"
	KindChamber      Kind = "chamber"
	KindSession      Kind = "session"
	KindMember       Kind = "member"
	KindLegislation  Kind = "legislation"
	KindVote         Kind = "vote"
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	return string(k)
}

// Jurisdiction is the root of the entity graph.
type Jurisdiction struct {
	ID         InternalID `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	ExternalID ExternalID `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	URL        string     `json:"url,omitempty" yaml:"url,omitempty"`
	Chambers   []Chamber  `json:"chambers,omitempty" yaml:"chambers,omitempty"`
}

// Chamber is a legislative body of exactly one jurisdiction.
type Chamber struct {
	ID             InternalID `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	ExternalID     ExternalID `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	URL            string     `json:"url,omitempty" yaml:"url,omitempty"`
	JurisdictionID InternalID `json:"jurisdiction_id" yaml:"jurisdiction_id"`
}

// Session is a legislative session of a jurisdiction.
type Session struct {
	ID             InternalID   `json:"id" yaml:"id"`
	Name           string       `json:"name" yaml:"name"`
	StartsAt       *time.Time   `json:"starts_at,omitempty" yaml:"starts_at,omitempty"`
	EndsAt         *time.Time   `json:"ends_at,omitempty" yaml:"ends_at,omitempty"`
	ExternalID     ExternalID   `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	URL            string       `json:"url,omitempty" yaml:"url,omitempty"`
	JurisdictionID InternalID   `json:"jurisdiction_id" yaml:"jurisdiction_id"`
	ChamberIDs     []InternalID `json:"chamber_ids,omitempty" yaml:"chamber_ids,omitempty"`
}

// ChamberSessionLink associates a session with one chamber. Creating the
// same link twice is not an error.
type ChamberSessionLink struct {
	SessionID InternalID `json:"session_id" yaml:"session_id"`
	ChamberID InternalID `json:"chamber_id" yaml:"chamber_id"`
}

// Member sits in one chamber for one session.
type Member struct {
	ID         InternalID `json:"id" yaml:"id"`
	ExternalID ExternalID `json:"external_id,omitempty" yaml:"external_id,omitempty"`
	Name       string     `json:"name" yaml:"name"`
	Party      string     `json:"party,omitempty" yaml:"party,omitempty"`
	District   string     `json:"district,omitempty" yaml:"district,omitempty"`
	URL        string     `json:"url,omitempty" yaml:"url,omitempty"`
	ChamberID  InternalID `json:"chamber_id" yaml:"chamber_id"`
	SessionID  InternalID `json:"session_id" yaml:"session_id"`
}

// Legislation is a bill or resolution owned by one chamber and session.
type Legislation struct {
	ID              InternalID   `json:"id" yaml:"id"`
	ExternalID      ExternalID   `json:"external_id" yaml:"external_id"`
	NameID          string       `json:"name_id" yaml:"name_id"`
	Title           string       `json:"title" yaml:"title"`
	Type            string       `json:"type,omitempty" yaml:"type,omitempty"`
	Status          string       `json:"status,omitempty" yaml:"status,omitempty"`
	StatusText      string       `json:"status_text,omitempty" yaml:"status_text,omitempty"`
	StatusUpdatedAt *time.Time   `json:"status_updated_at,omitempty" yaml:"status_updated_at,omitempty"`
	ExternalURL     string       `json:"external_url,omitempty" yaml:"external_url,omitempty"`
	IntroducedAt    *time.Time   `json:"introduced_at,omitempty" yaml:"introduced_at,omitempty"`
	ChamberID       InternalID   `json:"chamber_id" yaml:"chamber_id"`
	SessionID       InternalID   `json:"session_id" yaml:"session_id"`
	SponsorIDs      []InternalID `json:"sponsor_ids,omitempty" yaml:"sponsor_ids,omitempty"`
}

// VoteChoice is how a member voted.
type VoteChoice string

// Vote choices.
const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
	VoteAbsent  VoteChoice = "absent"
	VoteOther   VoteChoice = "other"
)

// MemberVote is one member's recorded choice on a vote.
type MemberVote struct {
	MemberID InternalID `json:"member_id" yaml:"member_id"`
	Choice   VoteChoice `json:"choice" yaml:"choice"`
}

// Vote is a recorded roll call on one piece of legislation.
type Vote struct {
	ID            InternalID   `json:"id" yaml:"id"`
	ExternalID    ExternalID   `json:"external_id" yaml:"external_id"`
	LegislationID InternalID   `json:"legislation_id" yaml:"legislation_id"`
	ChamberID     InternalID   `json:"chamber_id" yaml:"chamber_id"`
	Motion        string       `json:"motion,omitempty" yaml:"motion,omitempty"`
	Result        string       `json:"result,omitempty" yaml:"result,omitempty"`
	VotedAt       *time.Time   `json:"voted_at,omitempty" yaml:"voted_at,omitempty"`
	Yes           int          `json:"yes" yaml:"yes"`
	No            int          `json:"no" yaml:"no"`
	Other         int          `json:"other" yaml:"other"`
	MemberVotes   []MemberVote `json:"member_votes,omitempty" yaml:"member_votes,omitempty"`
}

// Page is one page of a paginated listing. Pages are 0-indexed.
type Page[T any] struct {
	Items    []T `json:"items" yaml:"items"`
	Page     int `json:"page" yaml:"page"`
	PageSize int `json:"page_size" yaml:"page_size"`
	NumPages int `json:"num_pages" yaml:"num_pages"`
	Total    int `json:"total" yaml:"total"`
}

// NumPagesFor returns how many pages of pageSize are needed for total items.
func NumPagesFor(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
