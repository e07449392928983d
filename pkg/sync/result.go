package sync

import (
	"fmt"
	"strings"

	"github.com/openstatehouse/legisync/pkg/legislature"
)

// JurisdictionResult reports a jurisdiction and chamber reconciliation.
type JurisdictionResult struct {
	JurisdictionID      legislature.InternalID `json:"jurisdiction_id" yaml:"jurisdiction_id"`
	JurisdictionName    string                 `json:"jurisdiction_name" yaml:"jurisdiction_name"`
	JurisdictionCreated bool                   `json:"jurisdiction_created" yaml:"jurisdiction_created"`
	ChambersCreated     []legislature.Chamber  `json:"chambers_created" yaml:"chambers_created"`
	ChambersUpdated     []legislature.Chamber  `json:"chambers_updated" yaml:"chambers_updated"`
}

// HasChanges returns true if anything was created.
func (r *JurisdictionResult) HasChanges() bool {
	return r.JurisdictionCreated || len(r.ChambersCreated) > 0
}

// Summary returns a human-readable summary.
func (r *JurisdictionResult) Summary() string {
	state := "existing"
	if r.JurisdictionCreated {
		state = "created"
	}
	return fmt.Sprintf("%s (%s): %d chambers created, %d existing",
		r.JurisdictionName, state, len(r.ChambersCreated), len(r.ChambersUpdated))
}

// SessionsResult reports a session reconciliation.
type SessionsResult struct {
	Created []legislature.Session `json:"created" yaml:"created"`
	Updated []legislature.Session `json:"updated" yaml:"updated"`
}

// HasChanges returns true if any session was created.
func (r *SessionsResult) HasChanges() bool {
	return len(r.Created) > 0
}

// Summary returns a human-readable summary.
func (r *SessionsResult) Summary() string {
	return fmt.Sprintf("sessions: %d created, %d updated", len(r.Created), len(r.Updated))
}

// ChamberMembersResult reports one chamber-session member reconciliation.
type ChamberMembersResult struct {
	Chamber    legislature.ExternalID `json:"chamber" yaml:"chamber"`
	MaybeNew   []legislature.Member   `json:"maybe_new" yaml:"maybe_new"`
	Duplicates []legislature.Member   `json:"duplicates" yaml:"duplicates"`
}

// MembersResult aggregates member reconciliation across a session's chambers.
type MembersResult struct {
	Session         legislature.ExternalID   `json:"session" yaml:"session"`
	Chambers        []ChamberMembersResult   `json:"chambers" yaml:"chambers"`
	SkippedChambers []legislature.ExternalID `json:"skipped_chambers,omitempty" yaml:"skipped_chambers,omitempty"`
}

// CreatedCount returns the number of members created across chambers.
func (r *MembersResult) CreatedCount() int {
	n := 0
	for _, c := range r.Chambers {
		n += len(c.MaybeNew)
	}
	return n
}

// DuplicateCount returns the number of already known members across chambers.
func (r *MembersResult) DuplicateCount() int {
	n := 0
	for _, c := range r.Chambers {
		n += len(c.Duplicates)
	}
	return n
}

// HasChanges returns true if any member was created.
func (r *MembersResult) HasChanges() bool {
	return r.CreatedCount() > 0
}

// Summary returns a human-readable summary.
func (r *MembersResult) Summary() string {
	summary := fmt.Sprintf("members of %s: %d created, %d already known", r.Session, r.CreatedCount(), r.DuplicateCount())
	if len(r.SkippedChambers) > 0 {
		ids := make([]string, len(r.SkippedChambers))
		for i, id := range r.SkippedChambers {
			ids[i] = id.String()
		}
		summary += fmt.Sprintf(" (skipped: %s)", strings.Join(ids, ", "))
	}
	return summary
}

// LegislationResult reports a paginated legislation reconciliation.
type LegislationResult struct {
	Session      legislature.ExternalID    `json:"session" yaml:"session"`
	Created      []legislature.Legislation `json:"created" yaml:"created"`
	Updated      []legislature.Legislation `json:"updated" yaml:"updated"`
	Unchanged    int                       `json:"unchanged" yaml:"unchanged"`
	PagesFetched int                       `json:"pages_fetched" yaml:"pages_fetched"`
	OrderBy      string                    `json:"order_by" yaml:"order_by"`
	// SkippedSponsors counts sponsors that did not resolve to a known member
	SkippedSponsors int `json:"skipped_sponsors" yaml:"skipped_sponsors"`
}

// HasChanges returns true if any item was created or updated.
func (r *LegislationResult) HasChanges() bool {
	return len(r.Created) > 0 || len(r.Updated) > 0
}

// Summary returns a human-readable summary.
func (r *LegislationResult) Summary() string {
	return fmt.Sprintf("legislation of %s: %d created, %d updated, %d unchanged over %d pages (%s)",
		r.Session, len(r.Created), len(r.Updated), r.Unchanged, r.PagesFetched, r.OrderBy)
}

// VotesResult reports a vote reconciliation for one piece of legislation.
type VotesResult struct {
	Legislation        legislature.ExternalID `json:"legislation" yaml:"legislation"`
	Created            []legislature.Vote     `json:"created" yaml:"created"`
	Updated            []legislature.Vote     `json:"updated" yaml:"updated"`
	SkippedMemberVotes int                    `json:"skipped_member_votes" yaml:"skipped_member_votes"`
}

// HasChanges returns true if any vote was created or updated.
func (r *VotesResult) HasChanges() bool {
	return len(r.Created) > 0 || len(r.Updated) > 0
}

// Summary returns a human-readable summary.
func (r *VotesResult) Summary() string {
	return fmt.Sprintf("votes on %s: %d created, %d updated", r.Legislation, len(r.Created), len(r.Updated))
}

// Result is the complete result of a full sync.
type Result struct {
	Chambers    *JurisdictionResult  `json:"chambers" yaml:"chambers"`
	Sessions    *SessionsResult      `json:"sessions" yaml:"sessions"`
	Members     []*MembersResult     `json:"members" yaml:"members"`
	Legislation []*LegislationResult `json:"legislation" yaml:"legislation"`
	Votes       []*VotesResult       `json:"votes,omitempty" yaml:"votes,omitempty"`
}

// HasChanges returns true if any step changed the remote store.
func (r *Result) HasChanges() bool {
	if r.Chambers != nil && r.Chambers.HasChanges() {
		return true
	}
	if r.Sessions != nil && r.Sessions.HasChanges() {
		return true
	}
	for _, m := range r.Members {
		if m.HasChanges() {
			return true
		}
	}
	for _, l := range r.Legislation {
		if l.HasChanges() {
			return true
		}
	}
	for _, v := range r.Votes {
		if v.HasChanges() {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the full sync.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		return "No changes detected"
	}

	var parts []string
	if r.Chambers != nil {
		parts = append(parts, r.Chambers.Summary())
	}
	if r.Sessions != nil {
		parts = append(parts, r.Sessions.Summary())
	}
	for _, m := range r.Members {
		parts = append(parts, m.Summary())
	}
	for _, l := range r.Legislation {
		parts = append(parts, l.Summary())
	}
	if len(r.Votes) > 0 {
		created, updated := 0, 0
		for _, v := range r.Votes {
			created += len(v.Created)
			updated += len(v.Updated)
		}
		parts = append(parts, fmt.Sprintf("votes: %d created, %d updated across %d items", created, updated, len(r.Votes)))
	}
	return strings.Join(parts, "\n")
}
