package alerts

import (
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// ForResult derives alerts from a sync result. Unknown values yield none.
func ForResult(v any) []*Alert {
	var out []*Alert
	switch r := v.(type) {
	case *pkgsync.Result:
		for _, m := range r.Members {
			out = append(out, ForResult(m)...)
		}
		for _, l := range r.Legislation {
			out = append(out, ForResult(l)...)
		}
		for _, vr := range r.Votes {
			out = append(out, ForResult(vr)...)
		}
		if r.Chambers != nil && r.Sessions != nil && !r.HasChanges() {
			out = append(out, NewSuccess("Store is up to date"))
		}
	case *pkgsync.MembersResult:
		if len(r.SkippedChambers) > 0 {
			a := NewWarning("Session %s: %d chambers have no roster at the source", r.Session, len(r.SkippedChambers))
			for _, c := range r.SkippedChambers {
				a.WithDetails(c.String())
			}
			out = append(out, a)
		}
	case *pkgsync.LegislationResult:
		if r.SkippedSponsors > 0 {
			out = append(out, NewWarning("Session %s: %d sponsors are not members of the session and were skipped",
				r.Session, r.SkippedSponsors).WithDetails("run \"legisync sync members "+r.Session.String()+"\" first"))
		}
	case *pkgsync.VotesResult:
		if r.SkippedMemberVotes > 0 {
			out = append(out, NewWarning("Votes on %s: %d member votes reference unknown members and were skipped",
				r.Legislation, r.SkippedMemberVotes))
		}
	}
	return out
}
