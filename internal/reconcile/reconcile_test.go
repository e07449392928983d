package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/internal/resolver"
	"github.com/openstatehouse/legisync/internal/sources/local"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/sources"
)

// gaData is a two-chamber jurisdiction with one session.
func gaData() local.Data {
	updated := func(day int) *time.Time {
		t := time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
		return &t
	}
	return local.Data{
		Jurisdiction: sources.Jurisdiction{
			Name:       "Georgia",
			ExternalID: "ga",
			URL:        "https://www.legis.ga.gov",
			Chambers: []sources.Chamber{
				{Name: "House", ExternalID: "house"},
				{Name: "Senate", ExternalID: "senate"},
			},
		},
		Sessions: []sources.Session{
			{Name: "2025-2026 Regular Session", ExternalID: "2025_26"},
		},
		Members: map[legislature.ExternalID]map[legislature.ExternalID][]sources.Member{
			"2025_26": {
				"house": {
					{ExternalID: "h1", Name: "Alex Rivera", Party: "D"},
					{ExternalID: "h2", Name: "Sam Lee", Party: "R"},
				},
				"senate": {
					{ExternalID: "s1", Name: "Jordan Hale", Party: "R"},
				},
			},
		},
		Legislation: map[legislature.ExternalID][]sources.Legislation{
			"2025_26": {
				{ExternalID: "HB1", ChamberExternalID: "house", NameID: "HB 1", Title: "Budget", UpdatedAt: updated(3),
					Sponsors: []sources.Sponsor{{MemberExternalID: "h1", Primary: true}, {MemberExternalID: "ghost"}}},
				{ExternalID: "HB2", ChamberExternalID: "house", NameID: "HB 2", Title: "Roads", UpdatedAt: updated(2)},
				{ExternalID: "SB1", ChamberExternalID: "senate", NameID: "SB 1", Title: "Schools", UpdatedAt: updated(1),
					Sponsors: []sources.Sponsor{{MemberExternalID: "s1"}}},
			},
		},
		Votes: map[legislature.ExternalID][]sources.Vote{
			"HB1": {
				{ChamberExternalID: "house", Motion: "Passage", Result: "passed", VotedAt: updated(4), Yes: 2, No: 0,
					MemberVotes: []sources.MemberVote{
						{MemberExternalID: "h1", Choice: legislature.VoteYes},
						{MemberExternalID: "h2", Choice: legislature.VoteYes},
						{MemberExternalID: "nobody", Choice: legislature.VoteNo},
					}},
			},
		},
	}
}

type harness struct {
	source   sources.Source
	store    *memory.Store
	resolver *resolver.Resolver
}

func newHarness(source sources.Source) *harness {
	store := memory.New()
	return &harness{
		source:   source,
		store:    store,
		resolver: resolver.New(store, source.Jurisdiction().ExternalID),
	}
}

// fresh returns a cold resolver over the same store, as a new run would.
func (h *harness) fresh() {
	h.resolver = resolver.New(h.store, h.source.Jurisdiction().ExternalID)
}

func (h *harness) jurisdictions() *Jurisdictions {
	return NewJurisdictions(h.source, h.store, h.resolver)
}

func (h *harness) sessions() *Sessions {
	return NewSessions(h.source, h.store, h.resolver, nil)
}

func (h *harness) members() *Members {
	return NewMembers(h.source, h.store, h.resolver, nil)
}

func (h *harness) legislation() *Legislation {
	return NewLegislation(h.source, h.store, h.resolver, nil)
}

func (h *harness) votes() *Votes {
	return NewVotes(h.source, h.store, h.resolver, nil)
}

// bootstrap creates the jurisdiction, its chambers and sessions.
func (h *harness) bootstrap(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := h.jurisdictions().Sync(ctx)
	require.NoError(t, err)
	_, err = h.sessions().Sync(ctx)
	require.NoError(t, err)
}

// pagedSource serves numbered legislation in fixed pages and records every
// request. unsupported lists orderings that fail with ErrOrderingUnsupported.
type pagedSource struct {
	*local.Source
	numPages    int
	pageSize    int
	emptyFrom   int
	unsupported map[sources.OrderBy]bool
	failWith    error
	requests    []pageRequest
}

type pageRequest struct {
	page    int
	orderBy sources.OrderBy
}

func newPagedSource(numPages, pageSize int) *pagedSource {
	return &pagedSource{
		Source:      local.New(gaData()),
		numPages:    numPages,
		pageSize:    pageSize,
		emptyFrom:   -1,
		unsupported: map[sources.OrderBy]bool{},
	}
}

func (p *pagedSource) FetchLegislation(_ context.Context, _ legislature.ExternalID, orderBy sources.OrderBy, page, pageSize int) (legislature.Page[sources.Legislation], error) {
	p.requests = append(p.requests, pageRequest{page: page, orderBy: orderBy})
	if p.failWith != nil {
		return legislature.Page[sources.Legislation]{}, p.failWith
	}
	if p.unsupported[orderBy] {
		return legislature.Page[sources.Legislation]{}, sources.ErrOrderingUnsupported
	}
	result := legislature.Page[sources.Legislation]{Page: page, PageSize: pageSize, NumPages: p.numPages, Total: p.numPages * p.pageSize}
	if page >= p.numPages || (p.emptyFrom >= 0 && page >= p.emptyFrom) {
		return result, nil
	}
	for i := 0; i < p.pageSize; i++ {
		result.Items = append(result.Items, sources.Legislation{
			ExternalID:        legislature.ExternalID(fmt.Sprintf("HB%d", page*p.pageSize+i)),
			ChamberExternalID: "house",
			Title:             "Generated",
		})
	}
	return result, nil
}
