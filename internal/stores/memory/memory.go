// Package memory provides an in-memory remote store. It counts every call and
// can inject failures per operation, which makes it the store of choice for
// reconciler tests and for dry runs against a scratch canonical store.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
)

const serviceName = "memory"

// DefaultPageSize is used by ListLegislation when the filter has none.
const DefaultPageSize = 50

// Op names a store operation for call counting and failure injection.
type Op string

// Store operations.
const (
	OpListJurisdictions  Op = "ListJurisdictions"
	OpCreateJurisdiction Op = "CreateJurisdiction"
	OpListChambers       Op = "ListChambers"
	OpCreateChamber      Op = "CreateChamber"
	OpListSessions       Op = "ListSessions"
	OpCreateSession      Op = "CreateSession"
	OpUpdateSession      Op = "UpdateSession"
	OpDeleteSession      Op = "DeleteSession"
	OpLinkChamberSession Op = "LinkChamberSession"
	OpListMembers        Op = "ListMembers"
	OpCreateMember       Op = "CreateMember"
	OpListLegislation    Op = "ListLegislation"
	OpUpsertLegislation  Op = "UpsertLegislation"
	OpListVotes          Op = "ListVotes"
	OpUpsertVote         Op = "UpsertVote"
)

// FailFunc decides whether an operation fails. key identifies the target of
// the call: an external id, or "session:chamber" internal ids for links.
type FailFunc func(op Op, key string) error

type link struct {
	session legislature.InternalID
	chamber legislature.InternalID
}

// Store is a thread-safe in-memory remote.Store.
type Store struct {
	mu sync.RWMutex

	nextID        legislature.InternalID
	jurisdictions map[legislature.InternalID]legislature.Jurisdiction
	chambers      map[legislature.InternalID]legislature.Chamber
	sessions      map[legislature.InternalID]legislature.Session
	links         map[link]struct{}
	members       map[legislature.InternalID]legislature.Member
	legislation   map[legislature.InternalID]legislature.Legislation
	votes         map[legislature.InternalID]legislature.Vote

	calls map[Op]int
	fail  FailFunc
}

var _ remote.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		jurisdictions: make(map[legislature.InternalID]legislature.Jurisdiction),
		chambers:      make(map[legislature.InternalID]legislature.Chamber),
		sessions:      make(map[legislature.InternalID]legislature.Session),
		links:         make(map[link]struct{}),
		members:       make(map[legislature.InternalID]legislature.Member),
		legislation:   make(map[legislature.InternalID]legislature.Legislation),
		votes:         make(map[legislature.InternalID]legislature.Vote),
		calls:         make(map[Op]int),
	}
}

// Calls returns how many times op was invoked.
func (s *Store) Calls(op Op) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (s *Store) TotalCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// ResetCalls zeroes every call counter.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[Op]int)
}

// InjectFailure installs fn; nil removes it.
func (s *Store) InjectFailure(fn FailFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fn
}

// FailOn makes op fail with err for key, or for every key when key is empty.
func (s *Store) FailOn(op Op, key string, err error) {
	s.InjectFailure(func(o Op, k string) error {
		if o == op && (key == "" || k == key) {
			return err
		}
		return nil
	})
}

// Links returns the chamber ids linked to a session.
func (s *Store) Links(session legislature.InternalID) []legislature.InternalID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chamberIDs(session)
}

// enter records a call and evaluates injected failures. Callers hold mu.
func (s *Store) enter(op Op, key string) error {
	s.calls[op]++
	if s.fail != nil {
		return s.fail(op, key)
	}
	return nil
}

func (s *Store) id() legislature.InternalID {
	s.nextID++
	return s.nextID
}

func (s *Store) chamberIDs(session legislature.InternalID) []legislature.InternalID {
	var ids []legislature.InternalID
	for l := range s.links {
		if l.session == session {
			ids = append(ids, l.chamber)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func conflict(kind legislature.Kind, id legislature.ExternalID) error {
	return errors.NewAPIError(serviceName, http.StatusConflict,
		fmt.Sprintf("%s with external id %s already exists", kind, id))
}

func missing(kind legislature.Kind, id legislature.InternalID) error {
	return errors.NewAPIError(serviceName, http.StatusNotFound,
		fmt.Sprintf("%s %d does not exist", kind, id))
}

// sortedValues returns map values ordered by internal id.
func sortedValues[T any](m map[legislature.InternalID]T, keep func(T) bool) []T {
	ids := make([]legislature.InternalID, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// ListJurisdictions implements remote.JurisdictionStore.
func (s *Store) ListJurisdictions(_ context.Context, filter remote.JurisdictionFilter) ([]legislature.Jurisdiction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListJurisdictions, filter.ExternalID.String()); err != nil {
		return nil, err
	}
	out := sortedValues(s.jurisdictions, func(j legislature.Jurisdiction) bool {
		return filter.ExternalID == "" || j.ExternalID == filter.ExternalID
	})
	for i := range out {
		out[i].Chambers = sortedValues(s.chambers, func(c legislature.Chamber) bool {
			return c.JurisdictionID == out[i].ID
		})
	}
	return out, nil
}

// CreateJurisdiction implements remote.JurisdictionStore.
func (s *Store) CreateJurisdiction(_ context.Context, req remote.JurisdictionCreate) (*legislature.Jurisdiction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreateJurisdiction, req.ExternalID.String()); err != nil {
		return nil, err
	}
	for _, j := range s.jurisdictions {
		if req.ExternalID != "" && j.ExternalID == req.ExternalID {
			return nil, conflict(legislature.KindJurisdiction, req.ExternalID)
		}
	}
	j := legislature.Jurisdiction{
		ID:         s.id(),
		Name:       req.Name,
		ExternalID: req.ExternalID,
		URL:        req.URL,
	}
	s.jurisdictions[j.ID] = j
	return &j, nil
}

// ListChambers implements remote.ChamberStore.
func (s *Store) ListChambers(_ context.Context, filter remote.ChamberFilter) ([]legislature.Chamber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListChambers, filter.ExternalID.String()); err != nil {
		return nil, err
	}
	return sortedValues(s.chambers, func(c legislature.Chamber) bool {
		return (filter.ExternalID == "" || c.ExternalID == filter.ExternalID) &&
			(filter.JurisdictionID == 0 || c.JurisdictionID == filter.JurisdictionID)
	}), nil
}

// CreateChamber implements remote.ChamberStore.
func (s *Store) CreateChamber(_ context.Context, req remote.ChamberCreate) (*legislature.Chamber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreateChamber, req.ExternalID.String()); err != nil {
		return nil, err
	}
	if _, ok := s.jurisdictions[req.JurisdictionID]; !ok {
		return nil, missing(legislature.KindJurisdiction, req.JurisdictionID)
	}
	for _, c := range s.chambers {
		if c.JurisdictionID == req.JurisdictionID && req.ExternalID != "" && c.ExternalID == req.ExternalID {
			return nil, conflict(legislature.KindChamber, req.ExternalID)
		}
	}
	c := legislature.Chamber{
		ID:             s.id(),
		Name:           req.Name,
		ExternalID:     req.ExternalID,
		URL:            req.URL,
		JurisdictionID: req.JurisdictionID,
	}
	s.chambers[c.ID] = c
	return &c, nil
}

// ListSessions implements remote.SessionStore.
func (s *Store) ListSessions(_ context.Context, filter remote.SessionFilter) ([]legislature.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListSessions, filter.ExternalID.String()); err != nil {
		return nil, err
	}
	out := sortedValues(s.sessions, func(v legislature.Session) bool {
		return (filter.ExternalID == "" || v.ExternalID == filter.ExternalID) &&
			(filter.JurisdictionID == 0 || v.JurisdictionID == filter.JurisdictionID)
	})
	for i := range out {
		out[i].ChamberIDs = s.chamberIDs(out[i].ID)
	}
	return out, nil
}

// CreateSession implements remote.SessionStore.
func (s *Store) CreateSession(_ context.Context, req remote.SessionCreate) (*legislature.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreateSession, req.ExternalID.String()); err != nil {
		return nil, err
	}
	if _, ok := s.jurisdictions[req.JurisdictionID]; !ok {
		return nil, missing(legislature.KindJurisdiction, req.JurisdictionID)
	}
	for _, v := range s.sessions {
		if v.JurisdictionID == req.JurisdictionID && req.ExternalID != "" && v.ExternalID == req.ExternalID {
			return nil, conflict(legislature.KindSession, req.ExternalID)
		}
	}
	v := legislature.Session{
		ID:             s.id(),
		Name:           req.Name,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		ExternalID:     req.ExternalID,
		URL:            req.URL,
		JurisdictionID: req.JurisdictionID,
	}
	s.sessions[v.ID] = v
	return &v, nil
}

// UpdateSession implements remote.SessionStore.
func (s *Store) UpdateSession(_ context.Context, id legislature.InternalID, req remote.SessionUpdate) (*legislature.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[id]
	if err := s.enter(OpUpdateSession, v.ExternalID.String()); err != nil {
		return nil, err
	}
	if !ok {
		return nil, missing(legislature.KindSession, id)
	}
	v.Name = req.Name
	v.StartsAt = req.StartsAt
	v.EndsAt = req.EndsAt
	s.sessions[id] = v
	v.ChamberIDs = s.chamberIDs(id)
	return &v, nil
}

// DeleteSession implements remote.SessionStore. Links and members of the
// session are removed with it.
func (s *Store) DeleteSession(_ context.Context, id legislature.InternalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[id]
	if err := s.enter(OpDeleteSession, v.ExternalID.String()); err != nil {
		return err
	}
	if !ok {
		return missing(legislature.KindSession, id)
	}
	delete(s.sessions, id)
	for l := range s.links {
		if l.session == id {
			delete(s.links, l)
		}
	}
	for mid, m := range s.members {
		if m.SessionID == id {
			delete(s.members, mid)
		}
	}
	return nil
}

// LinkChamberSession implements remote.SessionStore.
func (s *Store) LinkChamberSession(_ context.Context, req legislature.ChamberSessionLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpLinkChamberSession, fmt.Sprintf("%d:%d", req.SessionID, req.ChamberID)); err != nil {
		return err
	}
	if _, ok := s.sessions[req.SessionID]; !ok {
		return missing(legislature.KindSession, req.SessionID)
	}
	if _, ok := s.chambers[req.ChamberID]; !ok {
		return missing(legislature.KindChamber, req.ChamberID)
	}
	l := link{session: req.SessionID, chamber: req.ChamberID}
	if _, ok := s.links[l]; ok {
		return errors.NewAPIError(serviceName, http.StatusConflict,
			fmt.Sprintf("chamber %d already linked to session %d", req.ChamberID, req.SessionID))
	}
	s.links[l] = struct{}{}
	return nil
}

// ListMembers implements remote.MemberStore.
func (s *Store) ListMembers(_ context.Context, filter remote.MemberFilter) ([]legislature.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListMembers, filter.ExternalID.String()); err != nil {
		return nil, err
	}
	return sortedValues(s.members, func(m legislature.Member) bool {
		return (filter.ExternalID == "" || m.ExternalID == filter.ExternalID) &&
			(filter.ChamberID == 0 || m.ChamberID == filter.ChamberID) &&
			(filter.SessionID == 0 || m.SessionID == filter.SessionID)
	}), nil
}

// CreateMember implements remote.MemberStore. The chamber must be linked to
// the session.
func (s *Store) CreateMember(_ context.Context, req remote.MemberCreate) (*legislature.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreateMember, req.ExternalID.String()); err != nil {
		return nil, err
	}
	if _, ok := s.links[link{session: req.SessionID, chamber: req.ChamberID}]; !ok {
		return nil, errors.NewAPIError(serviceName, http.StatusUnprocessableEntity,
			fmt.Sprintf("chamber %d is not linked to session %d", req.ChamberID, req.SessionID))
	}
	for _, m := range s.members {
		if m.SessionID == req.SessionID && req.ExternalID != "" && m.ExternalID == req.ExternalID {
			return nil, conflict(legislature.KindMember, req.ExternalID)
		}
	}
	m := legislature.Member{
		ID:         s.id(),
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Party:      req.Party,
		District:   req.District,
		URL:        req.URL,
		ChamberID:  req.ChamberID,
		SessionID:  req.SessionID,
	}
	s.members[m.ID] = m
	return &m, nil
}

// ListLegislation implements remote.LegislationStore.
func (s *Store) ListLegislation(_ context.Context, filter remote.LegislationFilter) (legislature.Page[legislature.Legislation], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListLegislation, filter.ExternalID.String()); err != nil {
		return legislature.Page[legislature.Legislation]{}, err
	}
	all := sortedValues(s.legislation, func(l legislature.Legislation) bool {
		return (filter.ExternalID == "" || l.ExternalID == filter.ExternalID) &&
			(filter.SessionID == 0 || l.SessionID == filter.SessionID) &&
			(filter.ChamberID == 0 || l.ChamberID == filter.ChamberID)
	})
	return Paginate(all, filter.Page, filter.PageSize), nil
}

// UpsertLegislation implements remote.LegislationStore.
func (s *Store) UpsertLegislation(_ context.Context, req remote.LegislationUpsert) (*legislature.Legislation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpsertLegislation, req.ExternalID.String()); err != nil {
		return nil, err
	}
	if _, ok := s.sessions[req.SessionID]; !ok {
		return nil, missing(legislature.KindSession, req.SessionID)
	}
	if _, ok := s.chambers[req.ChamberID]; !ok {
		return nil, missing(legislature.KindChamber, req.ChamberID)
	}

	// Ownership is fixed at creation; updates never move legislation.
	id, chamberID, sessionID := legislature.InternalID(0), req.ChamberID, req.SessionID
	for lid, l := range s.legislation {
		if l.ExternalID == req.ExternalID {
			id, chamberID, sessionID = lid, l.ChamberID, l.SessionID
			break
		}
	}
	if id == 0 {
		id = s.id()
	}

	l := legislature.Legislation{
		ID:              id,
		ExternalID:      req.ExternalID,
		NameID:          req.NameID,
		Title:           req.Title,
		Type:            req.Type,
		Status:          req.Status,
		StatusText:      req.StatusText,
		StatusUpdatedAt: req.StatusUpdatedAt,
		ExternalURL:     req.ExternalURL,
		IntroducedAt:    req.IntroducedAt,
		ChamberID:       chamberID,
		SessionID:       sessionID,
		SponsorIDs:      req.SponsorIDs,
	}
	s.legislation[id] = l
	return &l, nil
}

// ListVotes implements remote.VoteStore.
func (s *Store) ListVotes(_ context.Context, filter remote.VoteFilter) ([]legislature.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListVotes, filter.ExternalID.String()); err != nil {
		return nil, err
	}
	return sortedValues(s.votes, func(v legislature.Vote) bool {
		return (filter.ExternalID == "" || v.ExternalID == filter.ExternalID) &&
			(filter.LegislationID == 0 || v.LegislationID == filter.LegislationID)
	}), nil
}

// UpsertVote implements remote.VoteStore.
func (s *Store) UpsertVote(_ context.Context, req remote.VoteUpsert) (*legislature.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpsertVote, req.ExternalID.String()); err != nil {
		return nil, err
	}
	if _, ok := s.legislation[req.LegislationID]; !ok {
		return nil, missing(legislature.KindLegislation, req.LegislationID)
	}

	var id legislature.InternalID
	for vid, v := range s.votes {
		if v.ExternalID == req.ExternalID {
			id = vid
			break
		}
	}
	if id == 0 {
		id = s.id()
	}

	v := legislature.Vote{
		ID:            id,
		ExternalID:    req.ExternalID,
		LegislationID: req.LegislationID,
		ChamberID:     req.ChamberID,
		Motion:        req.Motion,
		Result:        req.Result,
		VotedAt:       req.VotedAt,
		Yes:           req.Yes,
		No:            req.No,
		Other:         req.Other,
		MemberVotes:   req.MemberVotes,
	}
	s.votes[id] = v
	return &v, nil
}

// Paginate slices items into one 0-indexed page. A non-positive pageSize
// falls back to DefaultPageSize.
func Paginate[T any](items []T, page, pageSize int) legislature.Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	result := legislature.Page[T]{
		Items:    []T{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(items),
		NumPages: legislature.NumPagesFor(len(items), pageSize),
	}
	start := page * pageSize
	if start >= len(items) {
		return result
	}
	end := min(start+pageSize, len(items))
	result.Items = append(result.Items, items[start:end]...)
	return result
}
