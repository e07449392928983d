package legisync

import (
	"sync"

	"github.com/openstatehouse/legisync/pkg/legislature"
)

// Hook function types for reconciliation events
type (
	// SessionCreatedHook is called after a session is created and linked to every chamber
	SessionCreatedHook func(session legislature.Session)

	// MemberCreatedHook is called when a member is created
	MemberCreatedHook func(member legislature.Member)

	// LegislationUpsertedHook is called after a piece of legislation is upserted
	LegislationUpsertedHook func(legislation legislature.Legislation, created bool)

	// VoteUpsertedHook is called after a vote is upserted
	VoteUpsertedHook func(vote legislature.Vote, created bool)
)

// hooks manages event callbacks for store changes
type hooks struct {
	mu                    sync.RWMutex
	onSessionCreated      []SessionCreatedHook
	onMemberCreated       []MemberCreatedHook
	onLegislationUpserted []LegislationUpsertedHook
	onVoteUpserted        []VoteUpsertedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnSessionCreated registers a callback for when sessions are created
func (h *hooks) OnSessionCreated(fn SessionCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSessionCreated = append(h.onSessionCreated, fn)
}

// OnMemberCreated registers a callback for when members are created
func (h *hooks) OnMemberCreated(fn MemberCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMemberCreated = append(h.onMemberCreated, fn)
}

// OnLegislationUpserted registers a callback for when legislation is upserted
func (h *hooks) OnLegislationUpserted(fn LegislationUpsertedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onLegislationUpserted = append(h.onLegislationUpserted, fn)
}

// OnVoteUpserted registers a callback for when votes are upserted
func (h *hooks) OnVoteUpserted(fn VoteUpsertedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onVoteUpserted = append(h.onVoteUpserted, fn)
}

func (h *hooks) sessionCreated(s legislature.Session) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onSessionCreated {
		hook(s)
	}
}

func (h *hooks) memberCreated(m legislature.Member) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onMemberCreated {
		hook(m)
	}
}

func (h *hooks) legislationUpserted(l legislature.Legislation, created bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onLegislationUpserted {
		hook(l, created)
	}
}

func (h *hooks) voteUpserted(v legislature.Vote, created bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onVoteUpserted {
		hook(v, created)
	}
}
