package reconcile

import (
	"context"

	"github.com/openstatehouse/legisync/internal/resolver"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// Votes upserts the votes recorded on one piece of legislation.
type Votes struct {
	deps
	onUpserted func(legislature.Vote, bool)
}

// NewVotes creates a vote reconciler.
func NewVotes(source sources.Source, store remote.Store, res *resolver.Resolver, onUpserted func(legislature.Vote, bool)) *Votes {
	return &Votes{deps: newDeps(source, store, res), onUpserted: onUpserted}
}

// Sync fetches every vote on the legislation and upserts it. Member votes
// naming a member unknown for the legislation's session are dropped and
// counted.
func (r *Votes) Sync(ctx context.Context, legislationID legislature.ExternalID) (*pkgsync.VotesResult, error) {
	ctx = logging.WithField(ctx, "legislation", legislationID.String())
	logger := logging.FromContext(ctx)

	leg, err := r.resolver.Legislation(ctx, legislationID)
	if err != nil {
		return nil, err
	}

	fetched, err := r.source.ListVotes(ctx, legislationID)
	if err != nil {
		return nil, errors.WrapResource("fetch", legislature.KindVote.String(), legislationID.String(), err)
	}

	existing, err := r.store.ListVotes(ctx, remote.VoteFilter{LegislationID: leg.ID})
	if err != nil {
		return nil, errors.WrapResource("list", legislature.KindVote.String(), legislationID.String(), err)
	}
	known := make(map[legislature.ExternalID]struct{}, len(existing))
	for _, v := range existing {
		known[v.ExternalID] = struct{}{}
	}

	result := &pkgsync.VotesResult{Legislation: legislationID}
	for _, ext := range fetched {
		key := ext.ExternalID
		if key == "" {
			key = sources.VoteKey(legislationID, ext.ChamberExternalID, ext.Motion, ext.VotedAt)
		}

		chamberID := leg.ChamberID
		if ext.ChamberExternalID != "" {
			c, err := r.resolver.Chamber(ctx, ext.ChamberExternalID)
			if err != nil {
				return nil, err
			}
			chamberID = c.ID
		}

		memberVotes := make([]legislature.MemberVote, 0, len(ext.MemberVotes))
		for _, mv := range ext.MemberVotes {
			m, err := r.resolver.Member(ctx, leg.SessionID, mv.MemberExternalID)
			if err != nil {
				if errors.IsNotFound(err) {
					result.SkippedMemberVotes++
					continue
				}
				return nil, err
			}
			memberVotes = append(memberVotes, legislature.MemberVote{MemberID: m.ID, Choice: mv.Choice})
		}

		v, err := r.store.UpsertVote(ctx, remote.VoteUpsert{
			ExternalID:    key,
			LegislationID: leg.ID,
			ChamberID:     chamberID,
			Motion:        ext.Motion,
			Result:        ext.Result,
			VotedAt:       ext.VotedAt,
			Yes:           ext.Yes,
			No:            ext.No,
			Other:         ext.Other,
			MemberVotes:   memberVotes,
		})
		if err != nil {
			return nil, errors.WrapResource("upsert", legislature.KindVote.String(), key.String(), err)
		}

		_, existed := known[key]
		if existed {
			result.Updated = append(result.Updated, *v)
		} else {
			known[key] = struct{}{}
			result.Created = append(result.Created, *v)
		}

		if r.onUpserted != nil {
			r.onUpserted(*v, !existed)
		}
	}

	logger.Info().
		Int("created", len(result.Created)).
		Int("updated", len(result.Updated)).
		Int("skipped_member_votes", result.SkippedMemberVotes).
		Msg("Votes reconciled")

	return result, nil
}
