// Package feed implements a source backed by a JSON HTTP feed.
//
//	GET /jurisdiction
//	GET /sessions
//	GET /sessions/{session}/chambers/{chamber}/members
//	GET /sessions/{session}/legislation?order=latest|earliest&page=N&page_size=M
//	GET /legislation/{legislation}/votes
//
// A feed that cannot order by recency answers 501 Not Implemented, or 400
// with the error code "ordering_unsupported".
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/openstatehouse/legisync/internal/transport"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/sources"
)

// ServiceName identifies the feed in errors.
const ServiceName = "feed"

// APIKeyHeader carries the feed's API key.
const APIKeyHeader = "X-API-Key"

// CodeOrderingUnsupported is the error code a feed sends with a 400 when it
// cannot order by recency.
const CodeOrderingUnsupported = "ordering_unsupported"

// Source fetches legislative data from a feed.
type Source struct {
	client       *transport.Client
	jurisdiction sources.Jurisdiction
}

var _ sources.Source = (*Source)(nil)

// New creates a feed source with an already known jurisdiction.
func New(client *transport.Client, jurisdiction sources.Jurisdiction) *Source {
	return &Source{client: client, jurisdiction: jurisdiction}
}

// Open connects to the feed at baseURL and fetches its jurisdiction.
func Open(ctx context.Context, baseURL, apiKey string, opts ...transport.Option) (*Source, error) {
	if apiKey != "" {
		opts = append([]transport.Option{transport.WithAuth(transport.HeaderAuth{Header: APIKeyHeader}, apiKey)}, opts...)
	}
	client := transport.New(ServiceName, baseURL, opts...)

	var jurisdiction sources.Jurisdiction
	if err := client.Get(ctx, "/jurisdiction", nil, &jurisdiction); err != nil {
		return nil, err
	}
	if jurisdiction.ExternalID == "" {
		return nil, &errors.ValidationError{
			Field:   "external_id",
			Message: "feed jurisdiction has no external_id",
		}
	}

	logging.FromContext(ctx).Debug().
		Str("url", baseURL).
		Str("jurisdiction", jurisdiction.ExternalID.String()).
		Int("chambers", len(jurisdiction.Chambers)).
		Msg("Opened feed")

	return New(client, jurisdiction), nil
}

// ID returns sources.FeedID.
func (s *Source) ID() sources.ID {
	return sources.FeedID
}

// Jurisdiction returns the jurisdiction fetched when the feed was opened.
func (s *Source) Jurisdiction() sources.Jurisdiction {
	return s.jurisdiction
}

// ListSessions returns every session the feed reports.
func (s *Source) ListSessions(ctx context.Context) ([]sources.Session, error) {
	var out []sources.Session
	if err := s.client.Get(ctx, "/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMembers returns a chamber's roster for a session. A 404 becomes a
// *errors.NotFoundError for the roster.
func (s *Source) ListMembers(ctx context.Context, session, chamber legislature.ExternalID) ([]sources.Member, error) {
	path := fmt.Sprintf("/sessions/%s/chambers/%s/members", escape(session), escape(chamber))
	var out []sources.Member
	if err := s.client.Get(ctx, path, nil, &out); err != nil {
		if errors.StatusCode(err) == http.StatusNotFound {
			return nil, errors.NewNotFoundError("roster", session.String()+"/"+chamber.String())
		}
		return nil, err
	}
	return out, nil
}

// FetchLegislation returns one page of a session's legislation.
func (s *Source) FetchLegislation(ctx context.Context, session legislature.ExternalID, orderBy sources.OrderBy, page, pageSize int) (legislature.Page[sources.Legislation], error) {
	query := url.Values{}
	query.Set("order", orderBy.String())
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var out legislature.Page[sources.Legislation]
	err := s.client.Get(ctx, fmt.Sprintf("/sessions/%s/legislation", escape(session)), query, &out)
	if err != nil {
		if orderingUnsupported(err) {
			return legislature.Page[sources.Legislation]{}, sources.ErrOrderingUnsupported
		}
		return legislature.Page[sources.Legislation]{}, err
	}
	return out, nil
}

// ListVotes returns the votes on one piece of legislation. Votes without an
// external id get a composite key.
func (s *Source) ListVotes(ctx context.Context, legislation legislature.ExternalID) ([]sources.Vote, error) {
	var out []sources.Vote
	if err := s.client.Get(ctx, fmt.Sprintf("/legislation/%s/votes", escape(legislation)), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ExternalID == "" {
			out[i].ExternalID = sources.VoteKey(legislation, out[i].ChamberExternalID, out[i].Motion, out[i].VotedAt)
		}
	}
	return out, nil
}

func orderingUnsupported(err error) bool {
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusNotImplemented:
		return true
	case http.StatusBadRequest:
		return apiErr.Code == CodeOrderingUnsupported
	}
	return false
}

func escape(id legislature.ExternalID) string {
	return url.PathEscape(id.String())
}
