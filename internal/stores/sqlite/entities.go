package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/remote"
)

// ListJurisdictions implements remote.JurisdictionStore. Each jurisdiction
// carries its chambers.
func (s *Store) ListJurisdictions(ctx context.Context, filter remote.JurisdictionFilter) ([]legislature.Jurisdiction, error) {
	var w where
	w.ext("external_id", filter.ExternalID)

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, external_id, url FROM jurisdictions"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, errors.WrapResource("list", "jurisdictions", filter.ExternalID.String(), err)
	}
	defer rows.Close()

	var out []legislature.Jurisdiction
	for rows.Next() {
		var j legislature.Jurisdiction
		var ext sql.NullString
		if err := rows.Scan(&j.ID, &j.Name, &ext, &j.URL); err != nil {
			return nil, errors.WrapResource("scan", "jurisdictions", "", err)
		}
		j.ExternalID = legislature.ExternalID(ext.String)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "jurisdictions", "", err)
	}
	rows.Close()

	for i := range out {
		chambers, err := s.ListChambers(ctx, remote.ChamberFilter{JurisdictionID: out[i].ID})
		if err != nil {
			return nil, err
		}
		out[i].Chambers = chambers
	}
	return out, nil
}

// CreateJurisdiction implements remote.JurisdictionStore.
func (s *Store) CreateJurisdiction(ctx context.Context, req remote.JurisdictionCreate) (*legislature.Jurisdiction, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO jurisdictions (name, external_id, url) VALUES (?, ?, ?)",
		req.Name, nullable(req.ExternalID), req.URL)
	if err != nil {
		return nil, translate(err, legislature.KindJurisdiction, req.ExternalID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.WrapResource("create", "jurisdiction", req.ExternalID.String(), err)
	}
	return &legislature.Jurisdiction{
		ID:         legislature.InternalID(id),
		Name:       req.Name,
		ExternalID: req.ExternalID,
		URL:        req.URL,
	}, nil
}

// ListChambers implements remote.ChamberStore.
func (s *Store) ListChambers(ctx context.Context, filter remote.ChamberFilter) ([]legislature.Chamber, error) {
	var w where
	w.ext("external_id", filter.ExternalID)
	w.id("jurisdiction_id", filter.JurisdictionID)

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, external_id, url, jurisdiction_id FROM chambers"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, errors.WrapResource("list", "chambers", filter.ExternalID.String(), err)
	}
	defer rows.Close()

	var out []legislature.Chamber
	for rows.Next() {
		var c legislature.Chamber
		var ext sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &ext, &c.URL, &c.JurisdictionID); err != nil {
			return nil, errors.WrapResource("scan", "chambers", "", err)
		}
		c.ExternalID = legislature.ExternalID(ext.String)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "chambers", "", err)
	}
	return out, nil
}

// CreateChamber implements remote.ChamberStore.
func (s *Store) CreateChamber(ctx context.Context, req remote.ChamberCreate) (*legislature.Chamber, error) {
	var c *legislature.Chamber
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "jurisdictions", req.JurisdictionID)
		if err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindJurisdiction, req.JurisdictionID)
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO chambers (jurisdiction_id, name, external_id, url) VALUES (?, ?, ?, ?)",
			req.JurisdictionID, req.Name, nullable(req.ExternalID), req.URL)
		if err != nil {
			return translate(err, legislature.KindChamber, req.ExternalID)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errors.WrapResource("create", "chamber", req.ExternalID.String(), err)
		}
		c = &legislature.Chamber{
			ID:             legislature.InternalID(id),
			Name:           req.Name,
			ExternalID:     req.ExternalID,
			URL:            req.URL,
			JurisdictionID: req.JurisdictionID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListSessions implements remote.SessionStore. Each session carries the
// chambers linked to it.
func (s *Store) ListSessions(ctx context.Context, filter remote.SessionFilter) ([]legislature.Session, error) {
	var w where
	w.ext("external_id", filter.ExternalID)
	w.id("jurisdiction_id", filter.JurisdictionID)
	return s.querySessions(ctx, s.db, w)
}

func (s *Store) querySessions(ctx context.Context, q queryer, w where) ([]legislature.Session, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, external_id, url, starts_at, ends_at, jurisdiction_id FROM sessions"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, errors.WrapResource("list", "sessions", "", err)
	}
	defer rows.Close()

	var out []legislature.Session
	for rows.Next() {
		var v legislature.Session
		var ext, startsAt, endsAt sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &ext, &v.URL, &startsAt, &endsAt, &v.JurisdictionID); err != nil {
			return nil, errors.WrapResource("scan", "sessions", "", err)
		}
		v.ExternalID = legislature.ExternalID(ext.String)
		if v.StartsAt, err = parseTime(startsAt); err != nil {
			return nil, err
		}
		if v.EndsAt, err = parseTime(endsAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "sessions", "", err)
	}
	rows.Close()

	for i := range out {
		ids, err := chamberIDs(ctx, q, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].ChamberIDs = ids
	}
	return out, nil
}

func chamberIDs(ctx context.Context, q queryer, session legislature.InternalID) ([]legislature.InternalID, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT chamber_id FROM chamber_sessions WHERE session_id = ? ORDER BY chamber_id", session)
	if err != nil {
		return nil, errors.WrapResource("list", "chamber links", fmt.Sprint(session), err)
	}
	defer rows.Close()

	var ids []legislature.InternalID
	for rows.Next() {
		var id legislature.InternalID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WrapResource("scan", "chamber links", "", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateSession implements remote.SessionStore.
func (s *Store) CreateSession(ctx context.Context, req remote.SessionCreate) (*legislature.Session, error) {
	var v *legislature.Session
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "jurisdictions", req.JurisdictionID)
		if err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindJurisdiction, req.JurisdictionID)
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO sessions (jurisdiction_id, name, external_id, url, starts_at, ends_at) VALUES (?, ?, ?, ?, ?, ?)",
			req.JurisdictionID, req.Name, nullable(req.ExternalID), req.URL, formatTime(req.StartsAt), formatTime(req.EndsAt))
		if err != nil {
			return translate(err, legislature.KindSession, req.ExternalID)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errors.WrapResource("create", "session", req.ExternalID.String(), err)
		}
		v = &legislature.Session{
			ID:             legislature.InternalID(id),
			Name:           req.Name,
			StartsAt:       req.StartsAt,
			EndsAt:         req.EndsAt,
			ExternalID:     req.ExternalID,
			URL:            req.URL,
			JurisdictionID: req.JurisdictionID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateSession implements remote.SessionStore.
func (s *Store) UpdateSession(ctx context.Context, id legislature.InternalID, req remote.SessionUpdate) (*legislature.Session, error) {
	var out *legislature.Session
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE sessions SET name = ?, starts_at = ?, ends_at = ? WHERE id = ?",
			req.Name, formatTime(req.StartsAt), formatTime(req.EndsAt), id)
		if err != nil {
			return errors.WrapResource("update", "session", fmt.Sprint(id), err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return missing(legislature.KindSession, id)
		}
		var w where
		w.id("id", id)
		sessions, err := s.querySessions(ctx, tx, w)
		if err != nil {
			return err
		}
		out = &sessions[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSession implements remote.SessionStore. Links, members, legislation
// and votes of the session are removed with it.
func (s *Store) DeleteSession(ctx context.Context, id legislature.InternalID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return errors.WrapResource("delete", "session", fmt.Sprint(id), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return missing(legislature.KindSession, id)
	}
	return nil
}

// LinkChamberSession implements remote.SessionStore.
func (s *Store) LinkChamberSession(ctx context.Context, link legislature.ChamberSessionLink) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "sessions", link.SessionID)
		if err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindSession, link.SessionID)
		}
		if ok, err = exists(ctx, tx, "chambers", link.ChamberID); err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindChamber, link.ChamberID)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO chamber_sessions (session_id, chamber_id) VALUES (?, ?)", link.SessionID, link.ChamberID)
		if err != nil {
			if translated := translate(err, legislature.KindChamber, ""); errors.IsConflict(translated) {
				return errors.NewAPIError(serviceName, http.StatusConflict,
					fmt.Sprintf("chamber %d already linked to session %d", link.ChamberID, link.SessionID))
			}
			return errors.WrapResource("link", "chamber", fmt.Sprint(link.ChamberID), err)
		}
		return nil
	})
}

// ListMembers implements remote.MemberStore.
func (s *Store) ListMembers(ctx context.Context, filter remote.MemberFilter) ([]legislature.Member, error) {
	var w where
	w.ext("external_id", filter.ExternalID)
	w.id("chamber_id", filter.ChamberID)
	w.id("session_id", filter.SessionID)

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, external_id, name, party, district, url, chamber_id, session_id FROM members"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, errors.WrapResource("list", "members", filter.ExternalID.String(), err)
	}
	defer rows.Close()

	var out []legislature.Member
	for rows.Next() {
		var m legislature.Member
		var ext sql.NullString
		if err := rows.Scan(&m.ID, &ext, &m.Name, &m.Party, &m.District, &m.URL, &m.ChamberID, &m.SessionID); err != nil {
			return nil, errors.WrapResource("scan", "members", "", err)
		}
		m.ExternalID = legislature.ExternalID(ext.String)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "members", "", err)
	}
	return out, nil
}

// CreateMember implements remote.MemberStore. The chamber must be linked to
// the session.
func (s *Store) CreateMember(ctx context.Context, req remote.MemberCreate) (*legislature.Member, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO members (session_id, chamber_id, external_id, name, party, district, url) VALUES (?, ?, ?, ?, ?, ?, ?)",
		req.SessionID, req.ChamberID, nullable(req.ExternalID), req.Name, req.Party, req.District, req.URL)
	if err != nil {
		translated := translate(err, legislature.KindMember, req.ExternalID)
		if errors.StatusCode(translated) == http.StatusUnprocessableEntity {
			return nil, errors.NewAPIError(serviceName, http.StatusUnprocessableEntity,
				fmt.Sprintf("chamber %d is not linked to session %d", req.ChamberID, req.SessionID))
		}
		return nil, translated
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.WrapResource("create", "member", req.ExternalID.String(), err)
	}
	return &legislature.Member{
		ID:         legislature.InternalID(id),
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Party:      req.Party,
		District:   req.District,
		URL:        req.URL,
		ChamberID:  req.ChamberID,
		SessionID:  req.SessionID,
	}, nil
}

const legislationColumns = `id, external_id, name_id, title, type, status, status_text, status_updated_at,
	external_url, introduced_at, chamber_id, session_id, sponsor_ids`

// ListLegislation implements remote.LegislationStore.
func (s *Store) ListLegislation(ctx context.Context, filter remote.LegislationFilter) (legislature.Page[legislature.Legislation], error) {
	page, pageSize := max(filter.Page, 0), filter.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var w where
	w.ext("external_id", filter.ExternalID)
	w.id("session_id", filter.SessionID)
	w.id("chamber_id", filter.ChamberID)

	result := legislature.Page[legislature.Legislation]{
		Items:    []legislature.Legislation{},
		Page:     page,
		PageSize: pageSize,
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM legislation"+w.String(), w.args...).Scan(&result.Total); err != nil {
		return result, errors.WrapResource("count", "legislation", "", err)
	}
	result.NumPages = legislature.NumPagesFor(result.Total, pageSize)

	args := append(w.args, pageSize, page*pageSize)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+legislationColumns+" FROM legislation"+w.String()+" ORDER BY id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return result, errors.WrapResource("list", "legislation", filter.ExternalID.String(), err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanLegislation(rows)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, *l)
	}
	if err := rows.Err(); err != nil {
		return result, errors.WrapResource("list", "legislation", "", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLegislation(row scanner) (*legislature.Legislation, error) {
	var l legislature.Legislation
	var statusUpdatedAt, introducedAt sql.NullString
	var sponsors string
	err := row.Scan(&l.ID, &l.ExternalID, &l.NameID, &l.Title, &l.Type, &l.Status, &l.StatusText,
		&statusUpdatedAt, &l.ExternalURL, &introducedAt, &l.ChamberID, &l.SessionID, &sponsors)
	if err != nil {
		return nil, errors.WrapResource("scan", "legislation", "", err)
	}
	if l.StatusUpdatedAt, err = parseTime(statusUpdatedAt); err != nil {
		return nil, err
	}
	if l.IntroducedAt, err = parseTime(introducedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(sponsors, &l.SponsorIDs); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpsertLegislation implements remote.LegislationStore. Rows are keyed by
// external id.
func (s *Store) UpsertLegislation(ctx context.Context, req remote.LegislationUpsert) (*legislature.Legislation, error) {
	sponsors, err := encodeJSON(orEmpty(req.SponsorIDs))
	if err != nil {
		return nil, err
	}

	var out *legislature.Legislation
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "sessions", req.SessionID)
		if err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindSession, req.SessionID)
		}
		if ok, err = exists(ctx, tx, "chambers", req.ChamberID); err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindChamber, req.ChamberID)
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO legislation (external_id, name_id, title, type, status, status_text, status_updated_at,
				external_url, introduced_at, chamber_id, session_id, sponsor_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(external_id) DO UPDATE SET
				name_id = excluded.name_id,
				title = excluded.title,
				type = excluded.type,
				status = excluded.status,
				status_text = excluded.status_text,
				status_updated_at = excluded.status_updated_at,
				external_url = excluded.external_url,
				introduced_at = excluded.introduced_at,
				sponsor_ids = excluded.sponsor_ids
			RETURNING `+legislationColumns,
			req.ExternalID.String(), req.NameID, req.Title, req.Type, req.Status, req.StatusText,
			formatTime(req.StatusUpdatedAt), req.ExternalURL, formatTime(req.IntroducedAt),
			req.ChamberID, req.SessionID, sponsors)
		out, err = scanLegislation(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const voteColumns = `id, external_id, legislation_id, chamber_id, motion, result, voted_at, yes, no, other, member_votes`

// ListVotes implements remote.VoteStore.
func (s *Store) ListVotes(ctx context.Context, filter remote.VoteFilter) ([]legislature.Vote, error) {
	var w where
	w.ext("external_id", filter.ExternalID)
	w.id("legislation_id", filter.LegislationID)

	rows, err := s.db.QueryContext(ctx, "SELECT "+voteColumns+" FROM votes"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, errors.WrapResource("list", "votes", filter.ExternalID.String(), err)
	}
	defer rows.Close()

	var out []legislature.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "votes", "", err)
	}
	return out, nil
}

func scanVote(row scanner) (*legislature.Vote, error) {
	var v legislature.Vote
	var votedAt sql.NullString
	var memberVotes string
	err := row.Scan(&v.ID, &v.ExternalID, &v.LegislationID, &v.ChamberID, &v.Motion, &v.Result,
		&votedAt, &v.Yes, &v.No, &v.Other, &memberVotes)
	if err != nil {
		return nil, errors.WrapResource("scan", "votes", "", err)
	}
	if v.VotedAt, err = parseTime(votedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(memberVotes, &v.MemberVotes); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpsertVote implements remote.VoteStore. Rows are keyed by external id.
func (s *Store) UpsertVote(ctx context.Context, req remote.VoteUpsert) (*legislature.Vote, error) {
	memberVotes, err := encodeJSON(orEmpty(req.MemberVotes))
	if err != nil {
		return nil, err
	}

	var out *legislature.Vote
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "legislation", req.LegislationID)
		if err != nil {
			return err
		}
		if !ok {
			return missing(legislature.KindLegislation, req.LegislationID)
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO votes (external_id, legislation_id, chamber_id, motion, result, voted_at, yes, no, other, member_votes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(external_id) DO UPDATE SET
				legislation_id = excluded.legislation_id,
				chamber_id = excluded.chamber_id,
				motion = excluded.motion,
				result = excluded.result,
				voted_at = excluded.voted_at,
				yes = excluded.yes,
				no = excluded.no,
				other = excluded.other,
				member_votes = excluded.member_votes
			RETURNING `+voteColumns,
			req.ExternalID.String(), req.LegislationID, req.ChamberID, req.Motion, req.Result,
			formatTime(req.VotedAt), req.Yes, req.No, req.Other, memberVotes)
		out, err = scanVote(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
