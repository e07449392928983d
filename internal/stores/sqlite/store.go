// Package sqlite provides a remote store persisted in a SQLite database. It
// serves as a self-hosted canonical store and as a durable scratch store for
// rehearsing a sync before pointing it at the real API.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
)

//go:embed schema.sql
var schemaSQL string

const serviceName = "sqlite"

// DefaultPageSize is used by ListLegislation when the filter has none.
const DefaultPageSize = 50

// Store is a remote.Store backed by SQLite.
// Uses WAL mode so readers are not blocked by the single writer.
type Store struct {
	db *sql.DB
}

var _ remote.Store = (*Store)(nil)

// Open creates or opens a SQLite database at the given path and applies
// the schema. Safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapIO("connect", path, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.WrapResource("apply", "schema", path, err)
	}

	logging.Debug().Str("path", path).Msg("Opened SQLite store")
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.WrapResource("execute", "pragma", pragma, err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", "", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", "", err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func exists(ctx context.Context, q queryer, table string, id legislature.InternalID) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapResource("lookup", table, fmt.Sprint(id), err)
	}
	return true, nil
}

func conflict(kind legislature.Kind, id legislature.ExternalID) error {
	return errors.NewAPIError(serviceName, http.StatusConflict,
		fmt.Sprintf("%s with external id %s already exists", kind, id))
}

func missing(kind legislature.Kind, id legislature.InternalID) error {
	return errors.NewAPIError(serviceName, http.StatusNotFound,
		fmt.Sprintf("%s %d does not exist", kind, id))
}

// translate maps constraint violations onto the status codes the REST API
// would answer with.
func translate(err error, kind legislature.Kind, id legislature.ExternalID) error {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
		switch sqlErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return conflict(kind, id)
		case sqlite3.ErrConstraintForeignKey:
			return &errors.APIError{
				Service:    serviceName,
				StatusCode: http.StatusUnprocessableEntity,
				Message:    fmt.Sprintf("%s %s references a missing parent", kind, id),
				Err:        err,
			}
		}
	}
	return errors.WrapResource("write", kind.String(), id.String(), err)
}

// nullable stores empty external ids as NULL so UNIQUE only binds real ids.
func nullable(id legislature.ExternalID) sql.NullString {
	return sql.NullString{String: id.String(), Valid: id != ""}
}

func formatTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, errors.WrapParse("rfc3339", "timestamp", err)
	}
	return &t, nil
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.WrapParse("json", "column", err)
	}
	return string(raw), nil
}

func decodeJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return errors.WrapParse("json", "column", err)
	}
	return nil
}

// where accumulates optional equality filters.
type where struct {
	clauses []string
	args    []any
}

func (w *where) ext(column string, id legislature.ExternalID) {
	if id != "" {
		w.clauses = append(w.clauses, column+" = ?")
		w.args = append(w.args, id.String())
	}
}

func (w *where) id(column string, id legislature.InternalID) {
	if id != 0 {
		w.clauses = append(w.clauses, column+" = ?")
		w.args = append(w.args, id)
	}
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	out := " WHERE " + w.clauses[0]
	for _, c := range w.clauses[1:] {
		out += " AND " + c
	}
	return out
}
