// Package sqldb holds the SQL shared by the SQLite and PostgreSQL stores.
// The two backends differ only in how they open a connection and in the
// placeholder syntax, which Dialect hides.
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
)

type Dialect int

const (
	// QuestionMark binds parameters as ? (SQLite).
	QuestionMark Dialect = iota
	// Dollar binds parameters as $1, $2, ... (PostgreSQL).
	Dollar
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func New(dialect Dialect) *Store {
	return &Store{dialect: dialect, now: time.Now}
}

// Attach sets the connection used by every query.
func (s *Store) Attach(db *sql.DB) {
	s.db = db
}

// GetDB returns the underlying connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// rebind rewrites ? placeholders for the store's dialect.
func (s *Store) rebind(query string) string {
	if s.dialect != Dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.rebind(query), args...)
}

// execOne runs a write that must touch exactly one row.
func (s *Store) execOne(what string, query string, args ...any) error {
	res, err := s.exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf("%s", what)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func newID() string {
	return uuid.New().String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by hand or by older builds may use plain RFC 3339.
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullString(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// notFound maps sql.ErrNoRows to ErrNotFound and passes anything else through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFoundf(format, args...)
	}
	return err
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
