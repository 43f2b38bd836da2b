package sqldb

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite untouched", QuestionMark, "SELECT * FROM days WHERE id = ? AND user_id = ?", "SELECT * FROM days WHERE id = ? AND user_id = ?"},
		{"postgres numbered", Dollar, "SELECT * FROM days WHERE id = ? AND user_id = ?", "SELECT * FROM days WHERE id = $1 AND user_id = $2"},
		{"postgres double digits", Dollar, "VALUES (" + placeholders(11) + ")", "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"},
		{"no params", Dollar, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.dialect).rebind(tt.query); got != tt.want {
				t.Errorf("rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(0); got != "" {
		t.Errorf("placeholders(0) = %q", got)
	}
	if got := placeholders(3); got != "?, ?, ?" {
		t.Errorf("placeholders(3) = %q", got)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2026, 10, 17, 9, 30, 0, 123456000, time.FixedZone("EST", -5*3600))
	s := formatTime(in)
	if s != "2026-10-17T14:30:00.123456Z" {
		t.Errorf("formatTime() = %q", s)
	}
	out, err := parseTime(s)
	if err != nil {
		t.Fatalf("parseTime() error = %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("parseTime() = %v, want %v", out, in)
	}

	if _, err := parseTime("2026-10-17T14:30:00Z"); err != nil {
		t.Errorf("plain RFC 3339 rejected: %v", err)
	}
	if _, err := parseTime("yesterday"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestTimestampsSortLexically(t *testing.T) {
	a := formatTime(time.Date(2026, 10, 17, 9, 0, 0, 900000000, time.UTC))
	b := formatTime(time.Date(2026, 10, 17, 9, 0, 1, 0, time.UTC))
	if !(a < b) {
		t.Errorf("%q should sort before %q", a, b)
	}
}

func TestNullStringHelpers(t *testing.T) {
	if nullString(nil).Valid {
		t.Error("nil should be NULL")
	}
	empty := ""
	if nullString(&empty).Valid {
		t.Error("empty string should be NULL")
	}
	id := "wu-1"
	ns := nullString(&id)
	if !ns.Valid || *stringPtr(ns) != "wu-1" {
		t.Errorf("round trip lost value: %+v", ns)
	}
}

func TestNotFoundMapping(t *testing.T) {
	err := notFound(sql.ErrNoRows, "day %s", "2026-10-17")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("notFound() = %v, want ErrNotFound", err)
	}

	other := errors.New("disk I/O error")
	if got := notFound(other, "day"); got != other {
		t.Errorf("notFound() rewrote %v", got)
	}
}
