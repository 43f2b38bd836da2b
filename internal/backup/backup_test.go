package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dailyos/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dailyos.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE work_units (id TEXT PRIMARY KEY, title TEXT NOT NULL)`,
		`INSERT INTO work_units (id, title) VALUES ('wu-1', 'Draft chapter one')`,
		`INSERT INTO work_units (id, title) VALUES ('wu-2', 'Review notes')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

func countUnits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM work_units").Scan(&n); err != nil {
		t.Fatalf("failed to count work units in %s: %v", path, err)
	}
	return n
}

// steppingClock advances one minute per call so every snapshot gets a distinct name.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.SetClock(func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) })

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if want := filepath.Join(mgr.Dir(), "dailyos-20240315-0930.db"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if got := countUnits(t, path); got != 2 {
		t.Errorf("backup holds %d work units, want 2", got)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected error for a missing database")
	}
}

func TestCreateSameMinuteGetsUniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 3, 15, 9, 30, 12, 0, time.UTC)
	mgr.SetClock(func() time.Time { return fixed })

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 4 {
		t.Errorf("List returned %d backups, want 4", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mgr.SetClock(steppingClock(start))

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	oldestKept := start.Add(3 * time.Minute)
	if got := backups[len(backups)-1].Timestamp; !got.Equal(oldestKept) {
		t.Errorf("oldest kept = %v, want %v", got, oldestKept)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.SetClock(steppingClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))

	for i := 0; i < 2; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	for _, name := range []string{"notes.txt", "dailyos-garbage.db", "other-20240301-0800.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("List returned %d backups, want 2", len(backups))
	}
	if !backups[0].Timestamp.After(backups[1].Timestamp) {
		t.Error("backups are not sorted newest first")
	}
}

func TestListWithoutBackupDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "dailyos.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List returned %d backups, want 0", len(backups))
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"dailyos-20240315-0930.db", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), true},
		{"dailyos-20240315-093012.db", time.Date(2024, 3, 15, 9, 30, 12, 0, time.UTC), true},
		{"dailyos-20240315-093012-2.db", time.Date(2024, 3, 15, 9, 30, 12, 0, time.UTC), true},
		{"dailyos-20240315.db", time.Time{}, false},
		{"dailyos-20240315-0930.sqlite", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseName(tt.name)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !got.Equal(tt.want) {
				t.Errorf("timestamp = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.SetClock(steppingClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM work_units"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := countUnits(t, dbPath); got != 2 {
		t.Errorf("restored database holds %d work units, want 2", got)
	}
	if safety == "" {
		t.Fatal("expected a pre-restore backup path")
	}
	if got := countUnits(t, safety); got != 0 {
		t.Errorf("pre-restore backup holds %d work units, want 0", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file was left behind")
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "dailyos-20240301-0800.db")
	if err := os.WriteFile(bogus, []byte("this is not a database, just some text padding it out"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bogus); err == nil {
		t.Fatal("expected error restoring a corrupt backup")
	}
	if got := countUnits(t, dbPath); got != 2 {
		t.Errorf("database changed after failed restore: %d work units", got)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("expected error for a missing backup file")
	}
}
