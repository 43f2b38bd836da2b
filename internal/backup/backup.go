package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/logger"
)

// Snapshot names carry minute precision; a collision within the same minute
// falls back to seconds and then to a numeric suffix.
const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// Info describes one snapshot on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps rotating snapshots of a SQLite database next to it, under
// <dir>/backups.
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// SetClock replaces the time source used to name snapshots.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new snapshot and prunes the oldest beyond the retention limit.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Debug("backup created", "path", path)
	return path, nil
}

func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidate := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := candidate(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}
	stamp := now.Format(secondLayout)
	path = candidate(stamp)
	for n := 1; exists(path); n++ {
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = candidate(fmt.Sprintf("%s-%d", stamp, n))
	}
	return path, nil
}

// snapshot copies the database with VACUUM INTO, which produces a consistent
// file even while other connections are open.
func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", "file:"+m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := checkDatabase(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns the snapshots newest first. Files that do not follow the
// naming scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp from dailyos-YYYYMMDD-HHMM[SS][-N].db.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 && isDigits(parts[2]) {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.Parse(layout, stamp); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first and that path is returned; it is empty when
// there was no database to preserve. The caller must close its connections.
func (m *Manager) Restore(path string) (string, error) {
	if !exists(path) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := Verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if exists(m.dbPath) {
		var err error
		if safety, err = m.create(); err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("database restored", "from", path)
	return safety, nil
}

// Verify checks that path opens as a SQLite database.
func Verify(path string) error {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return checkDatabase(db)
}

func checkDatabase(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
