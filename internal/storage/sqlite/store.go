package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/migration"
	"github.com/julianstephens/dailyos/internal/storage"
	"github.com/julianstephens/dailyos/internal/storage/sqldb"
	"github.com/julianstephens/dailyos/migrations"
)

// pragmas are applied to every pooled connection. Foreign keys are off by
// default in SQLite and the cascades depend on them.
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

var _ storage.Provider = (*Store)(nil)

type Store struct {
	*sqldb.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{
		Store: sqldb.New(sqldb.QuestionMark),
		path:  path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", "file:"+s.path+pragmas)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.Attach(db)
	return nil
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.GetDB() == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an existing database and checks that this build understands its schema.
func (s *Store) Load() error {
	if s.GetDB() != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'dailyos init' first")
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if db := s.GetDB(); db != nil {
		s.Attach(nil)
		return db.Close()
	}
	return nil
}

// TableExists reports whether tableName exists, case-insensitively as SQLite does.
func (s *Store) TableExists(tableName string) (bool, error) {
	var count int
	row := s.GetDB().QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.GetDB(), subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// Migrations exposes the migration runner for the migrate and doctor commands.
// The store must be opened first.
func (s *Store) Migrations() (*migration.Runner, error) {
	return s.runner()
}
