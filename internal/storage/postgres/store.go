package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/migration"
	"github.com/julianstephens/dailyos/internal/storage"
	"github.com/julianstephens/dailyos/internal/storage/sqldb"
	"github.com/julianstephens/dailyos/migrations"
)

var _ storage.Provider = (*Store)(nil)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type Store struct {
	*sqldb.Store
	connStr string
}

// New returns a store for connStr, pinned to the dailyos schema unless the
// caller already chose a search_path.
func New(connStr string) *Store {
	return &Store{
		Store:   sqldb.New(sqldb.Dollar),
		connStr: withSearchPath(connStr),
	}
}

// IsConnString reports whether config names a PostgreSQL URL rather than a file path.
func IsConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

func withSearchPath(connStr string) string {
	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if !hasSearchPathParam(connStr) {
		return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
	}
	return connStr
}

// dsnHasKey reports whether a key=value DSN sets key, ignoring case.
func dsnHasKey(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), key) {
			return true
		}
	}
	return false
}

func hasSearchPathParam(connStr string) bool {
	return dsnHasKey(connStr, "search_path")
}

// hasSSLMode checks URL query parameters first and falls back to DSN pairs.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return dsnHasKey(connStr, "sslmode")
}

// ValidateConnString accepts a PostgreSQL URL or DSN that carries no password.
// Passwords belong in the OS keyring, the environment, or .pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return true, nil
	}

	if dsnHasKey(connStr, "password") {
		return false, ErrEmbeddedCredentials
	}
	return true, nil
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func (s *Store) ping(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

// Init creates the dailyos schema if needed and applies pending migrations.
func (s *Store) Init() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	if err := s.ping(db); err != nil {
		db.Close()
		return err
	}
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.Attach(db)

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.GetDB() != nil {
		return nil
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	if err := s.ping(db); err != nil {
		db.Close()
		return err
	}
	s.Attach(db)

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if db := s.GetDB(); db != nil {
		s.Attach(nil)
		return db.Close()
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.GetDB(), subFS), nil
}

// TableExists looks the table up in the dailyos schema.
func (s *Store) TableExists(tableName string) (bool, error) {
	var exists bool
	err := s.GetDB().QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = lower($2)
		)`, constants.AppName, tableName).Scan(&exists)
	return exists, err
}

// GetConfigPath returns a fixed label so the connection string never reaches logs.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}

// Migrations exposes the migration runner for the migrate and doctor commands.
// The store must be opened first.
func (s *Store) Migrations() (*migration.Runner, error) {
	return s.runner()
}
