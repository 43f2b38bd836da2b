package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/keyring"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/storage"
	"github.com/julianstephens/dailyos/internal/storage/postgres"
	"github.com/julianstephens/dailyos/internal/storage/sqlite"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	UserID   string
	Location *time.Location
	Out      io.Writer
	In       io.Reader

	svc *actions.Service
}

// Service returns the shared actions service, built on first use.
func (c *Context) Service() *actions.Service {
	if c.svc == nil {
		c.svc = actions.NewService(c.Store, c.Location)
	}
	return c.svc
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// OpenStore picks the storage backend for config. A PostgreSQL URL or DSN
// selects Postgres and must not carry a password. When config is the default
// path, a connection string from DAILYOS_DB_CONNECTION or the OS keyring
// takes precedence. Anything else is a SQLite file path.
func OpenStore(config string) (storage.Provider, error) {
	if isPostgresConfig(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line; " +
					"use 'dailyos config set-connection', " + constants.EnvDBConnection + ", or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	if config == "" || config == constants.DefaultConfigPath {
		if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
			logger.Debug("Using connection string from environment")
			return postgres.New(connStr), nil
		}
		connStr, err := keyring.GetConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using connection string from OS keyring")
			return postgres.New(connStr), nil
		case errors.Is(err, keyring.ErrNotFound):
		default:
			logger.Debug("OS keyring lookup failed", "error", err)
		}
		config = constants.DefaultConfigPath
	}

	path, err := ExpandHome(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

func isPostgresConfig(config string) bool {
	return postgres.IsConnString(config) || strings.Contains(config, "host=")
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is the directory that holds logs and backups for store. Postgres
// stores keep them beside the default SQLite location.
func ConfigDir(store storage.Provider) string {
	if s, ok := store.(*sqlite.Store); ok {
		return filepath.Dir(s.GetConfigPath())
	}
	path, err := ExpandHome(constants.DefaultConfigPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(path)
}

// sqlitePath returns the database file behind store, or an error for stores
// that have no file to snapshot.
func sqlitePath(store storage.Provider) (string, error) {
	s, ok := store.(*sqlite.Store)
	if !ok {
		return "", fmt.Errorf("backups are only supported for SQLite storage; use pg_dump for PostgreSQL")
	}
	return s.GetConfigPath(), nil
}
