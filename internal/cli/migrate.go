package cli

import (
	"fmt"

	"github.com/julianstephens/dailyos/internal/migration"
)

// migratable is implemented by both the SQLite and Postgres stores.
type migratable interface {
	Migrations() (*migration.Runner, error)
	TableExists(tableName string) (bool, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	runner, err := runnerFor(ctx)
	if err != nil {
		return err
	}

	count, err := runner.ApplyMigrations(func(msg string) {
		ctx.println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}

func runnerFor(ctx *Context) (*migration.Runner, error) {
	m, ok := ctx.Store.(migratable)
	if !ok {
		return nil, fmt.Errorf("storage backend does not support migrations")
	}
	return m.Migrations()
}
