package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyos/internal/backup"
	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/keyring"
	"github.com/julianstephens/dailyos/internal/utils"
)

var requiredTables = []string{"work_units", "checklist_items", "days", "daily_nails", "checkpoints"}

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database could not be loaded.
	needsDB bool
	// warnOnly failures are reported but do not fail the run.
	warnOnly bool
	run      func(*Context) error
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	checks := []check{
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Tables present", needsDB: true, run: checkTables},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "OS keyring", warnOnly: true, run: checkKeyring},
	}

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		ctx.printf("❌ Database reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func schemaVersions(ctx *Context) (current, latest int, err error) {
	runner, err := runnerFor(ctx)
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'dailyos migrate'", current, latest)
	}
	return nil
}

func checkTables(ctx *Context) error {
	m, ok := ctx.Store.(migratable)
	if !ok {
		return nil
	}
	for _, table := range requiredTables {
		exists, err := m.TableExists(table)
		if err != nil {
			return fmt.Errorf("failed to look up table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("table %s is missing", table)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	path, err := sqlitePath(ctx.Store)
	if err != nil {
		return err
	}
	backups, err := backup.NewManager(path).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'dailyos backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	if ctx.Location == nil {
		return fmt.Errorf("no timezone configured")
	}
	now := time.Now().In(ctx.Location)
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateDateFormat(now.Format(constants.DateFormat)) {
		return fmt.Errorf("cannot format today's date in %s", ctx.Location)
	}
	return nil
}

// checkKeyring only warns: without a keyring, PostgreSQL credentials can
// still come from the environment or .pgpass.
func checkKeyring(*Context) error {
	if _, err := keyring.Check(); err != nil {
		return fmt.Errorf("%v; use %s or .pgpass for PostgreSQL credentials", err, constants.EnvDBConnection)
	}
	return nil
}
