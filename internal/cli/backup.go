package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/dailyos/internal/backup"
	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/logger"
)

func backupManager(ctx *Context) (*backup.Manager, error) {
	path, err := sqlitePath(ctx.Store)
	if err != nil {
		return nil, err
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.BackupFile
	if !filepath.IsAbs(path) {
		candidate := filepath.Join(mgr.Dir(), c.BackupFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.println("A backup of your current database will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(path))
		ctx.printf("Continue? [y/N]: ")

		response, err := bufio.NewReader(ctx.in()).ReadString('\n')
		if err != nil && response == "" {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("failed to close database connection", "error", err)
	}

	safety, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety != "" {
		ctx.printf("Created backup of current database: %s\n", filepath.Base(safety))
	}
	ctx.println("✓ Database restored successfully!")
	ctx.println("Restart any running dailyos processes to use the restored database.")
	return nil
}
