package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyos/internal/backup"
	"github.com/julianstephens/dailyos/internal/cache"
	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/optimistic"
	"github.com/julianstephens/dailyos/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.autoBackup()

	svc := ctx.Service()
	store := cache.New()
	svc.RegisterCacheLoaders(store, ctx.UserID)
	syncer := optimistic.NewSynchronizer(store, svc, ctx.UserID)
	defer syncer.Close()

	p := tea.NewProgram(tui.NewModel(svc, store, syncer, ctx.UserID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

// autoBackup snapshots a SQLite database before an interactive session.
// Failures are logged and never block the session.
func (c *Context) autoBackup() {
	path, err := sqlitePath(c.Store)
	if err != nil {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
