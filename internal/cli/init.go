package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/dailyos/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized dailyos storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func (c *InitCmd) reset(ctx *Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}
	path := s.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.printf("Deleted existing database at: %s\n", path)
	return nil
}
