package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/dailyos/internal/logger"
	"github.com/julianstephens/dailyos/internal/web"
)

type ServeCmd struct {
	Addr   string `help:"Address to listen on." env:"DAILYOS_ADDR" default:"${default_addr}"`
	Tokens string `help:"YAML file mapping bearer tokens to user ids." env:"DAILYOS_TOKENS" required:"" type:"existingfile"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	tokens, err := web.LoadTokens(c.Tokens)
	if err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting dailyos server", "store", ctx.Store.GetConfigPath(), "users", len(tokens))
	return web.NewServer(ctx.Service(), tokens).Run(runCtx, c.Addr)
}
