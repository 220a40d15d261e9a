package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/vtvclient/internal/client/cli"
	"github.com/dmitrijs2005/vtvclient/internal/client/client"
	"github.com/dmitrijs2005/vtvclient/internal/client/config"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	c, err := client.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	app := cli.NewApp(c, cfg.WatchSession, logger)
	app.Run(ctx)

}
