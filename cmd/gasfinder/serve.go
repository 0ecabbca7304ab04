package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/gasfinder/internal/geocode"
	"github.com/rubiojr/gasfinder/internal/store"
	"github.com/rubiojr/gasfinder/internal/web"
	"github.com/rubiojr/gasfinder/pkg/api"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the search HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database file",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Message language (es, en)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger := web.NewLogger(c.Bool("debug"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Database.Path, logger.Logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer st.Close()

	client := api.NewClientWithURLs(cfg.Feeds.StationsURL, cfg.Feeds.MunicipalitiesURL, logger.Logger)
	geocoder := geocode.New(cfg.Geocoder.URL, cfg.Geocoder.UserAgent, logger.Logger)

	return web.New(cfg, st, client, geocoder, logger).Start(ctx)
}
