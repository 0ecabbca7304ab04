package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/gasfinder/internal/config"
	"github.com/rubiojr/gasfinder/internal/i18n"
	"github.com/rubiojr/gasfinder/internal/store"
	"github.com/rubiojr/gasfinder/pkg/api"
	"github.com/rubiojr/gasfinder/pkg/station"
)

func main() {
	app := &cli.App{
		Name:  "gasfinder",
		Usage: "Find nearby fuel stations and compare their prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file",
				Value: "gasfinder.yml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			updateCommand(),
			nearbyCommand(),
			municipalitiesCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if db := c.String("db"); db != "" {
		cfg.Database.Path = db
	}
	if lang := c.String("lang"); lang != "" {
		cfg.Language = lang
	}
	return cfg, nil
}

func newLogger(c *cli.Context) *slog.Logger {
	if c.Bool("debug") {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMessages(cfg config.Config) i18n.Messages {
	return i18n.ForLanguage(cfg.Language)
}

// loadStations serves the latest archived snapshot, falling back to a live
// feed fetch when the database is still empty.
func loadStations(ctx context.Context, st *store.Store, cfg config.Config, logger *slog.Logger) ([]station.Station, error) {
	stations, err := st.LastStations(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		client := api.NewClientWithURLs(cfg.Feeds.StationsURL, cfg.Feeds.MunicipalitiesURL, logger)
		return client.FetchStations(ctx)
	}
	return stations, err
}
