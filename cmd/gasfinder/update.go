package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/gasfinder/internal/store"
	"github.com/rubiojr/gasfinder/pkg/api"
)

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Fetch the current fuel prices and archive them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database file",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Message language (es, en)",
			},
		},
		Action: updateAction,
	}
}

func updateAction(c *cli.Context) error {
	ctx := context.Background()
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(c)
	msgs := newMessages(cfg)

	st, err := store.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer st.Close()

	client := api.NewClientWithURLs(cfg.Feeds.StationsURL, cfg.Feeds.MunicipalitiesURL, logger)
	body, envelope, err := client.FetchRaw(ctx)
	if err != nil {
		logger.Error("feed fetch failed", "error", err)
		if errors.Is(err, api.ErrNoStationData) {
			return errors.New(msgs.NoStationData)
		}
		return errors.New(msgs.FetchError)
	}

	now := time.Now()
	if err := st.SaveSnapshot(ctx, now, body); err != nil {
		return err
	}

	fmt.Printf("Saved %d station records for %s\n", len(envelope.ListaEESSPrecio), now.Format("2006-01-02"))
	return nil
}
