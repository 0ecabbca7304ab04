package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/gasfinder/internal/suggest"
	"github.com/rubiojr/gasfinder/pkg/api"
)

func municipalitiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "municipalities",
		Usage: "List the municipalities known to the fuel price service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Show only matching municipalities (3 characters minimum)",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Message language (es, en)",
			},
		},
		Action: municipalitiesAction,
	}
}

func municipalitiesAction(c *cli.Context) error {
	ctx := context.Background()
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(c)

	client := api.NewClientWithURLs(cfg.Feeds.StationsURL, cfg.Feeds.MunicipalitiesURL, logger)
	names, err := client.FetchMunicipalities(ctx)
	if err != nil {
		// Best-effort feed: an empty list, not a failure.
		logger.Warn("municipality feed unavailable", "error", err)
		names = nil
	}

	if filter := c.String("filter"); filter != "" {
		names = suggest.NewIndex(names).Match(filter)
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
