package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/gasfinder/internal/finder"
	"github.com/rubiojr/gasfinder/internal/geocode"
	"github.com/rubiojr/gasfinder/internal/i18n"
	"github.com/rubiojr/gasfinder/internal/store"
	"github.com/rubiojr/gasfinder/pkg/geo"
	"github.com/rubiojr/gasfinder/pkg/station"
)

func nearbyCommand() *cli.Command {
	return &cli.Command{
		Name:  "nearby",
		Usage: "List nearby fuel stations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "location",
				Usage: "Free-text location to search",
			},
			&cli.StringFlag{
				Name:  "city",
				Usage: "Preset city: madrid, barcelona, valencia, sevilla, bilbao",
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:  "long",
				Usage: "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers",
				Value:   finder.DefaultRadiusKm,
			},
			&cli.StringFlag{
				Name:  "fuel",
				Usage: "Fuel type: gasolina_95, gasolina_98, diesel, diesel_premium",
				Value: string(station.FuelGasolina95),
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: distance or price",
				Value: string(finder.SortByDistance),
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
		Action: nearbyAction,
	}
}

func nearbyAction(c *cli.Context) error {
	ctx := context.Background()
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(c)
	msgs := newMessages(cfg)

	settings := finder.Settings{
		FuelType: station.FuelType(c.String("fuel")),
		SortBy:   finder.SortBy(c.String("sort")),
		RadiusKm: c.Float64("radius"),
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer st.Close()

	// Resolve the search origin. Explicit coordinates beat the preset city,
	// which beats free-text geocoding; with no location at all, the saved
	// last search is restored.
	var origin geo.Point
	var label string
	switch {
	case c.IsSet("lat") || c.IsSet("long"):
		origin = geo.Point{Lat: c.Float64("lat"), Lng: c.Float64("long")}
		label = fmt.Sprintf("%.4f, %.4f", origin.Lat, origin.Lng)
	case c.String("city") != "":
		city := c.String("city")
		p, ok := geo.CityLocation(city)
		if !ok {
			return fmt.Errorf("unknown city: %s", city)
		}
		origin, label = p, city
	case c.String("location") != "":
		location := c.String("location")
		geocoder := geocode.New(cfg.Geocoder.URL, cfg.Geocoder.UserAgent, logger)
		p, err := geocoder.Geocode(ctx, location)
		if errors.Is(err, geocode.ErrNoMatch) {
			return fmt.Errorf(msgs.NoGeocodeMatch, location)
		}
		if err != nil {
			logger.Error("geocoding failed", "location", location, "error", err)
			return errors.New(msgs.GeocodeError)
		}
		origin, label = p, location
	default:
		saved, err := st.LastSearch(ctx)
		if err != nil {
			return err
		}
		if saved == nil {
			return errors.New(msgs.MissingLocation)
		}
		origin, label, settings = saved.Location, saved.Label, saved.Settings
	}

	stations, err := loadStations(ctx, st, cfg, logger)
	if err != nil {
		logger.Error("error loading stations", "error", err)
		return errors.New(msgs.FetchError)
	}

	results := finder.Select(stations, origin, settings)

	if err := st.LogSearch(ctx, origin.Lat, origin.Lng, settings.RadiusKm); err != nil {
		logger.Error("failed to log search location", "error", err)
	}
	if err := st.SaveLastSearch(ctx, store.SavedSearch{Location: origin, Label: label, Settings: settings}); err != nil {
		logger.Error("failed to save search", "error", err)
	}

	printResults(results, settings, label, msgs)
	return nil
}

func printResults(results []finder.Result, settings finder.Settings, label string, msgs i18n.Messages) {
	fmt.Printf(msgs.ResultsNear+"\n\n", label)

	if len(results) == 0 {
		fmt.Printf(msgs.NoStationsFound+"\n", settings.RadiusKm)
		return
	}

	for i, res := range results {
		fmt.Printf("%d. %s (%s)\n", i+1, res.Name, res.Address)
		fmt.Printf("   %.2f %s\n", res.DistanceKm, msgs.DistanceSuffix)
		for _, fuel := range station.FuelTypes() {
			fmt.Printf("   %s: %s\n", msgs.FuelName(fuel), formatFuelPrice(res.Station, fuel, msgs))
		}
		fmt.Printf("   Coordinates: %.5f, %.5f\n\n", res.Lat, res.Lng)
	}

	fmt.Printf(msgs.ResultsSummary+"\n", len(results), settings.RadiusKm)
}

func formatFuelPrice(st station.Station, fuel station.FuelType, msgs i18n.Messages) string {
	if price, ok := st.Price(fuel); ok {
		return fmt.Sprintf("%.3f €", price)
	}
	return msgs.PriceUnavailable
}
