// Package finder implements the filter/sort engine: given the full station
// collection and a user location, it computes distances, applies the radius
// and fuel filters and orders the result.
package finder

import (
	"fmt"
	"sort"

	"github.com/rubiojr/gasfinder/pkg/geo"
	"github.com/rubiojr/gasfinder/pkg/station"
)

// SortBy selects the result ordering.
type SortBy string

const (
	SortByDistance SortBy = "distance"
	SortByPrice    SortBy = "price"
)

const DefaultRadiusKm = 5.0

// Settings holds the user-tunable search parameters.
type Settings struct {
	FuelType station.FuelType `json:"fuel_type" yaml:"fuel_type"`
	SortBy   SortBy           `json:"sort_by" yaml:"sort_by"`
	RadiusKm float64          `json:"radius_km" yaml:"radius_km"`
}

// DefaultSettings mirrors the defaults of the original search form.
func DefaultSettings() Settings {
	return Settings{
		FuelType: station.FuelGasolina95,
		SortBy:   SortByDistance,
		RadiusKm: DefaultRadiusKm,
	}
}

// Validate checks that every setting carries a recognized value.
func (s Settings) Validate() error {
	if !station.ValidFuelType(string(s.FuelType)) {
		return fmt.Errorf("unknown fuel type: %q", s.FuelType)
	}
	if s.SortBy != SortByDistance && s.SortBy != SortByPrice {
		return fmt.Errorf("unknown sort order: %q", s.SortBy)
	}
	if s.RadiusKm <= 0 {
		return fmt.Errorf("radius must be positive, got %g", s.RadiusKm)
	}
	return nil
}

// Result is a station selected by a search, augmented with its distance from
// the search origin and the price of the active fuel.
type Result struct {
	station.Station
	DistanceKm float64 `json:"distance_km"`
	Price      float64 `json:"price"`
}

// Select filters the station collection down to the ones within
// settings.RadiusKm of origin that carry a price for the active fuel, and
// sorts them. Stations with no price for the active fuel are excluded
// outright, not shown as unavailable. Sorting is stable: price ascending with
// distance as tie-break, or distance ascending.
func Select(stations []station.Station, origin geo.Point, settings Settings) []Result {
	results := make([]Result, 0, len(stations))
	for _, st := range stations {
		d := geo.Distance(origin.Lat, origin.Lng, st.Lat, st.Lng)
		if d > settings.RadiusKm {
			continue
		}
		price, ok := st.Price(settings.FuelType)
		if !ok {
			continue
		}
		results = append(results, Result{Station: st, DistanceKm: d, Price: price})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if settings.SortBy == SortByPrice && results[i].Price != results[j].Price {
			return results[i].Price < results[j].Price
		}
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results
}
