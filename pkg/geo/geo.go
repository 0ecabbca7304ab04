// Package geo provides the geographic primitives shared by the search
// pipeline: great-circle distance and the preset city coordinate table.
package geo

import (
	"strings"

	"github.com/tkrajina/gpxgo/gpx"
)

const metersPerKm = 1000.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance in kilometers between two
// coordinates, using the Haversine formula with a 6371 km Earth radius.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	return gpx.Distance2D(lat1, lng1, lat2, lng2, true) / metersPerKm
}

// DistanceTo returns the distance in kilometers from p to q.
func (p Point) DistanceTo(q Point) float64 {
	return Distance(p.Lat, p.Lng, q.Lat, q.Lng)
}

// CityCoordinates maps the preset quick-search cities to their coordinates.
var CityCoordinates = map[string]Point{
	"madrid":    {Lat: 40.4168, Lng: -3.7038},
	"barcelona": {Lat: 41.3851, Lng: 2.1734},
	"valencia":  {Lat: 39.4699, Lng: -0.3763},
	"sevilla":   {Lat: 37.3891, Lng: -5.9845},
	"bilbao":    {Lat: 43.2630, Lng: -2.9350},
}

// CityLocation looks up a preset city by name, case-insensitively.
func CityLocation(name string) (Point, bool) {
	p, ok := CityCoordinates[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}
