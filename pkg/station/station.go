// Package station defines the canonical fuel station model and the
// normalization logic that turns the government feed's loosely keyed records
// into it. The feed has shipped several historical spellings for most fields
// (with and without accents), so raw records are kept as plain maps and
// resolved through ordered candidate-key lists.
package station

// FuelType identifies one of the fuel products tracked by the application.
type FuelType string

const (
	FuelDiesel        FuelType = "diesel"
	FuelGasolina95    FuelType = "gasolina_95"
	FuelGasolina98    FuelType = "gasolina_98"
	FuelDieselPremium FuelType = "diesel_premium"
)

// FuelTypes returns all tracked fuel types in display order.
func FuelTypes() []FuelType {
	return []FuelType{FuelGasolina95, FuelGasolina98, FuelDiesel, FuelDieselPremium}
}

// ValidFuelType reports whether s names a tracked fuel type.
func ValidFuelType(s string) bool {
	switch FuelType(s) {
	case FuelDiesel, FuelGasolina95, FuelGasolina98, FuelDieselPremium:
		return true
	}
	return false
}

// RawStation is one record as delivered by the upstream feed. Values are
// usually strings but the feed makes no promises.
type RawStation map[string]any

// Station is the canonical entity produced by Normalize. A Station only
// exists if the upstream record carried an identifier and coordinates inside
// the Iberian-peninsula sanity bounds; every other field degrades to a
// sentinel instead of rejecting the record.
type Station struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Address     string               `json:"address"`
	Lat         float64              `json:"lat"`
	Lng         float64              `json:"lng"`
	Prices      map[FuelType]float64 `json:"prices"`
	LastUpdated string               `json:"last_updated"`
}

// Price returns the price for the given fuel type and whether one is known.
func (s Station) Price(fuel FuelType) (float64, bool) {
	p, ok := s.Prices[fuel]
	return p, ok
}
