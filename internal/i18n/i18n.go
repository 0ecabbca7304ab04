// Package i18n holds the localized user-facing strings. Technical error
// detail is only ever logged; users see one of these messages instead.
package i18n

import "github.com/rubiojr/gasfinder/pkg/station"

// Messages contains all user-facing text for one language.
type Messages struct {
	// Failure messages
	FetchError      string // fuel feed unreachable or malformed
	NoStationData   string // feed answered without a station list
	GeocodeError    string // mapping service unreachable
	NoGeocodeMatch  string // fmt: location text
	MissingLocation string
	CorruptSearch   string

	// Result messages
	NoStationsFound  string // fmt: radius km
	ResultsSummary   string // fmt: count, radius km
	ResultsNear      string // fmt: location label
	LastUpdated      string
	CurrentLocation  string
	DistanceSuffix   string // e.g. "km"
	PriceUnavailable string

	// Fuel display names
	Gasoline95    string
	Gasoline98    string
	Diesel        string
	PremiumDiesel string
}

// FuelName returns the localized display name for a fuel type.
func (m Messages) FuelName(fuel station.FuelType) string {
	switch fuel {
	case station.FuelGasolina95:
		return m.Gasoline95
	case station.FuelGasolina98:
		return m.Gasoline98
	case station.FuelDiesel:
		return m.Diesel
	case station.FuelDieselPremium:
		return m.PremiumDiesel
	default:
		return string(fuel)
	}
}

// ForLanguage returns the messages for the given language code, defaulting
// to Spanish.
func ForLanguage(lang string) Messages {
	switch lang {
	case "en", "english":
		return English()
	default:
		return Spanish()
	}
}
