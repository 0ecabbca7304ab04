package station

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Sanity bounds: coordinates must fall inside the Iberian peninsula, prices
// inside a plausible euros-per-liter range. Values outside are treated as
// feed noise.
const (
	minLat, maxLat     = 35.0, 45.0
	minLng, maxLng     = -10.0, 5.0
	minPrice, maxPrice = 0.5, 3.0

	nameMaxLen = 30
)

var (
	// ErrMissingID marks records with no usable station identifier.
	ErrMissingID = errors.New("missing station identifier")
	// ErrBadLocation marks records whose coordinates could not be resolved
	// inside the sanity bounds.
	ErrBadLocation = errors.New("no usable coordinates")
)

// Candidate key lists per logical field, in priority order. These cover every
// spelling the feed has used over the years.
var (
	nameKeys = []string{
		"Rotulo", "Rótulo", "Nombre", "Marca",
		"Razón Social", "RazonSocial", "Operadora", "Franquicia",
	}
	streetKeys   = []string{"Direccion", "Dirección", "Address"}
	postalKeys   = []string{"C.P.", "CP", "CodigoPostal", "Codigo Postal"}
	cityKeys     = []string{"Localidad", "Municipio", "Ciudad"}
	provinceKeys = []string{"Provincia", "Province"}
	latKeys      = []string{"Latitud", "Latitude", "lat"}
	lngKeys      = []string{"Longitud (WGS84)", "Longitude", "lng", "lon", "Longitud"}

	priceKeys = map[FuelType][]string{
		FuelDiesel:        {"Precio Gasoleo A", "Precio Gasóleo A"},
		FuelGasolina95:    {"Precio Gasolina 95 E5", "Precio Gasolina 95"},
		FuelGasolina98:    {"Precio Gasolina 98 E5", "Precio Gasolina 98"},
		FuelDieselPremium: {"Precio Gasoleo Premium", "Precio Gasóleo Premium"},
	}
)

// Normalize converts one raw feed record into a Station. It fails only when
// the record has no identifier or no trustworthy coordinates; anything else
// falls back to a sentinel value. A panic while processing the record is
// demoted to an error so one malformed record can never abort the rest of
// the collection.
func Normalize(raw RawStation) (st Station, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing record: %v", r)
		}
	}()

	id, ok := resolveText(raw, []string{"IDEESS"})
	if !ok {
		return Station{}, ErrMissingID
	}

	lat, ok := resolveCoordinate(raw, latKeys, minLat, maxLat)
	if !ok {
		return Station{}, fmt.Errorf("station %s: %w", id, ErrBadLocation)
	}
	lng, ok := resolveCoordinate(raw, lngKeys, minLng, maxLng)
	if !ok {
		return Station{}, fmt.Errorf("station %s: %w", id, ErrBadLocation)
	}

	prices := make(map[FuelType]float64)
	for _, fuel := range FuelTypes() {
		for _, key := range priceKeys[fuel] {
			if v, ok := rawString(raw, key); ok {
				if price, ok := parsePrice(v); ok {
					prices[fuel] = price
				}
				break
			}
		}
	}

	updated, ok := resolveText(raw, []string{"Fecha"})
	if !ok {
		updated = time.Now().Format("2006-01-02")
	}

	return Station{
		ID:          id,
		Name:        resolveName(raw, id),
		Address:     resolveAddress(raw),
		Lat:         lat,
		Lng:         lng,
		Prices:      prices,
		LastUpdated: updated,
	}, nil
}

// NormalizeAll converts every raw record, dropping the ones that fail
// validation. Rejections are warn-logged and never interrupt the rest of the
// collection; output preserves upstream ordering.
func NormalizeAll(raws []RawStation, logger *slog.Logger) []Station {
	stations := make([]Station, 0, len(raws))
	for _, raw := range raws {
		st, err := Normalize(raw)
		if err != nil {
			logger.Warn("skipping station record", "error", err)
			continue
		}
		stations = append(stations, st)
	}
	return stations
}

// rawString extracts a raw field as a trimmed string. Numeric values are
// formatted, anything else is treated as absent.
func rawString(raw RawStation, key string) (string, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// resolveText returns the first candidate field holding a non-empty value
// that is not the literal string "null".
func resolveText(raw RawStation, keys []string) (string, bool) {
	return resolve(raw, keys, func(s string) bool {
		return !strings.EqualFold(s, "null")
	})
}

// resolve walks the candidate keys in order and returns the first value
// accepted by the validity predicate.
func resolve(raw RawStation, keys []string, valid func(string) bool) (string, bool) {
	for _, key := range keys {
		if v, ok := rawString(raw, key); ok && valid(v) {
			return v, true
		}
	}
	return "", false
}

// resolveCoordinate returns the first candidate field parsing to a float
// inside [min, max]. Out-of-bounds values are skipped in favor of later
// candidates. The feed uses comma as decimal separator.
func resolveCoordinate(raw RawStation, keys []string, min, max float64) (float64, bool) {
	for _, key := range keys {
		v, ok := rawString(raw, key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err != nil || parsed < min || parsed > max {
			continue
		}
		return parsed, true
	}
	return 0, false
}

func resolveName(raw RawStation, id string) string {
	if name, ok := resolveText(raw, nameKeys); ok {
		return name
	}

	if addr, ok := resolveText(raw, streetKeys); ok {
		runes := []rune(addr)
		if len(runes) > nameMaxLen {
			addr = string(runes[:nameMaxLen]) + "..."
		}
		return "Gasolinera - " + addr
	}

	return "Gasolinera #" + id
}

func resolveAddress(raw RawStation) string {
	var parts []string
	for _, keys := range [][]string{streetKeys, postalKeys, cityKeys, provinceKeys} {
		if v, ok := resolveText(raw, keys); ok {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "Dirección no disponible"
	}
	return strings.Join(parts, ", ")
}

// parsePrice sanitizes and parses a raw price string. Only values inside the
// [0.5, 3.0] euros/liter range are accepted; anything else means the price is
// simply unknown for that fuel.
func parsePrice(s string) (float64, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	if s == "" || s == "-" || s == "." {
		return 0, false
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price < minPrice || price > maxPrice {
		return 0, false
	}
	return price, true
}
