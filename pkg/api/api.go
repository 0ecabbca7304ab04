// Package api provides the client for the Spanish government fuel price
// open-data service: the nationwide station price feed and the municipality
// listing used for autocomplete.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rubiojr/gasfinder/pkg/station"
)

const (
	ApiResultOK    = "OK"
	DefaultTimeout = 30 * time.Second

	DefaultStationsURL       = "https://sedeaplicaciones.minetur.gob.es/ServiciosRESTCarburantes/PreciosCarburantes/EstacionesTerrestres/"
	DefaultMunicipalitiesURL = "https://sedeaplicaciones.minetur.gob.es/ServiciosRESTCarburantes/PreciosCarburantes/Listados/Municipios/"
)

// ErrNoStationData means the feed answered but the payload carried no
// station list.
var ErrNoStationData = errors.New("no station data found in response")

// Client fetches data from the fuel price service.
type Client struct {
	stationsURL       string
	municipalitiesURL string
	httpClient        *http.Client
	log               *slog.Logger
}

// NewClient creates a Client against the official endpoints.
func NewClient(logger *slog.Logger) *Client {
	return NewClientWithURLs(DefaultStationsURL, DefaultMunicipalitiesURL, logger)
}

// NewClientWithURLs creates a Client against custom endpoints.
func NewClientWithURLs(stationsURL, municipalitiesURL string, logger *slog.Logger) *Client {
	return &Client{
		stationsURL:       stationsURL,
		municipalitiesURL: municipalitiesURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: logger,
	}
}

// FetchRaw fetches the current price feed and returns both the raw payload
// bytes (for archival) and the decoded envelope. The envelope must carry the
// station list; an answer without one is ErrNoStationData.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, *StationsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.stationsURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading response body: %w", err)
	}

	var envelope StationsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	if len(envelope.ListaEESSPrecio) == 0 {
		return nil, nil, ErrNoStationData
	}

	return body, &envelope, nil
}

// FetchStations fetches the current price feed and normalizes every record.
// Records that fail validation are warn-logged and dropped; output preserves
// upstream ordering.
func (c *Client) FetchStations(ctx context.Context) ([]station.Station, error) {
	_, envelope, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return station.NormalizeAll(envelope.ListaEESSPrecio, c.log), nil
}

// FetchMunicipalities fetches the municipality names used for autocomplete.
// This is a best-effort enrichment feed: callers should treat any error as an
// empty list.
func (c *Client) FetchMunicipalities(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.municipalitiesURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching municipalities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var municipalities []Municipality
	if err := json.NewDecoder(resp.Body).Decode(&municipalities); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}

	names := make([]string, 0, len(municipalities))
	for _, m := range municipalities {
		name := strings.TrimSpace(m.Municipio)
		if name == "" || strings.EqualFold(name, "null") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
