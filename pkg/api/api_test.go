package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

const stationsFixture = `{
	"Fecha": "13/06/2024 12:00:00",
	"ListaEESSPrecio": [
		{
			"IDEESS": "123",
			"Rótulo": "REPSOL",
			"Dirección": "CALLE MAYOR 3",
			"C.P.": "28001",
			"Localidad": "MADRID",
			"Provincia": "MADRID",
			"Latitud": "40,416800",
			"Longitud (WGS84)": "-3,703800",
			"Precio Gasoleo A": "1,459",
			"Precio Gasolina 95 E5": "1,559"
		},
		{
			"Rótulo": "SIN ID",
			"Latitud": "40,0",
			"Longitud (WGS84)": "-3,0"
		},
		{
			"IDEESS": "456",
			"Rótulo": "CEPSA",
			"Latitud": "0,0",
			"Longitud (WGS84)": "0,0"
		},
		{
			"IDEESS": "789",
			"Rótulo": "GALP",
			"Latitud": "41,3851",
			"Longitud (WGS84)": "2,1734",
			"Precio Gasolina 98 E5": "1,699"
		}
	],
	"Nota": "",
	"ResultadoConsulta": "OK"
}`

const municipalitiesFixture = `[
	{"IDMunicipio": "1", "Municipio": "Madrid"},
	{"IDMunicipio": "2", "Municipio": "Barcelona"},
	{"IDMunicipio": "3", "Municipio": ""},
	{"IDMunicipio": "4", "Municipio": "null"},
	{"IDMunicipio": "5", "Municipio": "Valencia"}
]`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithURLs(srv.URL+"/stations", srv.URL+"/municipalities", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func fixtureHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stationsFixture))
	})
	mux.HandleFunc("/municipalities", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(municipalitiesFixture))
	})
	return mux
}

func TestFetchStations(t *testing.T) {
	client := testClient(t, fixtureHandler())

	stations, err := client.FetchStations(context.Background())
	if err != nil {
		t.Fatalf("FetchStations() failed: %v", err)
	}

	// The record without ID and the one with out-of-bounds coordinates are
	// dropped; the rest keep upstream ordering.
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[0].ID != "123" || stations[1].ID != "789" {
		t.Errorf("unexpected ordering: %s, %s", stations[0].ID, stations[1].ID)
	}

	first := stations[0]
	if first.Name != "REPSOL" {
		t.Errorf("expected name REPSOL, got %q", first.Name)
	}
	if first.Address != "CALLE MAYOR 3, 28001, MADRID, MADRID" {
		t.Errorf("unexpected address: %q", first.Address)
	}
	if price, ok := first.Prices["diesel"]; !ok || price != 1.459 {
		t.Errorf("expected diesel 1.459, got %f (present=%v)", price, ok)
	}
}

func TestFetchStationsBadStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.FetchStations(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetchStationsNoData(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Fecha": "13/06/2024", "ResultadoConsulta": "OK"}`))
	}))

	_, err := client.FetchStations(context.Background())
	if !errors.Is(err, ErrNoStationData) {
		t.Fatalf("expected ErrNoStationData, got %v", err)
	}
}

func TestFetchStationsBadJSON(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ListaEESSPrecio": `))
	}))

	if _, err := client.FetchStations(context.Background()); err == nil {
		t.Fatal("expected error on malformed JSON")
	}
}

func TestFetchRawReturnsPayload(t *testing.T) {
	client := testClient(t, fixtureHandler())

	body, envelope, err := client.FetchRaw(context.Background())
	if err != nil {
		t.Fatalf("FetchRaw() failed: %v", err)
	}
	if string(body) != stationsFixture {
		t.Error("expected raw payload to match upstream body")
	}
	if envelope.ResultadoConsulta != ApiResultOK {
		t.Errorf("expected ResultadoConsulta OK, got %q", envelope.ResultadoConsulta)
	}
	if len(envelope.ListaEESSPrecio) != 4 {
		t.Errorf("expected 4 raw records, got %d", len(envelope.ListaEESSPrecio))
	}
}

func TestFetchMunicipalities(t *testing.T) {
	client := testClient(t, fixtureHandler())

	names, err := client.FetchMunicipalities(context.Background())
	if err != nil {
		t.Fatalf("FetchMunicipalities() failed: %v", err)
	}

	expected := []string{"Madrid", "Barcelona", "Valencia"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d: %v", len(expected), len(names), names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("expected %q at %d, got %q", name, i, names[i])
		}
	}
}

func TestFetchMunicipalitiesBadStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := client.FetchMunicipalities(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
