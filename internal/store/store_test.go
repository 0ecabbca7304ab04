package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubiojr/gasfinder/internal/finder"
	"github.com/rubiojr/gasfinder/pkg/geo"
	"github.com/rubiojr/gasfinder/pkg/station"
)

const snapshotFixture = `{
	"Fecha": "13/06/2024 12:00:00",
	"ListaEESSPrecio": [
		{
			"IDEESS": "123",
			"Rótulo": "REPSOL",
			"Latitud": "40,4168",
			"Longitud (WGS84)": "-3,7038",
			"Precio Gasoleo A": "1,459"
		},
		{
			"Rótulo": "SIN ID",
			"Latitud": "40,0",
			"Longitud (WGS84)": "-3,0"
		}
	],
	"ResultadoConsulta": "OK"
}`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(context.Background(), path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	date := time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC)
	if err := st.SaveSnapshot(ctx, date, []byte(snapshotFixture)); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	stations, err := st.LastStations(ctx)
	if err != nil {
		t.Fatalf("LastStations() failed: %v", err)
	}
	// The record without an identifier is dropped during normalization.
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	if stations[0].ID != "123" || stations[0].Name != "REPSOL" {
		t.Errorf("unexpected station: %+v", stations[0])
	}

	lastUpdate, err := st.LastUpdateDate(ctx)
	if err != nil {
		t.Fatalf("LastUpdateDate() failed: %v", err)
	}
	if lastUpdate == nil || lastUpdate.Format("2006-01-02") != "2024-06-13" {
		t.Errorf("unexpected last update date: %v", lastUpdate)
	}
}

func TestLastStationsNoSnapshot(t *testing.T) {
	st := openTestStore(t)

	_, err := st.LastStations(context.Background())
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	lastUpdate, err := st.LastUpdateDate(context.Background())
	if err != nil {
		t.Fatalf("LastUpdateDate() failed: %v", err)
	}
	if lastUpdate != nil {
		t.Errorf("expected nil last update date, got %v", lastUpdate)
	}
}

func TestSaveSnapshotReplacesSameDate(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	date := time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC)
	if err := st.SaveSnapshot(ctx, date, []byte(snapshotFixture)); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}
	// Saving the same date again must replace, not fail on the unique index.
	if err := st.SaveSnapshot(ctx, date, []byte(snapshotFixture)); err != nil {
		t.Fatalf("second SaveSnapshot() failed: %v", err)
	}
}

func TestLastSearchEmpty(t *testing.T) {
	st := openTestStore(t)

	saved, err := st.LastSearch(context.Background())
	if err != nil {
		t.Fatalf("LastSearch() failed: %v", err)
	}
	if saved != nil {
		t.Errorf("expected nil saved search, got %+v", saved)
	}
}

func TestLastSearchRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	search := SavedSearch{
		Location: geo.Point{Lat: 40.4168, Lng: -3.7038},
		Label:    "Madrid Centro",
		Settings: finder.Settings{
			FuelType: station.FuelDiesel,
			SortBy:   finder.SortByPrice,
			RadiusKm: 15,
		},
	}
	if err := st.SaveLastSearch(ctx, search); err != nil {
		t.Fatalf("SaveLastSearch() failed: %v", err)
	}

	saved, err := st.LastSearch(ctx)
	if err != nil {
		t.Fatalf("LastSearch() failed: %v", err)
	}
	if saved == nil {
		t.Fatal("expected saved search")
	}
	if *saved != search {
		t.Errorf("round trip mismatch: %+v vs %+v", *saved, search)
	}

	// A later search replaces the previous session state.
	search.Label = "Barcelona"
	if err := st.SaveLastSearch(ctx, search); err != nil {
		t.Fatalf("SaveLastSearch() failed: %v", err)
	}
	saved, err = st.LastSearch(ctx)
	if err != nil {
		t.Fatalf("LastSearch() failed: %v", err)
	}
	if saved.Label != "Barcelona" {
		t.Errorf("expected replaced search, got %q", saved.Label)
	}
}

func TestLastSearchCorruptIgnored(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.db.ExecContext(ctx, "INSERT INTO last_search (id, data) VALUES (1, ?)", []byte("{not json"))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	saved, err := st.LastSearch(ctx)
	if err != nil {
		t.Fatalf("LastSearch() failed: %v", err)
	}
	if saved != nil {
		t.Errorf("corrupt entry should be ignored, got %+v", saved)
	}
}

func TestLogSearchAggregates(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	// Nearby coordinates collapse into one row once precision is reduced.
	for _, lat := range []float64{40.4168, 40.4172, 40.4199} {
		if err := st.LogSearch(ctx, lat, -3.7038, 10); err != nil {
			t.Fatalf("LogSearch() failed: %v", err)
		}
	}
	if err := st.LogSearch(ctx, 41.3851, 2.1734, 5); err != nil {
		t.Fatalf("LogSearch() failed: %v", err)
	}

	locations, err := st.PopularLocations(ctx, 10)
	if err != nil {
		t.Fatalf("PopularLocations() failed: %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("expected 2 aggregated locations, got %d", len(locations))
	}
	// Busiest first.
	if locations[0].SearchCount != 3 || locations[0].Latitude != 40.42 {
		t.Errorf("unexpected top location: %+v", locations[0])
	}
}
