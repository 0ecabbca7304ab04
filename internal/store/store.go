// Package store persists feed snapshots, the saved last search and a log of
// search locations in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/patrickmn/go-cache"

	"github.com/rubiojr/gasfinder/internal/finder"
	"github.com/rubiojr/gasfinder/pkg/api"
	"github.com/rubiojr/gasfinder/pkg/geo"
	"github.com/rubiojr/gasfinder/pkg/station"
)

const (
	cacheExpiry  = 10 * time.Minute
	cacheCleanup = 30 * time.Minute

	defaultCacheSize = -1024 * 1024 // negative value for pages
	defaultPageSize  = 4096

	searchLogPrecision = 2 // decimal places kept when logging locations

	lastStationsCacheKey = "last_stations"
)

// ErrNoSnapshot means no feed snapshot has been stored yet.
var ErrNoSnapshot = errors.New("no snapshot available")

// Store wraps the SQLite database holding feed snapshots and search state.
type Store struct {
	db    *sql.DB
	cache *cache.Cache
	log   *slog.Logger
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := configurePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Store{
		db:    db,
		cache: cache.New(cacheExpiry, cacheCleanup),
		log:   logger,
	}, nil
}

// Close flushes the cache and closes the database.
func (s *Store) Close() error {
	if s.cache != nil {
		s.cache.Flush()
	}
	return s.db.Close()
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000;"); err != nil {
		return fmt.Errorf("error setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("error setting journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		return fmt.Errorf("error setting synchronous: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d;", defaultCacheSize)); err != nil {
		return fmt.Errorf("error setting cache size: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA page_size = %d;", defaultPageSize)); err != nil {
		return fmt.Errorf("error setting page size: %w", err)
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT UNIQUE NOT NULL,
		data BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(date);

	CREATE TABLE IF NOT EXISTS last_search (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS search_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius_km REAL NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 1,
		last_search TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_search_log_coordinates ON search_log (latitude, longitude);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}
	return nil
}

// SaveSnapshot archives one raw feed payload under the given date, replacing
// any snapshot already stored for it.
func (s *Store) SaveSnapshot(ctx context.Context, date time.Time, data []byte) error {
	dateStr := date.Format("2006-01-02")

	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO snapshots (date, data) VALUES (?, ?)", dateStr, data)
	if err != nil {
		return fmt.Errorf("error inserting snapshot: %w", err)
	}

	s.cache.Delete(lastStationsCacheKey)
	return nil
}

// LastStations returns the normalized stations of the most recent snapshot.
// The normalized collection is cached; invalid records are dropped on every
// load, the same way the live fetch path drops them.
func (s *Store) LastStations(ctx context.Context) ([]station.Station, error) {
	if cached, found := s.cache.Get(lastStationsCacheKey); found {
		s.log.Debug("using cached data", "key", lastStationsCacheKey)
		return cached.([]station.Station), nil
	}

	var jsonData []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots ORDER BY date DESC LIMIT 1").Scan(&jsonData)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("error querying database: %w", err)
	}

	var envelope api.StationsResponse
	if err := json.Unmarshal(jsonData, &envelope); err != nil {
		return nil, fmt.Errorf("error unmarshaling snapshot: %w", err)
	}

	stations := station.NormalizeAll(envelope.ListaEESSPrecio, s.log)
	s.cache.Set(lastStationsCacheKey, stations, cache.DefaultExpiration)

	return stations, nil
}

// LastUpdateDate returns the date of the most recent snapshot, or nil when
// the database is empty.
func (s *Store) LastUpdateDate(ctx context.Context) (*time.Time, error) {
	var dateStr string
	err := s.db.QueryRowContext(ctx, "SELECT date FROM snapshots ORDER BY date DESC LIMIT 1").Scan(&dateStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying last update date: %w", err)
	}

	lastUpdate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing date %s: %w", dateStr, err)
	}
	return &lastUpdate, nil
}

// SavedSearch is the session state restored on startup: where the user last
// searched and with which filters.
type SavedSearch struct {
	Location geo.Point       `json:"location"`
	Label    string          `json:"label"`
	Settings finder.Settings `json:"settings"`
}

// SaveLastSearch persists the search as the session state.
func (s *Store) SaveLastSearch(ctx context.Context, search SavedSearch) error {
	data, err := json.Marshal(search)
	if err != nil {
		return fmt.Errorf("error marshaling search: %w", err)
	}

	_, err = s.db.ExecContext(ctx, "INSERT OR REPLACE INTO last_search (id, data) VALUES (1, ?)", data)
	if err != nil {
		return fmt.Errorf("error saving search: %w", err)
	}
	return nil
}

// LastSearch returns the saved session state, or nil when there is none.
// A corrupt entry is warn-logged and treated as absent.
func (s *Store) LastSearch(ctx context.Context) (*SavedSearch, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM last_search WHERE id = 1").Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying last search: %w", err)
	}

	var search SavedSearch
	if err := json.Unmarshal(data, &search); err != nil {
		s.log.Warn("ignoring corrupt saved search", "error", err)
		return nil, nil
	}
	return &search, nil
}

// LogSearch records one search location, with coordinates rounded so nearby
// searches collapse into the same row.
func (s *Store) LogSearch(ctx context.Context, lat, lng, radiusKm float64) error {
	lat, lng = reducePrecision(lat, lng, searchLogPrecision)

	var id int64
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, search_count FROM search_log
		WHERE latitude = ? AND longitude = ?
		LIMIT 1
	`, lat, lng).Scan(&id, &count)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("error checking for existing location: %w", err)
	}

	if err == sql.ErrNoRows {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO search_log (latitude, longitude, radius_km)
			VALUES (?, ?, ?)
		`, lat, lng, radiusKm)
		if err != nil {
			return fmt.Errorf("error logging search location: %w", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE search_log
		SET search_count = search_count + 1, last_search = CURRENT_TIMESTAMP, radius_km = ?
		WHERE id = ?
	`, radiusKm, id)
	if err != nil {
		return fmt.Errorf("error updating search location: %w", err)
	}
	return nil
}

// SearchLocation is one aggregated row of the search log.
type SearchLocation struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	RadiusKm    float64 `json:"radius_km"`
	SearchCount int64   `json:"count"`
}

// PopularLocations returns the most searched locations, busiest first.
func (s *Store) PopularLocations(ctx context.Context, limit int) ([]SearchLocation, error) {
	query := `SELECT latitude, longitude, radius_km, search_count
			  FROM search_log
			  ORDER BY search_count DESC `
	if limit > 0 {
		query += fmt.Sprintf("LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying popular locations: %w", err)
	}
	defer rows.Close()

	var locations []SearchLocation
	for rows.Next() {
		var loc SearchLocation
		if err := rows.Scan(&loc.Latitude, &loc.Longitude, &loc.RadiusKm, &loc.SearchCount); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return locations, nil
}

func reducePrecision(lat, lng float64, decimalPlaces int) (roundedLat, roundedLng float64) {
	factor := math.Pow(10, float64(decimalPlaces))
	roundedLat = math.Round(lat*factor) / factor
	roundedLng = math.Round(lng*factor) / factor
	return
}
