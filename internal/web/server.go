// Package web serves the search API over HTTP: nearby station lookup,
// municipality autocomplete and feed status, backed by the local snapshot
// store and refreshed periodically from the upstream feed.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/robfig/cron/v3"

	"github.com/rubiojr/gasfinder/internal/config"
	"github.com/rubiojr/gasfinder/internal/finder"
	"github.com/rubiojr/gasfinder/internal/geocode"
	"github.com/rubiojr/gasfinder/internal/i18n"
	"github.com/rubiojr/gasfinder/internal/store"
	"github.com/rubiojr/gasfinder/internal/suggest"
	"github.com/rubiojr/gasfinder/pkg/api"
	"github.com/rubiojr/gasfinder/pkg/geo"
	"github.com/rubiojr/gasfinder/pkg/station"
)

// Server wires the HTTP API together.
type Server struct {
	cfg      config.Config
	store    *store.Store
	api      *api.Client
	geocoder *geocode.Client
	msgs     i18n.Messages
	logger   *httplog.Logger
	cron     *cron.Cron

	mu    sync.RWMutex
	index *suggest.Index
}

// NewLogger returns the request logger used by the server.
func NewLogger(debug bool) *httplog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return httplog.NewLogger("gasfinder", httplog.Options{
		JSON:            false,
		LogLevel:        level,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})
}

// New creates a Server.
func New(cfg config.Config, st *store.Store, apiClient *api.Client, geocoder *geocode.Client, logger *httplog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		api:      apiClient,
		geocoder: geocoder,
		msgs:     i18n.ForLanguage(cfg.Language),
		logger:   logger,
		cron:     cron.New(),
		index:    suggest.NewIndex(nil),
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(s.cfg.Server.RateLimit, time.Minute))

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/municipalities", s.handleMunicipalities)
	r.Get("/api/stations/nearby", s.handleNearby)

	return r
}

// Start loads the autocomplete feed, schedules the periodic refresh and
// serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.loadMunicipalities(ctx)

	if _, err := s.cron.AddFunc(s.cfg.Server.UpdateSchedule, func() { s.refresh(context.Background()) }); err != nil {
		return fmt.Errorf("error scheduling updates: %w", err)
	}
	s.cron.Start()
	defer s.cron.Stop()

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server", "addr", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// refresh pulls the current feed and archives it. Failures are logged and
// retried on the next tick, never fatal.
func (s *Server) refresh(ctx context.Context) {
	body, _, err := s.api.FetchRaw(ctx)
	if err != nil {
		s.logger.Error("error updating prices", "error", err)
		return
	}
	if err := s.store.SaveSnapshot(ctx, time.Now(), body); err != nil {
		s.logger.Error("error saving snapshot", "error", err)
		return
	}
	s.logger.Info("price update completed")

	if s.muniCount() == 0 {
		s.loadMunicipalities(ctx)
	}
}

// loadMunicipalities fills the autocomplete index. A failing municipality
// feed only means an empty index: it is enrichment data, not critical path.
func (s *Server) loadMunicipalities(ctx context.Context) {
	names, err := s.api.FetchMunicipalities(ctx)
	if err != nil {
		s.logger.Warn("municipality feed unavailable", "error", err)
		return
	}
	s.mu.Lock()
	s.index = suggest.NewIndex(names)
	s.mu.Unlock()
	s.logger.Debug("municipalities loaded", "count", len(names))
}

func (s *Server) muniCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lastUpdate, err := s.store.LastUpdateDate(r.Context())
	if err != nil {
		s.logger.Error("error getting last update date", "error", err)
	}

	status := map[string]any{"name": "gasfinder"}
	if lastUpdate != nil {
		status["last_updated"] = lastUpdate.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleMunicipalities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	matches := index.Match(query)
	if matches == nil {
		matches = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"municipalities": matches})
}

type nearbyResponse struct {
	Label    string          `json:"label,omitempty"`
	Origin   geo.Point       `json:"origin"`
	RadiusKm float64         `json:"radius_km"`
	Count    int             `json:"count"`
	Stations []finder.Result `json:"stations"`
	Message  string          `json:"message,omitempty"`
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	settings := finder.DefaultSettings()
	if fuel := query.Get("fuel"); fuel != "" {
		settings.FuelType = station.FuelType(fuel)
	}
	if sortBy := query.Get("sort"); sortBy != "" {
		settings.SortBy = finder.SortBy(sortBy)
	}
	if radiusStr := query.Get("radius"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err == nil && radius > 0 {
			settings.RadiusKm = radius
		}
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	location := query.Get("location")
	var origin geo.Point
	label := location

	switch {
	case location != "":
		var err error
		origin, err = s.geocoder.Geocode(ctx, location)
		if errors.Is(err, geocode.ErrNoMatch) {
			writeError(w, http.StatusNotFound, fmt.Sprintf(s.msgs.NoGeocodeMatch, location))
			return
		}
		if err != nil {
			s.logger.Error("geocoding failed", "location", location, "error", err)
			writeError(w, http.StatusBadGateway, s.msgs.GeocodeError)
			return
		}
	case query.Get("lat") != "" && query.Get("lng") != "":
		lat, err := strconv.ParseFloat(query.Get("lat"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid latitude value")
			return
		}
		lng, err := strconv.ParseFloat(query.Get("lng"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid longitude value")
			return
		}
		origin = geo.Point{Lat: lat, Lng: lng}
	default:
		writeError(w, http.StatusBadRequest, s.msgs.MissingLocation)
		return
	}

	stations, err := s.stations(ctx)
	if err != nil {
		s.logger.Error("error loading stations", "error", err)
		writeError(w, http.StatusServiceUnavailable, s.msgs.FetchError)
		return
	}

	results := finder.Select(stations, origin, settings)

	if err := s.store.LogSearch(ctx, origin.Lat, origin.Lng, settings.RadiusKm); err != nil {
		s.logger.Error("failed to log search location", "error", err)
	}

	resp := nearbyResponse{
		Label:    label,
		Origin:   origin,
		RadiusKm: settings.RadiusKm,
		Count:    len(results),
		Stations: results,
	}
	if len(results) == 0 {
		resp.Message = fmt.Sprintf(s.msgs.NoStationsFound, settings.RadiusKm)
	}
	writeJSON(w, http.StatusOK, resp)
}

// stations serves from the latest snapshot, falling back to a live fetch
// when the database is still empty.
func (s *Server) stations(ctx context.Context) ([]station.Station, error) {
	stations, err := s.store.LastStations(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return s.api.FetchStations(ctx)
	}
	return stations, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
