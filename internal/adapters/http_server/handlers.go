package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"restaurant_finder/internal/domain"
)

// Finder is the search operation the handlers depend on.
type Finder interface {
	Find(ctx context.Context, qp domain.QueryPoint) (domain.SearchResult, error)
}

// Pinger reports whether the dataset is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Nearby  Finder
	Dataset Pinger
}

const (
	msgMissingCoords = "Latitude and longitude are required."
	msgInternal      = "An internal server error occurred."
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Get("/api/restaurants", h.nearbyRestaurants)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (h *Handlers) nearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	qp, err := domain.ParseQueryPoint(q.Get("lat"), q.Get("lon"))
	if err != nil {
		log.Error().Str("lat", q.Get("lat")).Str("lon", q.Get("lon")).Msg("latitude or longitude not provided")
		writeError(w, http.StatusBadRequest, msgMissingCoords)
		return
	}
	log.Info().Float64("lat", qp.Lat()).Float64("lon", qp.Lon()).Msg("nearby search")

	res, err := h.Nearby.Find(r.Context(), qp)
	if err != nil {
		ev := log.Error()
		if !errors.Is(err, domain.ErrDatasetUnavailable) {
			ev = ev.Bool("unexpected", true)
		}
		ev.Err(err).Float64("lat", qp.Lat()).Float64("lon", qp.Lon()).Msg("nearby search failed")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.Dataset.Ping(r.Context()); err != nil {
		log.Warn().Err(err).Msg("dataset not ready")
		writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
