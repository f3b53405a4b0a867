// Package routes exposes the search manager over a JSON HTTP API.
package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pcrawfurd/metasearch/search"
)

const maxResultsCeiling = 50

type Server struct {
	Router           *chi.Mux
	Manager          *search.Manager
	DefaultProviders []string
	Log              zerolog.Logger
}

type ServerOptions struct {
	Manager          *search.Manager
	DefaultProviders []string
	Logger           zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{
		Router:           r,
		Manager:          opts.Manager,
		DefaultProviders: opts.DefaultProviders,
		Log:              opts.Logger.With().Str("component", "http").Logger(),
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.Log.Error().Err(err).Msg("error writing health check response")
		}
	})

	r.Post("/search", s.handleSearch)
	r.Get("/cache/stats", s.handleCacheStats)
	r.Delete("/cache", s.handleCacheClear)

	return s
}

// searchPayload mirrors search.Request on the wire. UseCache is a pointer
// so that an absent field defaults to true.
type searchPayload struct {
	Query      string   `json:"query"`
	MaxResults int      `json:"max_results"`
	Providers  []string `json:"providers"`
	Parallel   bool     `json:"parallel"`
	UseCache   *bool    `json:"use_cache"`
	News       bool     `json:"news"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var payload searchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payload.Query = strings.TrimSpace(payload.Query)
	if payload.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query required")
		return
	}

	if payload.MaxResults <= 0 {
		payload.MaxResults = 10
	}
	if payload.MaxResults > maxResultsCeiling {
		payload.MaxResults = maxResultsCeiling
	}
	if len(payload.Providers) == 0 {
		payload.Providers = s.DefaultProviders
	}

	useCache := true
	if payload.UseCache != nil {
		useCache = *payload.UseCache
	}

	resp := s.Manager.Search(r.Context(), search.Request{
		Query:      payload.Query,
		MaxResults: payload.MaxResults,
		Providers:  payload.Providers,
		Parallel:   payload.Parallel,
		UseCache:   useCache,
		News:       payload.News,
	})

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Manager.CacheStats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	cleared := s.Manager.ClearCache()
	s.writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("error encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
