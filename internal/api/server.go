// Package api provides the REST surface for interactive exploration: survey
// metric queries, investment summaries, and the embedded explorer page.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/internal/investments"
	"github.com/surveylens/surveylens/internal/storage"
	"github.com/surveylens/surveylens/web"
)

// Server is the REST API server.
type Server struct {
	engine *engine.Engine
	inv    *investments.Service
	store  storage.Store
	router *chi.Mux
	server *http.Server
}

// PaginationParams contains pagination parameters from the query string.
type PaginationParams struct {
	Limit  int
	Offset int
}

// PaginatedResponse wraps a paginated response with metadata.
type PaginatedResponse struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

// parsePaginationParams extracts pagination parameters from a request.
// Defaults: limit=100, offset=0, max_limit=1000.
func parsePaginationParams(r *http.Request) PaginationParams {
	const (
		defaultLimit = 100
		maxLimit     = 1000
	)

	limit := defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return PaginationParams{Limit: limit, Offset: offset}
}

// paginateSlice applies pagination to a slice.
func paginateSlice[T any](items []T, params PaginationParams) PaginatedResponse {
	total := len(items)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	page := items[start:end]
	return PaginatedResponse{
		Data:    page,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: end < total,
	}
}

// NewServer wires the routes. inv may be nil when no investments file is
// configured; its routes then answer 404.
func NewServer(addr string, eng *engine.Engine, inv *investments.Service, store storage.Store) *Server {
	s := &Server{
		engine: eng,
		inv:    inv,
		store:  store,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/categories", s.listCategories)
		r.Get("/categories/{category}/tokens", s.listTokens)
		r.Get("/groups", s.listGroups)
		r.Get("/metrics", s.listMetrics)
		r.Get("/tech/{category}", s.getTechMetrics)

		r.Get("/investments/groups", s.listInvestmentGroups)
		r.Get("/investments/summary", s.getInvestmentSummary)

		r.Post("/admin/cache/clear", s.clearCache)
	})

	// Embedded explorer page with SPA fallback to index.html.
	s.router.Get("/*", s.serveStatic)

	s.server = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler { return s.router }

// Start starts the API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	dist, err := web.DistFS()
	if err != nil {
		http.Error(w, "static assets unavailable", http.StatusInternalServerError)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = "index.html"
	}
	f, err := dist.Open("/" + name)
	if err != nil {
		// Unknown paths fall back to the SPA entry point.
		name = "index.html"
		if f, err = dist.Open("/index.html"); err != nil {
			http.NotFound(w, r)
			return
		}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clearCache drops all cached results.
// POST /api/v1/admin/cache/clear
func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
}
