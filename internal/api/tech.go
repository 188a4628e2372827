package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surveylens/surveylens/internal/engine"
	"github.com/surveylens/surveylens/pkg/models"
)

// maxExclusion caps the exclusion threshold. A quarter of all respondents is
// already far beyond any token's realistic unconditional proportion.
const maxExclusion = 0.25

type metricInfo struct {
	Name       models.MetricKind `json:"name"`
	Label      string            `json:"label"`
	Proportion bool              `json:"proportion"`
}

type techListResponse struct {
	Category string            `json:"category"`
	Metric   models.MetricKind `json:"metric"`
	PaginatedResponse
}

// listCategories returns the have/want category pairs of the loaded survey.
// GET /api/v1/categories
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": s.engine.Categories(),
	})
}

// listTokens returns the token vocabulary of one category.
// GET /api/v1/categories/{category}/tokens
func (s *Server) listTokens(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	tokens, err := s.engine.Tokens(category)
	if err != nil {
		s.respondComputeError(w, err)
		return
	}
	params := parsePaginationParams(r)
	s.respondJSON(w, http.StatusOK, paginateSlice(tokens, params))
}

// listGroups returns the grouping dimensions available for heat maps.
// GET /api/v1/groups
func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"groups": s.engine.Groups(),
	})
}

// listMetrics returns the supported metric kinds.
// GET /api/v1/metrics
func (s *Server) listMetrics(w http.ResponseWriter, r *http.Request) {
	kinds := models.MetricKinds()
	infos := make([]metricInfo, 0, len(kinds))
	for _, k := range kinds {
		infos = append(infos, metricInfo{Name: k, Label: k.Label(), Proportion: k.IsProportion()})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"metrics": infos})
}

// getTechMetrics runs one metric query, served from the result cache when the
// same request was computed before.
// GET /api/v1/tech/{category}?metric=&group=&exclusion=&limit=&offset=
func (s *Server) getTechMetrics(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseTechRequest(r)
	if err != nil {
		s.respondComputeError(w, err)
		return
	}

	resp, err := s.computeCached(r, req)
	if err != nil {
		s.respondComputeError(w, err)
		return
	}

	if resp.Pivot != nil {
		s.respondJSON(w, http.StatusOK, resp)
		return
	}
	s.respondJSON(w, http.StatusOK, techListResponse{
		Category:          resp.Category,
		Metric:            resp.Metric,
		PaginatedResponse: paginateSlice(resp.Results, parsePaginationParams(r)),
	})
}

// parseTechRequest builds the engine request from the URL. The metric
// defaults to prop_have; group may be repeated or comma-separated.
func (s *Server) parseTechRequest(r *http.Request) (models.TechRequest, error) {
	q := r.URL.Query()

	metricParam := q.Get("metric")
	if metricParam == "" {
		metricParam = string(models.MetricPropHave)
	}
	metric, err := models.ParseMetricKind(metricParam)
	if err != nil {
		return models.TechRequest{}, err
	}

	var groups []string
	for _, raw := range q["group"] {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				groups = append(groups, g)
			}
		}
	}

	var exclusion *float64
	if raw := q.Get("exclusion"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.TechRequest{}, fmt.Errorf("%w: %q is not a number", models.ErrBadThreshold, raw)
		}
		if v <= 0 || v > maxExclusion {
			return models.TechRequest{}, fmt.Errorf("%w: %g not in (0, %g]", models.ErrBadThreshold, v, maxExclusion)
		}
		exclusion = &v
	}

	return models.TechRequest{
		Category:  chi.URLParam(r, "category"),
		Metric:    metric,
		Groups:    groups,
		Exclusion: exclusion,
	}, nil
}

// computeCached looks the request up by fingerprint before running the
// pipeline. Cache failures degrade to a fresh computation.
func (s *Server) computeCached(r *http.Request, req models.TechRequest) (*models.TechResponse, error) {
	fp := engine.Fingerprint(req)

	if cached, err := s.store.Get(r.Context(), fp); err == nil {
		var resp models.TechResponse
		if err := json.Unmarshal(cached.Payload, &resp); err == nil {
			return &resp, nil
		}
		log.Printf("cache payload for %s is corrupt, recomputing", fp)
	} else if !errors.Is(err, models.ErrNotFound) {
		log.Printf("cache get %s: %v", fp, err)
	}

	resp, err := s.engine.Compute(req)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return resp, nil
	}
	var threshold float64
	if req.Exclusion != nil {
		threshold = *req.Exclusion
	}
	putErr := s.store.Put(r.Context(), &models.CachedResult{
		Fingerprint: fp,
		Category:    req.Category,
		Metric:      req.Metric,
		Groups:      req.Groups,
		Threshold:   threshold,
		Payload:     payload,
		ComputedAt:  time.Now().UTC(),
	})
	if putErr != nil {
		log.Printf("cache put %s: %v", fp, putErr)
	}
	return resp, nil
}

// respondComputeError maps pipeline errors onto HTTP statuses.
func (s *Server) respondComputeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownCategory), errors.Is(err, models.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrUnknownMetric),
		errors.Is(err, models.ErrUnknownGroup),
		errors.Is(err, models.ErrBadThreshold):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
