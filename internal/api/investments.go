package api

import (
	"net/http"
	"strings"

	"github.com/surveylens/surveylens/internal/investments"
	"github.com/surveylens/surveylens/pkg/models"
)

type investmentSummaryResponse struct {
	GroupBy string                 `json:"group_by"`
	State   string                 `json:"state,omitempty"`
	Rows    []models.InvestmentRow `json:"rows"`
}

// listInvestmentGroups returns the groupings the summary endpoint accepts.
// GET /api/v1/investments/groups
func (s *Server) listInvestmentGroups(w http.ResponseWriter, r *http.Request) {
	if s.inv == nil {
		s.respondError(w, http.StatusNotFound, "investment data not loaded")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"groups": investments.GroupOptions(),
	})
}

// getInvestmentSummary computes the grouped dollar/count aggregate, optionally
// restricted to one state.
// GET /api/v1/investments/summary?groupBy=&state=
func (s *Server) getInvestmentSummary(w http.ResponseWriter, r *http.Request) {
	if s.inv == nil {
		s.respondError(w, http.StatusNotFound, "investment data not loaded")
		return
	}

	groupBy := r.URL.Query().Get("groupBy")
	if groupBy == "" {
		groupBy = "Program Area"
	}
	state := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("state")))

	rows, err := s.inv.Summary(groupBy, state)
	if err != nil {
		s.respondComputeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, investmentSummaryResponse{
		GroupBy: groupBy,
		State:   state,
		Rows:    rows,
	})
}
