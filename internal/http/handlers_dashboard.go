package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Almonte5/Finance-Tracker/internal/dashboard"
)

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := s.dashboard.Summary(r.Context(), userID(r),
		strings.TrimSpace(q.Get("startDate")),
		strings.TrimSpace(q.Get("endDate")))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSpendingTrend(w http.ResponseWriter, r *http.Request) {
	months := dashboard.DefaultTrendMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = n
	}

	points, err := s.dashboard.SpendingTrend(r.Context(), userID(r), months)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": points})
}
