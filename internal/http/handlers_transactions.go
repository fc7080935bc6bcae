package http

import (
	"net/http"
	"strings"

	"github.com/Almonte5/Finance-Tracker/internal/core"
	"github.com/Almonte5/Finance-Tracker/internal/services"
)

type createTransactionRequest struct {
	CategoryID  string     `json:"categoryId"`
	Amount      core.Money `json:"amount"`
	Kind        string     `json:"type"`
	Description string     `json:"description"`
	Date        core.Date  `json:"date"`
}

type updateTransactionRequest struct {
	CategoryID  *string     `json:"categoryId"`
	Amount      *core.Money `json:"amount"`
	Kind        *string     `json:"type"`
	Description *string     `json:"description"`
	Date        *core.Date  `json:"date"`
}

// parseTransactionFilter builds a filter from the optional startDate,
// endDate, categoryId and type query parameters.
func parseTransactionFilter(r *http.Request) (core.TransactionFilter, error) {
	var filter core.TransactionFilter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		t, err := core.ParseDate(v)
		if err != nil {
			return filter, err
		}
		filter.From = t
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		t, err := core.ParseDate(v)
		if err != nil {
			return filter, err
		}
		filter.To = t
	}
	filter.CategoryID = strings.TrimSpace(q.Get("categoryId"))
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		kind, err := core.ParseKind(v)
		if err != nil {
			return filter, err
		}
		filter.Kind = kind
	}

	return filter, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	transactions, err := s.transactions.List(r.Context(), userID(r), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.transactions.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": tx})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), userID(r), services.TransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Kind:        kind,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"transaction": tx})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := services.TransactionPatch{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	}
	if req.Kind != nil {
		kind, err := core.ParseKind(*req.Kind)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		patch.Kind = &kind
	}

	tx, err := s.transactions.Update(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction": tx})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}
