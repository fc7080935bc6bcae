package http

import (
	"net/http"

	"github.com/Almonte5/Finance-Tracker/internal/core"
	"github.com/Almonte5/Finance-Tracker/internal/services"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"type"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Kind  *string `json:"type"`
	Color *string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := s.categories.Create(r.Context(), userID(r), req.Name, req.Kind, req.Color)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"category": category})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := services.CategoryPatch{Name: req.Name, Color: req.Color}
	if req.Kind != nil {
		kind, err := core.ParseKind(*req.Kind)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		patch.Kind = &kind
	}

	category, err := s.categories.Update(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"category": category})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
