package http

import (
	"errors"
	"net/http"

	"github.com/Almonte5/Finance-Tracker/internal/core"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Email, password and name are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
		"token":   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}
