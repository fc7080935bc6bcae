package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Almonte5/Finance-Tracker/internal/core"
	"github.com/Almonte5/Finance-Tracker/internal/dashboard"
)

const maxBodyBytes = 1 << 20 // 1MB

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into dst. Unknown fields are
// tolerated; malformed bodies are not.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// respondServiceError maps domain errors to HTTP statuses. Unrecognized
// errors are logged and surface as a generic 500 so internals never leak.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, core.ErrInvalidLogin):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidKind,
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyName,
		core.ErrEmptyCategory,
		core.ErrDuplicateName,
		core.ErrCategoryInUse,
		core.ErrEmailTaken,
		core.ErrKindMismatch,
		dashboard.ErrInvalidMonths,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
