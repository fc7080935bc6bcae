// Package http exposes the JSON API: auth, category and transaction CRUD,
// and the dashboard read endpoints.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Almonte5/Finance-Tracker/internal/auth"
	"github.com/Almonte5/Finance-Tracker/internal/dashboard"
	"github.com/Almonte5/Finance-Tracker/internal/services"
)

type Server struct {
	http.Server
	auth         *auth.Service
	categories   *services.CategoryService
	transactions *services.TransactionService
	dashboard    *dashboard.Service
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	limit        int
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter(limit int) *rateLimiter {
	rl := &rateLimiter{
		limit:       limit,
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now

	return client.requests <= rl.limit
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, authSvc *auth.Service, categories *services.CategoryService, transactions *services.TransactionService, dash *dashboard.Service, rateLimitPerMinute int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		auth:         authSvc,
		categories:   categories,
		transactions: transactions,
		dashboard:    dash,
		rateLimiter:  newRateLimiter(rateLimitPerMinute),
	}

	mux.HandleFunc("GET /health", handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.withSecurityHeaders(s.withAuth(s.handleMe)))

	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.withAuth(s.handleListCategories)))
	mux.HandleFunc("POST /api/categories", s.withSecurityHeaders(s.withAuth(s.handleCreateCategory)))
	mux.HandleFunc("PUT /api/categories/{id}", s.withSecurityHeaders(s.withAuth(s.handleUpdateCategory)))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withSecurityHeaders(s.withAuth(s.handleDeleteCategory)))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withSecurityHeaders(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withSecurityHeaders(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/dashboard/summary", s.withSecurityHeaders(s.withAuth(s.handleDashboardSummary)))
	mux.HandleFunc("GET /api/dashboard/spending-trend", s.withSecurityHeaders(s.withAuth(s.handleSpendingTrend)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

type contextKey string

const userIDKey contextKey = "user_id"

// userID returns the authenticated user set by withAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// withAuth verifies the bearer token and injects the user ID into the
// request context. Requests without a valid token are rejected.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		uid, err := s.auth.VerifyToken(token)
		if err != nil {
			slog.DebugContext(r.Context(), "Token verification failed", "error", err)
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, uid)
		next(w, r.WithContext(ctx))
	}
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Generate request ID for tracing
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), contextKey("request_id"), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Apply rate limiting to mutating requests
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Create a custom response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		// Log request completion
		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
