package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no caller identity required)
		r.Get("/health", s.handleHealth)

		// Ownership endpoints
		r.Route("/owner", func(r chi.Router) {
			r.Get("/", s.handleGetOwner)
			r.Post("/transfer", s.handleTransferOwnership)
			r.Post("/renounce", s.handleRenounceOwnership)
		})

		// Audit trail
		r.Get("/audit", s.handleListAudit)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
