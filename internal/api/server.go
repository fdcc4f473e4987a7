// Package api exposes the bookkeeping operations over a JSON HTTP API.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerworks/bookkeeper/internal/books"
)

// Server holds the HTTP handlers for the bookkeeping API.
type Server struct {
	svc           *books.Service
	uploadToken   string
	maxUploadSize int64
}

// NewServer creates a Server. An empty uploadToken disables upload
// authentication.
func NewServer(svc *books.Service, uploadToken string, maxUploadSize int64) *Server {
	return &Server{
		svc:           svc,
		uploadToken:   uploadToken,
		maxUploadSize: maxUploadSize,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api/1", func(r chi.Router) {
		r.Get("/companies", s.handleListCompanies)

		r.With(s.uploadAuth).Post("/statements", s.handleUploadStatement)

		r.Route("/companies/{id}", func(r chi.Router) {
			r.Get("/accounts", s.handleListAccounts)
			r.Get("/categories", s.handleListCategories)
			r.Get("/periods", s.handleListPeriods)
			r.Get("/ledger", s.handleLedger)
			r.Get("/category-report", s.handleCategoryReport)
			r.Get("/trial-balance", s.handleTrialBalance)
			r.Get("/ingest-runs", s.handleIngestRuns)
			r.Post("/statement/download", s.handleDownloadStatement)
		})
	})

	// Health check endpoint.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// uploadAuth requires the configured upload token on statement uploads.
// With no token configured it passes everything through.
func (s *Server) uploadAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.uploadToken != "" && r.Header.Get("X-Upload-Token") != s.uploadToken {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid upload token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// companyIDParam parses the {id} URL parameter.
func companyIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
