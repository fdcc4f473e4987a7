package api

import (
	"errors"
	"net/http"

	"github.com/ledgerworks/bookkeeper/internal/books"
)

// handleListAccounts handles GET /api/1/companies/{id}/accounts.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	accounts, err := s.svc.ListAccounts(r.Context(), company.ID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// handleListCategories handles GET /api/1/companies/{id}/categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	categories, err := s.svc.ListCategories(r.Context(), company.ID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// handleListPeriods handles GET /api/1/companies/{id}/periods.
func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	periods, err := s.svc.ListPeriods(r.Context(), company.ID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list periods")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"periods": periods})
}

// handleLedger handles GET /api/1/companies/{id}/ledger?account=NAME.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	account := r.URL.Query().Get("account")
	if account == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing account parameter")
		return
	}

	entries, err := s.svc.Ledger(r.Context(), company.ID, account)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to build ledger")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": account,
		"entries": entries,
	})
}

// handleCategoryReport handles GET /api/1/companies/{id}/category-report?category=NAME.
func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing category parameter")
		return
	}

	rows, err := s.svc.CategoryReport(r.Context(), company.ID, category)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to build category report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"rows":     rows,
	})
}

// handleTrialBalance handles GET /api/1/companies/{id}/trial-balance?period=MM/YYYY.
func (s *Server) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = books.PeriodAll
	}

	rows, err := s.svc.TrialBalance(r.Context(), company.ID, period)
	if errors.Is(err, books.ErrInvalidPeriod) {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to build trial balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"period": period,
		"rows":   rows,
	})
}
