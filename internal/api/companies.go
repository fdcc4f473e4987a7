package api

import (
	"errors"
	"net/http"

	"github.com/ledgerworks/bookkeeper/internal/models"
	"github.com/ledgerworks/bookkeeper/internal/store"
)

// handleListCompanies handles GET /api/1/companies.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.svc.ListCompanies(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list companies")
		return
	}

	writeJSON(w, http.StatusOK, models.CompaniesResponse{Companies: companies})
}

// resolveCompany parses the {id} parameter and verifies the company exists.
// It writes the error response itself and reports ok=false on failure.
func (s *Server) resolveCompany(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	id, err := companyIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid company id")
		return nil, false
	}

	company, err := s.svc.GetCompany(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "not_found", "Company not found")
		return nil, false
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to resolve company")
		return nil, false
	}

	return company, true
}
