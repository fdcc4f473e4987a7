package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerworks/bookkeeper/internal/books"
	"github.com/ledgerworks/bookkeeper/internal/spreadsheet"
	"github.com/ledgerworks/bookkeeper/internal/store"
)

// handleUploadStatement handles POST /api/1/statements.
// Multipart form fields: file (the workbook), company_name (optional,
// defaults to the file's base name), file_password (optional download gate).
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to read uploaded file")
		return
	}

	result, err := s.svc.Ingest(r.Context(), books.IngestInput{
		CompanyName:  r.FormValue("company_name"),
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
		FilePassword: r.FormValue("file_password"),
	})
	if err != nil {
		var schemaErr *spreadsheet.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			writeJSONError(w, http.StatusBadRequest, "invalid_statement", schemaErr.Error())
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
			writeJSONError(w, http.StatusBadRequest, "invalid_statement", "File must be an Excel file (.xlsx or .xls)")
		case errors.Is(err, books.ErrEmptyCompanyName):
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing company name")
		default:
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to process statement")
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ingestRunResponse is one row of the ingestion history.
type ingestRunResponse struct {
	RunID            string    `json:"run_id"`
	Filename         string    `json:"filename"`
	TransactionCount int       `json:"transaction_count"`
	IngestedAt       time.Time `json:"ingested_at"`
}

// handleIngestRuns handles GET /api/1/companies/{id}/ingest-runs.
func (s *Server) handleIngestRuns(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	runs, err := s.svc.IngestHistory(r.Context(), company.ID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list ingest runs")
		return
	}

	resp := make([]ingestRunResponse, len(runs))
	for i, run := range runs {
		resp[i] = ingestRunResponse{
			RunID:            run.RunID,
			Filename:         run.Filename,
			TransactionCount: run.TransactionCount,
			IngestedAt:       run.IngestedAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ingest_runs": resp})
}

// downloadRequest is the body of a statement download.
type downloadRequest struct {
	Password string `json:"password"`
}

// handleDownloadStatement handles POST /api/1/companies/{id}/statement/download.
// It streams the originally uploaded workbook back after checking the
// per-file password.
func (s *Server) handleDownloadStatement(w http.ResponseWriter, r *http.Request) {
	company, ok := s.resolveCompany(w, r)
	if !ok {
		return
	}

	var req downloadRequest
	if r.Body != nil {
		// An empty body means no password supplied
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	file, err := s.svc.DownloadStatement(r.Context(), company.ID, req.Password)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "No statement file stored for this company")
		return
	case errors.Is(err, books.ErrWrongPassword):
		writeJSONError(w, http.StatusForbidden, "forbidden", "Incorrect statement file password")
		return
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to load statement file")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
