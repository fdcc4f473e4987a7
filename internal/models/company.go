package models

import "time"

// Company represents a company whose statement has been ingested.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatementFile represents the raw uploaded spreadsheet kept for re-download.
// At most one exists per company; a re-upload replaces it.
type StatementFile struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Data         []byte    `json:"-"`
	PasswordHash string    `json:"-"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// HasPassword reports whether downloads of this file are password gated.
func (f *StatementFile) HasPassword() bool {
	return f.PasswordHash != ""
}

// CompaniesResponse is the response body for the companies listing.
type CompaniesResponse struct {
	Companies []Company `json:"companies"`
}
