package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/casefile/internal/models"
)

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query   string `json:"query"`
	Backend string `json:"backend,omitempty"`
}

// Validate enforces field presence before any backend access.
func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required),
	)
}

// FileRequest is the body of POST /file.
type FileRequest struct {
	FileNumber string `json:"fileNumber"`
	Backend    string `json:"backend,omitempty"`
}

// Validate enforces field presence before any backend access.
func (r FileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileNumber, validation.Required),
	)
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []models.FileAggregate `json:"results"`
	Backend string                 `json:"backend"`
}

// DiagResponse describes the CSV data directory.
type DiagResponse struct {
	DataDir  string         `json:"dataDir"`
	CSVFiles []string       `json:"csvFiles"`
	Counts   map[string]int `json:"counts"`
}
