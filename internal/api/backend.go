// Package api implements the case-file lookup REST API using chi.
package api

import (
	"net/http"
	"strings"
)

// Backend identifies which storage backend serves a request.
type Backend string

const (
	BackendCSV   Backend = "csv"
	BackendMongo Backend = "mongo"
)

// BackendHeader is the request header naming the backend, taking
// precedence over the body field and the configured default.
const BackendHeader = "X-Backend"

// ResolveBackend picks the backend with precedence header > body field >
// default. The document-store spellings "mongo", "mongodb", "true", and
// "1" (case-insensitive) select Mongo; anything else, including absence,
// falls through to the next signal and ultimately to CSV.
func ResolveBackend(r *http.Request, bodyValue string, def Backend) Backend {
	for _, signal := range []string{r.Header.Get(BackendHeader), bodyValue} {
		switch strings.ToLower(strings.TrimSpace(signal)) {
		case "":
			continue
		case "mongo", "mongodb", "true", "1":
			return BackendMongo
		default:
			return BackendCSV
		}
	}
	if def == BackendMongo {
		return BackendMongo
	}
	return BackendCSV
}
