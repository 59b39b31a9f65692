package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/casefile/internal/apperr"
	"github.com/starford/casefile/internal/casefile"
	"github.com/starford/casefile/internal/source"
)

// Handler holds API route handlers. Services are resolved per request
// because the backend is a request-time signal.
type Handler struct {
	csv     *casefile.Service
	mongo   *casefile.Service // nil when no document store is configured
	csvSrc  *source.CSV       // for diagnostics
	defBack Backend
}

// NewHandler creates a Handler. mongo may be nil; requests selecting it
// then fail with a service-unavailable response.
func NewHandler(csvSvc, mongoSvc *casefile.Service, csvSrc *source.CSV, def Backend) *Handler {
	return &Handler{csv: csvSvc, mongo: mongoSvc, csvSrc: csvSrc, defBack: def}
}

func (h *Handler) service(backend Backend) (*casefile.Service, error) {
	if backend == BackendMongo {
		if h.mongo == nil {
			return nil, apperr.ErrUnavailable
		}
		return h.mongo, nil
	}
	return h.csv, nil
}

// Search handles POST /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter is required"))
		return
	}

	backend := ResolveBackend(r, req.Backend, h.defBack)
	svc, err := h.service(backend)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("document store backend is not configured"))
		return
	}

	results, err := svc.Search(r.Context(), req.Query)
	if err != nil {
		slog.Error("search failed",
			slog.String("backend", string(backend)),
			slog.String("query", req.Query),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("error processing search"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Backend: string(backend)})
}

// File handles POST /file.
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req FileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file number parameter is required"))
		return
	}
	h.lookupFile(w, r, req.FileNumber, req.Backend)
}

// FileByNumber handles GET /file/{fileNumber}.
func (h *Handler) FileByNumber(w http.ResponseWriter, r *http.Request) {
	fileNumber := chi.URLParam(r, "fileNumber")
	if fileNumber == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("file number parameter is required"))
		return
	}
	h.lookupFile(w, r, fileNumber, "")
}

func (h *Handler) lookupFile(w http.ResponseWriter, r *http.Request, fileNumber, bodyBackend string) {
	backend := ResolveBackend(r, bodyBackend, h.defBack)
	svc, err := h.service(backend)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("document store backend is not configured"))
		return
	}

	agg, err := svc.Get(r.Context(), fileNumber)
	if err != nil {
		slog.Error("file lookup failed",
			slog.String("backend", string(backend)),
			slog.String("file_number", fileNumber),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("error processing request"))
		return
	}
	// An aggregate empty across all four datasets is a not-found, not
	// an error; a partially populated one is always a success.
	if agg.Empty() {
		writeJSON(w, http.StatusNotFound, errorBody("no records for file number"))
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// Diag handles GET /diag: CSV data-directory diagnostics.
func (h *Handler) Diag(w http.ResponseWriter, r *http.Request) {
	files, err := h.csvSrc.Files()
	if err != nil {
		slog.Error("diag failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	counts, err := h.csvSrc.Counts(r.Context())
	if err != nil {
		slog.Error("diag counts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	byName := make(map[string]int, len(counts))
	for kind, n := range counts {
		byName[string(kind)] = n
	}
	writeJSON(w, http.StatusOK, DiagResponse{
		DataDir:  h.csvSrc.Dir(),
		CSVFiles: files,
		Counts:   byName,
	})
}
