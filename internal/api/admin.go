package api

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// requireAdmin checks the bearer token before any migration work starts.
func (a *API) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.adminToken == "" {
			a.respondError(w, http.StatusForbidden, "admin endpoints are disabled")
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			a.respondError(w, http.StatusForbidden, "unauthorized")
			return
		}
		next(w, r)
	}
}

type migrationRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// window parses the request's date range. The end date is inclusive through
// end of day.
func (req *migrationRequest) window() (from, to time.Time, err error) {
	if req.StartDate == "" || req.EndDate == "" {
		return from, to, fmt.Errorf("startDate and endDate are required")
	}
	from, err = time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return from, to, fmt.Errorf("invalid startDate: %v", err)
	}
	to, err = time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return from, to, fmt.Errorf("invalid endDate: %v", err)
	}
	to = to.Add(24*time.Hour - time.Second)
	if to.Before(from) {
		return from, to, fmt.Errorf("endDate precedes startDate")
	}
	return from, to, nil
}

func (a *API) migrationWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var req migrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid JSON")
		return time.Time{}, time.Time{}, false
	}
	from, to, err := req.window()
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// ndjsonSink writes one JSON line per event and flushes so the client sees
// progress as it happens.
type ndjsonSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newNDJSONSink(w http.ResponseWriter) *ndjsonSink {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	return &ndjsonSink{w: w, flusher: flusher}
}

func (s *ndjsonSink) Emit(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// MigrationPreviewHandler analyzes a source window without writing
// @Summary Preview a migration window
// @Description Counts new records and duplicates for the date range
// @Tags admin
// @Accept json
// @Produce json
// @Param request body migrationRequest true "Date range (YYYY-MM-DD, inclusive)"
// @Success 200 {object} ingest.PreviewReport
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security AdminToken
// @Router /admin/migration/preview [post]
func (a *API) MigrationPreviewHandler(w http.ResponseWriter, r *http.Request) {
	from, to, ok := a.migrationWindow(w, r)
	if !ok {
		return
	}
	report, err := a.ingestor.Preview(r.Context(), from, to)
	if err != nil {
		a.logger.Error("migration preview failed", zap.Error(err))
		a.respondError(w, http.StatusInternalServerError, "preview failed")
		return
	}
	a.respondJSON(w, http.StatusOK, report)
}

// MigrationTransferHandler copies source records into the candidates table
// @Summary Transfer a migration window
// @Description Streams newline-delimited JSON progress events
// @Tags admin
// @Accept json
// @Produce json
// @Param request body migrationRequest true "Date range (YYYY-MM-DD, inclusive)"
// @Success 200 {string} string "NDJSON event stream"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security AdminToken
// @Router /admin/migration/transfer [post]
func (a *API) MigrationTransferHandler(w http.ResponseWriter, r *http.Request) {
	from, to, ok := a.migrationWindow(w, r)
	if !ok {
		return
	}
	sink := newNDJSONSink(w)
	if err := a.ingestor.Transfer(r.Context(), from, to, sink); err != nil {
		// headers are already sent, report through the stream
		a.logger.Error("migration transfer failed", zap.Error(err))
		sink.Emit(map[string]string{"type": "error", "message": err.Error()})
	}
}

// GenerateEmbeddingsHandler enriches candidates missing an embedding
// @Summary Enrich a migration window
// @Description Streams newline-delimited JSON progress events
// @Tags admin
// @Accept json
// @Produce json
// @Param request body migrationRequest true "Date range (YYYY-MM-DD, inclusive)"
// @Success 200 {string} string "NDJSON event stream"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security AdminToken
// @Router /admin/migration/generate-embeddings [post]
func (a *API) GenerateEmbeddingsHandler(w http.ResponseWriter, r *http.Request) {
	from, to, ok := a.migrationWindow(w, r)
	if !ok {
		return
	}
	sink := newNDJSONSink(w)
	if err := a.ingestor.Enrich(r.Context(), from, to, sink); err != nil {
		a.logger.Error("embedding generation failed", zap.Error(err))
		sink.Emit(map[string]string{"type": "error", "message": err.Error()})
	}
}
