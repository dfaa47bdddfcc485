package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/ingest"
	"github.com/SaganOrg/candidate-finder/internal/resume"
	"github.com/SaganOrg/candidate-finder/internal/search"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// CandidateStore is the storage surface the handlers use.
type CandidateStore interface {
	GetByID(ctx context.Context, id int64) (*storage.Candidate, error)
	Create(ctx context.Context, c *storage.Candidate) (int64, error)
	Update(ctx context.Context, id int64, c *storage.Candidate) error
	Delete(ctx context.Context, id int64) error
	FilterOptions(ctx context.Context) (*storage.FilterOptions, error)
	MarkHired(ctx context.Context, id int64, hired bool, userID string) error
	SetBlacklist(ctx context.Context, id int64, blacklisted bool, userID string) error
	SetAvailability(ctx context.Context, id int64, status string, userID string) error
}

// SearchEngine runs candidate queries.
type SearchEngine interface {
	Search(ctx context.Context, q *search.Query) (*search.Result, error)
}

// Ingestor runs the admin migration phases.
type Ingestor interface {
	Preview(ctx context.Context, from, to time.Time) (*ingest.PreviewReport, error)
	Transfer(ctx context.Context, from, to time.Time, sink ingest.Sink) error
	Enrich(ctx context.Context, from, to time.Time, sink ingest.Sink) error
}

// ResumeParser extracts text from uploaded resume files.
type ResumeParser interface {
	ParseFile(filename string, reader io.Reader) (*resume.ParsedResume, error)
}

// OptionsCache holds the filter-options payload between requests.
type OptionsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type API struct {
	store      CandidateStore
	engine     SearchEngine
	ingestor   Ingestor
	parser     ResumeParser
	cache      OptionsCache
	adminToken string
	logger     *zap.Logger
}

func NewAPI(store CandidateStore, engine SearchEngine, ingestor Ingestor, parser ResumeParser, cache OptionsCache, adminToken string, logger *zap.Logger) *API {
	return &API{
		store:      store,
		engine:     engine,
		ingestor:   ingestor,
		parser:     parser,
		cache:      cache,
		adminToken: adminToken,
		logger:     logger,
	}
}

func (a *API) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			a.logger.Error("write response", zap.Error(err))
		}
	}
}

func (a *API) respondError(w http.ResponseWriter, status int, message string) {
	a.respondJSON(w, status, map[string]string{"error": message})
}

// storeError maps storage errors onto HTTP statuses.
func (a *API) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		a.respondError(w, http.StatusNotFound, "candidate not found")
	case errors.Is(err, storage.ErrCandidateHired):
		a.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrCandidateBlacklisted):
		a.respondError(w, http.StatusConflict, err.Error())
	default:
		a.logger.Error("storage error", zap.Error(err))
		a.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
