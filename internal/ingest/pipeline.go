package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/airtable"
	"github.com/SaganOrg/candidate-finder/internal/config"
	"github.com/SaganOrg/candidate-finder/internal/extraction"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// Store is the storage surface the pipeline needs.
type Store interface {
	UpsertBatch(ctx context.Context, batch []storage.Candidate) error
	ExistingEmails(ctx context.Context) (map[string]struct{}, error)
	ExistingTalentIDs(ctx context.Context) (map[string]struct{}, error)
	ListMissingEmbedding(ctx context.Context, from, to time.Time) ([]storage.Candidate, error)
	SaveEnrichment(ctx context.Context, id int64, e *storage.Enrichment) error
}

// RecordLister fetches source records for a created-time window.
type RecordLister interface {
	ListRecords(ctx context.Context, from, to time.Time) ([]airtable.Record, error)
}

// ProfileExtractor derives the categorical profile from resume text.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, content string) (*extraction.Profile, error)
}

// Embedder produces the stored vector. An empty slice means no embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Pipeline runs the three ingestion phases: preview, transfer, enrich.
// Phases are independent so a transfer can be re-run without re-enriching
// and vice versa.
type Pipeline struct {
	store     Store
	source    RecordLister
	extractor ProfileExtractor
	embedder  Embedder
	mapping   Mapping

	batchSize     int
	transferDelay time.Duration
	enrichDelay   time.Duration

	logger *zap.Logger
}

func NewPipeline(cfg *config.Config, store Store, source RecordLister, extractor ProfileExtractor, embedder Embedder, logger *zap.Logger) (*Pipeline, error) {
	mapping := DefaultMapping()
	if err := mapping.Validate(); err != nil {
		return nil, fmt.Errorf("field mapping: %w", err)
	}
	return &Pipeline{
		store:         store,
		source:        source,
		extractor:     extractor,
		embedder:      embedder,
		mapping:       mapping,
		batchSize:     cfg.TransferBatchSize,
		transferDelay: cfg.TransferDelay,
		enrichDelay:   cfg.EnrichDelay,
		logger:        logger,
	}, nil
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
