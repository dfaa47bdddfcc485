package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/SaganOrg/candidate-finder/internal/airtable"
	"github.com/SaganOrg/candidate-finder/internal/config"
	"github.com/SaganOrg/candidate-finder/internal/embedding"
	"github.com/SaganOrg/candidate-finder/internal/extraction"
	"github.com/SaganOrg/candidate-finder/internal/ingest"
	"github.com/SaganOrg/candidate-finder/internal/llm"
	"github.com/SaganOrg/candidate-finder/internal/logger"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// Runs the enrichment phase from the command line for candidates created in
// the given window, without going through the admin HTTP endpoint.
func main() {
	var dryRun bool
	var limit int
	var fromStr, toStr string
	flag.BoolVar(&dryRun, "dry-run", true, "If true, do not persist enrichments; just print what would change")
	flag.IntVar(&limit, "limit", 200, "Max number of candidates to process in one run")
	flag.StringVar(&fromStr, "from", "2000-01-01", "Window start (YYYY-MM-DD)")
	flag.StringVar(&toStr, "to", time.Now().Format("2006-01-02"), "Window end (YYYY-MM-DD, inclusive)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		log.Fatalf("invalid -from: %v", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		log.Fatalf("invalid -to: %v", err)
	}
	to = to.Add(24*time.Hour - time.Second)

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	log.Printf("Connecting to DB...")
	store, err := storage.New(cfg.DatabaseURL, zl)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer store.Close()

	embedder := embedding.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions, zl)
	extractor := extraction.NewExtractor(llm.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, zl), zl)

	ctx := context.Background()

	var pipelineStore ingest.Store = store
	if dryRun {
		pipelineStore = &dryRunStore{Store: store}
	}
	pipelineStore = &limitedStore{Store: pipelineStore, limit: limit}

	pipeline, err := ingest.NewPipeline(cfg, pipelineStore, noSource{}, extractor, embedder, zl)
	if err != nil {
		log.Fatalf("pipeline init: %v", err)
	}

	if err := pipeline.Enrich(ctx, from, to, stdoutSink{}); err != nil {
		log.Fatalf("enrichment run failed: %v", err)
	}
	log.Printf("Backfill run complete")
}

// stdoutSink prints each pipeline event as one JSON line.
type stdoutSink struct{}

func (stdoutSink) Emit(event interface{}) error {
	return json.NewEncoder(os.Stdout).Encode(event)
}

// noSource satisfies the pipeline's lister; the backfill never transfers.
type noSource struct{}

func (noSource) ListRecords(ctx context.Context, from, to time.Time) ([]airtable.Record, error) {
	return nil, nil
}

// dryRunStore swallows enrichment writes.
type dryRunStore struct {
	ingest.Store
}

func (d *dryRunStore) SaveEnrichment(ctx context.Context, id int64, e *storage.Enrichment) error {
	log.Printf("[dry-run] would enrich candidate %d (embedding dims=%d)", id, len(e.Embedding))
	return nil
}

// limitedStore caps how many candidates one run processes.
type limitedStore struct {
	ingest.Store
	limit int
}

func (l *limitedStore) ListMissingEmbedding(ctx context.Context, from, to time.Time) ([]storage.Candidate, error) {
	candidates, err := l.Store.ListMissingEmbedding(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if l.limit > 0 && len(candidates) > l.limit {
		candidates = candidates[:l.limit]
	}
	return candidates, nil
}
