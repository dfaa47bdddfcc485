package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Searcher is the storage dependency of the engine.
type Searcher interface {
	SearchRanked(ctx context.Context, p *storage.SearchParams) ([]storage.Candidate, int, error)
	SearchRecent(ctx context.Context, p *storage.SearchParams) ([]storage.Candidate, int, error)
}

// Embedder turns free text into a query vector. An empty slice means the
// embedding is unavailable and ranking falls back to keyword boosts alone.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Query is one search request. Page is 1-based; zero values take defaults.
type Query struct {
	Text      string
	Country   string
	Status    string
	JobRoles  string
	Accent    string
	Industry  string
	HasResume bool

	Page     int
	PageSize int
}

// Result is one page of candidates plus the total count for the same
// predicate, so pagination stays consistent with the page contents.
type Result struct {
	Candidates []storage.Candidate
	TotalCount int
	Page       int
	PageSize   int
}

// Engine decides between ranked search and recency browse and runs the
// query embedding when ranked search needs one.
type Engine struct {
	store    Searcher
	embedder Embedder
	logger   *zap.Logger
}

func NewEngine(store Searcher, embedder Embedder, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Search runs a query. A blank query text selects browse mode: recency
// ordering with filters only, no embedding call. Otherwise the text is
// embedded and split into keywords for fused ranking.
func (e *Engine) Search(ctx context.Context, q *Query) (*Result, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := &storage.SearchParams{
		Country:   q.Country,
		Status:    q.Status,
		JobRoles:  q.JobRoles,
		Accent:    q.Accent,
		Industry:  q.Industry,
		HasResume: q.HasResume,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	text := strings.TrimSpace(q.Text)
	var (
		candidates []storage.Candidate
		total      int
		err        error
	)
	if text == "" {
		candidates, total, err = e.store.SearchRecent(ctx, params)
	} else {
		params.Keywords = parseKeywords(text)
		params.Embedding = e.embedder.Embed(ctx, text)
		if len(params.Embedding) == 0 {
			e.logger.Warn("query embedding unavailable, keyword-only search",
				zap.String("query", text),
			)
		}
		candidates, total, err = e.store.SearchRanked(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	if candidates == nil {
		candidates = []storage.Candidate{}
	}
	return &Result{
		Candidates: candidates,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// parseKeywords splits a query on commas, trimming each part. A query with
// no commas is a single keyword.
func parseKeywords(text string) []string {
	var keywords []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}
