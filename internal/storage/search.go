package storage

import (
	"context"
	"fmt"
	"strings"
)

// searchColumns is the fixed set of textual columns the keyword boost scans.
// Matches are case-insensitive substring matches.
var searchColumns = []string{
	"country", "region", "desired_rate", "candidate_bio",
	"candidate_job_title", "job_roles", "english_accent", "industry",
	"email", "work_style", "education_certifications", "location_timezone",
	"communication_skills", "language_proficiency", "experience_role",
	"skills_technical",
}

// keywordBoost is the score contribution of each matched keyword. Vector
// similarity lands in [0,1], so a couple of keyword hits can outrank a
// mediocre semantic match without drowning a strong one.
const keywordBoost = 0.25

// SearchParams is the storage-level form of a search: an optional query
// embedding, parsed keywords, hard filters and a page window.
type SearchParams struct {
	Embedding Vector
	Keywords  []string

	Country   string
	Status    string
	JobRoles  string
	Accent    string
	Industry  string
	HasResume bool

	Limit  int
	Offset int
}

type rankedCandidate struct {
	Candidate
	Score float64 `db:"score"`
}

// searchableExpr concatenates the keyword columns into one haystack.
// Columns are joined with a space so a substring never spans two columns.
func searchableExpr() string {
	return "concat_ws(' ', " + strings.Join(searchColumns, ", ") + ")"
}

// filterConds renders the hard constraints shared by the ranked query, the
// browse query and both count queries. Keeping one builder guarantees the
// page and its total count agree on which records qualify.
func filterConds(p *SearchParams) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	if p.Country != "" {
		conds = append(conds, "country = ?")
		args = append(args, p.Country)
	}
	if p.Status != "" {
		conds = append(conds, "candidate_status = ?")
		args = append(args, p.Status)
	}
	if p.JobRoles != "" {
		conds = append(conds, "job_roles ILIKE ?")
		args = append(args, "%"+p.JobRoles+"%")
	}
	if p.Accent != "" {
		conds = append(conds, "english_accent = ?")
		args = append(args, p.Accent)
	}
	if p.Industry != "" {
		conds = append(conds, "industry = ?")
		args = append(args, p.Industry)
	}
	if p.HasResume {
		conds = append(conds, "resume_link IS NOT NULL AND resume_link <> ''")
	}

	return conds, args
}

// scoreExpr renders the fused ranking key: vector similarity (records with
// no stored embedding score zero, they are not excluded) plus a fixed boost
// per matched keyword.
func scoreExpr(p *SearchParams) (string, []interface{}) {
	var terms []string
	var args []interface{}

	if len(p.Embedding) > 0 {
		terms = append(terms, "(CASE WHEN embedding IS NOT NULL THEN 1 - (embedding <=> ?::vector) ELSE 0 END)")
		args = append(args, p.Embedding)
	}

	haystack := searchableExpr()
	for _, kw := range p.Keywords {
		terms = append(terms, fmt.Sprintf("(CASE WHEN %s ILIKE ? THEN %g ELSE 0 END)", haystack, keywordBoost))
		args = append(args, "%"+kw+"%")
	}

	if len(terms) == 0 {
		return "0", nil
	}
	return strings.Join(terms, " + "), args
}

// buildRankedQuery assembles the fused scoring query and its count query.
// Structured filters are the only hard constraints: keywords and the query
// embedding rank records but never exclude them, so a filter-only match with
// neither surfaces at score zero instead of vanishing. The trailing id
// tie-break keeps pagination stable when scores and created_at collide,
// which they do for whole ingestion batches.
func buildRankedQuery(p *SearchParams) (pageSQL string, pageArgs []interface{}, countSQL string, countArgs []interface{}) {
	score, scoreArgs := scoreExpr(p)
	conds, condArgs := filterConds(p)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	pageSQL = fmt.Sprintf(
		"SELECT %s, %s AS score FROM candidates%s ORDER BY score DESC, created_at DESC, id DESC LIMIT ? OFFSET ?",
		strings.Join(candidateColumns, ", "), score, where,
	)
	pageArgs = append(append([]interface{}{}, scoreArgs...), condArgs...)
	pageArgs = append(pageArgs, p.Limit, p.Offset)

	countSQL = "SELECT COUNT(*) FROM candidates" + where
	countArgs = condArgs
	return pageSQL, pageArgs, countSQL, countArgs
}

// SearchRanked executes the fused scoring query: vector similarity plus
// keyword boost, hard filters, ordered by score with recency tie-break.
// It returns the requested page plus the total count over the identical
// predicate.
func (s *Store) SearchRanked(ctx context.Context, p *SearchParams) ([]Candidate, int, error) {
	pageSQL, pageArgs, countSQL, countArgs := buildRankedQuery(p)

	var ranked []rankedCandidate
	if _, err := s.sess.SelectBySql(pageSQL, pageArgs...).LoadContext(ctx, &ranked); err != nil {
		return nil, 0, fmt.Errorf("ranked search: %w", err)
	}

	var total int
	if err := s.sess.SelectBySql(countSQL, countArgs...).LoadOneContext(ctx, &total); err != nil {
		return nil, 0, fmt.Errorf("ranked search count: %w", err)
	}

	out := make([]Candidate, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Candidate
	}
	return out, total, nil
}

// SearchRecent is browse mode: pure recency ordering with filters applied,
// no scoring.
func (s *Store) SearchRecent(ctx context.Context, p *SearchParams) ([]Candidate, int, error) {
	conds, condArgs := filterConds(p)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	pageSQL := fmt.Sprintf(
		"SELECT %s FROM candidates%s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		strings.Join(candidateColumns, ", "), where,
	)
	pageArgs := append(append([]interface{}{}, condArgs...), p.Limit, p.Offset)

	var out []Candidate
	if _, err := s.sess.SelectBySql(pageSQL, pageArgs...).LoadContext(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("recent search: %w", err)
	}

	countSQL := "SELECT COUNT(*) FROM candidates" + where
	var total int
	if err := s.sess.SelectBySql(countSQL, condArgs...).LoadOneContext(ctx, &total); err != nil {
		return nil, 0, fmt.Errorf("recent search count: %w", err)
	}

	return out, total, nil
}
