package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// candidateColumns lists every column the dashboard reads. The embedding
// vector is deliberately absent: search compares it inside SQL and nothing
// else needs it client-side.
var candidateColumns = []string{
	"id", "talent_id", "persons_name", "email", "country", "region",
	"desired_rate", "content", "resume_text", "candidate_bio",
	"candidate_job_title", "job_applying_to", "job_roles", "english_accent",
	"industry", "resume_link", "linkedin_link", "voice_link", "video_link",
	"skills_technical", "experience_role", "language_proficiency",
	"communication_skills", "industry_background", "location_timezone",
	"education_certifications", "work_style", "metadata",
	"candidate_status", "blacklist", "hired",
	"created_at", "last_updated", "last_updated_by",
}

// dbr interpolates ? placeholders client-side; numbered placeholders never
// reach the driver.
const upsertCandidateSQL = `
	INSERT INTO candidates (
		talent_id, persons_name, email, country, desired_rate,
		content, resume_text, candidate_bio, candidate_job_title,
		job_applying_to, resume_link, linkedin_link, voice_link, video_link,
		created_at, last_updated
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	ON CONFLICT (talent_id) DO UPDATE SET
		persons_name = EXCLUDED.persons_name,
		email = EXCLUDED.email,
		country = EXCLUDED.country,
		desired_rate = EXCLUDED.desired_rate,
		content = EXCLUDED.content,
		resume_text = EXCLUDED.resume_text,
		candidate_bio = EXCLUDED.candidate_bio,
		candidate_job_title = EXCLUDED.candidate_job_title,
		job_applying_to = EXCLUDED.job_applying_to,
		resume_link = EXCLUDED.resume_link,
		linkedin_link = EXCLUDED.linkedin_link,
		voice_link = EXCLUDED.voice_link,
		video_link = EXCLUDED.video_link,
		last_updated = NOW()
`

// UpsertBatch writes one transferred batch keyed by the external talent_id.
// Re-running with the same ids updates rather than duplicates. The whole
// batch commits or rolls back together so a failed batch can be retried
// as a unit.
func (s *Store) UpsertBatch(ctx context.Context, batch []Candidate) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert batch: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	for i := range batch {
		c := &batch[i]
		if c.TalentID == "" {
			return fmt.Errorf("upsert batch: record %d has no talent_id", i)
		}
		// Created time comes from the source record so the enrichment
		// window lines up with the preview window.
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := tx.InsertBySql(upsertCandidateSQL,
			c.TalentID,
			c.PersonsName,
			c.Email,
			c.Country,
			c.DesiredRate,
			c.Content,
			c.ResumeText,
			c.CandidateBio,
			c.CandidateJobTitle,
			c.JobApplyingTo,
			c.ResumeLink,
			c.LinkedinLink,
			c.VoiceLink,
			c.VideoLink,
			createdAt,
		).ExecContext(ctx)
		if err != nil {
			s.logger.Error("failed to upsert candidate",
				zap.String("talent_id", c.TalentID),
				zap.Error(err),
			)
			return fmt.Errorf("upsert candidate %s: %w", c.TalentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert batch: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Candidate, error) {
	var c Candidate
	err := s.sess.
		Select(candidateColumns...).
		From("candidates").
		Where("id = ?", id).
		LoadOneContext(ctx, &c)

	if err == dbr.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate %d: %w", id, err)
	}
	return &c, nil
}

const createCandidateSQL = `
	INSERT INTO candidates (
		talent_id, persons_name, email, country, region, desired_rate,
		content, resume_text, candidate_bio, candidate_job_title,
		job_applying_to, job_roles, english_accent, industry,
		resume_link, linkedin_link, voice_link, video_link,
		candidate_status, last_updated_by, created_at, last_updated
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	RETURNING id`

// Create inserts a candidate from the dashboard's create form.
func (s *Store) Create(ctx context.Context, c *Candidate) (int64, error) {
	if c.TalentID == "" {
		// Manual records get a synthetic external id so the talent_id
		// uniqueness constraint keeps holding.
		c.TalentID = "manual-" + strings.ToLower(strings.ReplaceAll(StrVal(c.Email), "@", "-at-"))
	}

	var id int64
	err := s.sess.
		InsertBySql(createCandidateSQL,
			c.TalentID, c.PersonsName, c.Email, c.Country, c.Region, c.DesiredRate,
			c.Content, c.ResumeText, c.CandidateBio, c.CandidateJobTitle,
			c.JobApplyingTo, c.JobRoles, c.EnglishAccent, c.Industry,
			c.ResumeLink, c.LinkedinLink, c.VoiceLink, c.VideoLink,
			c.CandidateStatus, c.LastUpdatedBy,
		).
		LoadContext(ctx, &id)
	if err != nil && err != dbr.ErrNotFound {
		return 0, fmt.Errorf("create candidate: %w", err)
	}
	return id, nil
}

// Update overwrites the editable fields of a candidate. The dashboard edit
// form sends the full field set, so absent values clear columns.
func (s *Store) Update(ctx context.Context, id int64, c *Candidate) error {
	result, err := s.sess.
		Update("candidates").
		SetMap(map[string]interface{}{
			"persons_name":        c.PersonsName,
			"email":               c.Email,
			"country":             c.Country,
			"region":              c.Region,
			"desired_rate":        c.DesiredRate,
			"content":             c.Content,
			"resume_text":         c.ResumeText,
			"candidate_bio":       c.CandidateBio,
			"candidate_job_title": c.CandidateJobTitle,
			"job_applying_to":     c.JobApplyingTo,
			"job_roles":           c.JobRoles,
			"english_accent":      c.EnglishAccent,
			"industry":            c.Industry,
			"resume_link":         c.ResumeLink,
			"linkedin_link":       c.LinkedinLink,
			"voice_link":          c.VoiceLink,
			"video_link":          c.VideoLink,
			"last_updated_by":     c.LastUpdatedBy,
			"last_updated":        time.Now(),
		}).
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update candidate %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.sess.
		DeleteFrom("candidates").
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete candidate %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistingEmails returns the set of stored emails, lowercased for the
// case-insensitive dedup check during ingestion preview.
func (s *Store) ExistingEmails(ctx context.Context) (map[string]struct{}, error) {
	var emails []string
	_, err := s.sess.
		Select("email").
		From("candidates").
		Where("email IS NOT NULL").
		LoadContext(ctx, &emails)
	if err != nil {
		return nil, fmt.Errorf("load existing emails: %w", err)
	}

	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e != "" {
			set[strings.ToLower(e)] = struct{}{}
		}
	}
	return set, nil
}

// ExistingTalentIDs returns the set of external-origin ids already present.
func (s *Store) ExistingTalentIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	_, err := s.sess.
		Select("talent_id").
		From("candidates").
		Where("talent_id IS NOT NULL").
		LoadContext(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("load existing talent ids: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

// ListMissingEmbedding returns candidates created in the window that have no
// stored embedding yet, in ascending id order so enrichment progress stays
// monotonic across a run.
func (s *Store) ListMissingEmbedding(ctx context.Context, from, to time.Time) ([]Candidate, error) {
	var out []Candidate
	_, err := s.sess.
		Select(candidateColumns...).
		From("candidates").
		Where("embedding IS NULL").
		Where("created_at >= ?", from).
		Where("created_at <= ?", to).
		OrderBy("id ASC").
		LoadContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("list candidates missing embedding: %w", err)
	}
	return out, nil
}

// Enrichment is the single-update payload produced by the pipeline's
// enrichment phase. Nil fields are left untouched.
type Enrichment struct {
	SkillsTechnical         *string
	ExperienceRole          *string
	LanguageProficiency     *string
	CommunicationSkills     *string
	IndustryBackground      *string
	LocationTimezone        *string
	EducationCertifications *string
	WorkStyle               *string
	Content                 *string
	Metadata                *Metadata
	Embedding               Vector
}

// SaveEnrichment stores the derived fields and the embedding vector in one
// update so a record is either fully enriched or not at all.
func (s *Store) SaveEnrichment(ctx context.Context, id int64, e *Enrichment) error {
	set := map[string]interface{}{
		"last_updated": time.Now(),
	}
	if e.SkillsTechnical != nil {
		set["skills_technical"] = e.SkillsTechnical
	}
	if e.ExperienceRole != nil {
		set["experience_role"] = e.ExperienceRole
	}
	if e.LanguageProficiency != nil {
		set["language_proficiency"] = e.LanguageProficiency
	}
	if e.CommunicationSkills != nil {
		set["communication_skills"] = e.CommunicationSkills
	}
	if e.IndustryBackground != nil {
		set["industry_background"] = e.IndustryBackground
	}
	if e.LocationTimezone != nil {
		set["location_timezone"] = e.LocationTimezone
	}
	if e.EducationCertifications != nil {
		set["education_certifications"] = e.EducationCertifications
	}
	if e.WorkStyle != nil {
		set["work_style"] = e.WorkStyle
	}
	if e.Content != nil {
		set["content"] = e.Content
	}
	if e.Metadata != nil && !e.Metadata.IsEmpty() {
		set["metadata"] = e.Metadata
	}
	if len(e.Embedding) > 0 {
		set["embedding"] = e.Embedding
	}

	if len(set) == 1 {
		// Nothing beyond the timestamp to write.
		return nil
	}

	result, err := s.sess.
		Update("candidates").
		SetMap(set).
		Where("id = ?", id).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("save enrichment for candidate %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FilterOptions collects the distinct values the dashboard's filter panel
// offers. Expensive on large tables, so the API layer caches the result.
func (s *Store) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{}

	load := func(column string, dest *[]string) error {
		_, err := s.sess.
			SelectBySql(fmt.Sprintf(
				`SELECT DISTINCT %s FROM candidates WHERE %s IS NOT NULL AND %s <> '' ORDER BY %s`,
				column, column, column, column)).
			LoadContext(ctx, dest)
		if err != nil {
			return fmt.Errorf("load distinct %s: %w", column, err)
		}
		return nil
	}

	if err := load("country", &opts.Countries); err != nil {
		return nil, err
	}
	if err := load("candidate_status", &opts.Statuses); err != nil {
		return nil, err
	}
	if err := load("english_accent", &opts.Accents); err != nil {
		return nil, err
	}
	if err := load("industry", &opts.Industries); err != nil {
		return nil, err
	}

	return opts, nil
}
