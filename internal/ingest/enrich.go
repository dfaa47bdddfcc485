package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/extraction"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// Enrich processes every candidate in the window that has no embedding yet:
// LLM profile extraction, content refinement, metadata heuristics, then the
// embedding itself, all saved in one update per candidate. A failed
// candidate is reported through the sink and the run moves on.
func (p *Pipeline) Enrich(ctx context.Context, from, to time.Time, sink Sink) error {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	candidates, err := p.store.ListMissingEmbedding(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list candidates missing embedding: %w", err)
	}

	total := len(candidates)
	processed := 0
	successful := 0

	logger.Info("enrichment started",
		zap.Int("candidates", total),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	for i := range candidates {
		c := &candidates[i]
		processed++

		if err := p.enrichOne(ctx, c); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("candidate enrichment failed",
				zap.Int64("candidate_id", c.ID),
				zap.Error(err),
			)
			if emitErr := sink.Emit(newErrorEvent(fmt.Sprintf("Candidate %d failed: %v", c.ID, err))); emitErr != nil {
				return emitErr
			}
		} else {
			successful++
		}

		if err := sink.Emit(newEnrichProgress(processed, total, successful, storage.StrVal(c.PersonsName))); err != nil {
			return err
		}

		if err := sleep(ctx, p.enrichDelay); err != nil {
			return err
		}
	}

	logger.Info("enrichment complete",
		zap.Int("processed", processed),
		zap.Int("successful", successful),
	)
	return sink.Emit(newEnrichComplete(processed, successful))
}

// enrichOne runs the full derivation for a single candidate. LLM failure
// degrades to heuristics-only enrichment rather than failing the record
// outright; only storage failures and an unusable source text are errors.
func (p *Pipeline) enrichOne(ctx context.Context, c *storage.Candidate) error {
	source := storage.StrVal(c.ResumeText)
	if source == "" {
		source = storage.StrVal(c.Content)
	}
	if source == "" {
		return fmt.Errorf("no resume text to process")
	}

	profile, err := p.extractor.ExtractProfile(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("profile extraction failed, continuing with heuristics only",
			zap.Int64("candidate_id", c.ID),
			zap.Error(err),
		)
		profile = &extraction.Profile{}
	}

	refined := extraction.RefineContent(source)
	meta := extraction.ExtractMetadata(source)

	enrichment := &storage.Enrichment{
		SkillsTechnical:         profile.SkillsTechnical,
		ExperienceRole:          profile.ExperienceRole,
		LanguageProficiency:     profile.LanguageProficiency,
		CommunicationSkills:     profile.CommunicationSkills,
		IndustryBackground:      profile.IndustryBackground,
		LocationTimezone:        profile.LocationTimezone,
		EducationCertifications: profile.EducationCertifications,
		WorkStyle:               profile.WorkStyle,
		Metadata:                meta,
	}
	if refined != "" {
		enrichment.Content = &refined
	}

	// the embedding sees the enriched candidate, not the raw row
	enriched := *c
	applyProfile(&enriched, profile)
	if refined != "" {
		enriched.Content = &refined
	}

	if input := extraction.BuildEmbeddingInput(&enriched, meta); input != "" {
		enrichment.Embedding = p.embedder.Embed(ctx, input)
	}

	if err := p.store.SaveEnrichment(ctx, c.ID, enrichment); err != nil {
		return fmt.Errorf("save enrichment: %w", err)
	}
	return nil
}

func applyProfile(c *storage.Candidate, profile *extraction.Profile) {
	if profile.SkillsTechnical != nil {
		c.SkillsTechnical = profile.SkillsTechnical
	}
	if profile.ExperienceRole != nil {
		c.ExperienceRole = profile.ExperienceRole
	}
	if profile.LanguageProficiency != nil {
		c.LanguageProficiency = profile.LanguageProficiency
	}
	if profile.CommunicationSkills != nil {
		c.CommunicationSkills = profile.CommunicationSkills
	}
	if profile.IndustryBackground != nil {
		c.IndustryBackground = profile.IndustryBackground
	}
	if profile.LocationTimezone != nil {
		c.LocationTimezone = profile.LocationTimezone
	}
	if profile.EducationCertifications != nil {
		c.EducationCertifications = profile.EducationCertifications
	}
	if profile.WorkStyle != nil {
		c.WorkStyle = profile.WorkStyle
	}
}
