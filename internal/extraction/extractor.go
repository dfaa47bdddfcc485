package extraction

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// maxChunkChars is the per-call input limit for extraction prompts. Longer
// resumes are split into fixed-size chunks processed sequentially and the
// per-category results merged.
const maxChunkChars = 15000

const profileCategories = 8

// Completer is the chat-completion dependency of the extractor.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Profile holds the eight derived facets of a resume. A nil field means the
// model found nothing for that category.
type Profile struct {
	SkillsTechnical         *string
	ExperienceRole          *string
	LanguageProficiency     *string
	CommunicationSkills     *string
	IndustryBackground      *string
	LocationTimezone        *string
	EducationCertifications *string
	WorkStyle               *string
}

// Extractor asks an LLM to pull the eight profile categories out of raw
// resume text.
type Extractor struct {
	llm    Completer
	logger *zap.Logger
}

func NewExtractor(llm Completer, logger *zap.Logger) *Extractor {
	return &Extractor{
		llm:    llm,
		logger: logger,
	}
}

// ExtractProfile runs the categorical extraction, chunking input that
// exceeds the per-call limit. On LLM failure it returns an empty profile
// alongside the error so callers can degrade instead of aborting a record.
func (e *Extractor) ExtractProfile(ctx context.Context, content string) (*Profile, error) {
	if len(content) <= maxChunkChars {
		return e.extractChunk(ctx, content)
	}

	var chunks []string
	for i := 0; i < len(content); i += maxChunkChars {
		end := i + maxChunkChars
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, content[i:end])
	}

	e.logger.Debug("content split into chunks for extraction",
		zap.Int("chunks", len(chunks)),
		zap.Int("content_length", len(content)),
	)

	results := make([]*Profile, 0, len(chunks))
	for i, chunk := range chunks {
		result, err := e.extractChunk(ctx, chunk)
		if err != nil {
			return &Profile{}, fmt.Errorf("extract chunk %d/%d: %w", i+1, len(chunks), err)
		}
		results = append(results, result)
	}

	return mergeChunkProfiles(results), nil
}

func (e *Extractor) extractChunk(ctx context.Context, chunk string) (*Profile, error) {
	response, err := e.llm.Complete(ctx, buildExtractionPrompt(chunk))
	if err != nil {
		return &Profile{}, fmt.Errorf("profile extraction: %w", err)
	}
	return parseProfileResponse(response), nil
}

func buildExtractionPrompt(chunk string) string {
	return fmt.Sprintf(`You are analyzing a candidate's resume content. Extract information for these 8 specific categories. Look through the ENTIRE content and find ALL relevant items for each category.

Content to analyze:
%s

Extract the following 8 categories and return as pipe-separated values (|):

1. Skills_Technical: Find ALL technical skills, software, tools, systems, platforms
2. Experience_Role: Find ALL job titles, positions, years of experience, roles
3. Language_Proficiency: Find ALL languages mentioned with proficiency levels
4. Communication_Skills: Find ALL communication-related skills
5. Industry_Background: Find ALL industries, sectors, business areas
6. Location_Timezone: Find ALL location information
7. Education_Certifications: Find ALL educational qualifications, certifications, courses
8. Work_Style: Find ALL work preferences, availability, work arrangements

CRITICAL INSTRUCTIONS:
- Extract EVERY item you find for each category, separated by commas within each field
- Use pipe (|) to separate the 8 categories
- If no information found for a category, write "null"
- Be comprehensive - include everything relevant you find

Your response:`, chunk)
}

// parseProfileResponse splits the model output on pipes, trims each value,
// maps the "null" sentinel (or empty) to absent, and pads or truncates to
// exactly eight categories regardless of what the model returned.
func parseProfileResponse(response string) *Profile {
	values := strings.Split(strings.TrimSpace(response), "|")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	for len(values) < profileCategories {
		values = append(values, "null")
	}
	values = values[:profileCategories]

	normalize := func(v string) *string {
		if v == "" || strings.EqualFold(v, "null") {
			return nil
		}
		return &v
	}

	return &Profile{
		SkillsTechnical:         normalize(values[0]),
		ExperienceRole:          normalize(values[1]),
		LanguageProficiency:     normalize(values[2]),
		CommunicationSkills:     normalize(values[3]),
		IndustryBackground:      normalize(values[4]),
		LocationTimezone:        normalize(values[5]),
		EducationCertifications: normalize(values[6]),
		WorkStyle:               normalize(values[7]),
	}
}

// mergeChunkProfiles combines per-chunk results category by category:
// comma-separated items from every non-null chunk value, exact-string
// duplicates removed, joined with ", ".
func mergeChunkProfiles(results []*Profile) *Profile {
	merge := func(pick func(*Profile) *string) *string {
		var items []string
		seen := make(map[string]struct{})
		for _, r := range results {
			v := pick(r)
			if v == nil {
				continue
			}
			for _, item := range strings.Split(*v, ",") {
				item = strings.TrimSpace(item)
				if item == "" {
					continue
				}
				if _, ok := seen[item]; ok {
					continue
				}
				seen[item] = struct{}{}
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil
		}
		joined := strings.Join(items, ", ")
		return &joined
	}

	return &Profile{
		SkillsTechnical:         merge(func(p *Profile) *string { return p.SkillsTechnical }),
		ExperienceRole:          merge(func(p *Profile) *string { return p.ExperienceRole }),
		LanguageProficiency:     merge(func(p *Profile) *string { return p.LanguageProficiency }),
		CommunicationSkills:     merge(func(p *Profile) *string { return p.CommunicationSkills }),
		IndustryBackground:      merge(func(p *Profile) *string { return p.IndustryBackground }),
		LocationTimezone:        merge(func(p *Profile) *string { return p.LocationTimezone }),
		EducationCertifications: merge(func(p *Profile) *string { return p.EducationCertifications }),
		WorkStyle:               merge(func(p *Profile) *string { return p.WorkStyle }),
	}
}
