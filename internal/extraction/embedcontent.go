package extraction

import (
	"fmt"
	"strings"

	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// BuildEmbeddingInput assembles the labeled text block fed to the embeddings
// model. Field order is fixed so identical candidates embed identically.
// Empty fields and the literal value "none" are skipped. Returns "" when
// nothing at all is present, which callers treat as "do not embed".
func BuildEmbeddingInput(c *storage.Candidate, meta *storage.Metadata) string {
	var parts []string

	add := func(label string, value *string) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if v == "" || strings.EqualFold(v, "none") {
			return
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, v))
	}

	add("Job Title", c.CandidateJobTitle)
	add("Job Roles", c.JobRoles)
	add("Bio", c.CandidateBio)
	add("Industry Background", c.IndustryBackground)
	add("Technical Skills", c.SkillsTechnical)
	add("Experience", c.ExperienceRole)
	add("Communication Skills", c.CommunicationSkills)
	add("Education & Certifications", c.EducationCertifications)
	add("Work Style", c.WorkStyle)
	add("Language Proficiency", c.LanguageProficiency)
	add("Industry", c.Industry)
	add("Desired Rate", c.DesiredRate)
	add("Country", c.Country)
	add("Region", c.Region)
	add("English Proficiency", c.EnglishAccent)
	add("Location & Timezone", c.LocationTimezone)

	if meta != nil {
		if meta.YearsOfExperience != nil {
			parts = append(parts, fmt.Sprintf("Years of Experience: %d", *meta.YearsOfExperience))
		}
		if len(meta.SkillsList) > 0 {
			parts = append(parts, "Skills: "+strings.Join(meta.SkillsList, ", "))
		}
		if meta.Availability != "" {
			parts = append(parts, "Availability: "+meta.Availability)
		}
		if len(meta.Certifications) > 0 {
			parts = append(parts, "Certifications: "+strings.Join(meta.Certifications, ", "))
		}
	}

	return strings.Join(parts, "\n")
}
