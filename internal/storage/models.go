package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Candidate status values. Status, blacklist and hired form a small state
// machine: hired implies not blacklisted and Not Available, blacklisted
// implies not hired and Not Available.
const (
	StatusAvailable    = "Available"
	StatusNotAvailable = "Not Available"
)

// Candidate is the central entity. Optional text columns are pointers so a
// missing value round-trips as NULL instead of an empty string.
type Candidate struct {
	ID       int64  `db:"id" json:"id"`
	TalentID string `db:"talent_id" json:"talent_id"`

	PersonsName *string `db:"persons_name" json:"persons_name"`
	Email       *string `db:"email" json:"email"`
	Country     *string `db:"country" json:"country"`
	Region      *string `db:"region" json:"region"`
	DesiredRate *string `db:"desired_rate" json:"desired_rate"`

	Content           *string `db:"content" json:"content"`
	ResumeText        *string `db:"resume_text" json:"resume_text"`
	CandidateBio      *string `db:"candidate_bio" json:"candidate_bio"`
	CandidateJobTitle *string `db:"candidate_job_title" json:"candidate_job_title"`
	JobApplyingTo     *string `db:"job_applying_to" json:"job_applying_to"`
	JobRoles          *string `db:"job_roles" json:"job_roles"`
	EnglishAccent     *string `db:"english_accent" json:"english_accent"`
	Industry          *string `db:"industry" json:"industry"`

	ResumeLink   *string `db:"resume_link" json:"resume_link"`
	LinkedinLink *string `db:"linkedin_link" json:"linkedin_link"`
	VoiceLink    *string `db:"voice_link" json:"voice_link"`
	VideoLink    *string `db:"video_link" json:"video_link"`

	// Enriched profile facets, populated by the extraction pipeline.
	SkillsTechnical         *string `db:"skills_technical" json:"skills_technical"`
	ExperienceRole          *string `db:"experience_role" json:"experience_role"`
	LanguageProficiency     *string `db:"language_proficiency" json:"language_proficiency"`
	CommunicationSkills     *string `db:"communication_skills" json:"communication_skills"`
	IndustryBackground      *string `db:"industry_background" json:"industry_background"`
	LocationTimezone        *string `db:"location_timezone" json:"location_timezone"`
	EducationCertifications *string `db:"education_certifications" json:"education_certifications"`
	WorkStyle               *string `db:"work_style" json:"work_style"`

	Metadata *Metadata `db:"metadata" json:"metadata"`

	CandidateStatus *string `db:"candidate_status" json:"candidate_status"`
	Blacklist       bool    `db:"blacklist" json:"blacklist"`
	Hired           bool    `db:"hired" json:"hired"`

	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	LastUpdated   time.Time `db:"last_updated" json:"last_updated"`
	LastUpdatedBy *string   `db:"last_updated_by" json:"last_updated_by"`
}

// WorkPreferences holds boolean/string work-preference flags extracted from
// resume text.
type WorkPreferences struct {
	RemoteWork       bool   `json:"remote_work"`
	WorkSchedule     string `json:"work_schedule,omitempty"`
	TravelPreference string `json:"travel_preference,omitempty"`
}

// Metadata is the nested JSONB object of derived facts. Absent signals are
// omitted entirely, never serialized as null.
type Metadata struct {
	YearsOfExperience   *int             `json:"years_of_experience,omitempty"`
	SkillsList          []string         `json:"skills_list,omitempty"`
	Availability        string           `json:"availability,omitempty"`
	Certifications      []string         `json:"certifications,omitempty"`
	DesiredSalary       string           `json:"desired_salary,omitempty"`
	PreferredIndustries []string         `json:"preferred_industries,omitempty"`
	WorkPreferences     *WorkPreferences `json:"work_preferences,omitempty"`
	ExtractedAt         string           `json:"metadata_extracted_at,omitempty"`
}

// IsEmpty reports whether no heuristic produced a signal.
func (m *Metadata) IsEmpty() bool {
	return m.YearsOfExperience == nil &&
		len(m.SkillsList) == 0 &&
		m.Availability == "" &&
		len(m.Certifications) == 0 &&
		m.DesiredSalary == "" &&
		len(m.PreferredIndustries) == 0 &&
		m.WorkPreferences == nil
}

func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("metadata: cannot scan %T", src)
	}
}

// Vector is a pgvector column value. Its text form, "[v1,v2,...]", is what
// the vector type accepts on input and emits on output.
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

func (v *Vector) Scan(src interface{}) error {
	var s string
	switch t := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return fmt.Errorf("vector: cannot scan %T", src)
	}

	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		*v = Vector{}
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(Vector, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("vector: parse element: %w", err)
		}
		out = append(out, float32(f))
	}
	*v = out
	return nil
}

// FilterOptions are the distinct values the dashboard filter panel offers.
type FilterOptions struct {
	Countries  []string `json:"countries"`
	Statuses   []string `json:"statuses"`
	Accents    []string `json:"accents"`
	Industries []string `json:"industries"`
}

// StrPtr returns a pointer to s, or nil when s is empty. Upserts use it to
// keep "not specified" distinguishable from "specified as empty".
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal dereferences p, returning "" for nil.
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
