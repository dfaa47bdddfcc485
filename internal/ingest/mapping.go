package ingest

import (
	"fmt"
	"strings"

	"github.com/SaganOrg/candidate-finder/internal/airtable"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

// FieldRule binds one Airtable column to one candidate field. A non-empty
// Fallback column is read when the primary column is absent.
type FieldRule struct {
	Column   string
	Fallback string
	Assign   func(c *storage.Candidate, value *string)
}

// Mapping is the versioned column dictionary used by the transfer phase.
// Changing a source column name is a mapping change, not a code change
// scattered across the pipeline.
type Mapping struct {
	Version int
	Rules   []FieldRule
}

// DefaultMapping matches the current Airtable base layout.
func DefaultMapping() Mapping {
	return Mapping{
		Version: 1,
		Rules: []FieldRule{
			{Column: "Name", Fallback: "Your Full Name", Assign: func(c *storage.Candidate, v *string) { c.PersonsName = v }},
			{Column: "Text Resume", Assign: func(c *storage.Candidate, v *string) {
				c.Content = v
				c.ResumeText = v
			}},
			{Column: "Candidate Country", Assign: func(c *storage.Candidate, v *string) { c.Country = v }},
			{Column: "Rate", Assign: func(c *storage.Candidate, v *string) { c.DesiredRate = v }},
			{Column: "Resume Link", Assign: func(c *storage.Candidate, v *string) { c.ResumeLink = v }},
			{Column: "Candidate Summary", Assign: func(c *storage.Candidate, v *string) { c.CandidateBio = v }},
			{Column: "Job Title Originally Applied To", Assign: func(c *storage.Candidate, v *string) {
				c.CandidateJobTitle = v
				c.JobApplyingTo = v
			}},
			{Column: "Candidate Email", Assign: func(c *storage.Candidate, v *string) { c.Email = v }},
			{Column: "LinkedIn URL", Assign: func(c *storage.Candidate, v *string) { c.LinkedinLink = v }},
			{Column: "Video Introduction Google Drive", Assign: func(c *storage.Candidate, v *string) { c.VideoLink = v }},
			{Column: "Voice Link Field", Assign: func(c *storage.Candidate, v *string) { c.VoiceLink = v }},
		},
	}
}

// Validate fails fast on a malformed mapping so a bad deploy is caught at
// startup rather than mid-transfer.
func (m Mapping) Validate() error {
	if len(m.Rules) == 0 {
		return fmt.Errorf("mapping v%d has no rules", m.Version)
	}
	seen := make(map[string]struct{})
	for i, rule := range m.Rules {
		if strings.TrimSpace(rule.Column) == "" {
			return fmt.Errorf("mapping v%d: rule %d has empty column", m.Version, i)
		}
		if rule.Assign == nil {
			return fmt.Errorf("mapping v%d: rule for %q has no target", m.Version, rule.Column)
		}
		if _, dup := seen[rule.Column]; dup {
			return fmt.Errorf("mapping v%d: duplicate column %q", m.Version, rule.Column)
		}
		seen[rule.Column] = struct{}{}
	}
	return nil
}

// MapRecord converts one Airtable record into a candidate row. The record
// ID becomes the talent_id. Absent or non-string columns map to nil, never
// to an empty string.
func (m Mapping) MapRecord(rec airtable.Record) storage.Candidate {
	c := storage.Candidate{
		TalentID:  rec.ID,
		CreatedAt: rec.CreatedTime,
	}
	for _, rule := range m.Rules {
		value := fieldString(rec.Fields, rule.Column)
		if value == nil && rule.Fallback != "" {
			value = fieldString(rec.Fields, rule.Fallback)
		}
		rule.Assign(&c, value)
	}
	return c
}

func fieldString(fields map[string]interface{}, column string) *string {
	raw, ok := fields[column]
	if !ok || raw == nil {
		return nil
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		s = fmt.Sprintf("%v", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
