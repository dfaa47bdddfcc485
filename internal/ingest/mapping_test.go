package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaganOrg/candidate-finder/internal/airtable"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

func TestDefaultMappingValid(t *testing.T) {
	require.NoError(t, DefaultMapping().Validate())
}

func TestMappingValidateRejectsDuplicates(t *testing.T) {
	m := Mapping{
		Version: 2,
		Rules: []FieldRule{
			{Column: "Name", Assign: func(c *storage.Candidate, v *string) { c.PersonsName = v }},
			{Column: "Name", Assign: func(c *storage.Candidate, v *string) { c.Email = v }},
		},
	}
	assert.Error(t, m.Validate())
}

func TestMappingValidateRejectsEmptyColumn(t *testing.T) {
	m := Mapping{Rules: []FieldRule{{Column: "  ", Assign: func(c *storage.Candidate, v *string) {}}}}
	assert.Error(t, m.Validate())

	m = Mapping{Rules: []FieldRule{{Column: "Name"}}}
	assert.Error(t, m.Validate())
}

func TestMapRecord(t *testing.T) {
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := airtable.Record{
		ID:          "recABC123",
		CreatedTime: created,
		Fields: map[string]interface{}{
			"Name":                            "Jane Doe",
			"Text Resume":                     "resume body",
			"Candidate Country":               "Philippines",
			"Rate":                            "$8/hr",
			"Candidate Email":                 "jane@example.com",
			"Job Title Originally Applied To": "Bookkeeper",
		},
	}

	c := DefaultMapping().MapRecord(rec)

	assert.Equal(t, "recABC123", c.TalentID)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, "Jane Doe", storage.StrVal(c.PersonsName))
	assert.Equal(t, "resume body", storage.StrVal(c.Content))
	assert.Equal(t, "resume body", storage.StrVal(c.ResumeText))
	assert.Equal(t, "Philippines", storage.StrVal(c.Country))
	assert.Equal(t, "$8/hr", storage.StrVal(c.DesiredRate))
	assert.Equal(t, "jane@example.com", storage.StrVal(c.Email))
	assert.Equal(t, "Bookkeeper", storage.StrVal(c.CandidateJobTitle))
	assert.Equal(t, "Bookkeeper", storage.StrVal(c.JobApplyingTo))
}

func TestMapRecordAbsentFieldsAreNil(t *testing.T) {
	c := DefaultMapping().MapRecord(airtable.Record{
		ID:     "recEmpty",
		Fields: map[string]interface{}{"Candidate Country": "   "},
	})
	assert.Nil(t, c.PersonsName)
	assert.Nil(t, c.Email)
	assert.Nil(t, c.Content)
	assert.Nil(t, c.Country, "whitespace-only values map to nil")
}

func TestMapRecordNameFallback(t *testing.T) {
	c := DefaultMapping().MapRecord(airtable.Record{
		ID:     "recFallback",
		Fields: map[string]interface{}{"Your Full Name": "John Smith"},
	})
	assert.Equal(t, "John Smith", storage.StrVal(c.PersonsName))
}

func TestMapRecordNumericField(t *testing.T) {
	c := DefaultMapping().MapRecord(airtable.Record{
		ID:     "recNum",
		Fields: map[string]interface{}{"Rate": float64(8.5)},
	})
	assert.Equal(t, "8.5", storage.StrVal(c.DesiredRate))
}
