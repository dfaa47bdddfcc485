package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxDuplicateExamples = 5

// DuplicateExample identifies one skipped source record.
type DuplicateExample struct {
	TalentID string `json:"airtableId"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// SampleRecord is the first new record found, shown so the operator can
// sanity-check the window before transferring.
type SampleRecord struct {
	TalentID    string    `json:"airtableId"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	HasResume   bool      `json:"hasResume"`
	CreatedTime time.Time `json:"createdTime"`
}

// DuplicateInfo lists a few examples of each duplicate class alongside the
// full counts.
type DuplicateInfo struct {
	EmailDuplicates      []DuplicateExample `json:"emailDuplicates"`
	TalentIDDuplicates   []DuplicateExample `json:"airtableIdDuplicates"`
	TotalEmailDuplicates int                `json:"totalEmailDuplicates"`
	TotalIDDuplicates    int                `json:"totalAirtableIdDuplicates"`
}

// PreviewReport summarizes what a transfer over the same window would do.
// Every source record lands in exactly one of: duplicate talent ID,
// duplicate email, or new.
type PreviewReport struct {
	TotalRecords       int           `json:"totalRecords"`
	ValidRecords       int           `json:"validRecords"`
	RecordsWithResume  int           `json:"recordsWithResume"`
	RecordsWithEmail   int           `json:"recordsWithEmail"`
	NewRecords         int           `json:"newRecords"`
	DuplicateEmails    int           `json:"duplicateEmails"`
	DuplicateTalentIDs int           `json:"duplicateAirtableIds"`
	EstimatedSeconds   int           `json:"estimatedTime"`
	Sample             *SampleRecord `json:"sampleRecord"`
	Duplicates         DuplicateInfo `json:"duplicateInfo"`
}

// Preview analyzes the window without writing anything. Duplicate talent ID
// takes precedence over duplicate email when a record is both.
func (p *Pipeline) Preview(ctx context.Context, from, to time.Time) (*PreviewReport, error) {
	records, err := p.source.ListRecords(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}

	report := &PreviewReport{
		Duplicates: DuplicateInfo{
			EmailDuplicates:    []DuplicateExample{},
			TalentIDDuplicates: []DuplicateExample{},
		},
	}
	if len(records) == 0 {
		return report, nil
	}

	existingEmails, err := p.store.ExistingEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing emails: %w", err)
	}
	existingIDs, err := p.store.ExistingTalentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing talent ids: %w", err)
	}

	for _, rec := range records {
		report.TotalRecords++

		name := fieldText(rec.Fields, "Name")
		email := fieldText(rec.Fields, "Candidate Email")
		hasResume := fieldText(rec.Fields, "Resume Link") != "" || fieldText(rec.Fields, "Text Resume") != ""

		if hasResume {
			report.RecordsWithResume++
		}
		if email != "" {
			report.RecordsWithEmail++
		}
		if email != "" && name != "" {
			report.ValidRecords++
		}

		if _, dup := existingIDs[rec.ID]; dup {
			report.DuplicateTalentIDs++
			if len(report.Duplicates.TalentIDDuplicates) < maxDuplicateExamples {
				report.Duplicates.TalentIDDuplicates = append(report.Duplicates.TalentIDDuplicates,
					DuplicateExample{TalentID: rec.ID, Name: name, Email: email})
			}
			continue
		}

		if email != "" {
			if _, dup := existingEmails[strings.ToLower(email)]; dup {
				report.DuplicateEmails++
				if len(report.Duplicates.EmailDuplicates) < maxDuplicateExamples {
					report.Duplicates.EmailDuplicates = append(report.Duplicates.EmailDuplicates,
						DuplicateExample{TalentID: rec.ID, Name: name, Email: email})
				}
				continue
			}
		}

		report.NewRecords++
		if report.Sample == nil {
			report.Sample = &SampleRecord{
				TalentID:    rec.ID,
				Name:        name,
				Email:       email,
				HasResume:   hasResume,
				CreatedTime: rec.CreatedTime,
			}
		}
	}

	report.Duplicates.TotalEmailDuplicates = report.DuplicateEmails
	report.Duplicates.TotalIDDuplicates = report.DuplicateTalentIDs

	// fetch + transform + embeddings, roughly 100s per 1000 new records
	report.EstimatedSeconds = (report.NewRecords*100 + 999) / 1000

	p.logger.Info("preview complete",
		zap.Int("total", report.TotalRecords),
		zap.Int("new", report.NewRecords),
		zap.Int("duplicate_emails", report.DuplicateEmails),
		zap.Int("duplicate_talent_ids", report.DuplicateTalentIDs),
	)
	return report, nil
}

func fieldText(fields map[string]interface{}, column string) string {
	v := fieldString(fields, column)
	if v == nil {
		return ""
	}
	return *v
}
