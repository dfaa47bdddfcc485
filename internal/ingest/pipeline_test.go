package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/airtable"
	"github.com/SaganOrg/candidate-finder/internal/config"
	"github.com/SaganOrg/candidate-finder/internal/extraction"
	"github.com/SaganOrg/candidate-finder/internal/storage"
)

type fakeStore struct {
	emails      map[string]struct{}
	talentIDs   map[string]struct{}
	missing     []storage.Candidate
	upserted    [][]storage.Candidate
	enrichments map[int64]*storage.Enrichment

	upsertErr     error
	upsertErrOnce bool
	saveErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		emails:      map[string]struct{}{},
		talentIDs:   map[string]struct{}{},
		enrichments: map[int64]*storage.Enrichment{},
	}
}

func (f *fakeStore) UpsertBatch(ctx context.Context, batch []storage.Candidate) error {
	if f.upsertErr != nil {
		err := f.upsertErr
		if f.upsertErrOnce {
			f.upsertErr = nil
		}
		return err
	}
	f.upserted = append(f.upserted, batch)
	return nil
}

func (f *fakeStore) ExistingEmails(ctx context.Context) (map[string]struct{}, error) {
	return f.emails, nil
}

func (f *fakeStore) ExistingTalentIDs(ctx context.Context) (map[string]struct{}, error) {
	return f.talentIDs, nil
}

func (f *fakeStore) ListMissingEmbedding(ctx context.Context, from, to time.Time) ([]storage.Candidate, error) {
	return f.missing, nil
}

func (f *fakeStore) SaveEnrichment(ctx context.Context, id int64, e *storage.Enrichment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.enrichments[id] = e
	return nil
}

type fakeLister struct {
	records []airtable.Record
	err     error
}

func (f *fakeLister) ListRecords(ctx context.Context, from, to time.Time) ([]airtable.Record, error) {
	return f.records, f.err
}

type fakeExtractor struct {
	profile *extraction.Profile
	err     error
}

func (f *fakeExtractor) ExtractProfile(ctx context.Context, content string) (*extraction.Profile, error) {
	if f.err != nil {
		return &extraction.Profile{}, f.err
	}
	return f.profile, nil
}

type fakeEmbedder struct {
	vector []float32
	inputs []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) []float32 {
	f.inputs = append(f.inputs, text)
	return f.vector
}

type memorySink struct {
	events []interface{}
}

func (m *memorySink) Emit(event interface{}) error {
	m.events = append(m.events, event)
	return nil
}

func testPipeline(t *testing.T, store *fakeStore, lister *fakeLister, extractor *fakeExtractor, embedder *fakeEmbedder) *Pipeline {
	t.Helper()
	cfg := &config.Config{TransferBatchSize: 2}
	p, err := NewPipeline(cfg, store, lister, extractor, embedder, zap.NewNop())
	require.NoError(t, err)
	return p
}

func record(id, name, email string) airtable.Record {
	fields := map[string]interface{}{}
	if name != "" {
		fields["Name"] = name
	}
	if email != "" {
		fields["Candidate Email"] = email
	}
	return airtable.Record{ID: id, CreatedTime: time.Now(), Fields: fields}
}

func TestPreviewPartition(t *testing.T) {
	store := newFakeStore()
	store.emails["known@example.com"] = struct{}{}
	store.talentIDs["recDupID"] = struct{}{}

	lister := &fakeLister{records: []airtable.Record{
		record("recNew1", "Alice", "alice@example.com"),
		// duplicate talent ID wins even though the email is also known
		record("recDupID", "Bob", "known@example.com"),
		record("recDupEmail", "Carol", "Known@Example.com"),
		record("recNew2", "Dave", ""),
	}}

	p := testPipeline(t, store, lister, &fakeExtractor{}, &fakeEmbedder{})
	report, err := p.Preview(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalRecords)
	assert.Equal(t, 1, report.DuplicateTalentIDs)
	assert.Equal(t, 1, report.DuplicateEmails, "email match is case-insensitive")
	assert.Equal(t, 2, report.NewRecords)
	// every record lands in exactly one bucket
	assert.Equal(t, report.TotalRecords, report.NewRecords+report.DuplicateEmails+report.DuplicateTalentIDs)

	assert.Equal(t, 3, report.RecordsWithEmail)
	assert.Equal(t, 3, report.ValidRecords)
	require.NotNil(t, report.Sample)
	assert.Equal(t, "recNew1", report.Sample.TalentID)
	assert.Len(t, report.Duplicates.EmailDuplicates, 1)
	assert.Len(t, report.Duplicates.TalentIDDuplicates, 1)
}

func TestPreviewEmptyWindow(t *testing.T) {
	p := testPipeline(t, newFakeStore(), &fakeLister{}, &fakeExtractor{}, &fakeEmbedder{})
	report, err := p.Preview(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalRecords)
	assert.Nil(t, report.Sample)
}

func TestTransferBatchesInOrder(t *testing.T) {
	store := newFakeStore()
	lister := &fakeLister{records: []airtable.Record{
		record("rec1", "A", "a@example.com"),
		record("rec2", "B", "b@example.com"),
		record("rec3", "C", "c@example.com"),
		record("rec4", "D", "d@example.com"),
		record("rec5", "E", "e@example.com"),
	}}

	p := testPipeline(t, store, lister, &fakeExtractor{}, &fakeEmbedder{})
	sink := &memorySink{}
	require.NoError(t, p.Transfer(context.Background(), time.Now().Add(-time.Hour), time.Now(), sink))

	require.Len(t, store.upserted, 3)
	assert.Equal(t, "rec1", store.upserted[0][0].TalentID)
	assert.Equal(t, "rec2", store.upserted[0][1].TalentID)
	assert.Equal(t, "rec5", store.upserted[2][0].TalentID)

	require.Len(t, sink.events, 4)
	first := sink.events[0].(TransferProgress)
	assert.Equal(t, "progress", first.Type)
	assert.Equal(t, 2, first.Completed)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 1, first.CurrentBatch)
	assert.Equal(t, 3, first.TotalBatches)

	last := sink.events[3].(TransferComplete)
	assert.Equal(t, "complete", last.Type)
	assert.Equal(t, 5, last.TotalProcessed)
	assert.Equal(t, 5, last.TotalRecords)
}

func TestTransferContinuesAfterBatchFailure(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("deadlock detected")
	store.upsertErrOnce = true

	lister := &fakeLister{records: []airtable.Record{
		record("rec1", "A", "a@example.com"),
		record("rec2", "B", "b@example.com"),
		record("rec3", "C", "c@example.com"),
	}}

	p := testPipeline(t, store, lister, &fakeExtractor{}, &fakeEmbedder{})
	sink := &memorySink{}
	require.NoError(t, p.Transfer(context.Background(), time.Now().Add(-time.Hour), time.Now(), sink))

	// first batch failed, second succeeded
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "rec3", store.upserted[0][0].TalentID)

	errEvent := sink.events[0].(ErrorEvent)
	assert.Equal(t, "error", errEvent.Type)
	assert.Contains(t, errEvent.Message, "Batch 1")

	complete := sink.events[len(sink.events)-1].(TransferComplete)
	assert.Equal(t, 1, complete.TotalProcessed)
	assert.Equal(t, 3, complete.TotalRecords)
}

func TestEnrich(t *testing.T) {
	skills := "Excel, QuickBooks"
	store := newFakeStore()
	store.missing = []storage.Candidate{
		{ID: 1, PersonsName: storage.StrPtr("Alice"), ResumeText: storage.StrPtr("An experienced bookkeeper with 5 years of experience in QuickBooks and Excel reconciliation work")},
	}
	extractor := &fakeExtractor{profile: &extraction.Profile{SkillsTechnical: &skills}}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}

	p := testPipeline(t, store, &fakeLister{}, extractor, embedder)
	sink := &memorySink{}
	require.NoError(t, p.Enrich(context.Background(), time.Now().Add(-time.Hour), time.Now(), sink))

	e := store.enrichments[1]
	require.NotNil(t, e)
	assert.Equal(t, skills, storage.StrVal(e.SkillsTechnical))
	require.NotNil(t, e.Metadata)
	require.NotNil(t, e.Metadata.YearsOfExperience)
	assert.Equal(t, 5, *e.Metadata.YearsOfExperience)
	assert.Equal(t, storage.Vector{0.1, 0.2}, e.Embedding)

	require.Len(t, embedder.inputs, 1)
	assert.Contains(t, embedder.inputs[0], "Technical Skills: Excel, QuickBooks")

	progress := sink.events[0].(EnrichProgress)
	assert.Equal(t, "Alice", progress.CurrentCandidate)
	assert.Equal(t, 1, progress.Successful)

	complete := sink.events[len(sink.events)-1].(EnrichComplete)
	assert.Equal(t, 1, complete.TotalSuccessful)
	assert.Equal(t, 0, complete.TotalFailed)
}

func TestEnrichDegradesOnLLMFailure(t *testing.T) {
	store := newFakeStore()
	store.missing = []storage.Candidate{
		{ID: 7, ResumeText: storage.StrPtr("Senior accountant with 10 years of experience preparing monthly financial statements in Excel")},
	}
	extractor := &fakeExtractor{err: errors.New("model overloaded")}
	embedder := &fakeEmbedder{vector: []float32{0.3}}

	p := testPipeline(t, store, &fakeLister{}, extractor, embedder)
	sink := &memorySink{}
	require.NoError(t, p.Enrich(context.Background(), time.Now().Add(-time.Hour), time.Now(), sink))

	// heuristics still ran and were saved
	e := store.enrichments[7]
	require.NotNil(t, e)
	assert.Nil(t, e.SkillsTechnical)
	require.NotNil(t, e.Metadata.YearsOfExperience)
	assert.Equal(t, 10, *e.Metadata.YearsOfExperience)

	complete := sink.events[len(sink.events)-1].(EnrichComplete)
	assert.Equal(t, 1, complete.TotalSuccessful)
}

func TestEnrichReportsUnusableRecord(t *testing.T) {
	store := newFakeStore()
	store.missing = []storage.Candidate{{ID: 3, PersonsName: storage.StrPtr("Empty")}}

	p := testPipeline(t, store, &fakeLister{}, &fakeExtractor{profile: &extraction.Profile{}}, &fakeEmbedder{})
	sink := &memorySink{}
	require.NoError(t, p.Enrich(context.Background(), time.Now().Add(-time.Hour), time.Now(), sink))

	errEvent := sink.events[0].(ErrorEvent)
	assert.Contains(t, errEvent.Message, "Candidate 3")

	complete := sink.events[len(sink.events)-1].(EnrichComplete)
	assert.Equal(t, 1, complete.TotalProcessed)
	assert.Equal(t, 0, complete.TotalSuccessful)
	assert.Equal(t, 1, complete.TotalFailed)
}
