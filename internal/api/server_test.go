package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SaganOrg/candidate-finder/internal/ingest"
	"github.com/SaganOrg/candidate-finder/internal/resume"
	"github.com/SaganOrg/candidate-finder/internal/search"
	"github.com/SaganOrg/candidate-finder/internal/storage"
	"github.com/SaganOrg/candidate-finder/internal/storage/redis"
)

type stubStore struct {
	getByIDFn         func(ctx context.Context, id int64) (*storage.Candidate, error)
	createFn          func(ctx context.Context, c *storage.Candidate) (int64, error)
	updateFn          func(ctx context.Context, id int64, c *storage.Candidate) error
	deleteFn          func(ctx context.Context, id int64) error
	filterOptionsFn   func(ctx context.Context) (*storage.FilterOptions, error)
	markHiredFn       func(ctx context.Context, id int64, hired bool, userID string) error
	setBlacklistFn    func(ctx context.Context, id int64, blacklisted bool, userID string) error
	setAvailabilityFn func(ctx context.Context, id int64, status, userID string) error
}

func (s *stubStore) GetByID(ctx context.Context, id int64) (*storage.Candidate, error) {
	return s.getByIDFn(ctx, id)
}
func (s *stubStore) Create(ctx context.Context, c *storage.Candidate) (int64, error) {
	return s.createFn(ctx, c)
}
func (s *stubStore) Update(ctx context.Context, id int64, c *storage.Candidate) error {
	return s.updateFn(ctx, id, c)
}
func (s *stubStore) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}
func (s *stubStore) FilterOptions(ctx context.Context) (*storage.FilterOptions, error) {
	return s.filterOptionsFn(ctx)
}
func (s *stubStore) MarkHired(ctx context.Context, id int64, hired bool, userID string) error {
	return s.markHiredFn(ctx, id, hired, userID)
}
func (s *stubStore) SetBlacklist(ctx context.Context, id int64, blacklisted bool, userID string) error {
	return s.setBlacklistFn(ctx, id, blacklisted, userID)
}
func (s *stubStore) SetAvailability(ctx context.Context, id int64, status, userID string) error {
	return s.setAvailabilityFn(ctx, id, status, userID)
}

type stubEngine struct {
	searchFn func(ctx context.Context, q *search.Query) (*search.Result, error)
}

func (s *stubEngine) Search(ctx context.Context, q *search.Query) (*search.Result, error) {
	return s.searchFn(ctx, q)
}

type stubIngestor struct {
	previewFn  func(ctx context.Context, from, to time.Time) (*ingest.PreviewReport, error)
	transferFn func(ctx context.Context, from, to time.Time, sink ingest.Sink) error
	enrichFn   func(ctx context.Context, from, to time.Time, sink ingest.Sink) error
}

func (s *stubIngestor) Preview(ctx context.Context, from, to time.Time) (*ingest.PreviewReport, error) {
	return s.previewFn(ctx, from, to)
}
func (s *stubIngestor) Transfer(ctx context.Context, from, to time.Time, sink ingest.Sink) error {
	return s.transferFn(ctx, from, to, sink)
}
func (s *stubIngestor) Enrich(ctx context.Context, from, to time.Time, sink ingest.Sink) error {
	return s.enrichFn(ctx, from, to, sink)
}

type stubParser struct {
	parseFn func(filename string, reader io.Reader) (*resume.ParsedResume, error)
}

func (s *stubParser) ParseFile(filename string, reader io.Reader) (*resume.ParsedResume, error) {
	return s.parseFn(filename, reader)
}

// mapCache is an in-memory OptionsCache.
type mapCache struct {
	values map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{values: map[string][]byte{}}
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.values[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = data
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

const testAdminToken = "secret-token"

func newTestAPI(store *stubStore, engine *stubEngine, ingestor *stubIngestor, parser *stubParser) (*API, *mapCache) {
	cache := newMapCache()
	return NewAPI(store, engine, ingestor, parser, cache, testAdminToken, zap.NewNop()), cache
}

func doRequest(a *API, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	NewRouter(a).ServeHTTP(rec, req)
	return rec
}

func doAdminRequest(a *API, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := httptest.NewRecorder()
	NewRouter(a).ServeHTTP(rec, req)
	return rec
}

func TestSearchHandler(t *testing.T) {
	var got *search.Query
	engine := &stubEngine{searchFn: func(ctx context.Context, q *search.Query) (*search.Result, error) {
		got = q
		return &search.Result{
			Candidates: []storage.Candidate{{ID: 4}},
			TotalCount: 1,
			Page:       2,
			PageSize:   10,
		}, nil
	}}
	a, _ := newTestAPI(&stubStore{}, engine, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodGet, "/api/candidates?q=bookkeeper&country=PH&hasResume=true&page=2&pageSize=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "bookkeeper", got.Text)
	assert.Equal(t, "PH", got.Country)
	assert.True(t, got.HasResume)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 10, got.PageSize)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalCount)
	assert.Len(t, resp.Candidates, 1)
}

func TestSearchHandlerSnakeCaseParams(t *testing.T) {
	var got *search.Query
	engine := &stubEngine{searchFn: func(ctx context.Context, q *search.Query) (*search.Result, error) {
		got = q
		return &search.Result{Candidates: []storage.Candidate{}}, nil
	}}
	a, _ := newTestAPI(&stubStore{}, engine, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodGet,
		"/api/candidates?search=bookkeeper&job_roles=Accounting&has_resume=true&page_size=15", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "bookkeeper", got.Text)
	assert.Equal(t, "Accounting", got.JobRoles)
	assert.True(t, got.HasResume)
	assert.Equal(t, 15, got.PageSize)
}

func TestSearchHandlerFailureKeepsListShape(t *testing.T) {
	engine := &stubEngine{searchFn: func(ctx context.Context, q *search.Query) (*search.Result, error) {
		return nil, errors.New("db gone")
	}}
	a, _ := newTestAPI(&stubStore{}, engine, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodGet, "/api/candidates?q=anything", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Candidates)
	assert.Empty(t, resp.Candidates)
	assert.Zero(t, resp.TotalCount)
	assert.NotEmpty(t, resp.Error)
}

func TestGetCandidateHandler(t *testing.T) {
	store := &stubStore{getByIDFn: func(ctx context.Context, id int64) (*storage.Candidate, error) {
		if id == 9 {
			return &storage.Candidate{ID: 9}, nil
		}
		return nil, storage.ErrNotFound
	}}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodGet, "/api/candidates/9", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(a, http.MethodGet, "/api/candidates/10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(a, http.MethodGet, "/api/candidates/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCandidateHandler(t *testing.T) {
	store := &stubStore{
		createFn: func(ctx context.Context, c *storage.Candidate) (int64, error) { return 12, nil },
		getByIDFn: func(ctx context.Context, id int64) (*storage.Candidate, error) {
			return &storage.Candidate{ID: id}, nil
		},
	}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	body := `{"email":"new@example.com","persons_name":"New Person"}`
	rec := doRequest(a, http.MethodPost, "/api/candidates", strings.NewReader(body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created storage.Candidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(12), created.ID)
}

func TestCreateCandidateValidation(t *testing.T) {
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodPost, "/api/candidates", strings.NewReader(`{"persons_name":"No Email"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")

	rec = doRequest(a, http.MethodPost, "/api/candidates", strings.NewReader(`{"email":"x@example.com"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "persons_name")
}

func TestFilterOptionsCaching(t *testing.T) {
	calls := 0
	store := &stubStore{filterOptionsFn: func(ctx context.Context) (*storage.FilterOptions, error) {
		calls++
		return &storage.FilterOptions{Countries: []string{"PH"}}, nil
	}}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodGet, "/api/filter-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(a, http.MethodGet, "/api/filter-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, calls, "second request served from cache")
	assert.Contains(t, rec.Body.String(), "PH")
}

func TestFilterOptionsWithCacheDisabled(t *testing.T) {
	calls := 0
	store := &stubStore{filterOptionsFn: func(ctx context.Context) (*storage.FilterOptions, error) {
		calls++
		return &storage.FilterOptions{Countries: []string{"PH"}}, nil
	}}
	a := NewAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{}, redis.NewDisabled(), testAdminToken, zap.NewNop())

	rec := doRequest(a, http.MethodGet, "/api/filter-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(a, http.MethodGet, "/api/filter-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, calls, "every request hits the store without redis")
	assert.Contains(t, rec.Body.String(), "PH")
}

func TestToggleHiredHandler(t *testing.T) {
	var gotHired bool
	var gotUser string
	store := &stubStore{
		markHiredFn: func(ctx context.Context, id int64, hired bool, userID string) error {
			gotHired = hired
			gotUser = userID
			return nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*storage.Candidate, error) {
			return &storage.Candidate{ID: id, Hired: true}, nil
		},
	}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	body := `{"candidateId":5,"isHired":true,"updatedBy":"ops@sagan.com"}`
	rec := doRequest(a, http.MethodPost, "/api/candidates/toggle-hired", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotHired)
	assert.Equal(t, "ops@sagan.com", gotUser)

	var resp toggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "hired")
}

func TestToggleHiredRequiresID(t *testing.T) {
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, &stubIngestor{}, &stubParser{})
	rec := doRequest(a, http.MethodPost, "/api/candidates/toggle-hired", strings.NewReader(`{"isHired":true}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleBlacklistRejectedWhileHired(t *testing.T) {
	store := &stubStore{
		setBlacklistFn: func(ctx context.Context, id int64, blacklisted bool, userID string) error {
			return storage.ErrCandidateHired
		},
	}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	body := `{"candidateId":5,"isBlacklisted":true}`
	rec := doRequest(a, http.MethodPost, "/api/candidates/toggle-blacklist", strings.NewReader(body))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestToggleAvailabilityHandler(t *testing.T) {
	store := &stubStore{
		setAvailabilityFn: func(ctx context.Context, id int64, status, userID string) error {
			return nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*storage.Candidate, error) {
			return &storage.Candidate{ID: id}, nil
		},
	}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	body := `{"candidateId":5,"candidateStatus":"Available"}`
	rec := doRequest(a, http.MethodPost, "/api/candidates/toggle-availability", strings.NewReader(body))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(a, http.MethodPost, "/api/candidates/toggle-availability", strings.NewReader(`{"candidateId":5}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleAvailabilityRejectsBlacklisted(t *testing.T) {
	store := &stubStore{
		setAvailabilityFn: func(ctx context.Context, id int64, status, userID string) error {
			return storage.ErrCandidateBlacklisted
		},
	}
	a, _ := newTestAPI(store, &stubEngine{}, &stubIngestor{}, &stubParser{})

	body := `{"candidateId":5,"candidateStatus":"Available"}`
	rec := doRequest(a, http.MethodPost, "/api/candidates/toggle-availability", strings.NewReader(body))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	ingestor := &stubIngestor{previewFn: func(ctx context.Context, from, to time.Time) (*ingest.PreviewReport, error) {
		return &ingest.PreviewReport{TotalRecords: 3}, nil
	}}
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, ingestor, &stubParser{})

	body := `{"startDate":"2025-01-01","endDate":"2025-01-31"}`

	// no token
	rec := doRequest(a, http.MethodPost, "/api/admin/migration/preview", strings.NewReader(body))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// wrong token
	req := httptest.NewRequest(http.MethodPost, "/api/admin/migration/preview", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	NewRouter(a).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// valid token
	rec = doAdminRequest(a, "/api/admin/migration/preview", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalRecords":3`)
}

func TestMigrationWindowValidation(t *testing.T) {
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, &stubIngestor{}, &stubParser{})

	rec := doAdminRequest(a, "/api/admin/migration/preview", `{"startDate":"2025-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAdminRequest(a, "/api/admin/migration/preview", `{"startDate":"2025-02-01","endDate":"2025-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAdminRequest(a, "/api/admin/migration/preview", `{"startDate":"01/01/2025","endDate":"2025-01-31"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMigrationTransferStreams(t *testing.T) {
	var gotFrom, gotTo time.Time
	ingestor := &stubIngestor{transferFn: func(ctx context.Context, from, to time.Time, sink ingest.Sink) error {
		gotFrom, gotTo = from, to
		sink.Emit(map[string]interface{}{"type": "progress", "completed": 25, "total": 50})
		sink.Emit(map[string]interface{}{"type": "complete", "totalProcessed": 50})
		return nil
	}}
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, ingestor, &stubParser{})

	rec := doAdminRequest(a, "/api/admin/migration/transfer", `{"startDate":"2025-01-01","endDate":"2025-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	assert.Equal(t, 2025, gotFrom.Year())
	// inclusive through the end of the last day
	assert.Equal(t, 31, gotTo.Day())
	assert.Equal(t, 23, gotTo.Hour())

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "progress", first["type"])
}

func TestParseResumeHandler(t *testing.T) {
	parser := &stubParser{parseFn: func(filename string, reader io.Reader) (*resume.ParsedResume, error) {
		data, _ := io.ReadAll(reader)
		return &resume.ParsedResume{
			Filename: filename,
			FileType: ".txt",
			FileSize: int64(len(data)),
			Text:     string(data),
		}, nil
	}}
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, &stubIngestor{}, parser)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "resume.txt", "resume body text")

	req := httptest.NewRequest(http.MethodPost, "/api/candidates/parse-resume", &buf)
	req.Header.Set("Content-Type", mw)
	rec := httptest.NewRecorder()
	NewRouter(a).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp parseResumeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "resume.txt", resp.Filename)
	assert.Equal(t, "resume body text", resp.Text)
}

func newMultipart(t *testing.T, buf *bytes.Buffer, filename, content string) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return mw.FormDataContentType()
}

func TestParseResumeRequiresFile(t *testing.T) {
	a, _ := newTestAPI(&stubStore{}, &stubEngine{}, &stubIngestor{}, &stubParser{})

	rec := doRequest(a, http.MethodPost, "/api/candidates/parse-resume", strings.NewReader("not multipart"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
