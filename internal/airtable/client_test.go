package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListRecordsPagination(t *testing.T) {
	var formulas []string
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/appBase/Candidates", r.URL.Path)
		require.Equal(t, "Bearer at-key", r.Header.Get("Authorization"))
		formulas = append(formulas, r.URL.Query().Get("filterByFormula"))

		page++
		if page == 1 {
			json.NewEncoder(w).Encode(listResponse{
				Records: []Record{
					{ID: "rec1", Fields: map[string]interface{}{"Name": "A"}},
					{ID: "rec2", Fields: map[string]interface{}{"Name": "B"}},
				},
				Offset: "next-page",
			})
			return
		}
		require.Equal(t, "next-page", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(listResponse{
			Records: []Record{{ID: "rec3", Fields: map[string]interface{}{"Name": "C"}}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "at-key", "appBase", "Candidates", zap.NewNop())

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	records, err := c.ListRecords(context.Background(), from, to)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "rec3", records[2].ID)

	require.Len(t, formulas, 2)
	assert.Contains(t, formulas[0], "{Created Time}")
	assert.Contains(t, formulas[0], "2025-01-01T00:00:00Z")
	assert.Contains(t, formulas[0], "2025-01-31T23:59:59Z")
}

func TestListRecordsRetriesRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(listResponse{Records: []Record{{ID: "rec1"}}})
	}))
	defer srv.Close()

	c := New(srv.URL, "k", "appBase", "Candidates", zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := c.ListRecords(ctx, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, attempts)
}

func TestListRecordsAuthFailureDoesNotRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", "appBase", "Candidates", zap.NewNop())
	_, err := c.ListRecords(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
