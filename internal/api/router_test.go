package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michaelscutari/filetally/internal/record"
	"github.com/michaelscutari/filetally/internal/source"
)

func get(t *testing.T, h http.Handler, path string) (int, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestAggregateEndpoints(t *testing.T) {
	router := NewRouter(source.Sample())

	code, body := get(t, router, "/api/v1/leaves?sort=name")
	require.Equal(t, http.StatusOK, code)
	require.True(t, body.Success)
	leaves := body.Data.([]any)
	require.Len(t, leaves, 9)
	require.Equal(t, "Audio.mp3", leaves[0])

	code, body = get(t, router, "/api/v1/categories")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"Documents", "Folder", "Media"}, body.Data)

	code, body = get(t, router, "/api/v1/categories?k=1")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{"Documents"}, body.Data)

	code, body = get(t, router, "/api/v1/largest")
	require.Equal(t, http.StatusOK, code)
	largest := body.Data.(map[string]any)
	require.EqualValues(t, 20992, largest["total_size"])
	require.EqualValues(t, 3, largest["record_id"])
	require.Equal(t, "Folder", largest["name"])

	code, body = get(t, router, "/api/v1/rollups/34")
	require.Equal(t, http.StatusOK, code)
	rollup := body.Data.(map[string]any)
	require.EqualValues(t, 10752, rollup["total_size"])
	require.EqualValues(t, 3, rollup["descendants"])
	require.Equal(t, "internal", rollup["kind"])
}

func TestRequestErrors(t *testing.T) {
	router := NewRouter(source.Sample())

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/categories?k=-1", http.StatusBadRequest},
		{"/api/v1/categories?k=three", http.StatusBadRequest},
		{"/api/v1/rollups/abc", http.StatusBadRequest},
		{"/api/v1/rollups/404", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, router, tt.path)
			require.Equal(t, tt.code, code)
			require.False(t, body.Success)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestMalformedHierarchyIsUnprocessable(t *testing.T) {
	router := NewRouter([]record.FileRecord{
		{ID: 1, Name: "a", Parent: record.ParentOf(2)},
		{ID: 2, Name: "b", Parent: record.ParentOf(1)},
	})

	for _, path := range []string{"/api/v1/leaves", "/api/v1/largest", "/api/v1/rollups/1"} {
		code, body := get(t, router, path)
		require.Equal(t, http.StatusUnprocessableEntity, code, path)
		require.Contains(t, body.Message, "malformed hierarchy")
	}

	// Categories never need the tree.
	code, _ := get(t, router, "/api/v1/categories")
	require.Equal(t, http.StatusOK, code)
}

func TestEmptyRecordSet(t *testing.T) {
	router := NewRouter(nil)

	code, body := get(t, router, "/api/v1/largest")
	require.Equal(t, http.StatusOK, code)
	empty := body.Data.(map[string]any)
	require.Equal(t, false, empty["found"])
	require.EqualValues(t, 0, empty["total_size"])

	code, body = get(t, router, "/health")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(source.Sample())
	get(t, router, "/api/v1/leaves")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "filetally_http_requests_total")
}

func TestLargestKeepsZeroIDAndEmptyName(t *testing.T) {
	router := NewRouter([]record.FileRecord{
		{ID: 0, Name: "", Parent: record.TopLevel(), Size: 9},
		{ID: 1, Name: "small", Parent: record.TopLevel(), Size: 1},
	})

	code, body := get(t, router, "/api/v1/largest")
	require.Equal(t, http.StatusOK, code)
	largest := body.Data.(map[string]any)
	require.Equal(t, true, largest["found"])
	require.Contains(t, largest, "record_id")
	require.EqualValues(t, 0, largest["record_id"])
	require.Contains(t, largest, "name")
	require.Equal(t, "", largest["name"])
	require.EqualValues(t, 9, largest["total_size"])
}
