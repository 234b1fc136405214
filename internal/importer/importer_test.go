package importer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/importer"
)

func seedJSON(id1, id2 string) string {
	return `[
  {
    "id": "` + id1 + `",
    "url": "https://Example.com:443",
    "title": "Example",
    "owner": "oidc:alice",
    "bugs": [
      {"id": "` + uuid.NewString() + `", "description": "Broken footer", "severity": "low"}
    ],
    "test_cases": [
      {"id": "` + uuid.NewString() + `", "description": "Home loads", "steps": "1. Open"}
    ]
  },
  {
    "id": "` + id2 + `",
    "url": "https://intranet",
    "title": "Bad host",
    "owner": "oidc:alice"
  }
]`
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportService_LocalFile(t *testing.T) {
	ctx := context.Background()
	id1, id2 := uuid.NewString(), uuid.NewString()
	path := writeSeed(t, seedJSON(id1, id2))

	memDB := database.NewMemoryDB()
	service := importer.NewService(memDB)
	require.NoError(t, service.ImportFromPath(ctx, path))

	website, err := memDB.GetWebsite(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", website.URL)
	assert.Len(t, website.Bugs, 1)
	assert.Len(t, website.TestCases, 1)
	assert.False(t, website.CreatedAt.IsZero())

	_, err = memDB.GetWebsite(ctx, id2)
	assert.ErrorIs(t, err, database.ErrNotFound, "websites with invalid URLs are skipped")

	// Importing again skips existing websites
	require.NoError(t, service.ImportFromPath(ctx, path))
	websites, _, err := memDB.ListWebsites(ctx, nil, "", 10)
	require.NoError(t, err)
	assert.Len(t, websites, 1)
}

func TestImportService_HTTPFile(t *testing.T) {
	id1 := uuid.NewString()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(seedJSON(id1, uuid.NewString())))
	}))
	defer server.Close()

	memDB := database.NewMemoryDB()
	service := importer.NewService(memDB)
	require.NoError(t, service.ImportFromPath(context.Background(), server.URL+"/seed.json"))

	_, err := memDB.GetWebsite(context.Background(), id1)
	assert.NoError(t, err)
}

func TestImportService_Errors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json")},
		{"not json", writeSeed(t, "{not json")},
		{"not an array", writeSeed(t, `{"id": "x"}`)},
		{"missing owner", writeSeed(t, `[{"id": "`+uuid.NewString()+`", "url": "https://example.com", "title": "x"}]`)},
		{"bad severity", writeSeed(t, `[{"id": "`+uuid.NewString()+`", "url": "https://example.com", "title": "x", "owner": "o",
			"bugs": [{"id": "`+uuid.NewString()+`", "description": "d", "severity": "urgent"}]}]`)},
		{"title not a string", writeSeed(t, `[{"id": "`+uuid.NewString()+`", "url": "https://example.com", "title": 42, "owner": "o"}]`)},
		{"non-uuid id", writeSeed(t, `[{"id": "42", "url": "https://example.com", "title": "x", "owner": "o"}]`)},
		{"http failure", failing.URL + "/seed.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memDB := database.NewMemoryDB()
			err := importer.NewService(memDB).ImportFromPath(context.Background(), tt.path)
			assert.Error(t, err)

			websites, _, listErr := memDB.ListWebsites(context.Background(), nil, "", 10)
			require.NoError(t, listErr)
			assert.Empty(t, websites)
		})
	}
}
