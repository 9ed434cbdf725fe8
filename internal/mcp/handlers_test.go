package mcp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standards-dev/tenets/internal/cache"
	"github.com/standards-dev/tenets/internal/corpus"
)

func fixtureCache(t *testing.T) *cache.MetadataCache {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"tenets/simplicity.md": `---
id: simplicity
---
# Prefer Simplicity

Complexity must justify itself.

## Rationale

Simple systems fail simply.
`,
		"tenets/testing-best-practices.md": `---
id: testing-best-practices
---
# Testing Best Practices

Every change ships with coverage.
`,
		"bindings/categories/go/error-wrapping.md": `---
id: error-wrapping
---
# Wrap Errors With Context

Use %w everywhere.
`,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	c, err := cache.New(cache.Config{
		Discover: corpus.DirDiscoverer(root),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c
}

func TestListCategoriesHandler(t *testing.T) {
	handler := makeListCategoriesHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, ListCategoriesInput{})
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "go"}, out.Categories)
	assert.Equal(t, 2, out.Count)
}

func TestListDocsHandler(t *testing.T) {
	handler := makeListDocsHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, ListDocsInput{Category: "core"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "simplicity", out.Documents[0].ID)
	assert.Equal(t, "testing-best-practices", out.Documents[1].ID)
	assert.Equal(t, "tenet", out.Documents[0].Type)
}

func TestListDocsHandler_UnknownCategory(t *testing.T) {
	handler := makeListDocsHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, ListDocsInput{Category: "rust"})
	require.NoError(t, err, "unknown category is empty, not an error")
	assert.Zero(t, out.Count)
	assert.Empty(t, out.Documents)
}

func TestGetDocHandler(t *testing.T) {
	handler := makeGetDocHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, GetDocInput{ID: "simplicity"})
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.Equal(t, "Prefer Simplicity", out.Document.Title)
	assert.Contains(t, out.Preview, "Complexity must justify itself")
	assert.Contains(t, out.Sections, "Rationale")
}

func TestGetDocHandler_NotFound(t *testing.T) {
	handler := makeGetDocHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, GetDocInput{ID: "no-such-doc"})
	require.NoError(t, err, "a missing document is a negative result, not an error")
	assert.False(t, out.Found)
	assert.Empty(t, out.Document.ID)
}

func TestSearchHandler_RankedResults(t *testing.T) {
	handler := makeSearchHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, SearchDocsInput{Query: "Testing"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)

	assert.Equal(t, "Testing Best Practices", out.Results[0].Document.Title)
	assert.Equal(t, 1.0, out.Results[0].Score)
	assert.Empty(t, out.Message)
}

func TestSearchHandler_MaxResults(t *testing.T) {
	handler := makeSearchHandler(fixtureCache(t))

	// "md" is a substring of nothing useful; use a query matching
	// several documents and cap at one.
	_, out, err := handler(context.Background(), nil, SearchDocsInput{Query: "e", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, out.Results, 1)
}

func TestSearchHandler_SuggestsCorrections(t *testing.T) {
	handler := makeSearchHandler(fixtureCache(t))

	// Close to the error-wrapping document ID but not to any title word,
	// so the search finds nothing and the corrector kicks in.
	_, out, err := handler(context.Background(), nil, SearchDocsInput{Query: "error-wraping"})
	require.NoError(t, err)

	assert.Empty(t, out.Results)
	assert.Contains(t, out.Suggestions, "error-wrapping")
	assert.Contains(t, out.Message, "Did you mean")
}

func TestSearchHandler_NoMatchNoSuggestion(t *testing.T) {
	handler := makeSearchHandler(fixtureCache(t))

	_, out, err := handler(context.Background(), nil, SearchDocsInput{Query: "zzzzzzzz"})
	require.NoError(t, err)

	assert.Empty(t, out.Results)
	assert.Empty(t, out.Suggestions)
	assert.Contains(t, out.Message, "broader search terms")
}

func TestCacheStatsHandler(t *testing.T) {
	c := fixtureCache(t)

	// Two queries: the first scans all three files, the second is a hit.
	listDocs := makeListDocsHandler(c)
	_, _, err := listDocs(context.Background(), nil, ListDocsInput{Category: "core"})
	require.NoError(t, err)
	_, _, err = listDocs(context.Background(), nil, ListDocsInput{Category: "go"})
	require.NoError(t, err)

	handler := makeCacheStatsHandler(c)
	_, out, err := handler(context.Background(), nil, CacheStatsInput{})
	require.NoError(t, err)

	assert.Equal(t, 1, out.HitCount)
	assert.Equal(t, 3, out.MissCount)
	assert.Equal(t, 3, out.ScanCount)
	assert.Equal(t, 3, out.DocumentCount)
	assert.Equal(t, 2, out.CategoryCount)
	assert.Equal(t, 3, out.FilesScanned)
	assert.Positive(t, out.MemoryUsage)
	assert.False(t, out.CacheWarm)
}
