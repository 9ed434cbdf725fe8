package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standards-dev/tenets/internal/corpus"
)

// searchCorpus writes a small fixed corpus and returns a cache over it.
func searchCorpus(t *testing.T) *MetadataCache {
	t.Helper()
	root := t.TempDir()
	writeCorpusFile(t, root, "tenets/testing-best-practices.md", `# Testing Best Practices

Every change ships with coverage for its behavior.
`)
	writeCorpusFile(t, root, "tenets/tesitng-document.md", `# Tesitng Document

A deliberately misspelled fixture.
`)
	writeCorpusFile(t, root, "bindings/categories/go/error-handling.md", `# Error Handling

Wrap every failure with hexagonal architecture context.
`)
	return newTestCache(t, Config{Discover: corpus.DirDiscoverer(root)})
}

func TestSearch_ExactTitleOutranksFuzzy(t *testing.T) {
	c := searchCorpus(t)

	results, err := c.Search("Testing")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Testing Best Practices", results[0].Document.Title)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Contains(t, results[0].Matches, "title")

	for _, r := range results[1:] {
		assert.Less(t, r.Score, results[0].Score,
			"fuzzy matches must score strictly below the exact match")
	}
}

func TestSearch_ToleratesTransposition(t *testing.T) {
	c := searchCorpus(t)

	results, err := c.Search("Tesitng")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// "Tesitng Document" contains the query verbatim; "Testing Best
	// Practices" is reached through the two-edit fuzzy match.
	titles := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.Document.Title)
	}
	assert.Contains(t, titles, "Testing Best Practices")

	for _, r := range results {
		if r.Document.Title == "Testing Best Practices" {
			assert.Greater(t, r.Score, 0.0)
			assert.Less(t, r.Score, exactContentScore)
			assert.Contains(t, r.Matches, "fuzzy-word")
		}
	}
}

func TestSearch_ImplausibleQueryMatchesNothing(t *testing.T) {
	c := searchCorpus(t)

	results, err := c.Search("xyz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ContentMatch(t *testing.T) {
	c := searchCorpus(t)

	results, err := c.Search("hexagonal")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Error Handling", results[0].Document.Title)
	assert.Equal(t, exactContentScore, results[0].Score)
	assert.Contains(t, results[0].Matches, "content")
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := searchCorpus(t)

	before := c.PerformanceStats()

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := c.Search(q)
		require.NoError(t, err)
		assert.Empty(t, results)
	}

	// A blank query short-circuits before the index is even consulted.
	after := c.PerformanceStats()
	assert.Equal(t, before.HitCount, after.HitCount)
	assert.Equal(t, before.MissCount, after.MissCount)
}

func TestSuggestCorrections(t *testing.T) {
	c := searchCorpus(t)

	// Populate the index first; suggestions read whatever is cached.
	_, err := c.Search("warm")
	require.NoError(t, err)

	suggestions := c.SuggestCorrections("Tesitng", 0)
	assert.Contains(t, suggestions, "testing")
	assert.LessOrEqual(t, len(suggestions), DefaultSuggestionLimit)

	assert.Nil(t, c.SuggestCorrections("ab", 5), "queries under three characters are not corrected")
	assert.Empty(t, c.SuggestCorrections("zzzzzzzz", 5), "far-off queries yield nothing")
}

func TestSuggestCorrections_RespectsLimit(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "tenets/binding-one.md", "# Binding One\n")
	writeCorpusFile(t, root, "tenets/binding-two.md", "# Binding Two\n")
	writeCorpusFile(t, root, "tenets/bindings-all.md", "# Bindings All\n")
	c := newTestCache(t, Config{Discover: corpus.DirDiscoverer(root)})

	_, err := c.Search("anything")
	require.NoError(t, err)

	suggestions := c.SuggestCorrections("bindng", 1)
	assert.Len(t, suggestions, 1)
}
