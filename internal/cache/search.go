package cache

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/standards-dev/tenets/internal/corpus"
)

// SearchResult is a single ranked search hit.
type SearchResult struct {
	Document corpus.Document
	Score    float64
	// Matches names the fields that contributed to the score
	// ("title", "title-word", "id", "content", "fuzzy-title", "fuzzy-word").
	Matches []string
}

// Relevance tiers. Any exact substring match outranks any fuzzy match;
// fuzzy scores scale with edit distance below fuzzyCeiling.
const (
	exactTitleScore   = 1.0
	exactWordScore    = 0.9
	exactIDScore      = 0.85
	exactContentScore = 0.75
	fuzzyCeiling      = 0.6

	// maxDistanceRatio bounds fuzzy tolerance relative to query length;
	// beyond it a term is judged implausible and contributes nothing.
	maxDistanceRatio = 0.4

	// minSuggestQueryLen is the shortest query worth correcting.
	minSuggestQueryLen = 3
)

// DefaultSuggestionLimit caps SuggestCorrections results when the caller
// passes a non-positive limit.
const DefaultSuggestionLimit = 5

// Search answers a full-text fuzzy query with relevance-scored results,
// refreshing the index first if stale. An empty query returns no results
// without error. Results are sorted by descending score, ties broken by path.
func (c *MetadataCache) Search(query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if err := c.refresh(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	q := strings.ToLower(query)
	var results []SearchResult
	for _, key := range c.index.Keys() {
		e, ok := c.index.Peek(key)
		if !ok {
			continue
		}
		doc, err := c.materialize(e)
		if err != nil {
			continue
		}
		score, matches := scoreDocument(q, doc)
		if score <= 0 {
			continue
		}
		results = append(results, SearchResult{Document: doc, Score: score, Matches: matches})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.Path < results[j].Document.Path
	})

	// Returned documents count as accessed for eviction ordering.
	for _, r := range results {
		c.index.Get(r.Document.Path)
	}

	return results, nil
}

// SuggestCorrections returns up to limit corpus terms closest to a query
// that found nothing. Queries shorter than three characters, or too far
// from every real term, yield no suggestions.
func (c *MetadataCache) SuggestCorrections(query string, limit int) []string {
	query = strings.TrimSpace(strings.ToLower(query))
	if len(query) < minSuggestQueryLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	type candidate struct {
		term string
		dist int
	}
	bound := maxDistance(query)
	best := map[string]int{}

	consider := func(term string) {
		term = strings.ToLower(term)
		if len(term) < minSuggestQueryLen || term == query {
			return
		}
		dist := levenshtein.ComputeDistance(query, term)
		if dist > bound {
			return
		}
		if prev, ok := best[term]; !ok || dist < prev {
			best[term] = dist
		}
	}

	for _, key := range c.index.Keys() {
		e, ok := c.index.Peek(key)
		if !ok {
			continue
		}
		consider(e.doc.ID)
		for _, word := range strings.Fields(e.doc.Title) {
			consider(strings.Trim(word, ".,:;!?"))
		}
	}

	candidates := make([]candidate, 0, len(best))
	for term, dist := range best {
		candidates = append(candidates, candidate{term, dist})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].term < candidates[j].term
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	terms := make([]string, len(candidates))
	for i, cand := range candidates {
		terms[i] = cand.term
	}
	return terms
}

// scoreDocument computes the best relevance score for a document against a
// lowercased query, at both whole-title and individual-word granularity.
func scoreDocument(q string, doc corpus.Document) (float64, []string) {
	title := strings.ToLower(doc.Title)
	id := strings.ToLower(doc.ID)

	var score float64
	var matches []string
	record := func(s float64, match string) {
		if s > score {
			score = s
		}
		matches = append(matches, match)
	}

	// Exact substring tiers.
	if strings.Contains(title, q) {
		record(exactTitleScore, "title")
	} else {
		for _, word := range strings.Fields(title) {
			if strings.Contains(word, q) {
				record(exactWordScore, "title-word")
				break
			}
		}
	}
	if strings.Contains(id, q) {
		record(exactIDScore, "id")
	}
	if strings.Contains(strings.ToLower(doc.ContentPreview), q) {
		record(exactContentScore, "content")
	}

	// Fuzzy tiers only matter when no exact match fired.
	if score >= exactContentScore {
		return score, matches
	}

	if s := fuzzyScore(q, title); s > score {
		record(s, "fuzzy-title")
	}
	for _, word := range strings.Fields(title) {
		if s := fuzzyScore(q, word); s > score {
			record(s, "fuzzy-word")
			break
		}
	}

	return score, matches
}

// fuzzyScore scores an edit-distance match, scaled so that closer matches
// score higher and anything beyond the distance bound scores zero.
func fuzzyScore(q, term string) float64 {
	if term == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(q, term)
	if dist == 0 {
		return fuzzyCeiling
	}
	if dist > maxDistance(q) {
		return 0
	}
	longest := len(q)
	if len(term) > longest {
		longest = len(term)
	}
	return fuzzyCeiling * (1 - float64(dist)/float64(longest))
}

// maxDistance is the largest plausible edit distance for a query.
func maxDistance(q string) int {
	bound := int(float64(len(q)) * maxDistanceRatio)
	if bound < 1 {
		bound = 1
	}
	return bound
}
