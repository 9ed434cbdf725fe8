package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standards-dev/tenets/internal/cache"
	"github.com/standards-dev/tenets/internal/corpus"
)

func summarize(doc corpus.Document) DocSummary {
	return DocSummary{
		ID:       doc.ID,
		Title:    doc.Title,
		Type:     string(doc.Type),
		Category: doc.Category,
		Path:     doc.Path,
	}
}

// makeListCategoriesHandler creates the list_categories tool handler.
func makeListCategoriesHandler(c *cache.MetadataCache) func(
	context.Context, *mcp.CallToolRequest, ListCategoriesInput,
) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListCategoriesInput) (
		*mcp.CallToolResult, ListCategoriesOutput, error,
	) {
		categories, err := c.Categories()
		if err != nil {
			return nil, ListCategoriesOutput{}, fmt.Errorf("list categories: %w", err)
		}
		return nil, ListCategoriesOutput{
			Categories: categories,
			Count:      len(categories),
		}, nil
	}
}

// makeListDocsHandler creates the list_docs tool handler. An unknown
// category returns an empty list, not an error.
func makeListDocsHandler(c *cache.MetadataCache) func(
	context.Context, *mcp.CallToolRequest, ListDocsInput,
) (*mcp.CallToolResult, ListDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDocsInput) (
		*mcp.CallToolResult, ListDocsOutput, error,
	) {
		docs, err := c.DocumentsForCategory(input.Category)
		if err != nil {
			return nil, ListDocsOutput{}, fmt.Errorf("list documents: %w", err)
		}

		summaries := make([]DocSummary, 0, len(docs))
		for _, doc := range docs {
			summaries = append(summaries, summarize(doc))
		}
		return nil, ListDocsOutput{
			Documents: summaries,
			Count:     len(summaries),
		}, nil
	}
}

// makeGetDocHandler creates the get_doc tool handler.
func makeGetDocHandler(c *cache.MetadataCache) func(
	context.Context, *mcp.CallToolRequest, GetDocInput,
) (*mcp.CallToolResult, GetDocOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetDocInput) (
		*mcp.CallToolResult, GetDocOutput, error,
	) {
		doc, found, err := c.DocumentByID(input.ID)
		if err != nil {
			return nil, GetDocOutput{}, fmt.Errorf("get document: %w", err)
		}
		if !found {
			return nil, GetDocOutput{Found: false}, nil
		}
		return nil, GetDocOutput{
			Document: summarize(doc),
			Sections: doc.Sections,
			Metadata: doc.Metadata,
			Preview:  doc.ContentPreview,
			Found:    true,
		}, nil
	}
}

// makeSearchHandler creates the search_docs tool handler. When the query
// matches nothing, spelling suggestions from the corpus vocabulary are
// returned instead.
func makeSearchHandler(c *cache.MetadataCache) func(
	context.Context, *mcp.CallToolRequest, SearchDocsInput,
) (*mcp.CallToolResult, SearchDocsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (
		*mcp.CallToolResult, SearchDocsOutput, error,
	) {
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 10
		}

		results, err := c.Search(input.Query)
		if err != nil {
			return nil, SearchDocsOutput{}, fmt.Errorf("search: %w", err)
		}

		if len(results) == 0 {
			out := SearchDocsOutput{
				Results:     []SearchHit{},
				Suggestions: c.SuggestCorrections(input.Query, cache.DefaultSuggestionLimit),
			}
			if len(out.Suggestions) > 0 {
				out.Message = "No matching documents found. Did you mean one of the suggestions?"
			} else {
				out.Message = "No matching documents found. Try broader search terms."
			}
			return nil, out, nil
		}

		if len(results) > maxResults {
			results = results[:maxResults]
		}

		hits := make([]SearchHit, 0, len(results))
		for _, r := range results {
			hits = append(hits, SearchHit{
				Document: summarize(r.Document),
				Score:    r.Score,
				Matches:  r.Matches,
			})
		}
		return nil, SearchDocsOutput{Results: hits}, nil
	}
}

// makeCacheStatsHandler creates the cache_stats tool handler.
func makeCacheStatsHandler(c *cache.MetadataCache) func(
	context.Context, *mcp.CallToolRequest, CacheStatsInput,
) (*mcp.CallToolResult, CacheStatsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CacheStatsInput) (
		*mcp.CallToolResult, CacheStatsOutput, error,
	) {
		perf := c.PerformanceStats()
		scan := c.ScanStats()
		return nil, CacheStatsOutput{
			HitRatio:          perf.HitRatio,
			HitCount:          perf.HitCount,
			MissCount:         perf.MissCount,
			ScanCount:         perf.ScanCount,
			DocumentCount:     perf.DocumentCount,
			CategoryCount:     perf.CategoryCount,
			MemoryUsage:       perf.MemoryUsage,
			Compression:       perf.Compression,
			FilesScanned:      scan.FilesScanned,
			ParallelBatches:   scan.ParallelBatches,
			SequentialBatches: scan.SequentialBatches,
			CacheWarm:         c.CacheWarm(),
		}, nil
	}
}
