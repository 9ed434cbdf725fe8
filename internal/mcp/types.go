// Package mcp exposes the standards corpus discovery engine over the Model
// Context Protocol.
package mcp

import "github.com/standards-dev/tenets/internal/compress"

// ListCategoriesInput defines the input for the list_categories tool.
// The tool takes no parameters.
type ListCategoriesInput struct{}

// ListCategoriesOutput contains all indexed categories.
type ListCategoriesOutput struct {
	// Categories is the sorted list of distinct category names.
	Categories []string `json:"categories"`
	// Count is the number of categories.
	Count int `json:"count"`
}

// ListDocsInput defines the input for the list_docs tool.
type ListDocsInput struct {
	// Category filters documents to one category (e.g. "core", "go").
	Category string `json:"category" jsonschema:"required,description=Category to list documents for (e.g. core or go)"`
}

// DocSummary is a document reference without content.
type DocSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Path     string `json:"path"`
}

// ListDocsOutput contains the documents of one category.
type ListDocsOutput struct {
	Documents []DocSummary `json:"documents"`
	Count     int          `json:"count"`
}

// GetDocInput defines the input for the get_doc tool.
type GetDocInput struct {
	// ID is the document identifier (e.g. "testability").
	ID string `json:"id" jsonschema:"required,description=The document identifier to retrieve"`
}

// GetDocOutput contains a single document.
type GetDocOutput struct {
	Document DocSummary        `json:"document,omitempty"`
	Sections []string          `json:"sections,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	// Preview is the truncated document body.
	Preview string `json:"preview,omitempty"`
	// Found indicates whether the document exists.
	Found bool `json:"found"`
}

// SearchDocsInput defines the input for the search_docs tool.
type SearchDocsInput struct {
	// Query is the search text; typo-tolerant.
	Query string `json:"query" jsonschema:"required,description=Search query over document titles and content; tolerates typos"`
	// MaxResults caps the number of results returned.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=50,default=10,description=Maximum number of results to return"`
}

// SearchHit is a single ranked search result.
type SearchHit struct {
	Document DocSummary `json:"document"`
	Score    float64    `json:"score"`
	Matches  []string   `json:"matches"`
}

// SearchDocsOutput contains ranked results, or spelling suggestions when
// nothing matched.
type SearchDocsOutput struct {
	Results     []SearchHit `json:"results"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// CacheStatsInput defines the input for the cache_stats tool.
// The tool takes no parameters.
type CacheStatsInput struct{}

// CacheStatsOutput reports cache and scanner performance counters.
type CacheStatsOutput struct {
	HitRatio          float64        `json:"hit_ratio"`
	HitCount          int            `json:"hit_count"`
	MissCount         int            `json:"miss_count"`
	ScanCount         int            `json:"scan_count"`
	DocumentCount     int            `json:"document_count"`
	CategoryCount     int            `json:"category_count"`
	MemoryUsage       int            `json:"memory_usage"`
	Compression       compress.Stats `json:"compression_stats"`
	FilesScanned      int            `json:"files_scanned"`
	ParallelBatches   int            `json:"parallel_batches"`
	SequentialBatches int            `json:"sequential_batches"`
	CacheWarm         bool           `json:"cache_warm"`
}
