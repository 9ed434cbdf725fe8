package cache

import (
	"github.com/standards-dev/tenets/internal/compress"
	"github.com/standards-dev/tenets/internal/scanner"
)

// PerformanceStats is a snapshot of cache effectiveness, consumed by the
// CLI --stats flag and the MCP cache_stats tool.
//
// HitRatio measures file-level change detection: a hit is a query answered
// entirely from the in-memory index, a miss is a file that required a fresh
// scan. It is not an LRU hit rate; eviction has its own ordering.
type PerformanceStats struct {
	HitRatio      float64        `json:"hit_ratio"`
	HitCount      int            `json:"hit_count"`
	MissCount     int            `json:"miss_count"`
	ScanCount     int            `json:"scan_count"`
	DocumentCount int            `json:"document_count"`
	CategoryCount int            `json:"category_count"`
	MemoryUsage   int            `json:"memory_usage"`
	Compression   compress.Stats `json:"compression_stats"`
}

// PerformanceStats returns a consistent snapshot of the cache counters.
func (c *MetadataCache) PerformanceStats() PerformanceStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	categories := map[string]bool{}
	for _, key := range c.index.Keys() {
		if e, ok := c.index.Peek(key); ok {
			categories[e.doc.Category] = true
		}
	}

	stats := PerformanceStats{
		HitCount:      c.hitCount,
		MissCount:     c.missCount,
		ScanCount:     c.scanCount,
		DocumentCount: c.index.Len(),
		CategoryCount: len(categories),
		MemoryUsage:   c.memoryUsage,
		Compression:   c.codec.Stats(),
	}
	if total := c.hitCount + c.missCount; total > 0 {
		stats.HitRatio = float64(c.hitCount) / float64(total)
	}
	return stats
}

// DocumentCount returns the number of indexed documents without refreshing
// the index. Non-blocking readiness surface for health checks.
func (c *MetadataCache) DocumentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Len()
}

// ScanStats exposes the underlying scanner's batch accounting.
func (c *MetadataCache) ScanStats() scanner.Stats {
	return c.scanner.Stats()
}
