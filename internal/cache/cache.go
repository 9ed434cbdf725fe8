// Package cache provides the in-memory metadata index and discovery engine
// for the standards corpus: bounded memory with LRU eviction, optional
// content compression, fuzzy search, and asynchronous warm-up.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/standards-dev/tenets/internal/compress"
	"github.com/standards-dev/tenets/internal/corpus"
	"github.com/standards-dev/tenets/internal/scanner"
)

// DefaultMaxMemoryUsage is the memory ceiling applied when Config leaves
// MaxMemoryUsage unset.
const DefaultMaxMemoryUsage = 50 << 20 // 50 MB

// indexCapacity bounds the LRU entry count. Eviction is driven by the byte
// ceiling, so this only needs to be comfortably above any real corpus size.
const indexCapacity = 1 << 18

// Config configures a MetadataCache at construction. There is no implicit
// process-wide state; every toggle lives here.
type Config struct {
	// Discover lists the document paths to index. Required.
	Discover corpus.DiscoverFunc

	// MaxMemoryUsage is the byte ceiling for cached documents.
	// Zero selects DefaultMaxMemoryUsage.
	MaxMemoryUsage int

	// Compression stores document previews DEFLATE-compressed.
	Compression bool

	// Workers bounds the parallel scan pool. Zero selects the scanner default.
	Workers int

	// Logger receives warm-up and scan diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// warm-up states, per the cold -> warming -> warm machine.
type warmState int

const (
	stateCold warmState = iota
	stateWarming
	stateWarm
)

// entry is a cached document. The preview is stored separately from the
// Document so it can be held compressed.
type entry struct {
	doc        corpus.Document // ContentPreview cleared
	preview    []byte
	compressed bool
	accounted  int
}

// MetadataCache owns the in-memory document index. All mutations of the
// index, memory accounting and counters are serialized behind one mutex;
// scanning happens outside the lock.
type MetadataCache struct {
	discover  corpus.DiscoverFunc
	maxMemory int
	codec     *compress.Codec
	scanner   *scanner.Scanner
	logger    *slog.Logger

	mu          sync.Mutex
	index       *simplelru.LRU[string, *entry]
	memoryUsage int
	hitCount    int
	missCount   int
	scanCount   int
	warm        warmState
	warmDone    chan struct{}
}

// New creates an empty MetadataCache. The index is populated lazily on first
// query or eagerly via WarmCacheInBackground.
func New(cfg Config) (*MetadataCache, error) {
	if cfg.Discover == nil {
		return nil, fmt.Errorf("cache: Discover function is required")
	}
	if cfg.MaxMemoryUsage <= 0 {
		cfg.MaxMemoryUsage = DefaultMaxMemoryUsage
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &MetadataCache{
		discover:  cfg.Discover,
		maxMemory: cfg.MaxMemoryUsage,
		codec:     compress.NewCodec(cfg.Compression),
		scanner:   scanner.New(cfg.Workers, cfg.Logger),
		logger:    cfg.Logger,
	}

	index, err := simplelru.NewLRU[string, *entry](indexCapacity, func(_ string, e *entry) {
		c.memoryUsage -= e.accounted
	})
	if err != nil {
		return nil, fmt.Errorf("cache: create index: %w", err)
	}
	c.index = index

	return c, nil
}

// Categories returns all distinct categories currently indexed, refreshing
// the index first if stale.
func (c *MetadataCache) Categories() ([]string, error) {
	if err := c.refresh(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := map[string]bool{}
	for _, key := range c.index.Keys() {
		if e, ok := c.index.Peek(key); ok {
			seen[e.doc.Category] = true
		}
	}

	categories := make([]string, 0, len(seen))
	for cat := range seen {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return categories, nil
}

// DocumentsForCategory returns all documents in a category, sorted by ID.
// An unknown category yields an empty slice, not an error.
func (c *MetadataCache) DocumentsForCategory(category string) ([]corpus.Document, error) {
	if err := c.refresh(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var docs []corpus.Document
	for _, key := range c.index.Keys() {
		e, ok := c.index.Peek(key)
		if !ok || e.doc.Category != category {
			continue
		}
		doc, err := c.materialize(e)
		if err != nil {
			c.logger.Warn("dropping undecodable cache entry", "path", key, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// DocumentByID looks up a single document by its identifier. The lookup
// marks the entry as recently used.
func (c *MetadataCache) DocumentByID(id string) (corpus.Document, bool, error) {
	if err := c.refresh(); err != nil {
		return corpus.Document{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.index.Keys() {
		e, ok := c.index.Peek(key)
		if !ok || e.doc.ID != id {
			continue
		}
		c.index.Get(key) // touch recency
		doc, err := c.materialize(e)
		if err != nil {
			return corpus.Document{}, false, err
		}
		return doc, true, nil
	}
	return corpus.Document{}, false, nil
}

// CacheDocument inserts or updates an index entry, applying compression and
// evicting least-recently-used entries if the memory ceiling would be
// exceeded. Exposed for warm-up and tests; queries go through refresh.
func (c *MetadataCache) CacheDocument(doc corpus.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheDocumentLocked(doc)
}

func (c *MetadataCache) cacheDocumentLocked(doc corpus.Document) {
	raw := doc.ContentPreview
	stored, compressed := c.codec.Encode(raw)

	// Compressed storage replaces the preview's byte contribution with the
	// compressed length; without compression the contribution is Size.
	accounted := doc.Size - (len(raw) - len(stored))
	if accounted < 0 {
		accounted = 0
	}

	// Replacing an entry must subtract its old contribution first; the
	// eviction callback keeps memoryUsage consistent for every removal.
	if _, ok := c.index.Peek(doc.Path); ok {
		c.index.Remove(doc.Path)
	}

	// Make room. Never evicts the entry being inserted (it is not in the
	// index yet), so the triggering insert cannot fail.
	for c.memoryUsage+accounted > c.maxMemory {
		if _, _, ok := c.index.RemoveOldest(); !ok {
			break
		}
	}

	doc.ContentPreview = ""
	c.index.Add(doc.Path, &entry{
		doc:        doc,
		preview:    stored,
		compressed: compressed,
		accounted:  accounted,
	})
	c.memoryUsage += accounted
}

// Invalidate clears the entire index and resets memory accounting to zero.
// Hit/miss counters reset; the cumulative scan counter is preserved.
func (c *MetadataCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Purge()
	c.memoryUsage = 0
	c.hitCount = 0
	c.missCount = 0
	if c.warm == stateWarm {
		c.warm = stateCold
	}
}

// CachedPaths returns the indexed paths in eviction order, least recently
// used first. Diagnostic surface; does not refresh or touch recency.
func (c *MetadataCache) CachedPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Keys()
}

// materialize rebuilds a full Document from an entry, decoding the stored
// preview. Callers hold c.mu.
func (c *MetadataCache) materialize(e *entry) (corpus.Document, error) {
	doc := e.doc
	preview, err := c.codec.Decode(e.preview, e.compressed)
	if err != nil {
		return corpus.Document{}, err
	}
	doc.ContentPreview = preview
	return doc, nil
}

// refresh checks cheaply whether the underlying file set changed and
// re-scans only the stale paths. A query answered without any re-scan
// records one hit; every re-scanned file records a miss.
func (c *MetadataCache) refresh() error {
	paths, err := c.discover()
	if err != nil {
		return fmt.Errorf("discover documents: %w", err)
	}

	c.mu.Lock()
	current := map[string]bool{}
	var stale []string
	for _, path := range paths {
		current[path] = true
		e, ok := c.index.Peek(path)
		if !ok || c.changed(e, path) {
			stale = append(stale, path)
		}
	}
	// Drop entries whose files disappeared.
	for _, key := range c.index.Keys() {
		if !current[key] {
			c.index.Remove(key)
		}
	}
	if len(stale) == 0 {
		c.hitCount++
		c.mu.Unlock()
		return nil
	}
	c.missCount += len(stale)
	c.scanCount += len(stale)
	c.mu.Unlock()

	// Scan outside the lock so concurrent readers are not blocked on I/O.
	docs := c.scanner.ScanDocuments(stale)

	c.mu.Lock()
	for _, doc := range docs {
		c.cacheDocumentLocked(doc)
	}
	c.mu.Unlock()

	return nil
}

// changed reports whether a file likely differs from its cached entry,
// using modtime and size only. Callers hold c.mu.
func (c *MetadataCache) changed(e *entry, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return !info.ModTime().Equal(e.doc.ModifiedTime) || info.Size() != int64(e.doc.Size)
}

// WarmCacheInBackground starts asynchronous index population. Returns true
// if a new warm-up was started, false while one is running or once the
// cache is already warm. The call returns immediately; completion is
// observable via CacheWarm.
func (c *MetadataCache) WarmCacheInBackground() bool {
	c.mu.Lock()
	if c.warm != stateCold {
		c.mu.Unlock()
		return false
	}
	c.warm = stateWarming
	done := make(chan struct{})
	c.warmDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			// Warm-up is best-effort; a panic here must never reach the
			// caller or leave the state machine stuck in warming.
			if r := recover(); r != nil {
				c.logger.Error("cache warm-up panicked", "panic", r)
				c.setWarmState(stateCold)
			}
		}()

		if err := c.refresh(); err != nil {
			c.logger.Warn("cache warm-up failed", "error", err)
			c.setWarmState(stateCold)
			return
		}
		c.setWarmState(stateWarm)
	}()

	return true
}

// CacheWarm reports whether a background warm-up has completed. Non-blocking.
func (c *MetadataCache) CacheWarm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warm == stateWarm
}

func (c *MetadataCache) setWarmState(s warmState) {
	c.mu.Lock()
	c.warm = s
	c.mu.Unlock()
}
