// Package scanner reads batches of markdown files into Documents, switching
// between sequential and parallel execution based on batch size.
package scanner

import (
	"log/slog"
	"sync"

	"github.com/standards-dev/tenets/internal/corpus"
)

const (
	// ParallelThreshold is the batch size at which scanning switches to a
	// worker pool. Spawning workers has fixed overhead that only pays off
	// for larger batches.
	ParallelThreshold = 10

	// DefaultWorkers bounds the parallel scan worker pool.
	DefaultWorkers = 6
)

// Stats accumulates scan accounting across ScanDocuments invocations.
type Stats struct {
	// FilesScanned counts attempted scans, including files that failed to
	// read. Failed files still count as an attempt but are excluded from
	// returned results.
	FilesScanned int

	// ParallelBatches and SequentialBatches count ScanDocuments calls by
	// the execution strategy chosen; exactly one increments per call.
	ParallelBatches   int
	SequentialBatches int
}

// Scanner scans markdown files with per-file error isolation.
type Scanner struct {
	workers int
	logger  *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a Scanner. workers <= 0 selects DefaultWorkers.
func New(workers int, logger *slog.Logger) *Scanner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{workers: workers, logger: logger}
}

// ScanDocument scans a single file into a Document.
func (s *Scanner) ScanDocument(path string) (corpus.Document, error) {
	return corpus.ParseFile(path)
}

// ScanDocuments scans a batch of paths. Batches below ParallelThreshold run
// sequentially; larger batches run on a bounded worker pool. One bad file
// never aborts the batch. Output ordering is not guaranteed to match input
// ordering when run in parallel.
func (s *Scanner) ScanDocuments(paths []string) []corpus.Document {
	if len(paths) == 0 {
		return nil
	}

	parallel := len(paths) >= ParallelThreshold

	s.mu.Lock()
	s.stats.FilesScanned += len(paths)
	if parallel {
		s.stats.ParallelBatches++
	} else {
		s.stats.SequentialBatches++
	}
	s.mu.Unlock()

	if parallel {
		return s.scanParallel(paths)
	}
	return s.scanSequential(paths)
}

// Stats returns a snapshot of accumulated scan statistics.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scanner) scanSequential(paths []string) []corpus.Document {
	docs := make([]corpus.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := s.ScanDocument(path)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func (s *Scanner) scanParallel(paths []string) []corpus.Document {
	workers := s.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan string)
	results := make(chan corpus.Document, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				doc, err := s.ScanDocument(path)
				if err != nil {
					s.logger.Warn("skipping unreadable document", "path", path, "error", err)
					continue
				}
				results <- doc
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(results)

	docs := make([]corpus.Document, 0, len(paths))
	for doc := range results {
		docs = append(docs, doc)
	}
	return docs
}
