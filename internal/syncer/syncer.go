// Package syncer keeps a local corpus directory in step with the remote
// standards repository: sync downloads changed documents, diff reports
// drift without writing, status summarizes how far behind the local copy is.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/standards-dev/tenets/internal/corpus"
	"github.com/standards-dev/tenets/internal/github"
)

// CommitMarker is the file recording the last-synced commit SHA, relative to
// the corpus root.
const CommitMarker = ".tenets-commit"

// staleCommitThreshold is how many commits behind remote HEAD counts as stale.
const staleCommitThreshold = 20

// Remote is the subset of the GitHub fetcher the syncer needs. Tests
// substitute fakes.
type Remote interface {
	ListDocs(ctx context.Context) ([]string, error)
	FetchDoc(ctx context.Context, relativePath string) (*github.RemoteDoc, error)
	LatestCommitSHA(ctx context.Context) (string, error)
	CommitsBehind(ctx context.Context, baseSHA string) (int, error)
}

// FailedDoc records a document that could not be synced.
type FailedDoc struct {
	Path   string
	Reason string
}

// SyncReport summarizes a sync run.
type SyncReport struct {
	RunID     string
	CommitSHA string
	Added     int
	Updated   int
	Unchanged int
	Failed    []FailedDoc
	Duration  time.Duration
}

// DiffReport lists drift between the local corpus and the remote.
type DiffReport struct {
	CommitSHA string
	Added     []string // remote only
	Changed   []string // content differs
	Removed   []string // local only
}

// StatusReport summarizes local corpus state relative to the remote.
type StatusReport struct {
	LocalDocs     int
	LastSync      string // commit SHA recorded by the last sync, if any
	CommitsBehind int
	StaleWarning  string
}

// Syncer mirrors the remote corpus into a local directory. Unchanged files
// are detected by content hash and never rewritten.
type Syncer struct {
	remote    Remote
	corpusDir string
	logger    *slog.Logger
}

// New creates a Syncer writing under corpusDir.
func New(remote Remote, corpusDir string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{remote: remote, corpusDir: corpusDir, logger: logger}
}

// Sync downloads the remote corpus into the local directory. Per-file
// failures are recorded and skipped; they never abort the run.
func (s *Syncer) Sync(ctx context.Context) (*SyncReport, error) {
	start := time.Now()
	report := &SyncReport{RunID: uuid.New().String()}

	commitSHA, err := s.remote.LatestCommitSHA(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve remote commit: %w", err)
	}
	report.CommitSHA = commitSHA
	s.logger.Info("starting sync", "run", report.RunID, "commit", commitSHA)

	paths, err := s.remote.ListDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote docs: %w", err)
	}

	for _, relPath := range paths {
		switch outcome, err := s.syncDoc(ctx, relPath); {
		case err != nil:
			s.logger.Warn("failed to sync document", "path", relPath, "error", err)
			report.Failed = append(report.Failed, FailedDoc{Path: relPath, Reason: err.Error()})
		case outcome == outcomeAdded:
			report.Added++
		case outcome == outcomeUpdated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	if err := s.writeCommitMarker(commitSHA); err != nil {
		s.logger.Warn("failed to record sync commit", "error", err)
	}

	report.Duration = time.Since(start)
	s.logger.Info("sync complete",
		"added", report.Added,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", len(report.Failed),
		"duration", report.Duration,
	)
	return report, nil
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeAdded
	outcomeUpdated
)

func (s *Syncer) syncDoc(ctx context.Context, relPath string) (outcome, error) {
	localPath := filepath.Join(s.corpusDir, filepath.FromSlash(relPath))

	localHash, err := corpus.HashFile(localPath)
	exists := err == nil

	doc, err := s.fetchWithRetry(ctx, relPath)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	if exists && localHash == doc.ContentHash {
		return outcomeUnchanged, nil
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(localPath, []byte(doc.Content), 0o644); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}

	if exists {
		return outcomeUpdated, nil
	}
	return outcomeAdded, nil
}

// fetchWithRetry fetches one document with exponential backoff, since
// transient API failures mid-run are common on large corpora.
func (s *Syncer) fetchWithRetry(ctx context.Context, relPath string) (*github.RemoteDoc, error) {
	var doc *github.RemoteDoc

	operation := func() error {
		d, err := s.remote.FetchDoc(ctx, relPath)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return doc, nil
}

// Diff compares local and remote corpus states without writing anything.
func (s *Syncer) Diff(ctx context.Context) (*DiffReport, error) {
	commitSHA, err := s.remote.LatestCommitSHA(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve remote commit: %w", err)
	}

	remotePaths, err := s.remote.ListDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote docs: %w", err)
	}

	local, err := s.localDocs()
	if err != nil {
		return nil, err
	}

	report := &DiffReport{CommitSHA: commitSHA}
	remoteSeen := map[string]bool{}

	for _, relPath := range remotePaths {
		remoteSeen[relPath] = true
		localHash, ok := local[relPath]
		if !ok {
			report.Added = append(report.Added, relPath)
			continue
		}
		doc, err := s.fetchWithRetry(ctx, relPath)
		if err != nil {
			s.logger.Warn("failed to fetch document for diff", "path", relPath, "error", err)
			continue
		}
		if doc.ContentHash != localHash {
			report.Changed = append(report.Changed, relPath)
		}
	}

	for relPath := range local {
		if !remoteSeen[relPath] {
			report.Removed = append(report.Removed, relPath)
		}
	}

	sort.Strings(report.Added)
	sort.Strings(report.Changed)
	sort.Strings(report.Removed)
	return report, nil
}

// Status reports local corpus size and how far behind remote HEAD the last
// sync is. Remote comparison failures degrade to a local-only report.
func (s *Syncer) Status(ctx context.Context) (*StatusReport, error) {
	local, err := s.localDocs()
	if err != nil {
		return nil, err
	}

	report := &StatusReport{LocalDocs: len(local)}

	marker, err := os.ReadFile(filepath.Join(s.corpusDir, CommitMarker))
	if err != nil {
		return report, nil // never synced
	}
	report.LastSync = strings.TrimSpace(string(marker))

	behind, err := s.remote.CommitsBehind(ctx, report.LastSync)
	if err != nil {
		s.logger.Warn("failed to compare with remote", "error", err)
		return report, nil
	}
	report.CommitsBehind = behind
	if behind > staleCommitThreshold {
		report.StaleWarning = fmt.Sprintf("local corpus is %d commits behind remote; run sync", behind)
	}
	return report, nil
}

// localDocs maps corpus-relative markdown paths to their content hashes.
func (s *Syncer) localDocs() (map[string]string, error) {
	docs := map[string]string{}

	if _, err := os.Stat(s.corpusDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return docs, nil
		}
		return nil, fmt.Errorf("stat corpus dir: %w", err)
	}

	err := filepath.WalkDir(s.corpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(s.corpusDir, path)
		if err != nil {
			return nil
		}
		hash, err := corpus.HashFile(path)
		if err != nil {
			return nil
		}
		docs[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus dir: %w", err)
	}
	return docs, nil
}

func (s *Syncer) writeCommitMarker(sha string) error {
	if err := os.MkdirAll(s.corpusDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.corpusDir, CommitMarker), []byte(sha+"\n"), 0o644)
}
