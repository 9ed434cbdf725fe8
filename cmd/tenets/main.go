// Package main provides the tenets CLI for discovering and syncing the
// shared documentation-standards corpus.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/standards-dev/tenets/internal/cache"
	"github.com/standards-dev/tenets/internal/corpus"
	ghclient "github.com/standards-dev/tenets/internal/github"
	"github.com/standards-dev/tenets/internal/syncer"
)

var (
	corpusDir   string
	showStats   bool
	resultLimit int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "tenets",
	Short: "Documentation standards distribution tool",
	Long: `tenets distributes a shared corpus of markdown tenets and bindings.

Discovery commands (categories, docs, show, search) answer from an in-memory
metadata cache built over the local corpus directory. Sync commands (sync,
diff, status) compare the local corpus against the remote standards repository.

Environment variables:
  TENETS_DIR          Local corpus directory (default: ./docs)
  TENETS_MAX_MEMORY   Cache memory ceiling in bytes (default: 52428800)
  TENETS_COMPRESSION  Compress cached content: true/false (default: false)
  STANDARDS_OWNER     Remote repository owner (default: standards-dev)
  STANDARDS_REPO      Remote repository name (default: standards)
  STANDARDS_PATH      Corpus path within the repository (default: docs)
  GITHUB_TOKEN        GitHub token for higher rate limits (optional)`,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List all document categories",
	RunE:  runCategories,
}

var docsCmd = &cobra.Command{
	Use:   "docs <category>",
	Short: "List documents in a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocs,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single document by identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents with typo tolerance",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the remote corpus into the local directory",
	RunE:  runSync,
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show drift between local corpus and remote without writing",
	RunE:  runDiff,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report local corpus state relative to the remote",
	RunE:  runStatus,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "local corpus directory (overrides TENETS_DIR)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	for _, cmd := range []*cobra.Command{categoriesCmd, docsCmd, searchCmd} {
		cmd.Flags().BoolVar(&showStats, "stats", false, "print cache performance statistics")
	}
	docsCmd.Flags().IntVar(&resultLimit, "limit", 0, "maximum documents to display (0 = all)")
	searchCmd.Flags().IntVar(&resultLimit, "limit", 10, "maximum results to display")

	rootCmd.AddCommand(categoriesCmd, docsCmd, showCmd, searchCmd, syncCmd, diffCmd, statusCmd)
}

func main() {
	// Load .env if present (local development), ignore if missing
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newCache builds the metadata cache over the configured corpus directory.
func newCache() (*cache.MetadataCache, error) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	return cache.New(cache.Config{
		Discover:       corpus.DirDiscoverer(resolveCorpusDir()),
		MaxMemoryUsage: getEnvInt("TENETS_MAX_MEMORY", 0),
		Compression:    getEnv("TENETS_COMPRESSION", "false") == "true",
		Logger:         logger,
	})
}

func newSyncer() (*syncer.Syncer, error) {
	client, err := ghclient.NewClient()
	if err != nil {
		return nil, fmt.Errorf("create GitHub client: %w", err)
	}
	fetcher := ghclient.NewFetcher(
		client,
		getEnv("STANDARDS_OWNER", ghclient.DefaultOwner),
		getEnv("STANDARDS_REPO", ghclient.DefaultRepo),
		getEnv("STANDARDS_PATH", ghclient.DefaultBasePath),
	)
	return syncer.New(fetcher, resolveCorpusDir(), slog.Default()), nil
}

func resolveCorpusDir() string {
	if corpusDir != "" {
		return corpusDir
	}
	return getEnv("TENETS_DIR", "docs")
}

func runCategories(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}

	categories, err := c.Categories()
	if err != nil {
		return err
	}

	for _, category := range categories {
		fmt.Println(category)
	}
	printStats(c)
	return nil
}

func runDocs(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}

	docs, err := c.DocumentsForCategory(args[0])
	if err != nil {
		return err
	}

	if resultLimit > 0 && len(docs) > resultLimit {
		docs = docs[:resultLimit]
	}
	for _, doc := range docs {
		if verbose {
			fmt.Printf("%-30s %-8s %s\n", doc.ID, doc.Type, doc.Title)
		} else {
			fmt.Printf("%-30s %s\n", doc.ID, doc.Title)
		}
	}
	printStats(c)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}

	doc, found, err := c.DocumentByID(args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("document %q not found; try 'tenets search %s'", args[0], args[0])
	}

	fmt.Printf("%s (%s, category %s)\n", doc.Title, doc.Type, doc.Category)
	fmt.Printf("Path: %s\n", doc.Path)
	if len(doc.Sections) > 0 {
		fmt.Println("Sections:")
		for _, section := range doc.Sections {
			fmt.Printf("  - %s\n", section)
		}
	}
	fmt.Println()
	fmt.Println(doc.ContentPreview)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}

	results, err := c.Search(args[0])
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matching documents found.")
		if suggestions := c.SuggestCorrections(args[0], cache.DefaultSuggestionLimit); len(suggestions) > 0 {
			fmt.Println("Did you mean:")
			for _, s := range suggestions {
				fmt.Printf("  %s\n", s)
			}
		}
		printStats(c)
		return nil
	}

	if resultLimit > 0 && len(results) > resultLimit {
		results = results[:resultLimit]
	}
	for _, r := range results {
		if verbose {
			fmt.Printf("%.2f  %-30s %s (matched: %v)\n", r.Score, r.Document.ID, r.Document.Title, r.Matches)
		} else {
			fmt.Printf("%.2f  %-30s %s\n", r.Score, r.Document.ID, r.Document.Title)
		}
	}
	printStats(c)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	s, err := newSyncer()
	if err != nil {
		return err
	}

	fmt.Println("Syncing corpus...")
	report, err := s.Sync(context.Background())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Println("Sync complete!")
	fmt.Printf("  Added:     %d\n", report.Added)
	fmt.Printf("  Updated:   %d\n", report.Updated)
	fmt.Printf("  Unchanged: %d\n", report.Unchanged)
	fmt.Printf("  Commit:    %s\n", report.CommitSHA)
	fmt.Printf("  Duration:  %s\n", report.Duration.Round(time.Millisecond))

	if len(report.Failed) > 0 {
		fmt.Println("Failed documents:")
		for _, failed := range report.Failed {
			fmt.Printf("  - %s: %s\n", failed.Path, failed.Reason)
		}
	}
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	s, err := newSyncer()
	if err != nil {
		return err
	}

	report, err := s.Diff(context.Background())
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	if len(report.Added)+len(report.Changed)+len(report.Removed) == 0 {
		fmt.Println("Local corpus is up to date.")
		return nil
	}
	for _, path := range report.Added {
		fmt.Printf("A %s\n", path)
	}
	for _, path := range report.Changed {
		fmt.Printf("M %s\n", path)
	}
	for _, path := range report.Removed {
		fmt.Printf("D %s\n", path)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSyncer()
	if err != nil {
		return err
	}

	report, err := s.Status(context.Background())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	fmt.Printf("Local documents: %d\n", report.LocalDocs)
	if report.LastSync == "" {
		fmt.Println("Never synced.")
		return nil
	}
	fmt.Printf("Last sync commit: %s\n", report.LastSync)
	fmt.Printf("Commits behind remote: %d\n", report.CommitsBehind)
	if report.StaleWarning != "" {
		fmt.Printf("Warning: %s\n", report.StaleWarning)
	}
	return nil
}

func printStats(c *cache.MetadataCache) {
	if !showStats {
		return
	}

	perf := c.PerformanceStats()
	scan := c.ScanStats()

	fmt.Println()
	fmt.Println("Cache statistics:")
	fmt.Printf("  Hit ratio:     %.2f (%d hits, %d misses)\n", perf.HitRatio, perf.HitCount, perf.MissCount)
	fmt.Printf("  Documents:     %d in %d categories\n", perf.DocumentCount, perf.CategoryCount)
	fmt.Printf("  Memory usage:  %d bytes\n", perf.MemoryUsage)
	fmt.Printf("  Files scanned: %d (%d parallel, %d sequential batches)\n",
		scan.FilesScanned, scan.ParallelBatches, scan.SequentialBatches)
	if perf.Compression.Enabled {
		fmt.Printf("  Compression:   ratio %.2f over %d documents\n",
			perf.Compression.Ratio, perf.Compression.CompressedDocuments)
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
