package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrCorpusUnavailable indicates the corpus root directory is entirely
// inaccessible. Individual unreadable files are skipped, not errors.
var ErrCorpusUnavailable = errors.New("corpus root unavailable")

// DiscoverFunc lists the document paths the cache should index. Test suites
// and callers override this to point at fixture directories.
type DiscoverFunc func() ([]string, error)

// DirDiscoverer returns a DiscoverFunc that walks root for markdown files.
// Results are sorted by path for deterministic scan ordering.
func DirDiscoverer(root string) DiscoverFunc {
	return func() ([]string, error) {
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
		}

		var paths []string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Skip unreadable subtrees, serve what we can discover
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return fs.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), ".md") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
		}

		sort.Strings(paths)
		return paths, nil
	}
}
