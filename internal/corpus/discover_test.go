package corpus

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
)

func TestDirDiscoverer_ListsMarkdownSorted(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "tenets/z-last.md", "# Z\n")
	writeFixture(t, root, "tenets/a-first.md", "# A\n")
	writeFixture(t, root, "bindings/categories/go/errors.md", "# E\n")
	writeFixture(t, root, "notes.txt", "not markdown")
	writeFixture(t, root, ".git/internal.md", "hidden dir is skipped")

	paths, err := DirDiscoverer(root)()
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("expected 3 markdown files, got %d: %v", len(paths), paths)
	}
	if !sort.StringsAreSorted(paths) {
		t.Errorf("paths not sorted: %v", paths)
	}
	for _, p := range paths {
		if filepath.Ext(p) != ".md" {
			t.Errorf("non-markdown path discovered: %s", p)
		}
	}
}

func TestDirDiscoverer_MissingRoot(t *testing.T) {
	_, err := DirDiscoverer(filepath.Join(t.TempDir(), "missing"))()
	if !errors.Is(err, ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
}
