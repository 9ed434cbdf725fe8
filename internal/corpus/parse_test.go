package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, root, relPath, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestParseFile_FrontMatterAndHeading(t *testing.T) {
	root := t.TempDir()
	path := writeFixture(t, root, "tenets/testability.md", `---
id: testability
author: platform-team
---
# Design for Testability

Systems must expose seams for testing.

## Rationale

Untestable code rots.
`)

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if doc.ID != "testability" {
		t.Errorf("ID: expected testability, got %q", doc.ID)
	}
	if doc.Title != "Design for Testability" {
		t.Errorf("Title: expected first heading, got %q", doc.Title)
	}
	if doc.Type != TypeTenet {
		t.Errorf("Type: expected tenet, got %q", doc.Type)
	}
	if doc.Category != CoreCategory {
		t.Errorf("Category: expected core, got %q", doc.Category)
	}
	if doc.Metadata["author"] != "platform-team" {
		t.Errorf("Metadata author: got %q", doc.Metadata["author"])
	}
	if !strings.Contains(doc.ContentPreview, "expose seams") {
		t.Errorf("ContentPreview missing body text: %q", doc.ContentPreview)
	}
	if strings.Contains(doc.ContentPreview, "author:") {
		t.Errorf("ContentPreview should not include front-matter: %q", doc.ContentPreview)
	}
	if doc.ContentHash == "" || doc.Size == 0 {
		t.Errorf("expected content hash and size, got %q / %d", doc.ContentHash, doc.Size)
	}
	if len(doc.Sections) != 2 || doc.Sections[1] != "Rationale" {
		t.Errorf("Sections: got %v", doc.Sections)
	}
}

func TestParseFile_TitleFallbacks(t *testing.T) {
	root := t.TempDir()

	// No heading: front-matter title wins
	p1 := writeFixture(t, root, "bindings/core/a.md", "---\ntitle: From Front Matter\n---\nbody only\n")
	doc, err := ParseFile(p1)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if doc.Title != "From Front Matter" {
		t.Errorf("expected front-matter title, got %q", doc.Title)
	}

	// No heading, no front-matter: normalized filename
	p2 := writeFixture(t, root, "bindings/core/error-wrapping_rules.md", "plain body\n")
	doc, err = ParseFile(p2)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if doc.Title != "Error Wrapping Rules" {
		t.Errorf("expected normalized filename title, got %q", doc.Title)
	}
	if doc.ID != "error-wrapping_rules" {
		t.Errorf("expected filename id, got %q", doc.ID)
	}
}

func TestParseFile_CorruptFrontMatterDegrades(t *testing.T) {
	root := t.TempDir()
	path := writeFixture(t, root, "tenets/bad.md", "---\n: [ not yaml\n---\n# Still Has Title\n\nbody\n")

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("corrupt front-matter must not fail the scan: %v", err)
	}
	if doc.Title != "Still Has Title" {
		t.Errorf("expected heading title despite bad front-matter, got %q", doc.Title)
	}
	if len(doc.Metadata) != 0 {
		t.Errorf("expected empty metadata, got %v", doc.Metadata)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path     string
		docType  Type
		category string
	}{
		{"docs/tenets/simplicity.md", TypeTenet, "core"},
		{"docs/bindings/core/pure-functions.md", TypeBinding, "core"},
		{"docs/bindings/categories/go/error-wrapping.md", TypeBinding, "go"},
		{"docs/bindings/categories/typescript/strict-null.md", TypeBinding, "typescript"},
		{"stray.md", TypeBinding, "core"},
	}

	for _, tt := range tests {
		docType, category := ClassifyPath(tt.path)
		if docType != tt.docType || category != tt.category {
			t.Errorf("ClassifyPath(%q) = (%q, %q), expected (%q, %q)",
				tt.path, docType, category, tt.docType, tt.category)
		}
	}
}

func TestParseFile_PreviewTruncated(t *testing.T) {
	root := t.TempDir()
	body := strings.Repeat("Standards text. ", 1000)
	path := writeFixture(t, root, "tenets/long.md", "# Long Document\n\n"+body)

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(doc.ContentPreview) > PreviewLimit {
		t.Errorf("preview length %d exceeds limit %d", len(doc.ContentPreview), PreviewLimit)
	}
	if doc.Size <= PreviewLimit {
		t.Errorf("Size should reflect full content, got %d", doc.Size)
	}
}
