package corpus

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
	"gopkg.in/yaml.v3"
)

// PreviewLimit is the maximum number of body bytes kept as ContentPreview.
const PreviewLimit = 2048

var frontMatterDelim = []byte("---")

var md = goldmark.New(
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// ParseFile reads a markdown file and builds a Document from its
// front-matter, body and directory placement.
//
// Corrupted or missing front-matter degrades to best-effort metadata rather
// than an error; only an unreadable file fails.
func ParseFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("stat %s: %w", path, err)
	}

	meta, body := splitFrontMatter(raw)
	docType, category := ClassifyPath(path)

	heading, sections := outline(body)

	title := heading
	if title == "" {
		title = meta["title"]
	}
	if title == "" {
		title = normalizeFilename(path)
	}

	id := meta["id"]
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	sum := sha256.Sum256(raw)

	preview := strings.TrimSpace(string(body))
	if len(preview) > PreviewLimit {
		preview = preview[:PreviewLimit]
	}

	return Document{
		ID:             id,
		Title:          title,
		Path:           path,
		Category:       category,
		Type:           docType,
		Metadata:       meta,
		Sections:       sections,
		ContentPreview: preview,
		ContentHash:    hex.EncodeToString(sum[:]),
		Size:           len(raw),
		ModifiedTime:   info.ModTime(),
		ScanTime:       time.Now(),
	}, nil
}

// HashFile returns the SHA-256 digest of a file's content, used for cheap
// change detection without a full re-parse.
func HashFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// splitFrontMatter separates a leading YAML front-matter block from the body.
// Returns flattened string metadata and the body bytes. Unparseable
// front-matter yields empty metadata and the full content as body.
func splitFrontMatter(raw []byte) (map[string]string, []byte) {
	meta := map[string]string{}

	trimmed := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return meta, raw
	}

	rest := trimmed[len(frontMatterDelim):]
	// Delimiter must be a full line
	if len(rest) > 0 && rest[0] != '\n' && !(rest[0] == '\r' && len(rest) > 1 && rest[1] == '\n') {
		return meta, raw
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return meta, raw
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	if idx := bytes.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = nil
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(block, &decoded); err != nil {
		// Degraded metadata, keep the body so title extraction still works
		return meta, body
	}
	for k, v := range decoded {
		meta[k] = fmt.Sprint(v)
	}

	return meta, body
}

// outline parses the markdown body and returns the first H1 title plus a
// flattened H1/H2 section list.
func outline(body []byte) (string, []string) {
	if len(body) == 0 {
		return "", nil
	}

	reader := text.NewReader(body)
	doc := md.Parser().Parse(reader)

	tree, err := toc.Inspect(doc, body,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil || len(tree.Items) == 0 {
		return "", nil
	}

	var sections []string
	var flatten func(items toc.Items)
	flatten = func(items toc.Items) {
		for _, item := range items {
			if len(item.Title) > 0 {
				sections = append(sections, string(item.Title))
			}
			flatten(item.Items)
		}
	}
	flatten(tree.Items)

	return string(tree.Items[0].Title), sections
}

// ClassifyPath derives document type and category from directory placement.
// tenets/ files are tenets in the core category; bindings/core/ files are
// core bindings; bindings/categories/<name>/ files belong to <name>.
func ClassifyPath(path string) (Type, string) {
	segments := strings.Split(filepath.ToSlash(path), "/")

	docType := TypeBinding
	category := CoreCategory

	for i, seg := range segments {
		switch seg {
		case "tenets":
			return TypeTenet, CoreCategory
		case "bindings":
			docType = TypeBinding
		case "categories":
			if i+2 < len(segments) {
				category = segments[i+1]
			}
		}
	}

	return docType, category
}

// normalizeFilename turns "property-based-testing.md" into
// "Property Based Testing".
func normalizeFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
