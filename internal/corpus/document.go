// Package corpus defines the document model for the standards corpus and the
// primitives for turning markdown files into structured metadata.
package corpus

import "time"

// Type classifies a document by the directory it lives in.
type Type string

const (
	// TypeTenet is a foundational principle document (tenets/).
	TypeTenet Type = "tenet"

	// TypeBinding is an actionable rule document (bindings/).
	TypeBinding Type = "binding"
)

// CoreCategory is the category for tenets and core bindings.
const CoreCategory = "core"

// Document is a scanned unit of content from the standards corpus.
type Document struct {
	// ID is the stable identifier, from front-matter or the filename.
	ID string

	// Title is the human-readable title, from the first markdown heading,
	// the front-matter, or a normalized filename (in that order).
	Title string

	// Path is the file location and the primary key for cache entries.
	Path string

	// Category is derived from directory structure: "core", or a named
	// category under bindings/categories/<name>/.
	Category string

	// Type is tenet or binding, derived from the directory.
	Type Type

	// Metadata holds arbitrary front-matter key/value pairs.
	Metadata map[string]string

	// Sections lists the H1/H2 outline of the document body.
	Sections []string

	// ContentPreview is truncated body text used for search scoring and display.
	ContentPreview string

	// ContentHash is the SHA-256 digest of the raw file content, used to
	// detect change without re-reading the full content.
	ContentHash string

	// Size is the byte length of the uncompressed file content, used for
	// memory accounting.
	Size int

	// ModifiedTime is the file modification time at scan.
	ModifiedTime time.Time

	// ScanTime is when this document was scanned.
	ScanTime time.Time
}
