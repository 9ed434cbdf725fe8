// Package compress wraps cached document content in a compressed byte form
// and tracks compressed vs. original byte counts for reporting.
package compress

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"sync"
)

// Stats reports cumulative compression effectiveness.
type Stats struct {
	// Enabled reports whether this codec compresses at all.
	Enabled bool `json:"enabled"`

	// Ratio is compressed bytes over original bytes; lower is better.
	// Zero when nothing has been compressed yet.
	Ratio float64 `json:"compression_ratio"`

	// CompressedDocuments is the number of payloads stored compressed.
	CompressedDocuments int `json:"compressed_documents"`
}

// Codec encodes document content for in-memory storage. Compression is a
// per-instance flag fixed at construction.
type Codec struct {
	enabled bool

	mu              sync.Mutex
	originalBytes   int64
	compressedBytes int64
	documents       int
}

// NewCodec creates a codec. When enabled is false, Encode stores content
// verbatim and Stats reports Enabled=false.
func NewCodec(enabled bool) *Codec {
	return &Codec{enabled: enabled}
}

// Enabled reports whether compression is active.
func (c *Codec) Enabled() bool {
	return c.enabled
}

// Encode prepares content for storage. Returns the stored bytes and whether
// they are compressed. Content that does not shrink under DEFLATE is stored
// raw so the accounted size never exceeds the original.
func (c *Codec) Encode(content string) ([]byte, bool) {
	raw := []byte(content)
	if !c.enabled || len(raw) == 0 {
		return raw, false
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return raw, false
	}
	if _, err := w.Write(raw); err != nil {
		return raw, false
	}
	if err := w.Close(); err != nil {
		return raw, false
	}

	if buf.Len() >= len(raw) {
		return raw, false
	}

	c.mu.Lock()
	c.originalBytes += int64(len(raw))
	c.compressedBytes += int64(buf.Len())
	c.documents++
	c.mu.Unlock()

	return buf.Bytes(), true
}

// Decode reverses Encode. Raw payloads pass through untouched.
func (c *Codec) Decode(data []byte, compressed bool) (string, error) {
	if !compressed {
		return string(data), nil
	}

	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decompress content: %w", err)
	}
	return string(raw), nil
}

// Stats returns a snapshot of cumulative compression counters.
func (c *Codec) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Enabled:             c.enabled,
		CompressedDocuments: c.documents,
	}
	if c.originalBytes > 0 {
		s.Ratio = float64(c.compressedBytes) / float64(c.originalBytes)
	}
	return s
}
