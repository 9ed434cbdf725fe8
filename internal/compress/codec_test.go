package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repetitiveMarkdown mimics real corpus documents: headings, lists and
// repeated phrasing that DEFLATE should shrink well.
func repetitiveMarkdown() string {
	var b strings.Builder
	b.WriteString("# Binding: Prefer Explicit Error Wrapping\n\n")
	for i := 0; i < 40; i++ {
		b.WriteString("- Wrap errors with context at every package boundary.\n")
		b.WriteString("- Never discard an error without a logged reason.\n")
	}
	return b.String()
}

func TestEncode_RoundTrip(t *testing.T) {
	codec := NewCodec(true)
	content := repetitiveMarkdown()

	data, compressed := codec.Encode(content)
	require.True(t, compressed, "repetitive markdown should compress")

	decoded, err := codec.Decode(data, compressed)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestEncode_ReducesSize(t *testing.T) {
	codec := NewCodec(true)
	content := repetitiveMarkdown()

	data, compressed := codec.Encode(content)
	require.True(t, compressed)

	// Structured text should shrink at least 20%.
	assert.LessOrEqual(t, float64(len(data)), 0.8*float64(len(content)),
		"expected >=20%% reduction, got %d -> %d bytes", len(content), len(data))

	stats := codec.Stats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 1, stats.CompressedDocuments)
	assert.InDelta(t, float64(len(data))/float64(len(content)), stats.Ratio, 1e-9)
	assert.Less(t, stats.Ratio, 1.0)
}

func TestEncode_DisabledPassesThrough(t *testing.T) {
	codec := NewCodec(false)
	content := repetitiveMarkdown()

	data, compressed := codec.Encode(content)
	assert.False(t, compressed)
	assert.Equal(t, content, string(data))

	stats := codec.Stats()
	assert.False(t, stats.Enabled)
	assert.Zero(t, stats.CompressedDocuments)
	assert.Zero(t, stats.Ratio)
}

func TestEncode_IncompressibleStoredRaw(t *testing.T) {
	codec := NewCodec(true)

	// Too short to shrink under DEFLATE framing overhead.
	data, compressed := codec.Encode("ab")
	assert.False(t, compressed)
	assert.Equal(t, "ab", string(data))
	assert.Zero(t, codec.Stats().CompressedDocuments)
}

func TestDecode_RawPayload(t *testing.T) {
	codec := NewCodec(true)
	decoded, err := codec.Decode([]byte("plain"), false)
	require.NoError(t, err)
	assert.Equal(t, "plain", decoded)
}
