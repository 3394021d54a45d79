package rag

import (
	"strings"

	"promptlab-api/internal/domain/entity"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultTruncateChars bounds source snippets returned to the caller.
const DefaultTruncateChars = 300

type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a new chunker. The overlap must be non-negative and
// strictly smaller than the chunk size, otherwise the window would never
// advance.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, entity.ErrInvalidChunkConfig
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// ChunkText splits text into fixed-size windows overlapping by exactly the
// configured overlap. Each window is trimmed and empty windows are dropped.
// The loop stops once a window reaches the end of the text; a shorter
// trailing window would add nothing the previous overlap does not already
// cover. Empty input yields zero chunks.
func (c *Chunker) ChunkText(text string) []string {
	var chunks []string
	step := c.chunkSize - c.chunkOverlap

	for start := 0; start < len(text); start += step {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			break
		}
	}

	return chunks
}

// TruncateText bounds text for display, appending "..." past the limit. Only
// used for returned source snippets, never for stored or embedded text.
func TruncateText(text string, maxChars int) string {
	if len(text) > maxChars {
		return text[:maxChars] + "..."
	}
	return text
}
