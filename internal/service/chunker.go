package service

import (
	"strings"
	"unicode"

	"docvault/internal/config"
)

// Chunker splits document content into overlapping spans for embedding.
// Splitting is a pure function of the text, so reindexing unchanged content
// always reproduces the same spans.
type Chunker struct {
	window  int // span size in runes
	overlap int // runes shared between consecutive spans
}

// NewChunker creates a chunker. Out-of-range values fall back to the
// registry defaults.
func NewChunker(window, overlap int) *Chunker {
	if window <= 0 {
		window = config.DefaultChunkWindow
	}
	if overlap < 0 || overlap >= window {
		overlap = config.DefaultChunkOverlap
	}
	return &Chunker{window: window, overlap: overlap}
}

// Split breaks text into spans of at most window runes with the configured
// overlap. Span ends prefer a sentence boundary, then any whitespace, found
// in the final fifth of the window; otherwise the span cuts at the window
// edge. Whitespace-only input yields no spans.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	var spans []string
	start := 0
	for start < len(runes) {
		end := start + c.window
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.adjustBoundary(runes, start, end)
		}

		span := strings.TrimSpace(string(runes[start:end]))
		if span != "" {
			spans = append(spans, span)
		}
		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Overlap would stall the scan; skip it for this span
			next = end
		}
		start = next
	}
	return spans
}

// adjustBoundary searches backward from end for a natural break, staying
// within the final fifth of the window. Returns the rune index to cut at.
func (c *Chunker) adjustBoundary(runes []rune, start, end int) int {
	floor := end - c.window/5
	if floor <= start {
		floor = start + 1
	}

	// Prefer ending right after sentence punctuation
	for i := end - 1; i >= floor; i-- {
		switch runes[i] {
		case '.', '!', '?', '\n':
			return i + 1
		}
	}
	// Fall back to any whitespace so words stay intact
	for i := end - 1; i >= floor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}
