package ingest

import "strings"

// ChunkText splits text into overlapping windows of at most size characters,
// with roughly overlap characters repeated between consecutive chunks so a
// fact near a boundary stays retrievable. Within the final overlap-sized
// stretch of each window the split prefers a paragraph break, then a sentence
// end, and falls back to a hard cut.
func ChunkText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}

		end = breakPoint(text, start, end, overlap)
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// breakPoint looks backwards from end, within the last overlap characters of
// the window, for a natural boundary.
func breakPoint(text string, start, end, overlap int) int {
	window := end - overlap
	if window < start {
		window = start
	}

	if i := strings.LastIndex(text[window:end], "\n\n"); i >= 0 {
		return window + i + 2
	}
	if i := strings.LastIndex(text[window:end], ". "); i >= 0 {
		return window + i + 2
	}
	return end
}
