// Package chunker splits text into bounded, lossless chunks.
//
// Chunks are consecutive and non-overlapping: concatenating them in
// order reproduces the input exactly. Sizes are measured in runes so a
// cut never lands inside a multi-byte character.
package chunker

import "unicode/utf8"

// DefaultChunkSize is the default maximum chunk length in runes.
const DefaultChunkSize = 2048

// Split splits content into consecutive chunks of at most maxSize
// runes; the final chunk may be shorter. Empty content yields no
// chunks. A non-positive maxSize falls back to DefaultChunkSize.
func Split(content string, maxSize int) []string {
	if content == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	runeCount := utf8.RuneCountInString(content)
	chunks := make([]string, 0, (runeCount+maxSize-1)/maxSize)

	start := 0
	count := 0
	for i := range content {
		if count == maxSize {
			chunks = append(chunks, content[start:i])
			start = i
			count = 0
		}
		count++
	}
	chunks = append(chunks, content[start:])
	return chunks
}
