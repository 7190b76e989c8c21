package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ReplaceUnderlines replaces underscores in content with spaces.
// Italic text arrives as _italic_ markers; the index treats
// underscores as part of the word, which would make italic words
// unsearchable.
func ReplaceUnderlines(content string) string {
	return strings.ReplaceAll(content, "_", " ")
}

// ContentHash returns the hex sha256 of text. Used as the embedding
// cache key together with the model name.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
