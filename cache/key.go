package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// Key derives the content-addressed cache key for (text, model). Two
// requests with identical text and model always produce the same key.
func Key(text, model string) string {
	return HashText(text) + ":" + model
}
