package indexer

import (
	"crypto/sha256"
	"fmt"
)

// contentHashPrefix is how much cleaned content participates in the
// deduplication fingerprint. Enough to distinguish revisions of the
// same page without hashing megabytes.
const contentHashPrefix = 500

// ContentHash computes the deduplication fingerprint for a source:
// SHA-256 over the source identifier (URL or filename) concatenated
// with the first 500 characters of cleaned content, rendered as hex.
func ContentHash(sourceURL, cleanedContent string) string {
	prefix := cleanedContent
	if len(prefix) > contentHashPrefix {
		prefix = prefix[:contentHashPrefix]
	}
	sum := sha256.Sum256([]byte(sourceURL + prefix))
	return fmt.Sprintf("%x", sum)
}
