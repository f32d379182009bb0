package issuecorrelation

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// TextHash returns the SHA256 hex fingerprint of a finding text. Case and
// whitespace runs are normalised so reflowed model output keeps its hash.
// Blank input hashes to the empty string.
func TextHash(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum[:])
}
