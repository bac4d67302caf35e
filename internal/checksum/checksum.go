// Package checksum fingerprints prompt content so clients can tell which
// cards changed between two snapshots.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length of a fingerprint in hex characters.
const Size = 16

// Sum returns the fingerprint of data: a truncated hex SHA-256 digest.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])[:Size]
}

// Combine fingerprints an ordered list of parts. Order matters.
func Combine(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:Size]
}
