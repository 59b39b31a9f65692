// Package checksum derives stable content digests used as record
// identity keys during data imports.
package checksum

import (
	"crypto/sha1"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-1 digest of data. The digest is an
// identity key for deduplication, not an integrity check, so SHA-1's
// collision weaknesses do not matter here and existing stored keys
// stay valid.
func Sum(data []byte) string {
	h := sha1.Sum(data)
	return hex.EncodeToString(h[:])
}
