package util

import (
	"crypto/sha1"
	"encoding/hex"
)

// GetIDFromString returns hex encoded SHA-1 of str. Used as a page ETag.
func GetIDFromString(str *string) string {
	hasher := sha1.New()
	hasher.Write([]byte(*str))

	return hex.EncodeToString(hasher.Sum(nil))
}
