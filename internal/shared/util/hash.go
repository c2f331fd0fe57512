package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashIdentity maps a caller identity such as "guest:<id>" or
// "google:<sub>" to a storage-safe key. The provider prefix is part of the
// hashed value, so the same id under two providers never shares a document.
func HashIdentity(identity string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(identity)))
	return hex.EncodeToString(sum[:])
}
