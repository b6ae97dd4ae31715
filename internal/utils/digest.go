package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// PasswordDigest returns the SHA-256 digest of the UTF-8 bytes of plain,
// rendered as lowercase hex. This is the only form of a password that is
// ever persisted or compared.
func PasswordDigest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
