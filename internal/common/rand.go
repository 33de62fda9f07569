package common

import (
	"crypto/rand"
	"encoding/hex"
)

// RandHex generates a random hexadecimal string from size random bytes, so
// the result is 2*size characters long. Used for idempotency keys attached
// to queued create operations.
func RandHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
