package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandURLSafeString generates a random URL-safe string from size bytes of
// entropy, encoded with unpadded base64url so it can ride in a query string
// untouched. Used for activation tokens.
func MakeRandURLSafeString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
