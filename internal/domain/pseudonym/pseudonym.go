package pseudonym

import (
	"crypto/sha256"
	"encoding/hex"
)

// Transform maps a raw identifier to an opaque token by hashing the secret
// together with the value. The same (secret, value) pair always yields the
// same token, so one teacher keeps one token across snapshots without the
// raw name ever being stored. Without the secret the mapping cannot be
// reversed.
func Transform(secret []byte, value string) string {
	h := sha256.New()
	h.Write(secret)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
