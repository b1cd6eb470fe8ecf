package security

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint derives a stable, non-reversible client id from the remote
// address and user agent, keyed with secret.
func Fingerprint(secret, clientIP, userAgent string) string {
	var key []byte
	if secret != "" {
		key = []byte(secret)
		if len(key) > blake2b.Size {
			sum := blake2b.Sum256(key)
			key = sum[:]
		}
	}
	h, err := blake2b.New(16, key)
	if err != nil {
		return ""
	}
	h.Write([]byte(strings.TrimSpace(clientIP)))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(userAgent)))
	return hex.EncodeToString(h.Sum(nil))
}
