package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// minKeyLength keeps signing keys at 128 bits or more.
const minKeyLength = 32

// GenerateULID returns a time-ordered id for lead submissions, so ledger
// rows sort by arrival without a separate index.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateSecureKey returns length hex characters of crypto/rand output.
// It is used as the attribution signing key when JWT_SECRET is unset.
func GenerateSecureKey(length int) (string, error) {
	if length < minKeyLength {
		return "", fmt.Errorf("secure key length %d is below %d", length, minKeyLength)
	}
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(buf)[:length], nil
}
