package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// ApprovalTokenBytes is the entropy of a proof approval token before hex encoding.
const ApprovalTokenBytes = 32

// NewApprovalToken returns 32 random bytes, hex encoded (64 characters).
func NewApprovalToken() (string, error) {
	return newHexToken(rand.Reader, ApprovalTokenBytes)
}

func newHexToken(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsWellFormedApprovalToken reports whether raw could have been minted by NewApprovalToken.
func IsWellFormedApprovalToken(raw string) bool {
	if len(raw) != ApprovalTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(raw)
	return err == nil
}

// TokensEqual compares two secrets in constant time.
func TokensEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Fingerprint hashes a secret for use in logs and cache keys.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(secret)))
	return hex.EncodeToString(sum[:8])
}
