package common

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// MakeRandHexString returns size random bytes encoded as hex (2*size chars).
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes b in place. Used for passwords read from the terminal.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when the value is not a bearer credential.
func BearerToken(header string) string {
	if len(header) < len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(BearerPrefix):])
}

// TimeoutClient returns hc bounded by d. A non-nil hc is copied, never
// modified. With hc nil a new client is built, falling back to fallback
// when d is not positive.
func TimeoutClient(hc *http.Client, d, fallback time.Duration) *http.Client {
	if hc == nil {
		if d <= 0 {
			d = fallback
		}
		return &http.Client{Timeout: d}
	}
	if d <= 0 {
		return hc
	}
	cp := *hc
	cp.Timeout = d
	return &cp
}
