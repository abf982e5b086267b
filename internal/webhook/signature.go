package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw body
const SignatureHeader = "X-Alchemy-Signature"

// Sign returns the hex HMAC-SHA256 of body under signingKey
func Sign(signingKey string, body []byte) string {
	h := hmac.New(sha256.New, []byte(signingKey))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks the signature header against the body.
// An empty signing key disables verification.
func VerifySignature(signingKey string, body []byte, signature string) error {
	if signingKey == "" {
		return nil
	}

	expected := Sign(signingKey, body)
	signature = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(signature)), "sha256=")
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
