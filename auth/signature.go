package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign computes the hex-encoded HMAC-SHA256 of payload keyed with secret,
// the format the broker puts in the X-Pusher-Signature header.
func Sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks that signature is the HMAC-SHA256 of the exact payload bytes.
// The comparison runs in constant time. Malformed signatures return false.
func VerifySignature(payload []byte, signature string, secret []byte) bool {
	provided, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(provided) != sha256.Size {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hmac.Equal(provided, mac.Sum(nil))
}
