package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// buildQuerySignature signs the encoded query string with HMAC-SHA256 and
// returns the lowercase hex digest, as required by Binance signed
// endpoints. The signature must be computed over the exact byte sequence
// that is sent, so callers append it to the query unmodified.
func buildQuerySignature(secret, query string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}
