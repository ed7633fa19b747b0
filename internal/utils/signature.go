package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignRecord generates an HMAC over the record fields, in order
func SignRecord(secret string, fields ...string) string {
	h := hmac.New(sha256.New, []byte(secret))
	// Separator keeps ("ab","c") and ("a","bc") distinct.
	h.Write([]byte(strings.Join(fields, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyRecord reports whether signature matches the fields
func VerifyRecord(secret, signature string, fields ...string) bool {
	expected, err := hex.DecodeString(SignRecord(secret, fields...))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}
