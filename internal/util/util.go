package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

func NowISO() string {
	return time.Now().Format(time.RFC3339)
}

func HMACSHA256Hex(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidHMAC compares in constant time.
func ValidHMAC(secret, msg, sig string) bool {
	expected := HMACSHA256Hex(secret, msg)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func LoginToken(secret, userID string) string {
	return HMACSHA256Hex(secret, "login:"+userID)
}

func ExportToken(secret, eventID string) string {
	return HMACSHA256Hex(secret, "export:"+eventID)
}
