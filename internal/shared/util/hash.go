package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// PromptHash returns a stable log-safe identifier for a prompt string.
func PromptHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
