package utils

import (
	"crypto/sha256"
	"fmt"
)

// Hex-encoded SHA-256 of content, used as the ETag of served calendars.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}
