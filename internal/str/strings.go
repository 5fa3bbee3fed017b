package str

import (
	"fmt"
	"strings"
)

// MaskKey keeps the first and last four characters of an api key.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return fmt.Sprintf("%s%s%s", key[:4], strings.Repeat("*", len(key)-8), key[len(key)-4:])
}

// Truncate shortens s to at most n bytes for log output.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
