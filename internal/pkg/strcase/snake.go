// Package strcase converts Go field names into the snake_case keys and
// human labels used in validation error payloads.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts s to snake_case, keeping initialisms together:
// "DeviceInfo" becomes "device_info" and "UserID" becomes "user_id".
func ToLowerSnake(s string) string {
	return strings.Join(words(s), "_")
}

// ToLowerWords is ToLowerSnake with spaces, e.g. "DeviceInfo" -> "device info".
func ToLowerWords(s string) string {
	return strings.Join(words(s), " ")
}

func words(s string) []string {
	runes := []rune(s)
	out := make([]string, 0, 4)

	start := 0
	for i := 1; i < len(runes); i++ {
		if boundary(runes, i) {
			out = append(out, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	if start < len(runes) {
		out = append(out, strings.ToLower(string(runes[start:])))
	}

	return out
}

// boundary reports whether a new word starts at runes[i].
func boundary(runes []rune, i int) bool {
	cur, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(cur) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// HTTPServer: the S starts "Server".
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
