package controller

import (
	"strings"
	"unicode"
)

// sanitizeMessage prepares collaborator supplied text for a plain text alert.
// The text is shown as sent, minus control characters that would move the
// terminal cursor or ring the bell.
func sanitizeMessage(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}
