package room

import (
	"html"
	"strings"
)

// Sanitize escapes markup-significant characters and caps the escaped result
// at max runes. An entity cut by the cap is dropped whole.
func Sanitize(msg string, max int) string {
	msg = html.EscapeString(msg)
	if max <= 0 {
		return msg
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	msg = string(runes[:max])
	if amp := strings.LastIndexByte(msg, '&'); amp >= 0 && !strings.Contains(msg[amp:], ";") {
		msg = msg[:amp]
	}
	return msg
}

// IsCorrectGuess compares a guess to the secret ignoring case and
// surrounding whitespace.
func IsCorrectGuess(guess, secret string) bool {
	secret = strings.TrimSpace(secret)
	return secret != "" && strings.EqualFold(strings.TrimSpace(guess), secret)
}

func containsWord(msg, secret string) bool {
	secret = strings.TrimSpace(secret)
	return secret != "" && strings.Contains(strings.ToLower(msg), strings.ToLower(secret))
}
