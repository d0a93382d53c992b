package curator

import (
	"strings"
	"unicode/utf8"
)

// SanitizeText strips control characters (keeping newlines and tabs) and
// truncates to at most maxLen bytes, on a rune boundary, before a prompt
// embeds caller-supplied text.
func SanitizeText(text string, maxLen int) string {
	if text == "" {
		return ""
	}

	if maxLen > 0 && len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// normalizeToken lowercases and trims an enum-ish value.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// firstLine returns text up to the first newline, trimmed.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
