package cmd

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsRunesIntact(t *testing.T) {
	s := "√16 = 4, 平方根を求めよ"
	got := truncate(s, 8)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 8 {
		t.Errorf("truncate returned %d runes, want <= 8", n)
	}

	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate modified a string under the limit: %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0b41e2de-1f6a-4a3a-92f1-b54b0a6b1c9d"); got != "0b41e2de" {
		t.Errorf("shortID(uuid) = %q, want %q", got, "0b41e2de")
	}
	if got := shortID("p1"); got != "p1" {
		t.Errorf("shortID(%q) = %q, want unchanged", "p1", got)
	}
	if got := shortID(""); got != "" {
		t.Errorf("shortID(empty) = %q, want empty", got)
	}
}
