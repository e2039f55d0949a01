package text

import (
	"strings"
	"unicode"
)

// StripWhitespace removes every Unicode whitespace code point, preserving
// everything else verbatim. This is the form persisted in
// messages.text_stripped and consulted by nothing but LIKE-free
// diagnostics; the trigram index is built over text_plain instead.
func StripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isCJK reports whether r falls in one of the Hangul or CJK Unified
// Ideograph blocks the stripped-fallback tokenizer treats as content-bearing.
func isCJK(r rune) bool {
	switch {
	case r >= 0xAC00 && r <= 0xD7AF: // Hangul Syllables
		return true
	case r >= 0x1100 && r <= 0x11FF: // Hangul Jamo
		return true
	case r >= 0x3130 && r <= 0x318F: // Hangul Compatibility Jamo
		return true
	case r >= 0xA960 && r <= 0xA97F: // Hangul Jamo Extended-A
		return true
	case r >= 0xD7B0 && r <= 0xD7FF: // Hangul Jamo Extended-B
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Unified Ideographs Extension A
		return true
	}
	return false
}

// stripToAlphanumericOrCJK lowercases s and drops every rune that is
// neither ASCII/Unicode alphanumeric nor CJK, used as the fallback
// normalization for morphemes the analyzer could not classify.
func stripToAlphanumericOrCJK(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || isCJK(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
