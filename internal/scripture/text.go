package scripture

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// cleanSpaces normalizes NBSP/thin-space, drops stray mojibake 'Â',
// and collapses runs of whitespace.
func cleanSpaces(s string) string {
	s = strings.NewReplacer(" ", " ", " ", " ", "Â", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Telltale of UTF-8 bytes decoded as latin-1: 'Ã' or 'Â' followed by a
// rune in the continuation-byte range.
var mojibakePattern = regexp.MustCompile("[ÃÂ][-¿]")

// demojibake repairs the common 'Ã¼/Ã©' pattern left by UTF-8 bytes that
// were decoded as latin-1. Applied only when the telltale pattern appears.
func demojibake(s string) string {
	if s == "" || !mojibakePattern.MatchString(s) {
		return s
	}
	// Re-encode each rune as its latin-1 byte, then reinterpret the byte
	// sequence as UTF-8.
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			// Not latin-1 representable; repair would corrupt it.
			return s
		}
		raw = append(raw, byte(r))
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return s
}

// chapterWords are localized words meaning "Chapter", used to strip
// leaked "Chapter 1" headings from scraped book titles.
var chapterWords = []string{
	"chapter", "capítulo", "capitulo", "chapitre", "capitolo", "capítol",
	"kapitel", "kapittel", "hoofstuk", "hoofdstuk",
	"glava", "глава", "раздел",
	"cap",
}

var leadingChapterRe = func() *regexp.Regexp {
	words := append([]string(nil), chapterWords...)
	// Longest first so "capitulo" wins over "cap".
	sort.Slice(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(words, "|") + `)\s*\d+\s+`)
}()

var dashSynopsisRe = regexp.MustCompile(`\s+[—–-]\s+`)

// stripLeadingChapterPhrase removes a leading "Chapter 1 " prefix when a
// page puts the chapter heading where the book title is expected, and
// drops any synopsis following a dash.
func stripLeadingChapterPhrase(s string) string {
	t := cleanSpaces(s)
	if parts := dashSynopsisRe.Split(t, 2); len(parts) > 0 {
		t = parts[0]
	}
	return strings.TrimSpace(leadingChapterRe.ReplaceAllString(t, ""))
}

// stripTrailingChapter drops a final bare integer token; some locales
// leave a lonely "1" after the title.
func stripTrailingChapter(s string) string {
	parts := strings.Fields(s)
	if len(parts) > 0 && isAllDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var spaceBeforePunctRe = regexp.MustCompile(`\s+([,.;:!?…)\]}”’†])`)

// tightenPunctuation removes spaces left before punctuation after
// verse-number spans are cut out of a paragraph.
func tightenPunctuation(s string) string {
	return spaceBeforePunctRe.ReplaceAllString(s, "$1")
}
