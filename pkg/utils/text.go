package utils

import (
	"strings"
	"unicode"
)

// CleanText collapses all runs of whitespace (spaces, tabs, newlines) into
// single spaces and trims the result. Extracted page text passes through
// here before any counting or comparison so that formatting-only
// differences between documents do not matter.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountWords returns the number of whitespace-delimited tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// TruncateText shortens s to at most max runes, appending "..." when it
// actually cut something. Used for evidence snippets and log output.
func TruncateText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// SimilarityRatio computes a word-frequency overlap ratio between two texts
// in [0, 1]. It is 2*M / (len(a)+len(b)) where M is the sum over all words
// of the minimum of their occurrence counts in each text. Order is ignored,
// which keeps the comparison cheap and stable for large documents.
func SimilarityRatio(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	freqA := make(map[string]int, len(wordsA))
	for _, w := range wordsA {
		freqA[w]++
	}
	matches := 0
	for _, w := range wordsB {
		if freqA[w] > 0 {
			freqA[w]--
			matches++
		}
	}
	return 2.0 * float64(matches) / float64(len(wordsA)+len(wordsB))
}

// NormalizeAttr lowercases an HTML attribute value and strips internal
// whitespace, so style checks like "display:none" match regardless of
// author formatting.
func NormalizeAttr(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
