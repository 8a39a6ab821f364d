package emmet

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultLoremWords is used when a lorem marker carries no count.
const defaultLoremWords = 30

// PlaceholderText returns n words of deterministic placeholder text,
// capitalized and terminated by a period. n <= 0 yields ".".
func PlaceholderText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(loremWords[i%len(loremWords)])
	}
	text := b.String()
	if r, size := utf8.DecodeRuneInString(text); size > 0 {
		text = string(unicode.ToUpper(r)) + text[size:]
	}
	return text + "."
}

// placeholderCount parses the digits that follow a lorem marker.
func placeholderCount(digits string) int {
	if digits == "" {
		return defaultLoremWords
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return defaultLoremWords
	}
	return n
}

// matchLorem reports whether s is exactly a lorem marker, e.g. "lorem" or "Lorem12".
func matchLorem(s string) (int, bool) {
	if len(s) < 5 || !strings.EqualFold(s[:5], "lorem") {
		return 0, false
	}
	digits := s[5:]
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, false
		}
	}
	return placeholderCount(digits), true
}

// expandLoremMarkers replaces every lorem marker inside text with
// placeholder words. Markers are matched case-insensitively wherever they
// occur; generated text is not rescanned.
func expandLoremMarkers(text string) string {
	if !strings.Contains(strings.ToLower(text), "lorem") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		if i+5 <= len(text) && strings.EqualFold(text[i:i+5], "lorem") {
			j := i + 5
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			b.WriteString(PlaceholderText(placeholderCount(text[i+5 : j])))
			i = j
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// largestLoremCount returns the largest word count asked for by a lorem
// marker in text, or 0 when text holds none.
func largestLoremCount(text string) int {
	largest := 0
	for i := 0; i+5 <= len(text); i++ {
		if !strings.EqualFold(text[i:i+5], "lorem") {
			continue
		}
		j := scanRun(text, i+5, isDigit)
		if n := placeholderCount(text[i+5 : j]); n > largest {
			largest = n
		}
		i = j - 1
	}
	return largest
}
