// Package keyword tokenizes free text for match explanations, skill comparison,
// and job board queries.
package keyword

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Tokens lowercases text and splits it into words made of letters, digits,
// '+', '#' and inner dots ("c++", "c#", "node.js"). Trailing dots are dropped.
func Tokens(text string) []string {
	var (
		out  []string
		word strings.Builder
	)
	flush := func() {
		w := strings.Trim(word.String(), ".")
		word.Reset()
		if w != "" {
			out = append(out, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// Terms returns the set of tokens in text that have at least minLen runes and
// are not stop words.
func Terms(text string, minLen int) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range Tokens(text) {
		if len([]rune(w)) < minLen || stopWords[w] {
			continue
		}
		terms[w] = true
	}
	return terms
}

// Shared returns the sorted terms of at least minLen runes present in both a and b.
func Shared(a, b string, minLen int) []string {
	ta := Terms(a, minLen)
	if len(ta) == 0 {
		return nil
	}
	tb := Terms(b, minLen)
	var shared []string
	for w := range ta {
		if tb[w] {
			shared = append(shared, w)
		}
	}
	sort.Strings(shared)
	return shared
}

var searchWord = regexp.MustCompile(`[a-zA-Z0-9+#]+`)

// CleanSearchKeywords keeps the first maxWords alphanumeric words (plus '+' and
// '#') of raw, joined by single spaces. maxWords <= 0 keeps all words.
func CleanSearchKeywords(raw string, maxWords int) string {
	words := searchWord.FindAllString(raw, -1)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
