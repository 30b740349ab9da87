package generate

import (
	"regexp"
	"strings"
)

var (
	numberPattern   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	namePairPattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// UnsupportedTerms scans an answer for numbers and capitalized name pairs
// that appear neither in the serialized bundle nor in the question. The
// answer is never modified; callers log what comes back. An empty result
// means every checkable claim traces to retrieved data.
func UnsupportedTerms(answer, serialized, question string) []string {
	haystack := strings.ToLower(serialized + "\n" + question)

	var unsupported []string
	seen := map[string]bool{}
	check := func(term string) {
		needle := strings.ToLower(strings.Trim(term, ","))
		if needle == "" || seen[needle] {
			return
		}
		seen[needle] = true
		if !strings.Contains(haystack, needle) {
			unsupported = append(unsupported, strings.Trim(term, ","))
		}
	}

	for _, m := range numberPattern.FindAllString(answer, -1) {
		check(m)
	}
	for _, m := range namePairPattern.FindAllString(answer, -1) {
		check(m)
	}
	return unsupported
}
