package eval

import (
	"regexp"
	"strings"
)

// Claim patterns mirror the answer verifier: full names and numbers are
// the claims a grounded answer must be able to point back to.
var (
	numberClaim = regexp.MustCompile(`\d[\d,]*`)
	nameClaim   = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
)

// scoreKeys computes the fraction of expected context keys present in the
// answer sources and returns the ones that were missing.
func scoreKeys(sources, expected []string) (float64, []string) {
	if len(expected) == 0 {
		return 1.0, nil
	}
	present := make(map[string]bool, len(sources))
	for _, s := range sources {
		present[s] = true
	}
	var missing []string
	for _, key := range expected {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	return float64(len(expected)-len(missing)) / float64(len(expected)), missing
}

// scoreFacts computes the fraction of expected facts the answer mentions,
// matching case-insensitively, and returns the ones that were missing.
func scoreFacts(answer string, facts []string) (float64, []string) {
	if len(facts) == 0 {
		return 1.0, nil
	}
	lower := strings.ToLower(answer)
	var missing []string
	for _, fact := range facts {
		if !strings.Contains(lower, strings.ToLower(fact)) {
			missing = append(missing, fact)
		}
	}
	return float64(len(facts)-len(missing)) / float64(len(facts)), missing
}

// computeGrounding extracts name and number claims from the answer and
// returns the fraction found in the serialized context or the question.
// An answer with no extractable claims scores 1.0.
func computeGrounding(answer, serialized, question string) float64 {
	haystack := strings.ToLower(serialized + "\n" + question)

	claims := nameClaim.FindAllString(answer, -1)
	claims = append(claims, numberClaim.FindAllString(answer, -1)...)

	seen := make(map[string]bool)
	total, grounded := 0, 0
	for _, claim := range claims {
		key := strings.ToLower(strings.Trim(claim, ","))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		total++
		if strings.Contains(haystack, key) {
			grounded++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(grounded) / float64(total)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
