package graph

import (
	"regexp"
	"strings"
)

// containsPattern builds the case-insensitive contains pattern spliced into
// person-scoped templates: (?i).*<name>.* with every regex metacharacter
// escaped. Single quotes are additionally escaped so the pattern stays
// inside its Cypher string literal.
//
// Interpolating the pattern into the query text mirrors the historical
// behavior; binding it as a $param instead is a known hardening item.
func containsPattern(name string) string {
	escaped := regexp.QuoteMeta(name)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "(?i).*" + escaped + ".*"
}
