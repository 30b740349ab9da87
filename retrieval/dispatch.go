package retrieval

import (
	"strings"

	"github.com/casegraph/casegraph/extract"
	"github.com/casegraph/casegraph/graph"
)

// Dispatch selects the queries to run for a question. The baseline
// statistics query always runs first. Matching rules then contribute their
// queries in table order, and when nothing beyond the baseline fired the
// organizations overview runs so the bundle always has substantive
// content. Duplicate bundle keys keep their first binding.
func Dispatch(question string, ents extract.Entities) []graph.Bound {
	q := strings.ToLower(question)

	bounds := graph.BindFixed(graph.DatabaseStats)
	seen := map[string]bool{bounds[0].Key: true}

	add := func(more []graph.Bound) {
		for _, b := range more {
			if seen[b.Key] {
				continue
			}
			seen[b.Key] = true
			bounds = append(bounds, b)
		}
	}

	for _, r := range rules {
		if r.match(q, ents) {
			add(r.queries(ents))
		}
	}

	if len(bounds) == 1 {
		add(graph.BindFixed(graph.AllOrganizations, graph.OrganizationMembers))
	}
	return bounds
}
