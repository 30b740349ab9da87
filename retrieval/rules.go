package retrieval

import (
	"strings"

	"github.com/casegraph/casegraph/extract"
	"github.com/casegraph/casegraph/graph"
)

// maxEntityQueries caps how many extracted entities of one kind get their
// own scoped queries. Conversation memory can accumulate more entities than
// a single answer can use.
const maxEntityQueries = 3

// rule maps question signals to a set of catalog queries. Rules are
// evaluated in table order with OR semantics: every rule whose match fires
// contributes its queries, so one question can span several intents.
type rule struct {
	name    string
	match   func(q string, ents extract.Entities) bool
	queries func(ents extract.Entities) []graph.Bound
}

// keywords builds a predicate that fires when any keyword occurs as a
// substring of the lowercased question.
func keywords(words ...string) func(string, extract.Entities) bool {
	return func(q string, _ extract.Entities) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

// fixed adapts parameterless catalog descriptors into a rule query set.
func fixed(ds ...graph.Descriptor) func(extract.Entities) []graph.Bound {
	return func(extract.Entities) []graph.Bound {
		return graph.BindFixed(ds...)
	}
}

func capNames(names []string) []string {
	if len(names) > maxEntityQueries {
		return names[:maxEntityQueries]
	}
	return names
}

// rules is evaluated in order; the baseline statistics query is not part of
// the table because it runs unconditionally before it.
var rules = []rule{
	{
		name: "degree_connections",
		match: func(q string, ents extract.Entities) bool {
			return len(ents.Persons) > 0 &&
				keywords("within", "degrees of", "connections of", "network of")(q, ents)
		},
		queries: func(ents extract.Entities) []graph.Bound {
			return graph.DegreeConnections(ents.Persons[0])
		},
	},
	{
		name:    "collaborations",
		match:   keywords("together", "same crime", "collaborated", "co-offender", "shared crime"),
		queries: fixed(graph.Collaborations),
	},
	{
		name:    "cross_gang_collaboration",
		match:   keywords("different gang", "cross-gang", "cross gang"),
		queries: fixed(graph.CrossGangCollaboration),
	},
	{
		name:    "influence_ranking",
		match:   keywords("influential", "most important", "key criminal", "pagerank", "influence"),
		queries: fixed(graph.InfluenceRanking),
	},
	{
		name:    "gang_bridges",
		match:   keywords("bridge", "multiple gang", "different gang", "cross-gang", "connects"),
		queries: fixed(graph.GangBridges),
	},
	{
		name:    "network_hubs",
		match:   keywords("most connected", "hub", "network hub", "degree central"),
		queries: fixed(graph.NetworkHubs),
	},
	{
		name: "shortest_path",
		match: func(q string, ents extract.Entities) bool {
			return len(ents.Persons) >= 2 &&
				keywords("path between", "connected to", "link between", "connection between")(q, ents)
		},
		queries: func(ents extract.Entities) []graph.Bound {
			return []graph.Bound{graph.ShortestPath(ents.Persons[0], ents.Persons[1])}
		},
	},
	{
		name:    "hidden_rings",
		match:   keywords("hidden", "crime ring", "working together", "community", "cluster"),
		queries: fixed(graph.HiddenRings),
	},
	{
		name:    "triangles",
		match:   keywords("triangle", "all know each other", "mutual", "clique"),
		queries: fixed(graph.Triangles),
	},
	{
		name:    "evidence_chains",
		match:   keywords("evidence chain", "evidence link", "evidence connect"),
		queries: fixed(graph.EvidenceChains),
	},
	{
		name:    "organizations",
		match:   keywords("organization", "gang", "crew"),
		queries: fixed(graph.AllOrganizations, graph.OrganizationMembers),
	},
	{
		name:    "hotspots",
		match:   keywords("hotspot", "most crime", "dangerous"),
		queries: fixed(graph.CrimeHotspots),
	},
	{
		name:    "repeat_offenders",
		match:   keywords("repeat", "offender"),
		queries: fixed(graph.RepeatOffenders),
	},
	{
		name:    "weapons",
		match:   keywords("weapon", "gun", "firearm", "armed"),
		queries: fixed(graph.AllWeapons, graph.WeaponOwnership, graph.WeaponUsage),
	},
	{
		name:    "vehicles",
		match:   keywords("vehicle", "car", "truck", "van", "getaway"),
		queries: fixed(graph.AllVehicles, graph.VehicleOwnership, graph.VehicleUsage),
	},
	{
		name:    "evidence",
		match:   keywords("evidence", "proof", "forensic", "clue"),
		queries: fixed(graph.AllEvidence, graph.EvidenceLinks, graph.CrimeEvidence),
	},
	{
		name:    "investigators",
		match:   keywords("investigator", "detective", "officer", "assigned"),
		queries: fixed(graph.AllInvestigators, graph.CaseAssignments),
	},
	{
		name:    "mo_patterns",
		match:   keywords("pattern", "modus operandi", "signature", "method", "similar crimes"),
		queries: fixed(graph.ModusOperandiPatterns, graph.ModusOperandiMatches),
	},
	{
		name:    "network_associations",
		match:   keywords("network", "associate", "association", "who knows"),
		queries: fixed(graph.NetworkAssociations),
	},
	{
		name: "organization_scoped",
		match: func(_ string, ents extract.Entities) bool {
			return len(ents.Organizations) > 0
		},
		queries: func(ents extract.Entities) []graph.Bound {
			var bounds []graph.Bound
			for _, org := range capNames(ents.Organizations) {
				bounds = append(bounds, graph.OrganizationCrimes(org))
			}
			return bounds
		},
	},
	{
		name: "location_scoped",
		match: func(_ string, ents extract.Entities) bool {
			return len(ents.Locations) > 0
		},
		queries: func(ents extract.Entities) []graph.Bound {
			var bounds []graph.Bound
			for _, loc := range capNames(ents.Locations) {
				bounds = append(bounds, graph.LocationCrimes(loc), graph.LocationSuspects(loc))
			}
			return bounds
		},
	},
	{
		name: "person_scoped",
		match: func(_ string, ents extract.Entities) bool {
			return len(ents.Persons) > 0
		},
		queries: func(ents extract.Entities) []graph.Bound {
			var bounds []graph.Bound
			for _, person := range capNames(ents.Persons) {
				bounds = append(bounds, graph.PersonProfile(person)...)
			}
			return bounds
		},
	},
}
