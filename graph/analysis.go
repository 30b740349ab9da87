package graph

import "fmt"

// Network analysis queries. These are heuristic approximations tuned for
// small investigative graphs, not exact centrality algorithms, and their
// names and formulas are kept stable because downstream consumers key on
// them.

// InfluenceRanking scores persons by crime_count*0.5 + connections*0.5, an
// approximation of influence rather than true PageRank.
var InfluenceRanking = Descriptor{
	Name: "influence_ranking",
	Key:  "influence_ranking",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:PARTY_TO]->(c:Crime)
		WITH p, count(c) AS crimes
		OPTIONAL MATCH (p)-[:KNOWS]-(other:Person)
		WITH p, crimes, count(DISTINCT other) AS connections
		RETURN p.name AS name, crimes, connections,
		       crimes * 0.5 + connections * 0.5 AS influence_score
		ORDER BY influence_score DESC
		LIMIT 15`,
}

// GangBridges approximates betweenness: persons whose acquaintances span at
// least two organizations.
var GangBridges = Descriptor{
	Name: "gang_bridges",
	Key:  "gang_bridges",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:KNOWS]-(member:Person)-[:MEMBER_OF]->(g:Organization)
		WITH p, collect(DISTINCT g.name) AS connected_gangs
		WHERE size(connected_gangs) >= 2
		RETURN p.name AS name, connected_gangs,
		       size(connected_gangs) AS gang_count
		ORDER BY gang_count DESC
		LIMIT 15`,
}

// NetworkHubs is degree centrality: distinct neighbors over any
// relationship type.
var NetworkHubs = Descriptor{
	Name: "network_hubs",
	Key:  "network_hubs",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[r]-(connected)
		RETURN p.name AS name, count(DISTINCT connected) AS connection_count
		ORDER BY connection_count DESC
		LIMIT 15`,
}

// HiddenRings finds co-offender pairs sharing two or more crimes where
// neither belongs to any organization.
var HiddenRings = Descriptor{
	Name: "hidden_rings",
	Key:  "hidden_rings",
	Kind: KindList,
	Template: `
		MATCH (p1:Person)-[:PARTY_TO]->(c:Crime)<-[:PARTY_TO]-(p2:Person)
		WHERE p1.name < p2.name
		  AND NOT (p1)-[:MEMBER_OF]->(:Organization)
		  AND NOT (p2)-[:MEMBER_OF]->(:Organization)
		WITH p1, p2, count(c) AS shared_crimes
		WHERE shared_crimes >= 2
		RETURN p1.name AS person1, p2.name AS person2, shared_crimes
		ORDER BY shared_crimes DESC
		LIMIT 15`,
}

// Triangles lists closed KNOWS triples, ordered names preventing duplicate
// rotations of the same triangle.
var Triangles = Descriptor{
	Name: "triangles",
	Key:  "triangles",
	Kind: KindList,
	Template: `
		MATCH (a:Person)-[:KNOWS]-(b:Person)-[:KNOWS]-(c:Person)-[:KNOWS]-(a)
		WHERE a.name < b.name AND b.name < c.name
		RETURN a.name AS person1, b.name AS person2, c.name AS person3
		LIMIT 20`,
}

// Collaborations lists co-offending pairs with their shared crime types and
// a same-gang/different-gang/unaffiliated classification.
var Collaborations = Descriptor{
	Name: "collaborations",
	Key:  "collaborations",
	Kind: KindList,
	Template: `
		MATCH (p1:Person)-[:PARTY_TO]->(c:Crime)<-[:PARTY_TO]-(p2:Person)
		WHERE p1.name < p2.name
		OPTIONAL MATCH (p1)-[:MEMBER_OF]->(g1:Organization)
		OPTIONAL MATCH (p2)-[:MEMBER_OF]->(g2:Organization)
		WITH p1, p2, count(DISTINCT c) AS shared_crimes,
		     collect(DISTINCT c.type) AS crime_types, g1, g2
		RETURN p1.name AS person1, p2.name AS person2, shared_crimes,
		       crime_types,
		       CASE
		         WHEN g1 IS NULL OR g2 IS NULL THEN 'unaffiliated'
		         WHEN g1.name = g2.name THEN 'same_gang'
		         ELSE 'different_gang'
		       END AS gang_status
		ORDER BY shared_crimes DESC
		LIMIT 20`,
}

// CrossGangCollaboration is the subset of collaborations where the pair
// belongs to different organizations.
var CrossGangCollaboration = Descriptor{
	Name: "cross_gang_collaboration",
	Key:  "cross_gang_collaboration",
	Kind: KindList,
	Template: `
		MATCH (p1:Person)-[:MEMBER_OF]->(g1:Organization),
		      (p2:Person)-[:MEMBER_OF]->(g2:Organization),
		      (p1)-[:PARTY_TO]->(c:Crime)<-[:PARTY_TO]-(p2)
		WHERE p1.name < p2.name AND g1.name <> g2.name
		RETURN p1.name AS person1, g1.name AS gang1,
		       p2.name AS person2, g2.name AS gang2,
		       count(DISTINCT c) AS shared_crimes
		ORDER BY shared_crimes DESC
		LIMIT 15`,
}

var shortestPathTemplate = Descriptor{
	Name: "shortest_path",
	Key:  "shortest_path",
	Kind: KindList,
	Template: `
		MATCH (p1:Person), (p2:Person)
		WHERE p1.name =~ '{pattern1}' AND p2.name =~ '{pattern2}'
		MATCH path = shortestPath((p1)-[:KNOWS*..6]-(p2))
		RETURN [n IN nodes(path) | n.name] AS path_names,
		       length(path) AS path_length
		LIMIT 1`,
}

// ShortestPath binds the KNOWS shortest-path query for two person names.
func ShortestPath(from, to string) Bound {
	return bindPattern(shortestPathTemplate, shortestPathTemplate.Key, from, to)
}

var degree1Template = Descriptor{
	Name: "degree_1_connections",
	Key:  "degree_1_connections",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:KNOWS]-(direct:Person)
		WHERE p.name =~ '{pattern}'
		RETURN DISTINCT direct.name AS name, direct.occupation AS occupation
		LIMIT 30`,
}

var degree2Template = Descriptor{
	Name: "degree_2_connections",
	Key:  "degree_2_connections",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:KNOWS]-(direct:Person)-[:KNOWS]-(indirect:Person)
		WHERE p.name =~ '{pattern}' AND indirect.name <> p.name
		RETURN DISTINCT indirect.name AS name, direct.name AS via
		LIMIT 50`,
}

var networkGangsTemplate = Descriptor{
	Name: "network_gangs",
	Key:  "network_gangs",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:KNOWS*1..2]-(connected:Person)-[:MEMBER_OF]->(g:Organization)
		WHERE p.name =~ '{pattern}'
		RETURN DISTINCT g.name AS gang, count(DISTINCT connected) AS members_in_network
		ORDER BY members_in_network DESC
		LIMIT 50`,
}

// DegreeConnections binds the first- and second-degree network expansion
// plus the gang affiliations of the discovered network for one person.
func DegreeConnections(name string) []Bound {
	return []Bound{
		bindPattern(degree1Template, degree1Template.Key, name),
		bindPattern(degree2Template, degree2Template.Key, name),
		bindPattern(networkGangsTemplate, networkGangsTemplate.Key, name),
	}
}

// entityKey builds entity-scoped bundle keys such as org_West Side
// Crew_crimes or Austin_suspects. Key shape is part of the public contract.
func entityKey(format, name string) string {
	return fmt.Sprintf(format, name)
}
