package graph

// Baseline statistics, always executed first so every answer can fall back
// to a database overview.
var DatabaseStats = Descriptor{
	Name: "database_stats",
	Key:  "database_stats",
	Kind: KindStats,
	Template: `
		MATCH (c:Crime) WITH count(c) AS crimes
		MATCH (p:Person) WITH crimes, count(p) AS persons
		MATCH (o:Organization) WITH crimes, persons, count(o) AS organizations
		MATCH (l:Location) WITH crimes, persons, organizations, count(l) AS locations
		MATCH (e:Evidence)
		RETURN crimes, persons, organizations, locations, count(e) AS evidence`,
}

var AllOrganizations = Descriptor{
	Name: "all_organizations",
	Key:  "all_organizations",
	Kind: KindList,
	Template: `
		MATCH (o:Organization)
		RETURN o.name AS name, o.type AS type, o.territory AS territory,
		       o.members_count AS members, o.activity_level AS activity_level
		ORDER BY o.members_count DESC
		LIMIT 25`,
}

var OrganizationMembers = Descriptor{
	Name: "organization_members",
	Key:  "organization_members",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:MEMBER_OF]->(o:Organization)
		RETURN o.name AS organization, collect(p.name) AS members,
		       count(p) AS member_count
		ORDER BY member_count DESC
		LIMIT 50`,
}

var AllEvidence = Descriptor{
	Name: "all_evidence",
	Key:  "all_evidence",
	Kind: KindList,
	Template: `
		MATCH (e:Evidence)
		RETURN e.id AS id, e.type AS type, e.description AS description,
		       e.significance AS significance, e.verified AS verified
		ORDER BY e.significance DESC
		LIMIT 25`,
}

var EvidenceLinks = Descriptor{
	Name: "evidence_links",
	Key:  "evidence_links",
	Kind: KindList,
	Template: `
		MATCH (e:Evidence)-[:LINKS_TO]->(p:Person)
		RETURN e.type AS evidence_type, e.description AS description,
		       p.name AS suspect
		LIMIT 25`,
}

var CrimeEvidence = Descriptor{
	Name: "crime_evidence",
	Key:  "crime_evidence",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:HAS_EVIDENCE]->(e:Evidence)
		RETURN c.type AS crime_type, c.date AS date,
		       e.type AS evidence_type, e.verified AS verified
		LIMIT 25`,
}

var EvidenceChains = Descriptor{
	Name: "evidence_chains",
	Key:  "evidence_chains",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:HAS_EVIDENCE]->(e:Evidence)-[:LINKS_TO]->(p:Person)
		RETURN c.type AS crime_type, c.date AS date,
		       e.type AS evidence_type, p.name AS suspect
		ORDER BY c.date DESC
		LIMIT 20`,
}

var AllInvestigators = Descriptor{
	Name: "all_investigators",
	Key:  "all_investigators",
	Kind: KindList,
	Template: `
		MATCH (i:Investigator)
		RETURN i.name AS name, i.badge_number AS badge_number,
		       i.department AS department, i.specialization AS specialization,
		       i.cases_solved AS cases_solved, i.active_cases AS active_cases
		ORDER BY i.cases_solved DESC
		LIMIT 20`,
}

var CaseAssignments = Descriptor{
	Name: "case_assignments",
	Key:  "case_assignments",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:INVESTIGATED_BY]->(i:Investigator)
		RETURN i.name AS investigator, c.type AS crime_type, c.date AS date,
		       c.status AS status
		ORDER BY c.date DESC
		LIMIT 30`,
}

var ModusOperandiPatterns = Descriptor{
	Name: "mo_patterns",
	Key:  "mo_patterns",
	Kind: KindList,
	Template: `
		MATCH (m:ModusOperandi)
		RETURN m.description AS description, m.signature_element AS signature,
		       m.frequency AS frequency, m.confidence_score AS confidence
		ORDER BY m.frequency DESC
		LIMIT 20`,
}

var ModusOperandiMatches = Descriptor{
	Name: "mo_crime_matches",
	Key:  "mo_crime_matches",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:MATCHES_MO]->(m:ModusOperandi)
		RETURN m.signature_element AS signature, c.type AS crime_type,
		       c.date AS date, m.confidence_score AS confidence
		ORDER BY m.confidence_score DESC
		LIMIT 25`,
}

var AllWeapons = Descriptor{
	Name: "all_weapons",
	Key:  "all_weapons",
	Kind: KindList,
	Template: `
		MATCH (w:Weapon)
		RETURN w.type AS type, w.make AS make, w.model AS model,
		       w.recovered AS recovered
		LIMIT 25`,
}

var WeaponOwnership = Descriptor{
	Name: "weapon_ownership",
	Key:  "weapon_ownership",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:OWNS]->(w:Weapon)
		RETURN p.name AS owner, w.type AS weapon_type, w.make AS make,
		       w.recovered AS recovered
		LIMIT 25`,
}

var WeaponUsage = Descriptor{
	Name: "weapon_usage",
	Key:  "weapon_usage",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:USED_WEAPON]->(w:Weapon)
		RETURN c.type AS crime_type, c.date AS date, w.type AS weapon_type,
		       w.make AS make
		ORDER BY c.date DESC
		LIMIT 25`,
}

var AllVehicles = Descriptor{
	Name: "all_vehicles",
	Key:  "all_vehicles",
	Kind: KindList,
	Template: `
		MATCH (v:Vehicle)
		RETURN v.make AS make, v.model AS model, v.year AS year,
		       v.color AS color, v.license_plate AS license_plate,
		       v.reported_stolen AS reported_stolen
		LIMIT 25`,
}

var VehicleOwnership = Descriptor{
	Name: "vehicle_ownership",
	Key:  "vehicle_ownership",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:OWNS]->(v:Vehicle)
		RETURN p.name AS owner, v.make AS make, v.model AS model,
		       v.color AS color, v.license_plate AS license_plate
		LIMIT 25`,
}

var VehicleUsage = Descriptor{
	Name: "vehicle_usage",
	Key:  "vehicle_usage",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:INVOLVED_VEHICLE]->(v:Vehicle)
		RETURN c.type AS crime_type, c.date AS date, v.make AS make,
		       v.model AS model, v.color AS color
		ORDER BY c.date DESC
		LIMIT 25`,
}

var CrimeHotspots = Descriptor{
	Name: "crime_hotspots",
	Key:  "crime_hotspots",
	Kind: KindList,
	Template: `
		MATCH (c:Crime)-[:OCCURRED_AT]->(l:Location)
		RETURN l.name AS location, l.district AS district,
		       count(c) AS crime_count
		ORDER BY crime_count DESC
		LIMIT 10`,
}

var RepeatOffenders = Descriptor{
	Name: "repeat_offenders",
	Key:  "repeat_offenders",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:PARTY_TO]->(c:Crime)
		WITH p, count(c) AS crime_count
		WHERE crime_count >= 2
		RETURN p.name AS name, p.occupation AS occupation, crime_count
		ORDER BY crime_count DESC
		LIMIT 15`,
}

var NetworkAssociations = Descriptor{
	Name: "network_associations",
	Key:  "network_associations",
	Kind: KindList,
	Template: `
		MATCH (p1:Person)-[:KNOWS]-(p2:Person)
		WHERE p1.name < p2.name
		RETURN p1.name AS person1, p2.name AS person2
		LIMIT 30`,
}
