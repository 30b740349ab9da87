package graph

// Entity-scoped queries. Organization and location names come from the
// gazetteer, so they bind as $params against exact node properties. Person
// names come from a heuristic and match by interpolated case-insensitive
// pattern instead, tolerating partial and differently-cased mentions.

var organizationCrimesTemplate = Descriptor{
	Name:     "organization_crimes",
	Key:      "org_%s_crimes",
	Kind:     KindList,
	Bindings: []string{"org_name"},
	Template: `
		MATCH (p:Person)-[:MEMBER_OF]->(o:Organization {name: $org_name})
		MATCH (p)-[:PARTY_TO]->(c:Crime)
		RETURN p.name AS member, c.type AS crime_type, c.date AS date,
		       c.description AS description, c.status AS status
		ORDER BY c.date DESC
		LIMIT 20`,
}

// OrganizationCrimes binds the per-organization crime list under the key
// org_{name}_crimes.
func OrganizationCrimes(name string) Bound {
	bound, _ := organizationCrimesTemplate.Bind(map[string]any{"org_name": name})
	bound.Key = entityKey(organizationCrimesTemplate.Key, name)
	return bound
}

var locationCrimesTemplate = Descriptor{
	Name:     "location_crimes",
	Key:      "%s_crimes",
	Kind:     KindList,
	Bindings: []string{"location"},
	Template: `
		MATCH (c:Crime)-[:OCCURRED_AT]->(l:Location {name: $location})
		RETURN c.type AS crime_type, c.date AS date,
		       c.description AS description, c.severity AS severity,
		       c.arrest_made AS arrest_made
		ORDER BY c.date DESC
		LIMIT 15`,
}

// LocationCrimes binds the per-location crime list under the key
// {name}_crimes.
func LocationCrimes(name string) Bound {
	bound, _ := locationCrimesTemplate.Bind(map[string]any{"location": name})
	bound.Key = entityKey(locationCrimesTemplate.Key, name)
	return bound
}

var locationSuspectsTemplate = Descriptor{
	Name:     "location_suspects",
	Key:      "%s_suspects",
	Kind:     KindList,
	Bindings: []string{"location"},
	Template: `
		MATCH (p:Person)-[:PARTY_TO]->(c:Crime)-[:OCCURRED_AT]->(l:Location {name: $location})
		RETURN p.name AS name, p.occupation AS occupation,
		       count(c) AS crimes_at_location
		ORDER BY crimes_at_location DESC
		LIMIT 15`,
}

// LocationSuspects binds the per-location suspect list under the key
// {name}_suspects.
func LocationSuspects(name string) Bound {
	bound, _ := locationSuspectsTemplate.Bind(map[string]any{"location": name})
	bound.Key = entityKey(locationSuspectsTemplate.Key, name)
	return bound
}

var personInfoTemplate = Descriptor{
	Name: "person_info",
	Key:  "%s_info",
	Kind: KindList,
	Template: `
		MATCH (p:Person)
		WHERE p.name =~ '{pattern}'
		RETURN p.name AS name, p.age AS age, p.occupation AS occupation
		LIMIT 5`,
}

var personOrganizationsTemplate = Descriptor{
	Name: "person_organizations",
	Key:  "%s_organizations",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:MEMBER_OF]->(o:Organization)
		WHERE p.name =~ '{pattern}'
		RETURN p.name AS name, o.name AS organization, o.type AS org_type,
		       o.territory AS territory
		LIMIT 10`,
}

var personCrimesTemplate = Descriptor{
	Name: "person_crimes",
	Key:  "%s_crimes",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:PARTY_TO]->(c:Crime)
		WHERE p.name =~ '{pattern}'
		RETURN p.name AS name, c.type AS crime_type, c.date AS date,
		       c.description AS description, c.status AS status
		ORDER BY c.date DESC
		LIMIT 15`,
}

var personAssociatesTemplate = Descriptor{
	Name: "person_associates",
	Key:  "%s_associates",
	Kind: KindList,
	Template: `
		MATCH (p:Person)-[:KNOWS]-(associate:Person)
		WHERE p.name =~ '{pattern}'
		RETURN DISTINCT associate.name AS name,
		       associate.occupation AS occupation
		LIMIT 20`,
}

// PersonProfile binds the profile queries for one person name: identity,
// organization memberships, crimes, and known associates, keyed
// {name}_info, {name}_organizations, {name}_crimes, {name}_associates.
func PersonProfile(name string) []Bound {
	return []Bound{
		bindPattern(personInfoTemplate, entityKey(personInfoTemplate.Key, name), name),
		bindPattern(personOrganizationsTemplate, entityKey(personOrganizationsTemplate.Key, name), name),
		bindPattern(personCrimesTemplate, entityKey(personCrimesTemplate.Key, name), name),
		bindPattern(personAssociatesTemplate, entityKey(personAssociatesTemplate.Key, name), name),
	}
}
