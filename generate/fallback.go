package generate

import (
	"fmt"
	"strings"

	"github.com/casegraph/casegraph/retrieval"
	"github.com/casegraph/casegraph/store"
)

// noDataMessage is the fixed answer for an empty bundle.
const noDataMessage = "I could not find matching records in the case graph for that question. " +
	"Try asking about organizations, suspects, locations, evidence, or connections between people."

// Fallback renders a deterministic answer straight from the bundle. It
// walks keys in a fixed priority order and emits one short section per key
// family. Every name and count in the output is read from the bundle, so
// the fallback can never claim something retrieval did not return.
func Fallback(bundle *retrieval.Bundle) string {
	if bundle == nil || bundle.Len() == 0 {
		return noDataMessage
	}

	var sections []string
	add := func(s string) {
		if s != "" {
			sections = append(sections, s)
		}
	}

	add(renderOrganizations(bundle))
	add(renderMembers(bundle))
	add(renderEvidence(bundle))
	add(renderLocationSuspects(bundle))
	add(renderHotspots(bundle))

	add(renderDegreeConnections(bundle))
	add(renderCollaborations(bundle))
	add(renderCrossGang(bundle))
	add(renderInfluence(bundle))
	add(renderBridges(bundle))
	add(renderHubs(bundle))
	add(renderRepeatOffenders(bundle))
	add(renderRings(bundle))
	add(renderShortestPath(bundle))
	add(renderWeapons(bundle))
	add(renderVehicles(bundle))
	add(renderInvestigators(bundle))
	add(renderOrgCrimes(bundle))
	add(renderScopedCrimes(bundle))
	add(renderPersonProfiles(bundle))

	if len(sections) == 0 {
		add(renderOverview(bundle))
	}
	if len(sections) == 0 {
		return noDataMessage
	}
	return strings.Join(sections, "\n\n") + "\n\nWould you like more details on any of these?"
}

// Row value helpers. The graph driver returns int64, JSON decoding yields
// float64, and tests use plain ints; all three read as integers here.

func stringAt(row store.Row, key string) string {
	v, _ := row[key].(string)
	return v
}

func intAt(row store.Row, key string) (int64, bool) {
	switch v := row[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func namesAt(row store.Row, key string) []string {
	switch vals := row[key].(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func bold(s string) string {
	return "**" + s + "**"
}

func boldJoin(names []string, max int) string {
	if len(names) > max {
		names = names[:max]
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = bold(n)
	}
	return strings.Join(quoted, ", ")
}

func listRows(bundle *retrieval.Bundle, key string) []store.Row {
	item, ok := bundle.Get(key)
	if !ok {
		return nil
	}
	return item.Rows
}

// renderOrganizations names every organization present in the bundle.
func renderOrganizations(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "all_organizations")
	if len(rows) == 0 {
		return ""
	}
	var parts []string
	for _, row := range rows {
		name := stringAt(row, "name")
		if name == "" {
			continue
		}
		part := bold(name)
		if typ := stringAt(row, "type"); typ != "" {
			part += " (" + typ + ")"
		}
		if territory := stringAt(row, "territory"); territory != "" {
			part += " operating in " + territory
		}
		if members, ok := intAt(row, "members"); ok {
			part += fmt.Sprintf(" with %s members", bold(fmt.Sprintf("%d", members)))
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("The database tracks %s criminal organizations: %s.",
		bold(fmt.Sprintf("%d", len(parts))), strings.Join(parts, "; "))
}

func renderMembers(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "organization_members")
	if len(rows) == 0 {
		return ""
	}
	var parts []string
	for i, row := range rows {
		if i == 3 {
			break
		}
		org := stringAt(row, "organization")
		if org == "" {
			continue
		}
		members := namesAt(row, "members")
		count, ok := intAt(row, "member_count")
		if !ok {
			count = int64(len(members))
		}
		part := fmt.Sprintf("%s has %s identified members", bold(org), bold(fmt.Sprintf("%d", count)))
		if len(members) > 0 {
			part += ", including " + boldJoin(members, 3)
		}
		parts = append(parts, part+".")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ")
}

func renderEvidence(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "all_evidence")
	if len(rows) == 0 {
		return ""
	}
	section := fmt.Sprintf("There are %s evidence records on file.", bold(fmt.Sprintf("%d", len(rows))))
	var examples []string
	for i, row := range rows {
		if i == 3 {
			break
		}
		typ := stringAt(row, "type")
		if typ == "" {
			continue
		}
		example := bold(typ)
		if desc := stringAt(row, "description"); desc != "" {
			example += ": " + desc
		}
		examples = append(examples, example)
	}
	if len(examples) > 0 {
		section += " Notable items include " + strings.Join(examples, "; ") + "."
	}
	if chains := listRows(bundle, "evidence_chains"); len(chains) > 0 {
		section += fmt.Sprintf(" %s evidence chains link crimes to suspects.",
			bold(fmt.Sprintf("%d", len(chains))))
	}
	return section
}

func renderLocationSuspects(bundle *retrieval.Bundle) string {
	var parts []string
	for _, key := range bundle.Keys() {
		if !strings.HasSuffix(key, "_suspects") {
			continue
		}
		rows := listRows(bundle, key)
		if len(rows) == 0 {
			continue
		}
		location := strings.TrimSuffix(key, "_suspects")
		var suspects []string
		for i, row := range rows {
			if i == 5 {
				break
			}
			if name := stringAt(row, "name"); name != "" {
				suspects = append(suspects, name)
			}
		}
		if len(suspects) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("Records around %s name %s suspects, including %s.",
			bold(location), bold(fmt.Sprintf("%d", len(rows))), boldJoin(suspects, 5)))
	}
	return strings.Join(parts, " ")
}

func renderHotspots(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "crime_hotspots")
	if len(rows) == 0 {
		return ""
	}
	var spots []string
	for i, row := range rows {
		if i == 5 {
			break
		}
		location := stringAt(row, "location")
		if location == "" {
			continue
		}
		spot := bold(location)
		if count, ok := intAt(row, "crime_count"); ok {
			spot += fmt.Sprintf(" (%s crimes)", bold(fmt.Sprintf("%d", count)))
		}
		spots = append(spots, spot)
	}
	if len(spots) == 0 {
		return ""
	}
	return "The heaviest crime concentrations are " + strings.Join(spots, ", ") + "."
}

func renderOverview(bundle *retrieval.Bundle) string {
	item, ok := bundle.Get("database_stats")
	if !ok || item.Stats == nil {
		return ""
	}
	stats := item.Stats
	var counts []string
	for _, field := range []string{"crimes", "persons", "organizations", "locations", "evidence"} {
		if n, ok := intAt(stats, field); ok {
			counts = append(counts, fmt.Sprintf("%s %s", bold(fmt.Sprintf("%d", n)), field))
		}
	}
	if len(counts) == 0 {
		return ""
	}
	return "The case graph currently holds " + strings.Join(counts, ", ") + "."
}

func renderDegreeConnections(bundle *retrieval.Bundle) string {
	direct := listRows(bundle, "degree_1_connections")
	if len(direct) == 0 {
		return ""
	}
	var names []string
	for _, row := range direct {
		if name := stringAt(row, "name"); name != "" {
			names = append(names, name)
		}
	}
	section := fmt.Sprintf("The direct network covers %s individuals", bold(fmt.Sprintf("%d", len(direct))))
	if len(names) > 0 {
		section += ", including " + boldJoin(names, 4)
	}
	section += "."
	if second := listRows(bundle, "degree_2_connections"); len(second) > 0 {
		section += fmt.Sprintf(" The second degree reaches %s more people.",
			bold(fmt.Sprintf("%d", len(second))))
	}
	if gangs := listRows(bundle, "network_gangs"); len(gangs) > 0 {
		var gangNames []string
		for _, row := range gangs {
			if g := stringAt(row, "gang"); g != "" {
				gangNames = append(gangNames, g)
			}
		}
		if len(gangNames) > 0 {
			section += " Gangs touched by this network: " + boldJoin(gangNames, 4) + "."
		}
	}
	return section
}

func renderCollaborations(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "collaborations")
	if len(rows) == 0 {
		return ""
	}
	var pairs []string
	for i, row := range rows {
		if i == 3 {
			break
		}
		p1, p2 := stringAt(row, "person1"), stringAt(row, "person2")
		if p1 == "" || p2 == "" {
			continue
		}
		pair := bold(p1) + " and " + bold(p2)
		if shared, ok := intAt(row, "shared_crimes"); ok {
			pair += fmt.Sprintf(" (%s shared crimes)", bold(fmt.Sprintf("%d", shared)))
		}
		pairs = append(pairs, pair)
	}
	if len(pairs) == 0 {
		return ""
	}
	return "Known co-offending pairs include " + strings.Join(pairs, "; ") + "."
}

func renderCrossGang(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "cross_gang_collaboration")
	if len(rows) == 0 {
		return ""
	}
	row := rows[0]
	p1, g1 := stringAt(row, "person1"), stringAt(row, "gang1")
	p2, g2 := stringAt(row, "person2"), stringAt(row, "gang2")
	if p1 == "" || p2 == "" {
		return ""
	}
	first, second := bold(p1), bold(p2)
	if g1 != "" {
		first += " of " + bold(g1)
	}
	if g2 != "" {
		second += " of " + bold(g2)
	}
	return fmt.Sprintf("%s cross-gang collaborations stand out, led by %s working with %s.",
		bold(fmt.Sprintf("%d", len(rows))), first, second)
}

func renderInfluence(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "influence_ranking")
	if len(rows) == 0 {
		return ""
	}
	row := rows[0]
	name := stringAt(row, "name")
	if name == "" {
		return ""
	}
	section := bold(name) + " tops the influence ranking"
	crimes, cok := intAt(row, "crimes")
	connections, nok := intAt(row, "connections")
	if cok && nok {
		section += fmt.Sprintf(" with %s crimes and %s connections",
			bold(fmt.Sprintf("%d", crimes)), bold(fmt.Sprintf("%d", connections)))
	}
	section += "."
	if len(rows) > 1 {
		if runnerUp := stringAt(rows[1], "name"); runnerUp != "" {
			section += " " + bold(runnerUp) + " ranks second."
		}
	}
	return section
}

func renderBridges(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "gang_bridges")
	if len(rows) == 0 {
		return ""
	}
	var parts []string
	for i, row := range rows {
		if i == 3 {
			break
		}
		name := stringAt(row, "name")
		if name == "" {
			continue
		}
		part := bold(name)
		if count, ok := intAt(row, "gang_count"); ok {
			part += fmt.Sprintf(" (spanning %s gangs)", bold(fmt.Sprintf("%d", count)))
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Potential bridges between organizations: " + strings.Join(parts, ", ") + "."
}

func renderHubs(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "network_hubs")
	if len(rows) == 0 {
		return ""
	}
	row := rows[0]
	name := stringAt(row, "name")
	if name == "" {
		return ""
	}
	section := bold(name) + " is the most connected figure in the network"
	if count, ok := intAt(row, "connection_count"); ok {
		section += fmt.Sprintf(" with %s distinct connections", bold(fmt.Sprintf("%d", count)))
	}
	return section + "."
}

func renderRepeatOffenders(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "repeat_offenders")
	if len(rows) == 0 {
		return ""
	}
	var parts []string
	for i, row := range rows {
		if i == 5 {
			break
		}
		name := stringAt(row, "name")
		if name == "" {
			continue
		}
		part := bold(name)
		if count, ok := intAt(row, "crime_count"); ok {
			part += fmt.Sprintf(" (%s crimes)", bold(fmt.Sprintf("%d", count)))
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("%s repeat offenders appear in the records: %s.",
		bold(fmt.Sprintf("%d", len(rows))), strings.Join(parts, ", "))
}

func renderRings(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "hidden_rings")
	if len(rows) == 0 {
		return ""
	}
	row := rows[0]
	p1, p2 := stringAt(row, "person1"), stringAt(row, "person2")
	if p1 == "" || p2 == "" {
		return ""
	}
	section := fmt.Sprintf("%s possible hidden rings surfaced; %s and %s repeatedly offend together without any gang affiliation",
		bold(fmt.Sprintf("%d", len(rows))), bold(p1), bold(p2))
	if shared, ok := intAt(row, "shared_crimes"); ok {
		section += fmt.Sprintf(" (%s shared crimes)", bold(fmt.Sprintf("%d", shared)))
	}
	return section + "."
}

func renderShortestPath(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "shortest_path")
	if len(rows) == 0 {
		return ""
	}
	row := rows[0]
	names := namesAt(row, "path_names")
	if len(names) == 0 {
		return ""
	}
	section := "The shortest known path runs " + boldJoin(names, len(names))
	if length, ok := intAt(row, "path_length"); ok {
		section += fmt.Sprintf(" (%s hops)", bold(fmt.Sprintf("%d", length)))
	}
	return section + "."
}

func renderWeapons(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "all_weapons")
	if len(rows) == 0 {
		return ""
	}
	var types []string
	for i, row := range rows {
		if i == 4 {
			break
		}
		if typ := stringAt(row, "type"); typ != "" {
			types = append(types, typ)
		}
	}
	section := fmt.Sprintf("%s weapons are cataloged", bold(fmt.Sprintf("%d", len(rows))))
	if len(types) > 0 {
		section += ", including " + boldJoin(types, 4)
	}
	section += "."
	if usage := listRows(bundle, "weapon_usage"); len(usage) > 0 {
		section += fmt.Sprintf(" %s crimes involved a recorded weapon.",
			bold(fmt.Sprintf("%d", len(usage))))
	}
	return section
}

func renderVehicles(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "all_vehicles")
	if len(rows) == 0 {
		return ""
	}
	var described []string
	for i, row := range rows {
		if i == 3 {
			break
		}
		make_, model := stringAt(row, "make"), stringAt(row, "model")
		if make_ == "" {
			continue
		}
		desc := make_
		if model != "" {
			desc += " " + model
		}
		if color := stringAt(row, "color"); color != "" {
			desc = color + " " + desc
		}
		described = append(described, bold(desc))
	}
	section := fmt.Sprintf("%s vehicles appear in the records", bold(fmt.Sprintf("%d", len(rows))))
	if len(described) > 0 {
		section += ", among them " + strings.Join(described, ", ")
	}
	section += "."
	if usage := listRows(bundle, "vehicle_usage"); len(usage) > 0 {
		section += fmt.Sprintf(" %s crimes involved a recorded vehicle.",
			bold(fmt.Sprintf("%d", len(usage))))
	}
	return section
}

func renderInvestigators(bundle *retrieval.Bundle) string {
	rows := listRows(bundle, "all_investigators")
	if len(rows) == 0 {
		return ""
	}
	var parts []string
	for i, row := range rows {
		if i == 3 {
			break
		}
		name := stringAt(row, "name")
		if name == "" {
			continue
		}
		part := bold(name)
		if dept := stringAt(row, "department"); dept != "" {
			part += " (" + dept + ")"
		}
		if solved, ok := intAt(row, "cases_solved"); ok {
			part += fmt.Sprintf(" with %s cases solved", bold(fmt.Sprintf("%d", solved)))
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("%s investigators are working these cases, led by %s.",
		bold(fmt.Sprintf("%d", len(rows))), strings.Join(parts, ", "))
}

func renderOrgCrimes(bundle *retrieval.Bundle) string {
	var parts []string
	for _, key := range bundle.Keys() {
		if !strings.HasPrefix(key, "org_") || !strings.HasSuffix(key, "_crimes") {
			continue
		}
		rows := listRows(bundle, key)
		if len(rows) == 0 {
			continue
		}
		org := strings.TrimSuffix(strings.TrimPrefix(key, "org_"), "_crimes")
		var examples []string
		for i, row := range rows {
			if i == 3 {
				break
			}
			crimeType := stringAt(row, "crime_type")
			if crimeType == "" {
				continue
			}
			example := bold(crimeType)
			if member := stringAt(row, "member"); member != "" {
				example += " involving " + bold(member)
			}
			examples = append(examples, example)
		}
		part := fmt.Sprintf("%s is tied to %s recorded crimes", bold(org), bold(fmt.Sprintf("%d", len(rows))))
		if len(examples) > 0 {
			part += ", including " + strings.Join(examples, "; ")
		}
		parts = append(parts, part+".")
	}
	return strings.Join(parts, " ")
}

// renderScopedCrimes covers the {name}_crimes keys produced for locations
// and persons; the org_ prefixed variant renders separately.
func renderScopedCrimes(bundle *retrieval.Bundle) string {
	var parts []string
	for _, key := range bundle.Keys() {
		if !strings.HasSuffix(key, "_crimes") || strings.HasPrefix(key, "org_") {
			continue
		}
		rows := listRows(bundle, key)
		if len(rows) == 0 {
			continue
		}
		subject := strings.TrimSuffix(key, "_crimes")
		var examples []string
		for i, row := range rows {
			if i == 3 {
				break
			}
			crimeType := stringAt(row, "crime_type")
			if crimeType == "" {
				continue
			}
			example := bold(crimeType)
			if date := stringAt(row, "date"); date != "" {
				example += " (" + date + ")"
			}
			examples = append(examples, example)
		}
		part := fmt.Sprintf("%s crimes are on record for %s", bold(fmt.Sprintf("%d", len(rows))), bold(subject))
		if len(examples) > 0 {
			part += ": " + strings.Join(examples, ", ")
		}
		parts = append(parts, part+".")
	}
	return strings.Join(parts, " ")
}

func renderPersonProfiles(bundle *retrieval.Bundle) string {
	var parts []string
	for _, key := range bundle.Keys() {
		if !strings.HasSuffix(key, "_info") {
			continue
		}
		rows := listRows(bundle, key)
		if len(rows) == 0 {
			continue
		}
		person := strings.TrimSuffix(key, "_info")
		row := rows[0]
		name := stringAt(row, "name")
		if name == "" {
			name = person
		}
		part := "Records identify " + bold(name)
		if occupation := stringAt(row, "occupation"); occupation != "" {
			part += ", " + occupation
		}
		if age, ok := intAt(row, "age"); ok {
			part += fmt.Sprintf(", age %s", bold(fmt.Sprintf("%d", age)))
		}
		part += "."

		if orgs := listRows(bundle, person+"_organizations"); len(orgs) > 0 {
			var orgNames []string
			for _, orgRow := range orgs {
				if org := stringAt(orgRow, "organization"); org != "" {
					orgNames = append(orgNames, org)
				}
			}
			if len(orgNames) > 0 {
				part += " Affiliated with " + boldJoin(orgNames, 3) + "."
			}
		}
		if associates := listRows(bundle, person+"_associates"); len(associates) > 0 {
			var assocNames []string
			for _, assocRow := range associates {
				if name := stringAt(assocRow, "name"); name != "" {
					assocNames = append(assocNames, name)
				}
			}
			if len(assocNames) > 0 {
				part += " Known associates: " + boldJoin(assocNames, 4) + "."
			}
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
