package graph

import (
	"strings"
	"testing"
)

// fixedCatalog enumerates every descriptor that binds without parameters.
var fixedCatalog = []Descriptor{
	DatabaseStats,
	AllOrganizations,
	OrganizationMembers,
	AllEvidence,
	EvidenceLinks,
	CrimeEvidence,
	EvidenceChains,
	AllInvestigators,
	CaseAssignments,
	ModusOperandiPatterns,
	ModusOperandiMatches,
	AllWeapons,
	WeaponOwnership,
	WeaponUsage,
	AllVehicles,
	VehicleOwnership,
	VehicleUsage,
	CrimeHotspots,
	RepeatOffenders,
	NetworkAssociations,
	InfluenceRanking,
	GangBridges,
	NetworkHubs,
	HiddenRings,
	Triangles,
	Collaborations,
	CrossGangCollaboration,
}

func TestCatalogDescriptorsComplete(t *testing.T) {
	seenNames := map[string]bool{}
	for _, d := range fixedCatalog {
		t.Run(d.Name, func(t *testing.T) {
			if d.Name == "" || d.Key == "" || d.Template == "" {
				t.Fatalf("incomplete descriptor: %+v", d)
			}
			if seenNames[d.Name] {
				t.Errorf("duplicate name %q", d.Name)
			}
			seenNames[d.Name] = true
			if len(d.Bindings) != 0 {
				t.Errorf("fixed descriptor %s declares bindings %v", d.Name, d.Bindings)
			}
			if strings.Contains(d.Template, "{pattern") {
				t.Errorf("fixed descriptor %s has a pattern placeholder", d.Name)
			}
			if d.Kind != KindStats && !strings.Contains(d.Template, "LIMIT") {
				t.Errorf("list descriptor %s has no LIMIT", d.Name)
			}
		})
	}
}

func TestParameterizedTemplatesDeclareBindings(t *testing.T) {
	tests := []Descriptor{
		organizationCrimesTemplate,
		locationCrimesTemplate,
		locationSuspectsTemplate,
	}
	for _, d := range tests {
		t.Run(d.Name, func(t *testing.T) {
			if len(d.Bindings) == 0 {
				t.Fatal("no bindings declared")
			}
			for _, name := range d.Bindings {
				if !strings.Contains(d.Template, "$"+name) {
					t.Errorf("template does not reference $%s:\n%s", name, d.Template)
				}
			}
		})
	}
}

func TestEntityScopedKeys(t *testing.T) {
	tests := []struct {
		name  string
		bound Bound
		want  string
	}{
		{"org crimes", OrganizationCrimes("West Side Crew"), "org_West Side Crew_crimes"},
		{"location crimes", LocationCrimes("Austin"), "Austin_crimes"},
		{"location suspects", LocationSuspects("Englewood"), "Englewood_suspects"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.bound.Key != tt.want {
				t.Errorf("Key = %q, want %q", tt.bound.Key, tt.want)
			}
		})
	}

	profile := PersonProfile("John Smith")
	wantKeys := []string{
		"John Smith_info",
		"John Smith_organizations",
		"John Smith_crimes",
		"John Smith_associates",
	}
	for i, b := range profile {
		if b.Key != wantKeys[i] {
			t.Errorf("profile[%d].Key = %q, want %q", i, b.Key, wantKeys[i])
		}
	}
}

func TestGazetteerEntitiesBindAsParams(t *testing.T) {
	b := OrganizationCrimes("West Side Crew")
	if !strings.Contains(b.Query, "$org_name") {
		t.Errorf("organization name should bind as $org_name:\n%s", b.Query)
	}
	if strings.Contains(b.Query, "West Side Crew") {
		t.Errorf("organization name interpolated into query text:\n%s", b.Query)
	}
	if b.Params["org_name"] != "West Side Crew" {
		t.Errorf("Params = %v", b.Params)
	}

	loc := LocationSuspects("Austin")
	if !strings.Contains(loc.Query, "$location") || loc.Params["location"] != "Austin" {
		t.Errorf("location binding wrong: query=%s params=%v", loc.Query, loc.Params)
	}
}

func TestDegreeConnections(t *testing.T) {
	bounds := DegreeConnections("Maria Lopez")
	wantKeys := []string{"degree_1_connections", "degree_2_connections", "network_gangs"}
	if len(bounds) != len(wantKeys) {
		t.Fatalf("len = %d, want %d", len(bounds), len(wantKeys))
	}
	for i, b := range bounds {
		if b.Key != wantKeys[i] {
			t.Errorf("bounds[%d].Key = %q, want %q", i, b.Key, wantKeys[i])
		}
		if !strings.Contains(b.Query, "(?i).*Maria Lopez.*") {
			t.Errorf("%s: pattern missing:\n%s", b.Key, b.Query)
		}
	}
}
