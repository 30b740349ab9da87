package graph

import (
	"strings"
	"testing"
)

func TestBindValidatesRequiredParams(t *testing.T) {
	d := Descriptor{
		Name:     "test_query",
		Key:      "test_key",
		Kind:     KindList,
		Bindings: []string{"location"},
		Template: "MATCH (l:Location {name: $location}) RETURN l",
	}

	if _, err := d.Bind(nil); err == nil {
		t.Error("Bind(nil) with required bindings should fail")
	}
	if _, err := d.Bind(map[string]any{"other": 1}); err == nil {
		t.Error("Bind with wrong param should fail")
	}

	bound, err := d.Bind(map[string]any{"location": "Austin"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if bound.Key != "test_key" {
		t.Errorf("Key = %q, want %q", bound.Key, "test_key")
	}
	if bound.Query != d.Template {
		t.Errorf("Query = %q, want template unchanged", bound.Query)
	}
	if bound.Params["location"] != "Austin" {
		t.Errorf("Params = %v, want location bound", bound.Params)
	}
}

func TestBindFixed(t *testing.T) {
	bounds := BindFixed(DatabaseStats, AllOrganizations)
	if len(bounds) != 2 {
		t.Fatalf("len = %d, want 2", len(bounds))
	}
	if bounds[0].Key != "database_stats" || bounds[1].Key != "all_organizations" {
		t.Errorf("keys = %q, %q", bounds[0].Key, bounds[1].Key)
	}
	for _, b := range bounds {
		if b.Query != b.Descriptor.Template {
			t.Errorf("%s: query does not match template", b.Descriptor.Name)
		}
		if b.Params != nil {
			t.Errorf("%s: fixed query has params %v", b.Descriptor.Name, b.Params)
		}
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "John Smith", "(?i).*John Smith.*"},
		{"dot", "J. Smith", `(?i).*J\. Smith.*`},
		{"regex metas", "a+b*c", `(?i).*a\+b\*c.*`},
		{"single quote", "O'Brien", `(?i).*O\'Brien.*`},
		{"parens", "Big (Tiny) Joe", `(?i).*Big \(Tiny\) Joe.*`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsPattern(tt.in); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBindPatternInterpolation(t *testing.T) {
	bounds := PersonProfile("John Smith")
	if len(bounds) != 4 {
		t.Fatalf("PersonProfile returned %d bounds, want 4", len(bounds))
	}
	for _, b := range bounds {
		if strings.Contains(b.Query, "{pattern") {
			t.Errorf("%s: placeholder left in query:\n%s", b.Descriptor.Name, b.Query)
		}
		if !strings.Contains(b.Query, "(?i).*John Smith.*") {
			t.Errorf("%s: pattern missing from query:\n%s", b.Descriptor.Name, b.Query)
		}
	}
}

func TestShortestPathBindsBothPatterns(t *testing.T) {
	b := ShortestPath("John Smith", "Mike Jones")
	if strings.Contains(b.Query, "{pattern") {
		t.Fatalf("placeholder left in query:\n%s", b.Query)
	}
	if !strings.Contains(b.Query, "(?i).*John Smith.*") ||
		!strings.Contains(b.Query, "(?i).*Mike Jones.*") {
		t.Errorf("patterns missing from query:\n%s", b.Query)
	}
	if !strings.Contains(b.Query, "shortestPath") || !strings.Contains(b.Query, "[:KNOWS*..6]") {
		t.Errorf("unexpected path query:\n%s", b.Query)
	}
}

func TestPatternEscapingReachesQuery(t *testing.T) {
	b := ShortestPath("John (Snake) Smith", "O'Brien")
	if !strings.Contains(b.Query, `\(Snake\)`) {
		t.Errorf("metacharacters not escaped:\n%s", b.Query)
	}
	if !strings.Contains(b.Query, `O\'Brien`) {
		t.Errorf("quote not escaped:\n%s", b.Query)
	}
}
