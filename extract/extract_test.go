package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/casegraph/casegraph/store"
)

// newTestExtractor returns an extractor whose gazetteer is scripted with a
// few organizations and locations.
func newTestExtractor() (*Extractor, *store.Stub) {
	stub := store.NewStub().
		On("MATCH (o:Organization)",
			store.Row{"name": "West Side Crew"},
			store.Row{"name": "South Side Syndicate"},
			store.Row{"name": "North River Gang"},
		).
		On("MATCH (l:Location)",
			store.Row{"name": "Austin"},
			store.Row{"name": "Englewood"},
			store.Row{"name": "Loop"},
		)
	return New(stub, nil), stub
}

func TestExtractOrganizations(t *testing.T) {
	e, _ := newTestExtractor()

	ents := e.Extract(context.Background(), "what crimes is the west side crew involved in?")
	if len(ents.Organizations) != 1 || ents.Organizations[0] != "West Side Crew" {
		t.Errorf("Organizations = %v, want [West Side Crew]", ents.Organizations)
	}
}

func TestExtractLocations(t *testing.T) {
	e, _ := newTestExtractor()

	ents := e.Extract(context.Background(), "Show me suspects around Englewood and Austin")
	want := map[string]bool{"Englewood": true, "Austin": true}
	if len(ents.Locations) != 2 {
		t.Fatalf("Locations = %v, want 2 entries", ents.Locations)
	}
	for _, loc := range ents.Locations {
		if !want[loc] {
			t.Errorf("unexpected location %q", loc)
		}
	}
}

func TestExtractGazetteerFailsOpen(t *testing.T) {
	stub := store.NewStub().
		Fail("MATCH (o:Organization)", errors.New("connection refused")).
		Fail("MATCH (l:Location)", errors.New("connection refused"))
	e := New(stub, nil)

	ents := e.Extract(context.Background(), "has John Smith committed a robbery in Austin?")
	if len(ents.Organizations) != 0 || len(ents.Locations) != 0 {
		t.Errorf("gazetteer kinds = %v / %v, want empty on fetch failure",
			ents.Organizations, ents.Locations)
	}
	if len(ents.Persons) != 1 || ents.Persons[0] != "John Smith" {
		t.Errorf("Persons = %v, want [John Smith]", ents.Persons)
	}
	if len(ents.CrimeTypes) != 1 || ents.CrimeTypes[0] != "robbery" {
		t.Errorf("CrimeTypes = %v, want [robbery]", ents.CrimeTypes)
	}
}

func TestExtractCrimeTypes(t *testing.T) {
	e, _ := newTestExtractor()

	ents := e.Extract(context.Background(), "Any burglary or theft reports? People got assaulted too.")
	want := []string{"assault", "burglary", "theft"}
	got := map[string]bool{}
	for _, ct := range ents.CrimeTypes {
		got[ct] = true
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("CrimeTypes = %v, missing %q", ents.CrimeTypes, w)
		}
	}
}

func TestExtractPersons(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{
			name:     "two names",
			question: "Is there a path between John Smith and Mike Jones?",
			want:     []string{"John Smith", "Mike Jones"},
		},
		{
			name:     "single capitalized token is not a name",
			question: "Tell me about Marcus.",
			want:     nil,
		},
		{
			name:     "title on the stop list is skipped",
			question: "Has Detective Sarah Connor closed any cases?",
			want:     []string{"Sarah Connor"},
		},
		{
			name:     "organization fragments are not names",
			question: "Who runs the West Side Crew?",
			want:     nil,
		},
		{
			name:     "matched tokens are consumed",
			question: "Find the path between John Smith Mike Jones please",
			want:     []string{"John Smith", "Mike Jones"},
		},
		{
			name:     "trailing punctuation is stripped",
			question: "Who knows Maria Lopez?",
			want:     []string{"Maria Lopez"},
		},
		{
			name:     "duplicates collapse",
			question: "did John Smith meet with John Smith again?",
			want:     []string{"John Smith"},
		},
		{
			name:     "lowercase names go undetected",
			question: "tell me about john smith",
			want:     nil,
		},
	}

	e, _ := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := e.Extract(context.Background(), tt.question)
			if len(ents.Persons) != len(tt.want) {
				t.Fatalf("Persons = %v, want %v", ents.Persons, tt.want)
			}
			for i, w := range tt.want {
				if ents.Persons[i] != w {
					t.Errorf("Persons[%d] = %q, want %q", i, ents.Persons[i], w)
				}
			}
		})
	}
}

func TestExtractConsumptionSkipsOverlap(t *testing.T) {
	e, _ := newTestExtractor()

	// With tokens consumed in pairs, "Smith Mary" must never be emitted.
	ents := e.Extract(context.Background(), "are John Smith Mary Jones meeting?")
	for _, p := range ents.Persons {
		if p == "Smith Mary" {
			t.Fatalf("Persons = %v, overlapping pair emitted", ents.Persons)
		}
	}
	if len(ents.Persons) != 2 {
		t.Errorf("Persons = %v, want [John Smith Mary Jones]", ents.Persons)
	}
}

func TestExtractGazetteerFetchedOncePerCall(t *testing.T) {
	e, stub := newTestExtractor()

	e.Extract(context.Background(), "Anything on the North River Gang near the Loop?")
	if got := stub.CallCount("MATCH (o:Organization)"); got != 1 {
		t.Errorf("organization gazetteer fetches = %d, want 1", got)
	}
	if got := stub.CallCount("MATCH (l:Location)"); got != 1 {
		t.Errorf("location gazetteer fetches = %d, want 1", got)
	}
}

func TestIsEmpty(t *testing.T) {
	var ents Entities
	if !ents.IsEmpty() {
		t.Error("zero Entities should be empty")
	}
	ents.Persons = []string{"John Smith"}
	if ents.IsEmpty() {
		t.Error("Entities with a person should not be empty")
	}
}
