package extract

import (
	"context"
	"testing"
)

func TestFromHistoryWindow(t *testing.T) {
	e, _ := newTestExtractor()

	turns := []Turn{
		{Role: "user", Text: "who is Early Mention working with?"},
		{Role: "assistant", Text: "No records found."},
		{Role: "user", Text: "list crimes in Englewood"},
		{Role: "assistant", Text: "Englewood has several open cases."},
		{Role: "user", Text: "what about the West Side Crew?"},
		{Role: "assistant", Text: "The crew operates on the west side."},
		{Role: "user", Text: "who knows Maria Lopez?"},
		{Role: "assistant", Text: "Maria Lopez is connected to several suspects."},
	}

	ents := e.FromHistory(context.Background(), turns, 6)

	for _, p := range ents.Persons {
		if p == "Early Mention" {
			t.Errorf("Persons = %v, includes entity outside the window", ents.Persons)
		}
	}
	if len(ents.Persons) == 0 || ents.Persons[0] != "Maria Lopez" {
		t.Errorf("Persons = %v, want Maria Lopez first", ents.Persons)
	}
	if len(ents.Organizations) != 1 || ents.Organizations[0] != "West Side Crew" {
		t.Errorf("Organizations = %v, want [West Side Crew]", ents.Organizations)
	}
	if len(ents.Locations) != 1 || ents.Locations[0] != "Englewood" {
		t.Errorf("Locations = %v, want [Englewood]", ents.Locations)
	}
}

func TestFromHistoryScansBothRoles(t *testing.T) {
	e, _ := newTestExtractor()

	turns := []Turn{
		{Role: "user", Text: "any gang activity lately?"},
		{Role: "assistant", Text: "Carlos Vega of the West Side Crew was arrested."},
	}

	ents := e.FromHistory(context.Background(), turns, 6)
	if len(ents.Persons) != 1 || ents.Persons[0] != "Carlos Vega" {
		t.Errorf("Persons = %v, want [Carlos Vega]", ents.Persons)
	}
	if len(ents.Organizations) != 1 || ents.Organizations[0] != "West Side Crew" {
		t.Errorf("Organizations = %v, want [West Side Crew]", ents.Organizations)
	}
}

func TestFromHistoryNewestFirst(t *testing.T) {
	e, _ := newTestExtractor()

	turns := []Turn{
		{Role: "user", Text: "tell me about Maria Lopez"},
		{Role: "user", Text: "tell me about Carlos Vega"},
	}

	ents := e.FromHistory(context.Background(), turns, 6)
	want := []string{"Carlos Vega", "Maria Lopez"}
	if len(ents.Persons) != 2 || ents.Persons[0] != want[0] || ents.Persons[1] != want[1] {
		t.Errorf("Persons = %v, want %v", ents.Persons, want)
	}
}

func TestFromHistoryEmpty(t *testing.T) {
	e, stub := newTestExtractor()

	ents := e.FromHistory(context.Background(), nil, 6)
	if !ents.IsEmpty() {
		t.Errorf("entities from empty history = %+v, want empty", ents)
	}
	if len(stub.Queries) != 0 {
		t.Errorf("gazetteer fetched for empty history: %v", stub.Queries)
	}
}

func TestMerge(t *testing.T) {
	current := Entities{
		Persons:       []string{"John Smith"},
		Organizations: []string{"West Side Crew"},
	}
	historical := Entities{
		Persons:       []string{"john smith", "Maria Lopez"},
		Organizations: []string{"South Side Syndicate"},
		Locations:     []string{"Austin"},
	}

	merged := Merge(current, historical)

	wantPersons := []string{"John Smith", "Maria Lopez"}
	if len(merged.Persons) != 2 || merged.Persons[0] != wantPersons[0] || merged.Persons[1] != wantPersons[1] {
		t.Errorf("Persons = %v, want %v", merged.Persons, wantPersons)
	}

	wantOrgs := []string{"West Side Crew", "South Side Syndicate"}
	if len(merged.Organizations) != 2 || merged.Organizations[0] != wantOrgs[0] || merged.Organizations[1] != wantOrgs[1] {
		t.Errorf("Organizations = %v, want %v", merged.Organizations, wantOrgs)
	}

	if len(merged.Locations) != 1 || merged.Locations[0] != "Austin" {
		t.Errorf("Locations = %v, want [Austin]", merged.Locations)
	}
}
