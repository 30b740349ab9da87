package eval

import "github.com/casegraph/casegraph"

// Categories group test cases by the retrieval behavior they exercise.
const (
	CategoryOverview = "overview"
	CategoryEntity   = "entity"
	CategoryAnalysis = "analysis"
	CategoryFollowUp = "follow-up"
)

// Dataset is a collection of golden questions for evaluation.
type Dataset struct {
	Name  string     `json:"name"`
	Tests []TestCase `json:"tests"`
}

// TestCase defines a single evaluation question against the sample case
// graph. ExpectedKeys are context bundle keys retrieval must produce;
// ExpectedFacts are substrings the answer text must contain.
type TestCase struct {
	Question      string           `json:"question"`
	History       []casegraph.Turn `json:"history,omitempty"`
	ExpectedKeys  []string         `json:"expected_keys"`
	ExpectedFacts []string         `json:"expected_facts"`
	Category      string           `json:"category"`
}

// OverviewDataset covers questions answered by the fixed catalog queries.
func OverviewDataset() Dataset {
	return Dataset{
		Name: "Overview - Catalog Queries",
		Tests: []TestCase{
			{
				Question:      "what criminal organizations are in the database?",
				ExpectedKeys:  []string{"database_stats", "all_organizations", "organization_members"},
				ExpectedFacts: []string{"West Side Crew", "South Side Syndicate"},
				Category:      CategoryOverview,
			},
			{
				Question:      "where are the crime hotspots?",
				ExpectedKeys:  []string{"crime_hotspots"},
				ExpectedFacts: []string{"Austin"},
				Category:      CategoryOverview,
			},
			{
				Question:      "list the repeat offenders",
				ExpectedKeys:  []string{"repeat_offenders"},
				ExpectedFacts: []string{"Denise Cole"},
				Category:      CategoryOverview,
			},
		},
	}
}

// EntityDataset covers questions scoped by an extracted entity.
func EntityDataset() Dataset {
	return Dataset{
		Name: "Entity - Scoped Queries",
		Tests: []TestCase{
			{
				Question:      "tell me about the west side crew",
				ExpectedKeys:  []string{"org_West Side Crew_crimes"},
				ExpectedFacts: []string{"West Side Crew"},
				Category:      CategoryEntity,
			},
			{
				Question:      "who are the suspects in Englewood?",
				ExpectedKeys:  []string{"Englewood_suspects"},
				ExpectedFacts: []string{"Englewood", "Maria Lopez"},
				Category:      CategoryEntity,
			},
			{
				Question:      "what crimes has Carlos Vega committed?",
				ExpectedKeys:  []string{"Carlos Vega_crimes"},
				ExpectedFacts: []string{"Carlos Vega"},
				Category:      CategoryEntity,
			},
		},
	}
}

// AnalysisDataset covers the network analysis queries.
func AnalysisDataset() Dataset {
	return Dataset{
		Name: "Analysis - Network Queries",
		Tests: []TestCase{
			{
				Question:      "who are the most influential criminals in the network?",
				ExpectedKeys:  []string{"influence_ranking"},
				ExpectedFacts: []string{"Carlos Vega"},
				Category:      CategoryAnalysis,
			},
			{
				Question:      "which suspects worked together on the same crime?",
				ExpectedKeys:  []string{"collaborations"},
				ExpectedFacts: []string{"Carlos Vega", "Maria Lopez"},
				Category:      CategoryAnalysis,
			},
			{
				Question:      "is there a connection between Carlos Vega and Maria Lopez?",
				ExpectedKeys:  []string{"shortest_path"},
				ExpectedFacts: []string{"Carlos Vega", "Maria Lopez"},
				Category:      CategoryAnalysis,
			},
			{
				Question:      "who bridges multiple gangs?",
				ExpectedKeys:  []string{"gang_bridges"},
				ExpectedFacts: []string{"Tyrone Banks"},
				Category:      CategoryAnalysis,
			},
		},
	}
}

// FollowUpDataset covers conversational questions whose entities come from
// earlier turns rather than the question itself.
func FollowUpDataset() Dataset {
	return Dataset{
		Name: "Follow-up - Conversation Memory",
		Tests: []TestCase{
			{
				Question: "tell me more about their recent crimes",
				History: []casegraph.Turn{
					{Role: "user", Text: "what gangs are active right now?"},
					{Role: "assistant", Text: "the most active group is the West Side Crew."},
				},
				ExpectedKeys:  []string{"org_West Side Crew_crimes"},
				ExpectedFacts: []string{"West Side Crew"},
				Category:      CategoryFollowUp,
			},
			{
				Question: "what else happened around there?",
				History: []casegraph.Turn{
					{Role: "user", Text: "who operates around Englewood?"},
					{Role: "assistant", Text: "several suspects are linked to Englewood."},
				},
				ExpectedKeys:  []string{"Englewood_suspects"},
				ExpectedFacts: []string{"Englewood"},
				Category:      CategoryFollowUp,
			},
		},
	}
}

// AllDatasets returns every built-in dataset in evaluation order.
func AllDatasets() []Dataset {
	return []Dataset{
		OverviewDataset(),
		EntityDataset(),
		AnalysisDataset(),
		FollowUpDataset(),
	}
}
