package extract

import "context"

// defaultHistoryWindow is how many trailing conversation turns contribute
// entities when the caller does not specify a window.
const defaultHistoryWindow = 6

// Turn is one prior exchange in a conversation. Role follows chat
// conventions ("user", "assistant"); both roles are scanned because answers
// frequently name entities the investigator then refers back to.
type Turn struct {
	Role string
	Text string
}

// FromHistory extracts entities from the last window turns of a
// conversation. Turns are scanned newest first so that fresher mentions
// come earlier in each list. A window of zero or less uses the default.
func (e *Extractor) FromHistory(ctx context.Context, turns []Turn, window int) Entities {
	if window <= 0 {
		window = defaultHistoryWindow
	}
	if len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	if len(turns) == 0 {
		return Entities{}
	}

	gaz := e.gazetteer(ctx)
	var merged Entities
	for i := len(turns) - 1; i >= 0; i-- {
		ents := fold(collectMentions(turns[i].Text, gaz))
		merged = Merge(merged, ents)
	}
	return merged
}

// Merge unions two entity sets per kind. Entries from current keep their
// order and come first; historical entries follow, skipping duplicates
// compared case-insensitively.
func Merge(current, historical Entities) Entities {
	return Entities{
		Locations:     mergeLists(current.Locations, historical.Locations),
		Persons:       mergeLists(current.Persons, historical.Persons),
		Organizations: mergeLists(current.Organizations, historical.Organizations),
		CrimeTypes:    mergeLists(current.CrimeTypes, historical.CrimeTypes),
	}
}

func mergeLists(current, historical []string) []string {
	merged := make([]string, 0, len(current)+len(historical))
	merged = append(merged, current...)
	for _, h := range historical {
		merged = appendUnique(merged, h)
	}
	return merged
}
