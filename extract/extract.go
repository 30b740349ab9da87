// Package extract identifies entity mentions in investigator questions.
//
// Organizations and locations are matched against a gazetteer read from the
// graph store, crime types against a fixed vocabulary, and person names with
// a capitalization heuristic. Extraction is best-effort: a gazetteer fetch
// failure yields empty organization and location lists rather than an error.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/casegraph/casegraph/store"
)

// Mention kinds.
const (
	KindPerson       = "person"
	KindLocation     = "location"
	KindOrganization = "organization"
	KindCrimeType    = "crime_type"
)

// Gazetteer queries. Canonical names come straight from the graph so that
// extracted entities can be bound back into catalog queries verbatim.
const (
	organizationNamesQuery = "MATCH (o:Organization) RETURN o.name AS name"
	locationNamesQuery     = "MATCH (l:Location) RETURN l.name AS name"
)

// Mention is a single entity occurrence in a question. Surface is the text
// as it appeared; Resolved is the canonical graph name for gazetteer matches
// and equals Surface for heuristic matches.
type Mention struct {
	Kind     string
	Surface  string
	Resolved string
}

// Entities groups resolved mentions by kind. Each list is deduplicated
// case-insensitively and preserves first-seen order.
type Entities struct {
	Locations     []string
	Persons       []string
	Organizations []string
	CrimeTypes    []string
}

// IsEmpty reports whether no entities of any kind were found.
func (e Entities) IsEmpty() bool {
	return len(e.Locations) == 0 && len(e.Persons) == 0 &&
		len(e.Organizations) == 0 && len(e.CrimeTypes) == 0
}

// Extractor finds entity mentions in question text.
type Extractor struct {
	store store.Querier
	log   *slog.Logger
}

// New creates an Extractor backed by the given graph store.
func New(q store.Querier, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{store: q, log: log}
}

// Extract returns all entity mentions found in text. The organization and
// location gazetteers are fetched from the graph store on each call; if a
// fetch fails the corresponding kind is simply absent from the result.
func (e *Extractor) Extract(ctx context.Context, text string) Entities {
	gaz := e.gazetteer(ctx)
	return fold(collectMentions(text, gaz))
}

// gazetteerLists holds the canonical names used for substring matching.
type gazetteerLists struct {
	organizations []string
	locations     []string
}

func (e *Extractor) gazetteer(ctx context.Context) gazetteerLists {
	return gazetteerLists{
		organizations: e.fetchNames(ctx, organizationNamesQuery, "Organization"),
		locations:     e.fetchNames(ctx, locationNamesQuery, "Location"),
	}
}

// fetchNames runs a gazetteer query and flattens the name column. Failures
// are logged and return nil so extraction degrades instead of aborting.
func (e *Extractor) fetchNames(ctx context.Context, query, label string) []string {
	rows, err := e.store.Query(ctx, query, nil)
	if err != nil {
		e.log.Warn("gazetteer fetch failed", "label", label, "error", err)
		return nil
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// collectMentions scans text for every mention kind.
func collectMentions(text string, gaz gazetteerLists) []Mention {
	var mentions []Mention
	lower := strings.ToLower(text)

	mentions = append(mentions, matchGazetteer(text, lower, gaz.locations, KindLocation)...)
	mentions = append(mentions, matchGazetteer(text, lower, gaz.organizations, KindOrganization)...)

	for _, ct := range crimeTypes {
		if strings.Contains(lower, ct) {
			mentions = append(mentions, Mention{Kind: KindCrimeType, Surface: ct, Resolved: ct})
		}
	}

	mentions = append(mentions, matchPersons(text)...)
	return mentions
}

// matchGazetteer emits a mention for every canonical name that occurs in the
// question, compared case-insensitively.
func matchGazetteer(text, lower string, names []string, kind string) []Mention {
	var mentions []Mention
	for _, name := range names {
		idx := strings.Index(lower, strings.ToLower(name))
		if idx < 0 {
			continue
		}
		surface := name
		if idx+len(name) <= len(text) {
			surface = text[idx : idx+len(name)]
		}
		mentions = append(mentions, Mention{Kind: kind, Surface: surface, Resolved: name})
	}
	return mentions
}

// matchPersons applies the two-consecutive-capitalized-token heuristic.
// Both tokens of a match are consumed, tokens on the stop list never
// participate, and a lone capitalized token is never a name on its own.
// Single-token names therefore go undetected; that miss is a known
// limitation of the heuristic.
func matchPersons(text string) []Mention {
	words := strings.Fields(text)
	var mentions []Mention
	for i := 0; i+1 < len(words); i++ {
		first := strings.Trim(words[i], ".,!?*")
		second := strings.Trim(words[i+1], ".,!?*")
		if !isNameToken(first) || !isNameToken(second) {
			continue
		}
		name := first + " " + second
		mentions = append(mentions, Mention{Kind: KindPerson, Surface: name, Resolved: name})
		i++
	}
	return mentions
}

// isNameToken reports whether a cleaned token can be part of a person name:
// non-empty, starts with an upper-case letter, and not on the stop list.
func isNameToken(tok string) bool {
	if tok == "" {
		return false
	}
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !personStopWords[strings.ToLower(tok)]
}

// fold groups mentions into per-kind lists, deduplicating case-insensitively
// while preserving first-seen order.
func fold(mentions []Mention) Entities {
	var ents Entities
	for _, m := range mentions {
		switch m.Kind {
		case KindLocation:
			ents.Locations = appendUnique(ents.Locations, m.Resolved)
		case KindPerson:
			ents.Persons = appendUnique(ents.Persons, m.Resolved)
		case KindOrganization:
			ents.Organizations = appendUnique(ents.Organizations, m.Resolved)
		case KindCrimeType:
			ents.CrimeTypes = appendUnique(ents.CrimeTypes, m.Resolved)
		}
	}
	return ents
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}
