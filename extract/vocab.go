package extract

// crimeTypes is the fixed vocabulary of crime categories recognized in
// questions. Matching is lowercase substring, so "assault" also catches
// "assaulted". Order determines the order of extracted mentions.
var crimeTypes = []string{
	"homicide",
	"murder",
	"assault",
	"battery",
	"robbery",
	"burglary",
	"theft",
	"carjacking",
	"narcotics",
	"drug trafficking",
	"fraud",
	"extortion",
	"arson",
	"kidnapping",
	"vandalism",
	"weapons violation",
	"intimidation",
	"money laundering",
	"racketeering",
	"shooting",
}

// personStopWords are lowercased tokens that disqualify a capitalized word
// from starting or ending a person name. They cover titles, place fragments,
// and sentence-initial words that the capitalization heuristic would
// otherwise mistake for names.
var personStopWords = map[string]bool{
	"i":         true,
	"chicago":   true,
	"detective": true,
	"side":      true,
	"gang":      true,
	"crew":      true,
	"street":    true,
	"show":      true,
	"his":       true,
	"her":       true,
	"their":     true,
}
