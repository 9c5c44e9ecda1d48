package keyword

// stopWords are common English words that add noise to keyword comparison.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "or": true, "the": true, "of": true,
	"to": true, "in": true, "on": true, "at": true, "by": true, "as": true,
	"is": true, "be": true, "we": true, "it": true, "for": true, "with": true,
	"you": true, "are": true, "have": true, "will": true, "this": true,
	"that": true, "from": true, "our": true, "your": true, "their": true,
	"they": true, "work": true, "team": true, "role": true, "job": true,
	"join": true, "about": true, "which": true, "what": true, "who": true,
	"how": true, "can": true, "not": true, "but": true, "all": true,
	"also": true, "more": true, "than": true, "into": true, "has": true,
	"its": true, "was": true, "were": true, "been": true, "each": true,
	"new": true, "use": true, "using": true, "used": true, "well": true,
	"good": true, "able": true, "get": true, "such": true, "looking": true,
	"seeking": true, "experience": true, "years": true, "strong": true,
	"location": true, "plus": true, "must": true, "other": true,
}

// IsStopWord reports whether the lowercase token w is a stop word.
func IsStopWord(w string) bool {
	return stopWords[w]
}
