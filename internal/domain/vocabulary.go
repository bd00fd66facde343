package domain

// Vocabulary holds the heuristic string tables driving relevance filtering
// and follow-up detection. All terms are lowercase. The tables are read-only
// at runtime and injected so tests can substitute alternate vocabularies.
type Vocabulary struct {
	// Denylist terms disqualify any article whose title, summary or
	// content contains them, regardless of similarity score.
	Denylist []string

	// Categories maps a category key to expansion terms. A query token
	// that is a substring of a key activates the key's expansion list
	// during keyword scoring.
	Categories map[string][]string

	// ReferenceWords classify a query as a follow-up when present.
	// Intentionally coarse: interrogatives appear in nearly all
	// question-form input, so this is a sensitivity knob, not a
	// linguistic signal.
	ReferenceWords []string
}

// DefaultVocabulary returns the built-in tables. Deployments extend the
// denylist through configuration.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Denylist: []string{
			"horoscope",
			"sponsored content",
			"advertisement",
			"lottery results",
		},
		Categories: map[string][]string{
			"tech":     {"technology", "software", "startup", "ai", "smartphone"},
			"economy":  {"market", "inflation", "gdp", "trade", "stocks"},
			"politics": {"election", "government", "parliament", "minister", "policy"},
			"indian":   {"india", "delhi", "mumbai", "rupee"},
			"sports":   {"cricket", "football", "tournament", "match"},
		},
		ReferenceWords: []string{
			"he", "she", "it", "they",
			"why", "how", "when", "where", "what", "who",
		},
	}
}
