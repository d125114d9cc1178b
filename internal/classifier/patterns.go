package classifier

import "regexp"

// Cease phrases matched as plain substrings against lowercased text.
// The list includes common OCR misreads because upstream extraction is
// lossy: "not" read as "nct"/"nat", dropped trailing letters, "all"
// collapsed to "al".
var ceasePhrases = []string{
	"cease and desist",
	"stop communication",
	"do not contact me",
	"cease all communications",
	"stop all communications",
	"do not reach out",
	"do not email me",
	"do not call me",
	"stop contacting me",
	"no further communication",
	"do nct contact me",
	"do nat contact me",
	"do no contact me",
	"cease al communications",
	"stop communicatien",
}

// Cease rules tolerant of noise the substring list cannot express:
// collapsed whitespace, line breaks mid-phrase, and clipped word tails.
var ceasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`cease\s+and\s+desist`),
	regexp.MustCompile(`cease\s+al+\s+communicat\w*`),
	regexp.MustCompile(`stop\s+(?:al+\s+)?communicat\w*`),
	regexp.MustCompile(`no\s+further\s+communicat\w*`),
	regexp.MustCompile(`do\s+n[oca]t?\s+(?:contact|email|call)\s+me`),
}

// Uncertain keywords matched as plain substrings after the Cease rules
// have been exhausted.
var uncertainKeywords = []string{
	"review",
	"manual review",
	"requires further clarification",
	"needs clarification",
	"unclear request",
	"pending confirmation",
}
