package classifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desistd/desist/pkg/formatting"
)

// escalationTextLimit caps how much extracted text is embedded in the
// prompt. Cease language appears near the top of real letters; the cap
// keeps token spend bounded on large scans.
const escalationTextLimit = 8000

const promptInstructions = `You are reviewing text extracted from a scanned document.
Decide whether it constitutes a legal cease-and-desist style request to stop communication.

Answer with exactly one of these labels and nothing else:
- Cease: the document demands that communication stop
- Uncertain: the document needs manual review to decide
- Irrelevant: the document is unrelated to stopping communication

The text may contain OCR noise such as misspelled or missing letters.`

type labelResponse struct {
	Verdict Verdict `json:"verdict"`
}

func buildPrompt(text, languageHint string) string {
	var sb strings.Builder
	sb.WriteString(promptInstructions)

	if languageHint != "" && languageHint != "unknown" {
		fmt.Fprintf(&sb, "\n\nThe text appears to be written in %q.", languageHint)
	}

	sb.WriteString("\n\nDocument text:\n\n")
	sb.WriteString(truncate(text, escalationTextLimit))

	return sb.String()
}

// parseResponse extracts a canonical verdict from model output. A bare
// trimmed label is preferred; a JSON object {"verdict": ...}, fenced or
// not, is tolerated. Anything else is rejected so unchecked model output
// never becomes a verdict.
func parseResponse(resp string) (Verdict, error) {
	trimmed := strings.TrimSpace(resp)
	if trimmed == "" {
		return "", ErrEmptyResponse
	}

	if verdict, err := ParseVerdict(trimmed); err == nil {
		return verdict, nil
	}

	parsed, err := formatting.Parse[labelResponse](trimmed)
	if err != nil {
		return "", ErrInvalidVerdict
	}

	return ParseVerdict(string(parsed.Verdict))
}

// truncate cuts s to at most limit bytes without splitting a rune, so the
// embedded text stays valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
