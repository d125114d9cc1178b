// Package classifier decides whether extracted document text constitutes a
// cease-and-desist style request. It escalates to a language model first
// and falls back to deterministic pattern matching whenever the escalation
// is unavailable or returns anything other than a canonical label.
package classifier

import (
	"encoding/json"
	"slices"
)

// Verdict is the three-way classification outcome for a document.
type Verdict string

// Canonical verdicts. Precedence when multiple pattern families could
// match is Cease > Uncertain > Irrelevant; this ordering is policy, not
// an implementation accident.
const (
	VerdictCease      Verdict = "Cease"
	VerdictUncertain  Verdict = "Uncertain"
	VerdictIrrelevant Verdict = "Irrelevant"
)

var verdicts = []Verdict{
	VerdictCease,
	VerdictUncertain,
	VerdictIrrelevant,
}

// Verdicts returns the list of canonical verdicts.
func Verdicts() []Verdict {
	return verdicts
}

// ParseVerdict validates a string as a canonical verdict. Matching is
// case-sensitive so near-miss model output is rejected rather than
// silently accepted. Returns ErrInvalidVerdict for anything else.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !slices.Contains(verdicts, v) {
		return "", ErrInvalidVerdict
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a canonical verdict.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseVerdict(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Source identifies which classification path produced a verdict.
type Source string

// Classification sources.
const (
	SourceEscalated Source = "escalated"
	SourceFallback  Source = "fallback"
)

// Outcome pairs a verdict with the path that produced it, keeping the
// decision auditable without caught-exception control flow.
type Outcome struct {
	Verdict Verdict `json:"verdict"`
	Source  Source  `json:"source"`
}
