package classifier

import "errors"

// Classifier errors. Escalation errors never escape Classify; they are
// logged and downgraded to the pattern fallback.
var (
	ErrInvalidVerdict = errors.New("not a canonical verdict")
	ErrEmptyResponse  = errors.New("empty completion response")
)
