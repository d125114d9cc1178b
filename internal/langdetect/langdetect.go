// Package langdetect tags extracted text with an ISO 639-3 language code.
// Detection is advisory: the classifier only uses the tag as a prompt hint,
// so an unreliable guess degrades to Unknown instead of a wrong code.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Unknown is the sentinel language code for text the detector cannot
// classify with confidence.
const Unknown = "unknown"

// Detector identifies the language of a piece of text.
type Detector interface {
	Detect(text string) string
}

// Trigram detects languages with trigram frequency profiles. It is pure
// and requires no external service.
type Trigram struct{}

// NewTrigram creates a trigram-based detector.
func NewTrigram() *Trigram {
	return &Trigram{}
}

// Detect returns the ISO 639-3 code of the dominant language in text, or
// Unknown when the text is empty or the confidence is too low to trust.
func (d *Trigram) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return Unknown
	}

	return info.Lang.Iso6393()
}
