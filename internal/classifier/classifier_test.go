package classifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/desistd/desist/internal/classifier"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name string
		text string
		want classifier.Verdict
	}{
		{"empty text", "", classifier.VerdictIrrelevant},
		{"whitespace only", "   \n\t", classifier.VerdictIrrelevant},
		{"canonical cease", "You must cease and desist all contact.", classifier.VerdictCease},
		{"stop contacting", "Please stop contacting me immediately.", classifier.VerdictCease},
		{"uppercase cease", "CEASE AND DESIST", classifier.VerdictCease},
		{"ocr do nct contact", "I demand you do nct contact me again", classifier.VerdictCease},
		{"ocr do nat contact", "do nat contact me about this account", classifier.VerdictCease},
		{"ocr cease al communications", "cease al communications with my client", classifier.VerdictCease},
		{"ocr stop communicatien", "you will stop communicatien at once", classifier.VerdictCease},
		{"no further communication", "There shall be no further communication.", classifier.VerdictCease},
		{"needs clarification", "this request needs clarification before we act", classifier.VerdictUncertain},
		{"manual review", "flagged for manual review", classifier.VerdictUncertain},
		{"unclear request", "this is an unclear request", classifier.VerdictUncertain},
		{"invoice", "please see attached invoice for March", classifier.VerdictIrrelevant},
		{"newsletter", "thank you for subscribing to our newsletter", classifier.VerdictIrrelevant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Fallback(tt.text)
			if got != tt.want {
				t.Errorf("Fallback(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestFallbackPrecedence(t *testing.T) {
	// Cease patterns win even when an Uncertain keyword is also present.
	text := "This matter is under review. You must cease and desist all contact."

	if got := classifier.Fallback(text); got != classifier.VerdictCease {
		t.Errorf("Fallback(%q) = %s, want %s", text, got, classifier.VerdictCease)
	}
}

func TestClassifyEmptyText(t *testing.T) {
	fake := &fakeCompleter{response: "Cease"}
	c := classifier.New(fake, 0, discard())

	got := c.Classify(context.Background(), "   ", "eng")

	if got.Verdict != classifier.VerdictIrrelevant {
		t.Errorf("Verdict = %s, want %s", got.Verdict, classifier.VerdictIrrelevant)
	}
	if got.Source != classifier.SourceFallback {
		t.Errorf("Source = %s, want %s", got.Source, classifier.SourceFallback)
	}
	if fake.calls != 0 {
		t.Errorf("completer called %d times for empty text, want 0", fake.calls)
	}
}

func TestClassifyEscalation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     classifier.Verdict
	}{
		{"bare label", "Uncertain", classifier.VerdictUncertain},
		{"label with whitespace", "  Cease\n", classifier.VerdictCease},
		{"json object", `{"verdict": "Irrelevant"}`, classifier.VerdictIrrelevant},
		{"fenced json", "```json\n{\"verdict\": \"Cease\"}\n```", classifier.VerdictCease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := classifier.New(&fakeCompleter{response: tt.response}, 0, discard())

			got := c.Classify(context.Background(), "some document text", "")

			if got.Verdict != tt.want {
				t.Errorf("Verdict = %s, want %s", got.Verdict, tt.want)
			}
			if got.Source != classifier.SourceEscalated {
				t.Errorf("Source = %s, want %s", got.Source, classifier.SourceEscalated)
			}
		})
	}
}

func TestClassifyFallsBackOnError(t *testing.T) {
	texts := []string{
		"cease and desist",
		"needs clarification",
		"see attached invoice",
	}

	fake := &fakeCompleter{err: errors.New("connection refused")}
	c := classifier.New(fake, 0, discard())

	for _, text := range texts {
		got := c.Classify(context.Background(), text, "")

		if got.Source != classifier.SourceFallback {
			t.Errorf("Classify(%q).Source = %s, want %s", text, got.Source, classifier.SourceFallback)
		}
		if want := classifier.Fallback(text); got.Verdict != want {
			t.Errorf("Classify(%q).Verdict = %s, want fallback %s", text, got.Verdict, want)
		}
	}
}

func TestClassifyFallsBackOnNonCanonicalLabel(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"lowercase label", "cease"},
		{"prose answer", "The document is clearly a cease and desist letter."},
		{"empty response", ""},
		{"unknown json label", `{"verdict": "Spam"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := classifier.New(&fakeCompleter{response: tt.response}, 0, discard())

			got := c.Classify(context.Background(), "please see attached invoice", "")

			if got.Source != classifier.SourceFallback {
				t.Errorf("Source = %s, want %s", got.Source, classifier.SourceFallback)
			}
			if got.Verdict != classifier.VerdictIrrelevant {
				t.Errorf("Verdict = %s, want %s", got.Verdict, classifier.VerdictIrrelevant)
			}
		})
	}
}

func TestClassifyNilCompleter(t *testing.T) {
	c := classifier.New(nil, time.Second, discard())

	got := c.Classify(context.Background(), "cease and desist", "eng")

	if got.Verdict != classifier.VerdictCease {
		t.Errorf("Verdict = %s, want %s", got.Verdict, classifier.VerdictCease)
	}
	if got.Source != classifier.SourceFallback {
		t.Errorf("Source = %s, want %s", got.Source, classifier.SourceFallback)
	}
}

func TestClassifyPromptStaysValidUTF8(t *testing.T) {
	completer := &fakeCompleter{response: "Cease"}
	c := classifier.New(completer, time.Second, discard())

	// Well past the embedded-text cap, built from 3-byte runes so a naive
	// byte cut would land mid-rune.
	text := strings.Repeat("€", 4000)
	c.Classify(context.Background(), text, "unknown")

	if completer.calls != 1 {
		t.Fatalf("completer calls = %d, want 1", completer.calls)
	}
	if !utf8.ValidString(completer.prompt) {
		t.Error("prompt contains invalid utf-8 after truncation")
	}
	if !strings.Contains(completer.prompt, "€") {
		t.Error("prompt lost the document text")
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    classifier.Verdict
		wantErr bool
	}{
		{"cease", "Cease", classifier.VerdictCease, false},
		{"uncertain", "Uncertain", classifier.VerdictUncertain, false},
		{"irrelevant", "Irrelevant", classifier.VerdictIrrelevant, false},
		{"lowercase rejected", "cease", "", true},
		{"uppercase rejected", "CEASE", "", true},
		{"empty rejected", "", "", true},
		{"unknown rejected", "Maybe", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.ParseVerdict(tt.input)
			if tt.wantErr {
				if !errors.Is(err, classifier.ErrInvalidVerdict) {
					t.Errorf("ParseVerdict(%q) error = %v, want ErrInvalidVerdict", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVerdict(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVerdict(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
