package classifier

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Completer is the external text-completion capability used as the primary
// classification path. Implementations must honor context cancellation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier produces a verdict for any input text. Classify is total: it
// never returns an error, and the deterministic fallback cannot fail by
// construction.
type Classifier struct {
	completer Completer
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Classifier. completer may be nil, in which case every
// classification uses the pattern fallback. timeout bounds each escalation
// call; zero means no bound beyond the caller's context.
func New(completer Completer, timeout time.Duration, logger *slog.Logger) *Classifier {
	return &Classifier{
		completer: completer,
		timeout:   timeout,
		logger:    logger.With("system", "classifier"),
	}
}

// Classify returns a verdict for text. The language hint is advisory and
// only shapes the escalation prompt. Empty text is Irrelevant without any
// external call: no Cease or Uncertain pattern can match it.
func (c *Classifier) Classify(ctx context.Context, text, languageHint string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Verdict: VerdictIrrelevant, Source: SourceFallback}
	}

	if c.completer != nil {
		if verdict, ok := c.escalate(ctx, text, languageHint); ok {
			return Outcome{Verdict: verdict, Source: SourceEscalated}
		}
	}

	return Outcome{Verdict: Fallback(text), Source: SourceFallback}
}

// escalate asks the completion capability for a categorical answer. Any
// failure — transport error, timeout, empty response, or a label outside
// the canonical set — reports false and the caller falls back.
func (c *Classifier) escalate(ctx context.Context, text, languageHint string) (Verdict, bool) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.completer.Complete(ctx, buildPrompt(text, languageHint))
	if err != nil {
		c.logger.Warn("escalation failed, using pattern fallback", "error", err)
		return "", false
	}

	verdict, err := parseResponse(resp)
	if err != nil {
		c.logger.Warn("escalation returned non-canonical label, using pattern fallback", "error", err)
		return "", false
	}

	return verdict, true
}

// Fallback classifies text with the deterministic pattern rules alone.
// It is pure and dependency-free so the pipeline keeps functioning with
// zero external calls when the escalation path is down.
func Fallback(text string) Verdict {
	lowered := strings.ToLower(text)

	for _, phrase := range ceasePhrases {
		if strings.Contains(lowered, phrase) {
			return VerdictCease
		}
	}
	for _, pattern := range ceasePatterns {
		if pattern.MatchString(lowered) {
			return VerdictCease
		}
	}

	for _, keyword := range uncertainKeywords {
		if strings.Contains(lowered, keyword) {
			return VerdictUncertain
		}
	}

	return VerdictIrrelevant
}
