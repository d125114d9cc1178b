package classifier

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	breakerMinRequests  = 10
	breakerFailureRatio = 0.5
	breakerOpenTimeout  = 30 * time.Second
)

// BreakerCompleter guards a Completer with a circuit breaker. When the
// escalation endpoint is down, the breaker fails fast and classification
// degrades to the pattern fallback without stacking timeouts. There is no
// retry here: a failed call falls back, it is not reattempted.
type BreakerCompleter struct {
	inner   Completer
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerCompleter wraps inner with a circuit breaker.
func NewBreakerCompleter(inner Completer) *BreakerCompleter {
	settings := gobreaker.Settings{
		Name:    "escalation",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= breakerFailureRatio
		},
	}

	return &BreakerCompleter{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (c *BreakerCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		return c.inner.Complete(ctx, prompt)
	})
}
