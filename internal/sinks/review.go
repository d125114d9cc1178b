package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/desistd/desist/internal/router"
	"github.com/desistd/desist/pkg/queue"
)

// ReviewQueue publishes ambiguous documents to NATS for a human reviewer.
// Delivery is fire-and-forget; the reviewer workflow owns acknowledgement.
type ReviewQueue struct {
	queue  queue.System
	logger *slog.Logger
}

// NewReviewQueue creates a ReviewQueue over the shared NATS connection.
func NewReviewQueue(q queue.System, logger *slog.Logger) *ReviewQueue {
	return &ReviewQueue{
		queue:  q,
		logger: logger.With("system", "review-queue"),
	}
}

func (r *ReviewQueue) Enqueue(ctx context.Context, payload router.ReviewPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal review payload: %w", err)
	}

	if err := r.queue.Publish(ctx, payload.Language, data); err != nil {
		return fmt.Errorf("enqueue review: %w", err)
	}

	r.logger.Info("document queued for review", "document_id", payload.DocumentID, "language", payload.Language)
	return nil
}
