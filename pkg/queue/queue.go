// Package queue provides message publishing over NATS with lifecycle
// coordination. The review sink publishes documents held for manual
// review to a configured subject.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/desistd/desist/pkg/lifecycle"
)

// System manages the NATS connection and message publishing.
type System interface {
	// Start registers connection checks and drain hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Publish sends data to the subject, suffixed when suffix is non-empty
	// (subject.suffix).
	Publish(ctx context.Context, suffix string, data []byte) error
}

type natsQueue struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// New connects to the NATS server described by cfg. The connection retries
// in the background when the server is unreachable at startup.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	log := logger.With("system", "queue")

	conn, err := nats.Connect(
		cfg.URL,
		nats.Name("desist"),
		nats.Timeout(cfg.ConnectTimeoutDuration()),
		nats.ReconnectWait(cfg.ReconnectWaitDuration()),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &natsQueue{
		conn:    conn,
		subject: cfg.Subject,
		logger:  log,
	}, nil
}

func (q *natsQueue) Start(lc *lifecycle.Coordinator) error {
	q.logger.Info("starting queue connection")

	lc.OnStartup(func() {
		if q.conn.IsConnected() {
			q.logger.Info("queue connection established", "url", q.conn.ConnectedUrl())
			return
		}
		q.logger.Warn("queue not yet connected, retrying in background")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		q.logger.Info("draining queue connection")

		if err := q.conn.Drain(); err != nil {
			q.logger.Error("queue drain failed", "error", err)
		}
	})

	return nil
}

func (q *natsQueue) Publish(ctx context.Context, suffix string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := q.subject
	if suffix != "" {
		subject = subject + "." + suffix
	}

	if err := q.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	return nil
}
