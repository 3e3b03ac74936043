// Package notify publishes stage results to an event bus for external
// observers (dashboards, CI fan-out). Publishing is optional and purely
// additive: when no bus is configured a no-op notifier is used, and a
// publish failure never alters the pipeline outcome.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/relgate-io/relgate/pipeline"
	"github.com/relgate-io/relgate/pkg"
)

// New returns a notifier for cfg: a NATS-backed one when a URL is
// configured, a no-op otherwise.
func New(cfg pkg.NatsConfig) (pipeline.Notifier, error) {
	if cfg.Url == "" {
		return Nop{}, nil
	}

	opts := []nats.Option{
		nats.Name("relgate"),
	}
	if cfg.Jwt != "" {
		opts = append(opts, nats.UserJWTAndSeed(cfg.Jwt, cfg.Seed))
	}

	nc, err := nats.Connect(cfg.Url, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to event bus: %w", err)
	}

	return &natsNotifier{
		nc:     nc,
		prefix: cfg.Subject,
	}, nil
}

// Nop drops every result.
type Nop struct{}

func (Nop) Publish(context.Context, pipeline.StageResult) error {
	return nil
}

type natsNotifier struct {
	nc     *nats.Conn
	prefix string
}

func (n *natsNotifier) Publish(ctx context.Context, result pipeline.StageResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("unable to marshal stage result: %w", err)
	}

	subject := fmt.Sprintf("%s.stage.%s", n.prefix, result.Stage)
	if err := n.nc.Publish(subject, b); err != nil {
		return fmt.Errorf("unable to publish stage result: %w", err)
	}

	// one-shot CLI process: make sure the event left before we move on
	if err := n.nc.Flush(); err != nil {
		return fmt.Errorf("unable to flush stage result: %w", err)
	}

	return nil
}

func (n *natsNotifier) Close() {
	n.nc.Close()
}
