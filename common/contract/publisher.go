package contract

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher is the subset of jetstream.JetStream the inbound layer publishes with.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}
