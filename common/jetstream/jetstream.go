package jetstream

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
	"repair-ticket/common/constant"
)

//go:generate mockgen -destination=mocks/publisher.go -package=mocks repair-ticket/common/contract Publisher

func CreateQueueStream(ctx context.Context, js jetstream.JetStream, maxBytes int64) (jetstream.Stream, error) {
	if maxBytes == 0 {
		maxBytes = -1
	}

	cfg := jetstream.StreamConfig{
		Name:      constant.QueueStreamName,
		Retention: jetstream.WorkQueuePolicy,
		Subjects:  []string{constant.AllWildcard},
		MaxBytes:  maxBytes,
	}

	return js.CreateOrUpdateStream(ctx, cfg)
}
