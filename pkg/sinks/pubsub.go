package sinks

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/samvad-hq/catalog-sdk/internal/logger"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
	"google.golang.org/api/option"
)

// pubsubTopic is the part of *pubsub.Topic the sink uses.
type pubsubTopic interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
	Stop()
}

// pubsubSink publishes events to a Google Cloud Pub/Sub topic.
type pubsubSink struct {
	id     string
	client *pubsub.Client
	topic  pubsubTopic
	log    logger.Logger
}

// newPubSubSink connects to Pub/Sub. PUBSUB_EMULATOR_HOST is honoured by the client library.
func newPubSubSink(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("sink %q missing pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}
	if cfg.PubSub.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.PubSub.Endpoint))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubSink{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    ensureLogger(deps.Log),
	}, nil
}

func (p *pubsubSink) ID() string   { return p.id }
func (p *pubsubSink) Type() string { return TypePubSub }

// Publish sends the event and waits for the server acknowledgement.
func (p *pubsubSink) Publish(ctx context.Context, evt httpclient.Event) error {
	data, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:       []byte(data),
		Attributes: eventAttributes(evt),
	})
	id, err := res.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	p.log.DebugObj("pubsub sink delivered event", "sink_pubsub_delivery", map[string]any{
		"sink_id":    p.id,
		"message_id": id,
	})
	return nil
}

// Close flushes pending messages and closes the client.
func (p *pubsubSink) Close() error {
	if p.topic != nil {
		p.topic.Stop()
	}
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
