package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ErrNoTopic is returned when a message reaches Publish without a topic.
var ErrNoTopic = errors.New("message has no topic")

// TopicMetadataKey carries the destination topic of a message published without one.
const TopicMetadataKey = "topic"

// NewMessage builds an outgoing event outside a router handler. The topic is stamped
// on the metadata so the message can also be published with an empty topic.
func NewMessage(helpers utils.Helpers, topic string, payload any, correlationID string) (*message.Message, error) {
	msg, err := helpers.CreateNewMessage(payload, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s message: %w", topic, err)
	}
	msg.Metadata.Set(TopicMetadataKey, topic)
	if correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}
	return msg, nil
}

// EventBus is the publisher and subscriber shared by every module router.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	logger     *slog.Logger
	closeOnce  sync.Once
}

// NewEventBus connects to NATS when natsURL is set and falls back to an in-process
// channel bus otherwise.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	if natsURL == "" {
		logger.InfoContext(ctx, "NATS_URL not set, using in-process event bus")
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermillLogger)
		return &eventBus{publisher: pubSub, subscriber: pubSub, logger: logger}, nil
	}

	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}
	if err := InitializeStreams(ctx, js, logger); err != nil {
		natsConn.Close()
		return nil, err
	}

	marshaller := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         natsURL,
			Unmarshaler: marshaller,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:  publisher,
		subscriber: subscriber,
		natsConn:   natsConn,
		logger:     logger,
	}, nil
}

// Publish sends messages to topic. An empty topic routes each message by its
// TopicMetadataKey, which is how router handlers without a fixed publish topic
// emit their results.
func (eb *eventBus) Publish(topic string, msgs ...*message.Message) error {
	if topic != "" {
		return eb.publish(topic, msgs...)
	}

	for _, msg := range msgs {
		t := msg.Metadata.Get(TopicMetadataKey)
		if t == "" {
			return fmt.Errorf("%w: %s", ErrNoTopic, msg.UUID)
		}
		if err := eb.publish(t, msg); err != nil {
			return err
		}
	}
	return nil
}

func (eb *eventBus) publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
		)
	}
	if err := eb.publisher.Publish(topic, msgs...); err != nil {
		eb.logger.Error("Failed to publish message", slog.String("topic", topic), slog.Any("error", err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", slog.String("topic", topic))
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return messages, nil
}

// Close closes the publisher, the subscriber and the NATS connection. It is safe to
// call more than once.
func (eb *eventBus) Close() error {
	var errs []error
	eb.closeOnce.Do(func() {
		if err := eb.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
		if eb.subscriber != eb.publisher {
			if err := eb.subscriber.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close subscriber: %w", err))
			}
		}
		if eb.natsConn != nil {
			eb.natsConn.Close()
		}
	})
	return errors.Join(errs...)
}
