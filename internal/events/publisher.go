package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher publishes domain events. Callers treat failures as non fatal.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// WatermillPublisher sends events as JSON messages on a single topic.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaPublisher publishes to Kafka brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*WatermillPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	return &WatermillPublisher{publisher: publisher, topic: topic, logger: logger}, nil
}

// NewInMemoryPubSub is the broker used when no Kafka brokers are configured.
func NewInMemoryPubSub(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
}

func NewWatermillPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher, topic: topic, logger: logger}
}

// NewPublisher picks Kafka when brokers are given and the in-memory broker otherwise.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*WatermillPublisher, error) {
	if len(brokers) > 0 {
		return NewKafkaPublisher(brokers, topic, logger)
	}
	logger.Info("No Kafka brokers configured, events stay in process")
	return NewWatermillPublisher(NewInMemoryPubSub(logger), topic, logger), nil
}

func (p *WatermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "Event published", "event_id", event.ID, "event_type", event.Type)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
