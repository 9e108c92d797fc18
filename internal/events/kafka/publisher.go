package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
)

// Publisher writes ledger events to a Kafka topic.
// Messages are keyed by client and hashed to partitions, so the events of one
// client stay in order. Writes are asynchronous; delivery failures are logged.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error("failed to deliver ledger events", zap.Int("messages", len(messages)), zap.Error(err))
				}
			},
		},
	}
}

// Publish serialises event as JSON. eventType travels in the "event-type" header.
func (p *Publisher) Publish(ctx context.Context, eventType string, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:     []byte(key),
			Value:   data,
			Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
		},
	)
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
