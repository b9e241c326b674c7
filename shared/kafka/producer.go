package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	skafka "github.com/segmentio/kafka-go"
)

var log = logging.Logger("kafka")

// Writer defines the subset of segmentio kafka.Writer we need. This makes the producer testable.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher is the interface used by services to publish events.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaProducer is a thin wrapper around a kafka writer implementing Publisher.
type KafkaProducer struct {
	writer Writer
}

// NewKafkaProducer creates a real KafkaProducer that writes to the provided broker/topic.
// Hash balancing keeps every message with the same key (one item) on one partition,
// so consumers see that item's sales in commit order.
func NewKafkaProducer(brokerURL, topic string) *KafkaProducer {
	w := &skafka.Writer{
		Addr:         skafka.TCP(brokerURL),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireOne,
	}
	return &KafkaProducer{writer: w}
}

// NewKafkaProducerWithWriter allows injecting a test writer.
func NewKafkaProducerWithWriter(w Writer) *KafkaProducer {
	return &KafkaProducer{writer: w}
}

// Publish marshals the value to JSON and writes a kafka message with the given key.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kafka: marshal value for key %s: %w", key, err)
	}
	msg := skafka.Message{Key: []byte(key), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Warnf("kafka write failed for key %s: %v", key, err)
		return fmt.Errorf("kafka: write message: %w", err)
	}
	log.Debugf("kafka published key=%s bytes=%d", key, len(b))
	return nil
}

// Close closes the underlying writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }
func (NopPublisher) Close() error                                                   { return nil }
