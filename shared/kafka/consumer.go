package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader is the subset of kafka.Reader the consumer loop needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer holds the connection to the Kafka server.
type Consumer struct {
	reader  Reader
	topic   string
	groupID string
	// handlerTimeout bounds a single handler call.
	handlerTimeout time.Duration
	// fetchBackoff is the pause after a failed fetch.
	fetchBackoff time.Duration
}

// Handler processes one message. Returning an error leaves the offset
// uncommitted so the broker redelivers the message.
type Handler func(ctx context.Context, key []byte, value []byte) error

// NewConsumer creates the reader. groupID makes several replicas split the
// partitions instead of all of them processing the same message.
func NewConsumer(brokers []string, topic string, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		}),
		topic:          topic,
		groupID:        groupID,
		handlerTimeout: 10 * time.Second,
		fetchBackoff:   time.Second,
	}
}

// NewConsumerWithReader allows injecting a test reader.
func NewConsumerWithReader(r Reader, topic, groupID string) *Consumer {
	return &Consumer{
		reader:         r,
		topic:          topic,
		groupID:        groupID,
		handlerTimeout: 10 * time.Second,
		fetchBackoff:   10 * time.Millisecond,
	}
}

// Start runs the fetch/handle/commit loop until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler Handler) {
	log.Infof("kafka consumer started topic=%s group=%s", c.topic, c.groupID)

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("error fetching message: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		processCtx, cancel := context.WithTimeout(ctx, c.handlerTimeout)
		err = handler(processCtx, m.Key, m.Value)
		cancel()

		if err != nil {
			// Not committed: the broker hands the same message out again.
			log.Errorf("processing failed (offset %d): %v", m.Offset, err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			log.Errorf("failed to commit offset %d: %v", m.Offset, err)
		}
	}
}

// Close disconnects from the server.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
