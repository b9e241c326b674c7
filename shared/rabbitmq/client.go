package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

var log = logging.Logger("rabbitmq")

// Channel is the subset of *amqp.Channel the client uses. This makes the client testable.
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type RabbitmqClient struct {
	//conn is a tcp connection to rabbitmq server, nil for an injected channel
	conn *amqp.Connection
	chn  Channel
}

// NewClient dials the server and opens one channel. prefetch limits how
// many unacked deliveries a consumer holds; 0 leaves the server default.
func NewClient(url string, prefetch int) (*RabbitmqClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	//Open a channel. This open a logical session inside the connection.
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	client, err := newClient(conn, chn, prefetch)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return client, nil
}

// NewClientWithChannel allows injecting a test channel.
func NewClientWithChannel(chn Channel, prefetch int) (*RabbitmqClient, error) {
	return newClient(nil, chn, prefetch)
}

func newClient(conn *amqp.Connection, chn Channel, prefetch int) (*RabbitmqClient, error) {
	if prefetch > 0 {
		if err := chn.Qos(prefetch, 0, false); err != nil {
			_ = chn.Close()
			return nil, fmt.Errorf("rabbitmq: set qos %d: %w", prefetch, err)
		}
	}
	return &RabbitmqClient{
		conn: conn,
		chn:  chn,
	}, nil
}

// Close closes the channel first, then the connection.
func (r *RabbitmqClient) Close() error {
	if err := r.chn.Close(); err != nil {
		return fmt.Errorf("rabbitmq: close channel: %w", err)
	}
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// CreateQueue declares a durable queue. Safe to call on every start.
func (r *RabbitmqClient) CreateQueue(queueName string) error {
	_, err := r.chn.QueueDeclare(
		queueName, //name of queue
		true,      //durable
		false,     //delete when unused
		false,     //exclusive
		false,     //no-wait
		nil,       //arguments
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare %s: %w", queueName, err)
	}
	return nil
}

// Publish sends a persistent JSON message to a queue through the default exchange.
func (r *RabbitmqClient) Publish(ctx context.Context, queueName string, body []byte) error {
	err := r.chn.PublishWithContext(
		ctx,
		"",        //exchange
		queueName, //routing key (queue name)
		false,     //mandatory
		false,     //immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish to %s: %w", queueName, err)
	}
	log.Debugf("published %d bytes to %s", len(body), queueName)
	return nil
}

// PublishJSON marshals v and publishes it.
func (r *RabbitmqClient) PublishJSON(ctx context.Context, queueName string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal for %s: %w", queueName, err)
	}
	return r.Publish(ctx, queueName, body)
}

// Consume starts listening on a queue with manual acks.
// The returned channel closes when the channel or connection does.
func (r *RabbitmqClient) Consume(queueName string) (<-chan amqp.Delivery, error) {
	msgs, err := r.chn.Consume(
		queueName, //queue
		"",        //consumer
		false,     //auto-ack
		false,     //exclusive
		false,     //no-local
		false,     //no-wait
		nil,       //args
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: consume %s: %w", queueName, err)
	}
	return msgs, nil
}
