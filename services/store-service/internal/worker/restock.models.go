// services/store-service/internal/worker/restock.models.go
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RestockJob asks purchasing to reorder an item that is running low.
type RestockJob struct {
	JobID             uuid.UUID `json:"job_id"`
	ItemID            int64     `json:"item_id"`
	RemainingQuantity int       `json:"remaining_quantity"`
	Threshold         int       `json:"threshold"`
	TriggeredBySale   int64     `json:"triggered_by_sale"`
	CreatedAt         time.Time `json:"created_at"`
}

// JobPublisher is the part of the RabbitMQ client the bridge uses.
type JobPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// JobConsumer is the part of the RabbitMQ client the worker uses.
type JobConsumer interface {
	Consume(queueName string) (<-chan amqp.Delivery, error)
}
