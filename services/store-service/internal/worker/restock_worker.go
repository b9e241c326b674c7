// services/store-service/internal/worker/restock_worker.go
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// JobHandler processes one restock job.
type JobHandler func(ctx context.Context, job RestockJob) error

// LogJob is the default handler: it records the job for purchasing.
func LogJob(ctx context.Context, job RestockJob) error {
	log.Infof("restock needed: item %d has %d left (threshold %d), sale %d", job.ItemID, job.RemainingQuantity, job.Threshold, job.TriggeredBySale)
	return nil
}

type RestockWorker struct {
	client JobConsumer
	queue  string
	handle JobHandler
}

func NewRestockWorker(client JobConsumer, queue string, handle JobHandler) *RestockWorker {
	if handle == nil {
		handle = LogJob
	}
	return &RestockWorker{client: client, queue: queue, handle: handle}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (w *RestockWorker) Run(ctx context.Context) error {
	msgs, err := w.client.Consume(w.queue)
	if err != nil {
		return fmt.Errorf("restock worker: %w", err)
	}
	log.Infof("restock worker listening on %s", w.queue)

	for {
		select {
		case <-ctx.Done():
			log.Info("restock worker: received stop signal, shutting down")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Warn("restock worker: delivery channel closed")
				return nil
			}
			w.process(ctx, d)
		}
	}
}

func (w *RestockWorker) process(ctx context.Context, d amqp.Delivery) {
	var job RestockJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Errorf("restock worker: dropping malformed job: %v", err)
		if err := d.Nack(false, false); err != nil {
			log.Errorf("restock worker: nack failed: %v", err)
		}
		return
	}

	if err := w.handle(ctx, job); err != nil {
		log.Warnf("restock worker: job %s failed, requeueing: %v", job.JobID, err)
		if err := d.Nack(false, true); err != nil {
			log.Errorf("restock worker: nack failed: %v", err)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Errorf("restock worker: failed to acknowledge job %s: %v", job.JobID, err)
	}
}
