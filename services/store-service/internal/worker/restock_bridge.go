// services/store-service/internal/worker/restock_bridge.go
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("worker")

// RestockBridge turns sale events (facts, from Kafka) into restock jobs
// (tasks, on RabbitMQ). It never touches stock itself.
type RestockBridge struct {
	jobs      JobPublisher
	queue     string
	threshold int
	now       func() time.Time
}

func NewRestockBridge(jobs JobPublisher, queue string, threshold int) *RestockBridge {
	return &RestockBridge{jobs: jobs, queue: queue, threshold: threshold, now: time.Now}
}

// Handle matches shared/kafka.Handler. A returned error leaves the Kafka
// offset uncommitted so the event is redelivered.
func (b *RestockBridge) Handle(ctx context.Context, key []byte, value []byte) error {
	var event sellhistory.SaleEvent
	if err := json.Unmarshal(value, &event); err != nil {
		// Redelivery cannot fix a malformed payload; drop it.
		log.Errorf("restock bridge: skipping malformed event key=%s: %v", key, err)
		return nil
	}
	if event.Type != sellhistory.EventSaleRecorded {
		return nil
	}
	if event.RemainingQuantity > b.threshold {
		return nil
	}

	job := RestockJob{
		JobID:             uuid.New(),
		ItemID:            event.ItemID,
		RemainingQuantity: event.RemainingQuantity,
		Threshold:         b.threshold,
		TriggeredBySale:   event.SellID,
		CreatedAt:         b.now().UTC(),
	}
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("restock bridge: marshal job: %w", err)
	}
	if err := b.jobs.Publish(ctx, b.queue, body); err != nil {
		return fmt.Errorf("restock bridge: publish job for item %d: %w", job.ItemID, err)
	}
	log.Infof("restock job %s queued: item %d down to %d", job.JobID, job.ItemID, job.RemainingQuantity)
	return nil
}
