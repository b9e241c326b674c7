// services/store-service/internal/app/ledger/ledger.service.go
package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("ledger")

// Publisher receives sale events after the ledger transaction commits.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// publishTimeout bounds the post-commit publish, which outlives a cancelled request.
const publishTimeout = 5 * time.Second

// Service is the only writer of item quantities and sell history.
// Every operation runs as one transaction: the quantity change and the
// ledger row commit together or not at all.
type Service struct {
	tx        repository.TransactionManager
	items     repository.ItemStore
	accounts  repository.AccountStore
	sales     repository.SellHistoryStore
	publisher Publisher
	retry     RetryConfig
	now       func() time.Time
}

// NewService wires the ledger. A nil publisher disables sale events.
func NewService(
	tx repository.TransactionManager,
	items repository.ItemStore,
	accounts repository.AccountStore,
	sales repository.SellHistoryStore,
	publisher Publisher,
	retry RetryConfig,
) *Service {
	return &Service{
		tx:        tx,
		items:     items,
		accounts:  accounts,
		sales:     sales,
		publisher: publisher,
		retry:     retry,
		now:       time.Now,
	}
}

// RecordSale sells quantity units of an item to an account and returns the
// new sell history id. The item row stays locked from the stock check to the
// commit, so concurrent sales of one item can never oversell it.
func (s *Service) RecordSale(ctx context.Context, accountID, itemID int64, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("sale quantity %d: %w", quantity, domainErr.ErrInvalidArgument)
	}

	var event sellhistory.SaleEvent
	err := s.withRetry(ctx, "record sale", func() error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
				return err
			}

			// 1. Lock the item row and re-read the stock under the lock
			it, err := s.items.GetItemForUpdate(ctx, itemID)
			if err != nil {
				return err
			}
			if quantity > it.Quantity {
				return fmt.Errorf("item %d has %d, requested %d: %w", itemID, it.Quantity, quantity, domainErr.ErrInsufficientStock)
			}

			// 2. Decrement
			remaining, err := s.items.AdjustQuantity(ctx, itemID, -quantity)
			if err != nil {
				return err
			}

			// 3. Ledger row at today's price
			sale := &sellhistory.SellHistory{
				AccountID: accountID,
				ItemID:    itemID,
				Quantity:  quantity,
				UnitPrice: it.Price,
				Currency:  it.Currency,
				SoldAt:    s.now().UTC(),
			}
			if _, err := s.sales.CreateSale(ctx, sale); err != nil {
				return err
			}

			event = newEvent(sellhistory.EventSaleRecorded, sale, remaining, sale.SoldAt)
			return nil
		})
	})
	if err != nil {
		log.Debugf("sale rejected account=%d item=%d qty=%d: %v", accountID, itemID, quantity, err)
		return 0, err
	}

	log.Debugf("sale %d recorded account=%d item=%d qty=%d remaining=%d", event.SellID, accountID, itemID, quantity, event.RemainingQuantity)
	s.publish(ctx, event)
	return event.SellID, nil
}

// ReverseSale undoes a sale: its quantity goes back on the shelf and the
// row is stamped as reversed. The row itself is kept.
func (s *Service) ReverseSale(ctx context.Context, sellID int64) error {
	var event sellhistory.SaleEvent
	err := s.withRetry(ctx, "reverse sale", func() error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			sale, err := s.sales.GetSaleForUpdate(ctx, sellID)
			if err != nil {
				return err
			}
			if sale.Reversed() {
				return fmt.Errorf("sale %d: %w", sellID, domainErr.ErrSaleAlreadyReversed)
			}

			remaining, err := s.items.AdjustQuantity(ctx, sale.ItemID, sale.Quantity)
			if err != nil {
				return err
			}

			at := s.now().UTC()
			if err := s.sales.MarkReversed(ctx, sellID, at); err != nil {
				return err
			}

			event = newEvent(sellhistory.EventSaleReversed, sale, remaining, at)
			return nil
		})
	})
	if err != nil {
		return err
	}

	log.Infof("sale %d reversed, item %d back to %d", sellID, event.ItemID, event.RemainingQuantity)
	s.publish(ctx, event)
	return nil
}

func newEvent(kind sellhistory.EventType, sale *sellhistory.SellHistory, remaining int, at time.Time) sellhistory.SaleEvent {
	return sellhistory.SaleEvent{
		EventID:           uuid.New(),
		Type:              kind,
		SellID:            sale.ID,
		AccountID:         sale.AccountID,
		ItemID:            sale.ItemID,
		Quantity:          sale.Quantity,
		RemainingQuantity: remaining,
		UnitPrice:         sale.UnitPrice,
		Currency:          sale.Currency,
		OccurredAt:        at,
	}
}

// publish never fails the caller: the sale is already committed.
func (s *Service) publish(ctx context.Context, event sellhistory.SaleEvent) {
	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, strconv.FormatInt(event.ItemID, 10), event); err != nil {
		log.Errorf("failed to publish %s for sale %d: %v", event.Type, event.SellID, err)
	}
}
