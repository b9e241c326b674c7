// services/store-service/internal/domain/sellhistory/sellhistory.domain.go
package sellhistory

import (
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellHistory is one ledger row. UnitPrice and Currency are copied from the
// item when the sale is recorded so later price edits never rewrite history.
// The row is immutable except for the one-time reversal mark.
type SellHistory struct {
	ID         int64           `json:"id"`
	AccountID  int64           `json:"account_id"`
	ItemID     int64           `json:"item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Currency   item.Currency   `json:"currency"`
	SoldAt     time.Time       `json:"sold_at"`
	ReversedAt *time.Time      `json:"reversed_at,omitempty"`
}

func (s SellHistory) Reversed() bool {
	return s.ReversedAt != nil
}

// Total is the amount paid for this row.
func (s SellHistory) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SpenderTotal is one row of the top-spenders report.
type SpenderTotal struct {
	AccountID int64           `json:"account_id"`
	Total     decimal.Decimal `json:"total"`
}

type EventType string

const (
	EventSaleRecorded EventType = "sale.recorded"
	EventSaleReversed EventType = "sale.reversed"
)

// SaleEvent is published after a ledger transaction commits.
type SaleEvent struct {
	EventID           uuid.UUID       `json:"event_id"`
	Type              EventType       `json:"type"`
	SellID            int64           `json:"sell_id"`
	AccountID         int64           `json:"account_id"`
	ItemID            int64           `json:"item_id"`
	Quantity          int             `json:"quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Currency          item.Currency   `json:"currency"`
	OccurredAt        time.Time       `json:"occurred_at"`
}
