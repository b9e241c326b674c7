// services/store-service/internal/ports/repository/sell_history_store.go
package repository

import (
	"context"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
)

type SellHistoryStore interface {
	CreateSale(ctx context.Context, sale *sellhistory.SellHistory) (int64, error)
	GetSale(ctx context.Context, id int64) (*sellhistory.SellHistory, error)
	GetSaleForUpdate(ctx context.Context, id int64) (*sellhistory.SellHistory, error)
	MarkReversed(ctx context.Context, id int64, at time.Time) error
	// ListByAccount includes reversed rows, oldest first.
	ListByAccount(ctx context.Context, accountID int64) ([]sellhistory.SellHistory, error)

	// Aggregates skip reversed rows.
	TopSpenders(ctx context.Context, n int) ([]sellhistory.SpenderTotal, error)
	ItemsBoughtBy(ctx context.Context, accountID int64) ([]item.Item, error)
}
