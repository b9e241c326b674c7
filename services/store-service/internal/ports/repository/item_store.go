// services/store-service/internal/ports/repository/item_store.go
package repository

import (
	"context"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
)

type ItemStore interface {
	CreateItem(ctx context.Context, it *item.Item) (int64, error)
	GetItem(ctx context.Context, id int64) (*item.Item, error)
	// GetItemForUpdate locks the row until the surrounding transaction ends.
	GetItemForUpdate(ctx context.Context, id int64) (*item.Item, error)
	// ListItems orders by id ascending; offset counts items, not pages.
	ListItems(ctx context.Context, limit, offset int) ([]item.Item, error)
	FindItems(ctx context.Context, filter item.Filter) ([]item.Item, error)
	// UpdateItemDetails rewrites everything except Quantity.
	UpdateItemDetails(ctx context.Context, it *item.Item) error
	// AdjustQuantity adds delta and returns the new quantity.
	// Reserved for the sales ledger. Fails with ErrInsufficientStock instead of going below zero.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
	DeleteItem(ctx context.Context, id int64) error
}

// Key rules:
// context.Context always first
// No sql.ErrNoRows leaks → return domain errors
