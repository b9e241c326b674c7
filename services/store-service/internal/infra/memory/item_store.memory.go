// services/store-service/internal/infra/memory/item_store.memory.go
package memory

import (
	"context"
	"fmt"
	"sort"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
)

func (s *Store) CreateItem(ctx context.Context, it *item.Item) (int64, error) {
	defer s.lock(ctx)()

	if it.Quantity < 0 {
		return 0, fmt.Errorf("create item quantity %d: %w", it.Quantity, domainErr.ErrInvalidArgument)
	}
	s.nextItemID++
	it.ID = s.nextItemID
	s.items[it.ID] = *it
	return it.ID, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	defer s.lock(ctx)()

	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, domainErr.ErrNotFound)
	}
	return &it, nil
}

// GetItemForUpdate needs no row lock: the transaction already owns the whole store.
func (s *Store) GetItemForUpdate(ctx context.Context, id int64) (*item.Item, error) {
	return s.GetItem(ctx, id)
}

func (s *Store) ListItems(ctx context.Context, limit, offset int) ([]item.Item, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit %d offset %d: %w", limit, offset, domainErr.ErrInvalidArgument)
	}
	defer s.lock(ctx)()

	all := s.sortedItems(func(item.Item) bool { return true })
	if offset >= len(all) {
		return []item.Item{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) FindItems(ctx context.Context, filter item.Filter) ([]item.Item, error) {
	defer s.lock(ctx)()
	return s.sortedItems(filter.Matches), nil
}

func (s *Store) sortedItems(keep func(item.Item) bool) []item.Item {
	out := make([]item.Item, 0, len(s.items))
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) UpdateItemDetails(ctx context.Context, it *item.Item) error {
	defer s.lock(ctx)()

	cur, ok := s.items[it.ID]
	if !ok {
		return fmt.Errorf("item %d: %w", it.ID, domainErr.ErrNotFound)
	}
	cur.Model = it.Model
	cur.Brand = it.Brand
	cur.Attributes = it.Attributes
	cur.Price = it.Price
	cur.Currency = it.Currency
	s.items[it.ID] = cur
	return nil
}

func (s *Store) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	defer s.lock(ctx)()

	cur, ok := s.items[id]
	if !ok {
		return 0, fmt.Errorf("item %d: %w", id, domainErr.ErrNotFound)
	}
	if cur.Quantity+delta < 0 {
		return cur.Quantity, fmt.Errorf("item %d has %d, change %d: %w", id, cur.Quantity, delta, domainErr.ErrInsufficientStock)
	}
	cur.Quantity += delta
	s.items[id] = cur
	return cur.Quantity, nil
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	defer s.lock(ctx)()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("item %d: %w", id, domainErr.ErrNotFound)
	}
	for _, sale := range s.sales {
		if sale.ItemID == id {
			return fmt.Errorf("item %d has sell history: %w", id, domainErr.ErrReferentialIntegrity)
		}
	}
	delete(s.items, id)
	return nil
}
