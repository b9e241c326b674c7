// services/store-service/internal/infra/memory/sell_history_store.memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateSale(ctx context.Context, sale *sellhistory.SellHistory) (int64, error) {
	defer s.lock(ctx)()

	if _, ok := s.accounts[sale.AccountID]; !ok {
		return 0, fmt.Errorf("sale for account %d: %w", sale.AccountID, domainErr.ErrReferentialIntegrity)
	}
	if _, ok := s.items[sale.ItemID]; !ok {
		return 0, fmt.Errorf("sale for item %d: %w", sale.ItemID, domainErr.ErrReferentialIntegrity)
	}
	s.nextSaleID++
	sale.ID = s.nextSaleID
	s.sales[sale.ID] = *sale
	return sale.ID, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*sellhistory.SellHistory, error) {
	defer s.lock(ctx)()

	sale, ok := s.sales[id]
	if !ok {
		return nil, fmt.Errorf("sale %d: %w", id, domainErr.ErrNotFound)
	}
	return &sale, nil
}

func (s *Store) GetSaleForUpdate(ctx context.Context, id int64) (*sellhistory.SellHistory, error) {
	return s.GetSale(ctx, id)
}

func (s *Store) MarkReversed(ctx context.Context, id int64, at time.Time) error {
	defer s.lock(ctx)()

	sale, ok := s.sales[id]
	if !ok {
		return fmt.Errorf("sale %d: %w", id, domainErr.ErrNotFound)
	}
	if sale.Reversed() {
		return fmt.Errorf("sale %d: %w", id, domainErr.ErrSaleAlreadyReversed)
	}
	stamp := at
	sale.ReversedAt = &stamp
	s.sales[id] = sale
	return nil
}

func (s *Store) ListByAccount(ctx context.Context, accountID int64) ([]sellhistory.SellHistory, error) {
	defer s.lock(ctx)()

	out := []sellhistory.SellHistory{}
	for _, sale := range s.sales {
		if sale.AccountID == accountID {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SoldAt.Equal(out[j].SoldAt) {
			return out[i].SoldAt.Before(out[j].SoldAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) TopSpenders(ctx context.Context, n int) ([]sellhistory.SpenderTotal, error) {
	defer s.lock(ctx)()

	totals := make(map[int64]decimal.Decimal)
	for _, sale := range s.sales {
		if sale.Reversed() {
			continue
		}
		totals[sale.AccountID] = totals[sale.AccountID].Add(sale.Total())
	}

	out := make([]sellhistory.SpenderTotal, 0, len(totals))
	for id, total := range totals {
		out = append(out, sellhistory.SpenderTotal{AccountID: id, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].AccountID < out[j].AccountID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Store) ItemsBoughtBy(ctx context.Context, accountID int64) ([]item.Item, error) {
	defer s.lock(ctx)()

	seen := make(map[int64]struct{})
	for _, sale := range s.sales {
		if sale.AccountID == accountID && !sale.Reversed() {
			seen[sale.ItemID] = struct{}{}
		}
	}
	return s.sortedItems(func(it item.Item) bool {
		_, ok := seen[it.ID]
		return ok
	}), nil
}
