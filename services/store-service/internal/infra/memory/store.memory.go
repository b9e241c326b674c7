// services/store-service/internal/infra/memory/store.memory.go
package memory

import (
	"context"
	"sync"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
)

var (
	_ repository.TransactionManager = (*Store)(nil)
	_ repository.ItemStore          = (*Store)(nil)
	_ repository.AccountStore       = (*Store)(nil)
	_ repository.SellHistoryStore   = (*Store)(nil)
	_ repository.PremiumStore       = (*Store)(nil)
)

// Store keeps every table in process memory. It implements all four store
// ports plus the transaction manager, so one value can be handed to every
// service. Used for STORAGE_MODE=memory and in tests.
//
// A transaction holds the single mutex for its whole duration, so
// transactions are fully serialized. Writes made inside a failed
// transaction are discarded by restoring the snapshot taken at its start.
type Store struct {
	mu sync.Mutex
	tables
}

type tables struct {
	items    map[int64]item.Item
	accounts map[int64]account.Account
	sales    map[int64]sellhistory.SellHistory
	tiers    map[int64]premium.Discount

	nextItemID    int64
	nextAccountID int64
	nextSaleID    int64
}

func NewStore() *Store {
	return &Store{tables: tables{
		items:    make(map[int64]item.Item),
		accounts: make(map[int64]account.Account),
		sales:    make(map[int64]sellhistory.SellHistory),
		tiers:    make(map[int64]premium.Discount),
	}}
}

func (t *tables) clone() tables {
	c := tables{
		items:         make(map[int64]item.Item, len(t.items)),
		accounts:      make(map[int64]account.Account, len(t.accounts)),
		sales:         make(map[int64]sellhistory.SellHistory, len(t.sales)),
		tiers:         make(map[int64]premium.Discount, len(t.tiers)),
		nextItemID:    t.nextItemID,
		nextAccountID: t.nextAccountID,
		nextSaleID:    t.nextSaleID,
	}
	for k, v := range t.items {
		c.items[k] = v
	}
	for k, v := range t.accounts {
		c.accounts[k] = v
	}
	for k, v := range t.sales {
		c.sales[k] = v
	}
	for k, v := range t.tiers {
		c.tiers[k] = v
	}
	return c
}

type txKey struct{}

// inTx reports whether ctx belongs to a transaction of this store.
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the mutex unless ctx already runs inside one of our transactions.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.tables.clone()
	// Ensure rollback on panic
	defer func() {
		if p := recover(); p != nil {
			s.tables = snapshot
			panic(p)
		} else if err != nil {
			s.tables = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) RunInReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, s))
}
