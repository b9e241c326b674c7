//services/store-service/internal/app/ledger/ledger.service_test.go

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/infra/memory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- MOCKS ---

// RecordingPublisher keeps every event; Err makes every publish fail.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []sellhistory.SaleEvent
	Keys   []string
	Err    error
}

func (p *RecordingPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Keys = append(p.Keys, key)
	p.Events = append(p.Events, value.(sellhistory.SaleEvent))
	return nil
}

// FlakyTx fails the first Failures transactions with Err before delegating.
type FlakyTx struct {
	repository.TransactionManager
	Failures int
	Err      error
	Calls    int
}

func (f *FlakyTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.Calls++
	if f.Calls <= f.Failures {
		return f.Err
	}
	return f.TransactionManager.RunInTx(ctx, fn)
}

type fixture struct {
	store     *memory.Store
	svc       *Service
	publisher *RecordingPublisher
	accountID int64
	itemID    int64
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	pub := &RecordingPublisher{}

	accountID, err := store.CreateAccount(ctx, &account.Account{Email: "buyer@example.com", Password: "pw", Name: "Buyer"})
	require.NoError(t, err)
	itemID, err := store.CreateItem(ctx, &item.Item{
		Model: "Redmi Note 13", Brand: item.BrandXiaomi, Price: decimal.RequireFromString("249.90"),
		Currency: item.CurrencyEUR, Quantity: stock,
	})
	require.NoError(t, err)

	svc := NewService(store, store, store, store, pub, RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})
	return &fixture{store: store, svc: svc, publisher: pub, accountID: accountID, itemID: itemID}
}

func (f *fixture) quantity(t *testing.T) int {
	t.Helper()
	it, err := f.store.GetItem(context.Background(), f.itemID)
	require.NoError(t, err)
	return it.Quantity
}

func (f *fixture) history(t *testing.T) []sellhistory.SellHistory {
	t.Helper()
	h, err := f.store.ListByAccount(context.Background(), f.accountID)
	require.NoError(t, err)
	return h
}

// --- TESTS ---

func TestRecordSale_Success(t *testing.T) {
	f := newFixture(t, 10)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	id, err := f.svc.RecordSale(context.Background(), f.accountID, f.itemID, 3)
	require.NoError(t, err)

	assert.Equal(t, 7, f.quantity(t))
	h := f.history(t)
	require.Len(t, h, 1)
	assert.Equal(t, id, h[0].ID)
	assert.Equal(t, 3, h[0].Quantity)
	assert.True(t, decimal.RequireFromString("249.90").Equal(h[0].UnitPrice), "sale keeps the price at sale time")
	assert.Equal(t, fixed, h[0].SoldAt)

	require.Len(t, f.publisher.Events, 1)
	ev := f.publisher.Events[0]
	assert.Equal(t, sellhistory.EventSaleRecorded, ev.Type)
	assert.Equal(t, id, ev.SellID)
	assert.Equal(t, 7, ev.RemainingQuantity)
	assert.Equal(t, fmt.Sprint(f.itemID), f.publisher.Keys[0])
}

func TestRecordSale_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		accountID func(f *fixture) int64
		itemID    func(f *fixture) int64
		quantity  int
		wantErr   error
	}{
		{"zero quantity", func(f *fixture) int64 { return f.accountID }, func(f *fixture) int64 { return f.itemID }, 0, domainErr.ErrInvalidArgument},
		{"negative quantity", func(f *fixture) int64 { return f.accountID }, func(f *fixture) int64 { return f.itemID }, -2, domainErr.ErrInvalidArgument},
		{"more than stock", func(f *fixture) int64 { return f.accountID }, func(f *fixture) int64 { return f.itemID }, 6, domainErr.ErrInsufficientStock},
		{"unknown item", func(f *fixture) int64 { return f.accountID }, func(f *fixture) int64 { return 999 }, 1, domainErr.ErrNotFound},
		{"unknown account", func(f *fixture) int64 { return 999 }, func(f *fixture) int64 { return f.itemID }, 1, domainErr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 5)

			_, err := f.svc.RecordSale(context.Background(), tt.accountID(f), tt.itemID(f), tt.quantity)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 5, f.quantity(t), "failed sale must not touch stock")
			assert.Empty(t, f.history(t), "failed sale must not write history")
			assert.Empty(t, f.publisher.Events)
		})
	}
}

func TestRecordSale_ConcurrentBuyersNeverOversell(t *testing.T) {
	const (
		stock   = 7
		buyers  = 25
		perSale = 1
	)
	f := newFixture(t, stock)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successes    int
		insufficient int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RecordSale(context.Background(), f.accountID, f.itemID, perSale)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainErr.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, successes)
	assert.Equal(t, buyers-stock, insufficient)
	assert.Equal(t, 0, f.quantity(t))

	sold := 0
	for _, s := range f.history(t) {
		sold += s.Quantity
	}
	assert.Equal(t, stock, sold, "sum of sold quantities equals the initial stock")
}

func TestReverseSale_RestoresStockExactly(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	id, err := f.svc.RecordSale(ctx, f.accountID, f.itemID, 3)
	require.NoError(t, err)
	require.Equal(t, 1, f.quantity(t))

	require.NoError(t, f.svc.ReverseSale(ctx, id))
	assert.Equal(t, 4, f.quantity(t))

	h := f.history(t)
	require.Len(t, h, 1)
	assert.True(t, h[0].Reversed(), "reversed sale stays in history, marked")

	assert.ErrorIs(t, f.svc.ReverseSale(ctx, id), domainErr.ErrSaleAlreadyReversed)
	assert.Equal(t, 4, f.quantity(t), "second reversal must not add stock")
	assert.ErrorIs(t, f.svc.ReverseSale(ctx, id+42), domainErr.ErrNotFound)

	require.Len(t, f.publisher.Events, 2)
	assert.Equal(t, sellhistory.EventSaleReversed, f.publisher.Events[1].Type)
	assert.Equal(t, 4, f.publisher.Events[1].RemainingQuantity)
}

func TestRecordSale_PublishFailureDoesNotFailSale(t *testing.T) {
	f := newFixture(t, 2)
	f.publisher.Err = errors.New("broker down")

	_, err := f.svc.RecordSale(context.Background(), f.accountID, f.itemID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.quantity(t))
}

func TestRecordSale_Retry(t *testing.T) {
	transient := fmt.Errorf("commit: %w", domainErr.ErrTransient)

	t.Run("recovers after transient failures", func(t *testing.T) {
		f := newFixture(t, 3)
		flaky := &FlakyTx{TransactionManager: f.store, Failures: 2, Err: transient}
		f.svc.tx = flaky

		_, err := f.svc.RecordSale(context.Background(), f.accountID, f.itemID, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, flaky.Calls)
		assert.Equal(t, 2, f.quantity(t))
		assert.Len(t, f.history(t), 1, "exactly one sale despite retries")
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		f := newFixture(t, 3)
		flaky := &FlakyTx{TransactionManager: f.store, Failures: 10, Err: transient}
		f.svc.tx = flaky

		_, err := f.svc.RecordSale(context.Background(), f.accountID, f.itemID, 1)
		require.ErrorIs(t, err, domainErr.ErrTransient)
		assert.Equal(t, 3, flaky.Calls)
		assert.Equal(t, 3, f.quantity(t))
	})

	t.Run("does not retry business errors", func(t *testing.T) {
		f := newFixture(t, 3)
		flaky := &FlakyTx{TransactionManager: f.store, Failures: 1, Err: domainErr.ErrInsufficientStock}
		f.svc.tx = flaky

		_, err := f.svc.RecordSale(context.Background(), f.accountID, f.itemID, 1)
		require.ErrorIs(t, err, domainErr.ErrInsufficientStock)
		assert.Equal(t, 1, flaky.Calls)
	})
}

func TestIsRetryAbleError(t *testing.T) {
	assert.False(t, IsRetryAbleError(nil))
	assert.False(t, IsRetryAbleError(context.Canceled))
	assert.False(t, IsRetryAbleError(domainErr.ErrNotFound))
	assert.True(t, IsRetryAbleError(fmt.Errorf("x: %w", domainErr.ErrTransient)))
}
