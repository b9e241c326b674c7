// services/store-service/internal/app/analytics/analytics.service.go
package analytics

import (
	"context"
	"fmt"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
)

// Service answers read-only questions about accounts and their purchases.
// Reports that read more than once run inside one read-only transaction so
// they see a single snapshot.
type Service struct {
	tx       repository.TransactionManager
	accounts repository.AccountStore
	sales    repository.SellHistoryStore
}

func NewService(tx repository.TransactionManager, accounts repository.AccountStore, sales repository.SellHistoryStore) *Service {
	return &Service{tx: tx, accounts: accounts, sales: sales}
}

// TopSpenders ranks accounts by money spent, priced at sale time.
// Highest first; equal totals are ordered by account id.
func (s *Service) TopSpenders(ctx context.Context, n int) ([]sellhistory.SpenderTotal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top spenders n=%d: %w", n, domainErr.ErrInvalidArgument)
	}
	var out []sellhistory.SpenderTotal
	err := s.tx.RunInReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.sales.TopSpenders(ctx, n)
		return err
	})
	return out, err
}

// BoughtItems lists the distinct items an account still owns, by item id.
func (s *Service) BoughtItems(ctx context.Context, accountID int64) ([]item.Item, error) {
	var out []item.Item
	err := s.tx.RunInReadOnlyTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
			return err
		}
		var err error
		out, err = s.sales.ItemsBoughtBy(ctx, accountID)
		return err
	})
	return out, err
}

// PurchaseHistory returns every sale of an account, reversed ones included.
func (s *Service) PurchaseHistory(ctx context.Context, accountID int64) ([]sellhistory.SellHistory, error) {
	var out []sellhistory.SellHistory
	err := s.tx.RunInReadOnlyTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
			return err
		}
		var err error
		out, err = s.sales.ListByAccount(ctx, accountID)
		return err
	})
	return out, err
}

func (s *Service) FilterAccounts(ctx context.Context, filter account.Filter) ([]account.Account, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.accounts.ListAccounts(ctx, filter)
}
