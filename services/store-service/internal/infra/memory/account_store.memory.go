// services/store-service/internal/infra/memory/account_store.memory.go
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
)

func (s *Store) emailTaken(email string, except int64) bool {
	for id, acc := range s.accounts {
		if id != except && acc.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) CreateAccount(ctx context.Context, acc *account.Account) (int64, error) {
	defer s.lock(ctx)()

	if s.emailTaken(acc.Email, 0) {
		return 0, fmt.Errorf("create account %s: %w", acc.Email, domainErr.ErrDuplicateEmail)
	}
	s.nextAccountID++
	acc.ID = s.nextAccountID
	s.accounts[acc.ID] = *acc
	return acc.ID, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*account.Account, error) {
	defer s.lock(ctx)()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, domainErr.ErrNotFound)
	}
	return &acc, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	defer s.lock(ctx)()

	for _, acc := range s.accounts {
		if acc.Email == email {
			found := acc
			return &found, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, domainErr.ErrNotFound)
}

func (s *Store) ListAccounts(ctx context.Context, filter account.Filter) ([]account.Account, error) {
	defer s.lock(ctx)()

	out := make([]account.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if filter.Matches(acc) {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateAccount(ctx context.Context, acc *account.Account) error {
	defer s.lock(ctx)()

	if _, ok := s.accounts[acc.ID]; !ok {
		return fmt.Errorf("account %d: %w", acc.ID, domainErr.ErrNotFound)
	}
	if s.emailTaken(acc.Email, acc.ID) {
		return fmt.Errorf("update account %d: %w", acc.ID, domainErr.ErrDuplicateEmail)
	}
	s.accounts[acc.ID] = *acc
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	defer s.lock(ctx)()

	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("account %d: %w", id, domainErr.ErrNotFound)
	}
	for _, sale := range s.sales {
		if sale.AccountID == id {
			return fmt.Errorf("account %d has sell history: %w", id, domainErr.ErrReferentialIntegrity)
		}
	}
	delete(s.tiers, id)
	delete(s.accounts, id)
	return nil
}
