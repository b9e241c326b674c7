// services/store-service/internal/app/directory/directory.service.go
package directory

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("directory")

// Service owns account records and premium tiers.
type Service struct {
	tx       repository.TransactionManager
	accounts repository.AccountStore
	tiers    repository.PremiumStore
}

func NewService(tx repository.TransactionManager, accounts repository.AccountStore, tiers repository.PremiumStore) *Service {
	return &Service{tx: tx, accounts: accounts, tiers: tiers}
}

func (s *Service) Register(ctx context.Context, acc account.Account) (int64, error) {
	if err := acc.Validate(); err != nil {
		return 0, err
	}
	id, err := s.accounts.CreateAccount(ctx, &acc)
	if err != nil {
		return 0, err
	}
	log.Infof("account %d registered", id)
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*account.Account, error) {
	return s.accounts.GetAccount(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.accounts.GetAccountByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]account.Account, error) {
	return s.accounts.ListAccounts(ctx, account.Filter{})
}

// UpdateProfile replaces the stored profile. An empty Password keeps the
// current one. Changing the email re-checks uniqueness.
func (s *Service) UpdateProfile(ctx context.Context, acc account.Account) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.accounts.GetAccount(ctx, acc.ID)
		if err != nil {
			return err
		}
		if acc.Password == "" {
			acc.Password = current.Password
		}
		if err := acc.Validate(); err != nil {
			return err
		}
		return s.accounts.UpdateAccount(ctx, &acc)
	})
}

// Delete removes an account and its premium tier. Accounts with purchases
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		return err
	}
	log.Infof("account %d deleted", id)
	return nil
}

// Authenticate returns the account when both email and password match
// exactly. Any mismatch, unknown email included, yields nil, nil.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*account.Account, error) {
	acc, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, domainErr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(acc.Password), []byte(password)) != 1 {
		return nil, nil
	}
	return acc, nil
}

// GrantPremium sets or replaces the account's discount tier.
func (s *Service) GrantPremium(ctx context.Context, accountID int64, d premium.Discount) error {
	if !d.Valid() {
		return fmt.Errorf("discount %d: %w", int(d), domainErr.ErrInvalidArgument)
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
			return err
		}
		if err := s.tiers.UpsertTier(ctx, premium.Tier{AccountID: accountID, Discount: d}); err != nil {
			return err
		}
		log.Infof("account %d granted %d%% discount", accountID, d.Percent())
		return nil
	})
}

func (s *Service) RevokePremium(ctx context.Context, accountID int64) error {
	return s.tiers.DeleteTier(ctx, accountID)
}
