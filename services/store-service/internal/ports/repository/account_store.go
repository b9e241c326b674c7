// services/store-service/internal/ports/repository/account_store.go
package repository

import (
	"context"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
)

type AccountStore interface {
	CreateAccount(ctx context.Context, acc *account.Account) (int64, error)
	GetAccount(ctx context.Context, id int64) (*account.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*account.Account, error)
	ListAccounts(ctx context.Context, filter account.Filter) ([]account.Account, error)
	UpdateAccount(ctx context.Context, acc *account.Account) error
	// DeleteAccount fails with ErrReferentialIntegrity while sales reference the account.
	// The premium tier goes with it.
	DeleteAccount(ctx context.Context, id int64) error
}
