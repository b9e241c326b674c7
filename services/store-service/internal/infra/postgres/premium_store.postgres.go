// services/store-service/internal/infra/postgres/premium_store.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
)

var _ repository.PremiumStore = (*PostgresPremiumStore)(nil)

type PostgresPremiumStore struct {
	db *sql.DB
}

func NewPostgresPremiumStore(db *sql.DB) *PostgresPremiumStore {
	return &PostgresPremiumStore{db: db}
}

func (s *PostgresPremiumStore) GetTier(ctx context.Context, accountID int64) (*premium.Tier, error) {
	tier := premium.Tier{AccountID: accountID}
	err := executorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT discount FROM premium_users WHERE account_id = $1`, accountID,
	).Scan(&tier.Discount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tier of account %d: %w", accountID, mapError(err))
	}
	return &tier, nil
}

func (s *PostgresPremiumStore) UpsertTier(ctx context.Context, tier premium.Tier) error {
	query := `
        INSERT INTO premium_users (account_id, discount)
        VALUES ($1, $2)
        ON CONFLICT (account_id) DO UPDATE SET discount = EXCLUDED.discount`

	if _, err := executorFrom(ctx, s.db).ExecContext(ctx, query, tier.AccountID, int(tier.Discount)); err != nil {
		return fmt.Errorf("upsert tier for account %d: %w", tier.AccountID, mapError(err))
	}
	return nil
}

func (s *PostgresPremiumStore) DeleteTier(ctx context.Context, accountID int64) error {
	res, err := executorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM premium_users WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("delete tier for account %d: %w", accountID, mapError(err))
	}
	return requireAffected(res, "premium tier of account", accountID)
}
