// services/store-service/internal/ports/repository/premium_store.go
package repository

import (
	"context"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
)

type PremiumStore interface {
	// GetTier returns nil, nil when the account has no tier.
	GetTier(ctx context.Context, accountID int64) (*premium.Tier, error)
	UpsertTier(ctx context.Context, tier premium.Tier) error
	DeleteTier(ctx context.Context, accountID int64) error
}
