// services/store-service/internal/infra/memory/premium_store.memory.go
package memory

import (
	"context"
	"fmt"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
)

func (s *Store) GetTier(ctx context.Context, accountID int64) (*premium.Tier, error) {
	defer s.lock(ctx)()

	d, ok := s.tiers[accountID]
	if !ok {
		return nil, nil
	}
	return &premium.Tier{AccountID: accountID, Discount: d}, nil
}

func (s *Store) UpsertTier(ctx context.Context, tier premium.Tier) error {
	defer s.lock(ctx)()

	if _, ok := s.accounts[tier.AccountID]; !ok {
		return fmt.Errorf("tier for account %d: %w", tier.AccountID, domainErr.ErrReferentialIntegrity)
	}
	s.tiers[tier.AccountID] = tier.Discount
	return nil
}

func (s *Store) DeleteTier(ctx context.Context, accountID int64) error {
	defer s.lock(ctx)()

	if _, ok := s.tiers[accountID]; !ok {
		return fmt.Errorf("tier for account %d: %w", accountID, domainErr.ErrNotFound)
	}
	delete(s.tiers, accountID)
	return nil
}
