// services/store-service/internal/app/discount/discount.service.go
package discount

import (
	"context"
	"strconv"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Resolver answers "what discount does this account get". It only reads.
type Resolver struct {
	tiers repository.PremiumStore
	group singleflight.Group
}

func NewResolver(tiers repository.PremiumStore) *Resolver {
	return &Resolver{tiers: tiers}
}

// lookupTimeout bounds a shared store read, which no single caller owns.
const lookupTimeout = 5 * time.Second

// GetDiscount returns nil when the account is not premium. That is not an
// error. Concurrent lookups for one account share a single store read; a
// caller that gives up only stops waiting, the others still get the answer.
func (r *Resolver) GetDiscount(ctx context.Context, accountID int64) (*premium.Discount, error) {
	ch := r.group.DoChan(strconv.FormatInt(accountID, 10), func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return r.tiers.GetTier(lookupCtx, accountID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	tier, _ := res.Val.(*premium.Tier)
	if tier == nil {
		return nil, nil
	}
	d := tier.Discount
	return &d, nil
}

// PriceFor returns what the account pays for an item listed at price.
func (r *Resolver) PriceFor(ctx context.Context, accountID int64, price decimal.Decimal) (decimal.Decimal, error) {
	d, err := r.GetDiscount(ctx, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d == nil {
		return price, nil
	}
	return d.Apply(price), nil
}
