// services/store-service/internal/domain/premium/premium.domain.go
package premium

import (
	"fmt"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// Discount is a percentage bucket. Only the listed buckets exist.
type Discount int

const (
	FivePercent       Discount = 5
	TenPercent        Discount = 10
	FifteenPercent    Discount = 15
	TwentyPercent     Discount = 20
	TwentyFivePercent Discount = 25
)

func (d Discount) Valid() bool {
	switch d {
	case FivePercent, TenPercent, FifteenPercent, TwentyPercent, TwentyFivePercent:
		return true
	}
	return false
}

func ParseDiscount(percent int) (Discount, error) {
	d := Discount(percent)
	if !d.Valid() {
		return 0, fmt.Errorf("unsupported discount %d%%: %w", percent, domainErr.ErrInvalidArgument)
	}
	return d, nil
}

func (d Discount) Percent() int { return int(d) }

// Apply returns price reduced by the discount, rounded to cents.
func (d Discount) Apply(price decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 - int(d))).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}

// Tier marks an account as premium. One per account; it is deleted together
// with the account.
type Tier struct {
	AccountID int64    `json:"account_id"`
	Discount  Discount `json:"discount"`
}
