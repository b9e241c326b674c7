// services/store-service/internal/domain/item/item.domain.go
package item

import (
	"fmt"
	"strings"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/shopspring/decimal"
)

type Brand string

const (
	BrandApple   Brand = "APPLE"
	BrandSamsung Brand = "SAMSUNG"
	BrandXiaomi  Brand = "XIAOMI"
	BrandOnePlus Brand = "ONEPLUS"
	BrandGoogle  Brand = "GOOGLE"
	BrandHuawei  Brand = "HUAWEI"
	BrandNokia   Brand = "NOKIA"
	BrandSony    Brand = "SONY"
)

var brands = map[Brand]struct{}{
	BrandApple: {}, BrandSamsung: {}, BrandXiaomi: {}, BrandOnePlus: {},
	BrandGoogle: {}, BrandHuawei: {}, BrandNokia: {}, BrandSony: {},
}

func (b Brand) Valid() bool {
	_, ok := brands[b]
	return ok
}

// ParseBrand accepts any letter case.
func ParseBrand(s string) (Brand, error) {
	b := Brand(strings.ToUpper(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown brand %q: %w", s, domainErr.ErrInvalidArgument)
	}
	return b, nil
}

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyKZT Currency = "KZT"
	CurrencyBYN Currency = "BYN"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR, CurrencyKZT, CurrencyBYN:
		return true
	}
	return false
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown currency %q: %w", s, domainErr.ErrInvalidArgument)
	}
	return c, nil
}

// Item is a phone in the catalog. Quantity is the units on hand and only
// the sales ledger changes it after creation.
type Item struct {
	ID         int64           `json:"id"`
	Model      string          `json:"model"`
	Brand      Brand           `json:"brand"`
	Attributes string          `json:"attributes"`
	Price      decimal.Decimal `json:"price"`
	Currency   Currency        `json:"currency"`
	Quantity   int             `json:"quantity"`
}

// Validate checks a new or edited catalog entry.
// PriceScale is how many fractional digits a stored price keeps; prices
// are NUMERIC(14, 2) in Postgres and must not be rounded on the way in.
const PriceScale = 2

var maxPrice = decimal.New(1, 12)

func (i Item) Validate() error {
	if strings.TrimSpace(i.Model) == "" {
		return fmt.Errorf("model is required: %w", domainErr.ErrInvalidArgument)
	}
	if !i.Brand.Valid() {
		return fmt.Errorf("unknown brand %q: %w", i.Brand, domainErr.ErrInvalidArgument)
	}
	if !i.Currency.Valid() {
		return fmt.Errorf("unknown currency %q: %w", i.Currency, domainErr.ErrInvalidArgument)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", domainErr.ErrInvalidArgument)
	}
	if !i.Price.Equal(i.Price.Truncate(PriceScale)) {
		return fmt.Errorf("price %s has more than %d decimal places: %w", i.Price, PriceScale, domainErr.ErrInvalidArgument)
	}
	if i.Price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("price %s is too large: %w", i.Price, domainErr.ErrInvalidArgument)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative: %w", domainErr.ErrInvalidArgument)
	}
	return nil
}
