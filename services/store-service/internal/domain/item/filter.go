// services/store-service/internal/domain/item/filter.go
package item

import (
	"fmt"
	"strings"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// Filter is a conjunction of optional constraints. Zero values mean "any".
type Filter struct {
	Brands         []Brand
	Model          string
	AttributesLike string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	Currency       Currency
	InStockOnly    bool
}

func (f Filter) Validate() error {
	for _, b := range f.Brands {
		if !b.Valid() {
			return fmt.Errorf("unknown brand %q: %w", b, domainErr.ErrInvalidArgument)
		}
	}
	if f.Currency != "" && !f.Currency.Valid() {
		return fmt.Errorf("unknown currency %q: %w", f.Currency, domainErr.ErrInvalidArgument)
	}
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return fmt.Errorf("min price must not be negative: %w", domainErr.ErrInvalidArgument)
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return fmt.Errorf("max price must not be negative: %w", domainErr.ErrInvalidArgument)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return fmt.Errorf("min price above max price: %w", domainErr.ErrInvalidArgument)
	}
	return nil
}

// Matches evaluates the filter against one item. The SQL store builds the
// same predicate as a WHERE clause.
func (f Filter) Matches(i Item) bool {
	if len(f.Brands) > 0 {
		found := false
		for _, b := range f.Brands {
			if b == i.Brand {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Model != "" && f.Model != i.Model {
		return false
	}
	if f.AttributesLike != "" &&
		!strings.Contains(strings.ToLower(i.Attributes), strings.ToLower(f.AttributesLike)) {
		return false
	}
	if f.MinPrice != nil && i.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && i.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Currency != "" && f.Currency != i.Currency {
		return false
	}
	if f.InStockOnly && i.Quantity <= 0 {
		return false
	}
	return true
}
