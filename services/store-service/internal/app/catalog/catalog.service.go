// services/store-service/internal/app/catalog/catalog.service.go
package catalog

import (
	"context"
	"fmt"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("catalog")

// Service reads and edits the catalog. Stock is never changed here after
// an item is created; that belongs to the ledger.
type Service struct {
	items repository.ItemStore
}

func NewService(items repository.ItemStore) *Service {
	return &Service{items: items}
}

// ListItems returns one page ordered by id. offset counts items.
func (s *Service) ListItems(ctx context.Context, limit, offset int) ([]item.Item, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit %d offset %d: %w", limit, offset, domainErr.ErrInvalidArgument)
	}
	return s.items.ListItems(ctx, limit, offset)
}

// ListAll returns the whole catalog.
func (s *Service) ListAll(ctx context.Context) ([]item.Item, error) {
	return s.items.FindItems(ctx, item.Filter{})
}

func (s *Service) FindByBrand(ctx context.Context, brand item.Brand) ([]item.Item, error) {
	if !brand.Valid() {
		return nil, fmt.Errorf("unknown brand %q: %w", brand, domainErr.ErrInvalidArgument)
	}
	return s.items.FindItems(ctx, item.Filter{Brands: []item.Brand{brand}})
}

func (s *Service) FindByAttributes(ctx context.Context, filter item.Filter) ([]item.Item, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.items.FindItems(ctx, filter)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	return s.items.GetItem(ctx, id)
}

// AddItem stores a new item with its opening stock.
func (s *Service) AddItem(ctx context.Context, it item.Item) (int64, error) {
	if err := it.Validate(); err != nil {
		return 0, err
	}
	id, err := s.items.CreateItem(ctx, &it)
	if err != nil {
		return 0, err
	}
	log.Infof("item %d added: %s %s, stock %d", id, it.Brand, it.Model, it.Quantity)
	return id, nil
}

// UpdateItemDetails edits the descriptive fields. it.Quantity is ignored.
func (s *Service) UpdateItemDetails(ctx context.Context, it item.Item) error {
	check := it
	check.Quantity = 0
	if err := check.Validate(); err != nil {
		return err
	}
	return s.items.UpdateItemDetails(ctx, &it)
}

// DeleteItem fails with ErrReferentialIntegrity once the item has been sold.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := s.items.DeleteItem(ctx, id); err != nil {
		return err
	}
	log.Infof("item %d deleted", id)
	return nil
}
