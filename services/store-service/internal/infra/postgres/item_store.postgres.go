// services/store-service/internal/infra/postgres/item_store.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
)

// Ensure PostgresItemStore implements the interface at compile time
var _ repository.ItemStore = (*PostgresItemStore)(nil)

const itemColumns = `id, model, brand, attributes, price, currency, quantity`

type PostgresItemStore struct {
	db *sql.DB
}

func NewPostgresItemStore(db *sql.DB) *PostgresItemStore {
	return &PostgresItemStore{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (item.Item, error) {
	var it item.Item
	err := row.Scan(&it.ID, &it.Model, &it.Brand, &it.Attributes, &it.Price, &it.Currency, &it.Quantity)
	return it, err
}

func collectItems(rows *sql.Rows) ([]item.Item, error) {
	defer rows.Close()

	items := []item.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresItemStore) CreateItem(ctx context.Context, it *item.Item) (int64, error) {
	query := `
        INSERT INTO items (model, brand, attributes, price, currency, quantity)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := executorFrom(ctx, s.db).QueryRowContext(ctx, query,
		it.Model, it.Brand, it.Attributes, it.Price, it.Currency, it.Quantity,
	).Scan(&it.ID)
	if err != nil {
		mapped := mapError(err)
		// The stock CHECK on insert means bad input, not a failed sale.
		if errors.Is(mapped, domainErr.ErrInsufficientStock) {
			return 0, fmt.Errorf("create item quantity %d: %w", it.Quantity, domainErr.ErrInvalidArgument)
		}
		return 0, fmt.Errorf("failed to insert item: %w", mapped)
	}
	return it.ID, nil
}

func (s *PostgresItemStore) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	return s.getItem(ctx, id, "")
}

// GetItemForUpdate only locks when ctx carries a transaction; outside one the
// lock would be released immediately.
func (s *PostgresItemStore) GetItemForUpdate(ctx context.Context, id int64) (*item.Item, error) {
	return s.getItem(ctx, id, " FOR UPDATE")
}

func (s *PostgresItemStore) getItem(ctx context.Context, id int64, lock string) (*item.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE id = $1" + lock

	it, err := scanItem(executorFrom(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", id, mapError(err))
	}
	return &it, nil
}

func (s *PostgresItemStore) ListItems(ctx context.Context, limit, offset int) ([]item.Item, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit %d offset %d: %w", limit, offset, domainErr.ErrInvalidArgument)
	}
	query := "SELECT " + itemColumns + " FROM items ORDER BY id ASC LIMIT $1 OFFSET $2"

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", mapError(err))
	}
	return collectItems(rows)
}

func (s *PostgresItemStore) FindItems(ctx context.Context, filter item.Filter) ([]item.Item, error) {
	where, args := buildItemFilter(filter)
	query := "SELECT " + itemColumns + " FROM items" + where + " ORDER BY id ASC"

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", mapError(err))
	}
	return collectItems(rows)
}

// buildItemFilter turns the set fields of filter into a WHERE clause with
// positional arguments. An empty filter yields no clause at all.
func buildItemFilter(f item.Filter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Brands) > 0 {
		ph := make([]string, len(f.Brands))
		for i, b := range f.Brands {
			ph[i] = arg(string(b))
		}
		conds = append(conds, "brand IN ("+strings.Join(ph, ", ")+")")
	}
	if f.Model != "" {
		conds = append(conds, "model = "+arg(f.Model))
	}
	if f.AttributesLike != "" {
		conds = append(conds, "attributes ILIKE "+arg("%"+escapeLike(f.AttributesLike)+"%"))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}
	if f.Currency != "" {
		conds = append(conds, "currency = "+arg(string(f.Currency)))
	}
	if f.InStockOnly {
		conds = append(conds, "quantity > 0")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *PostgresItemStore) UpdateItemDetails(ctx context.Context, it *item.Item) error {
	query := `
        UPDATE items
        SET model = $2, brand = $3, attributes = $4, price = $5, currency = $6
        WHERE id = $1`

	res, err := executorFrom(ctx, s.db).ExecContext(ctx, query,
		it.ID, it.Model, it.Brand, it.Attributes, it.Price, it.Currency)
	if err != nil {
		return fmt.Errorf("update item %d: %w", it.ID, mapError(err))
	}
	return requireAffected(res, "item", it.ID)
}

func (s *PostgresItemStore) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	ex := executorFrom(ctx, s.db)
	query := `
        UPDATE items
        SET quantity = quantity + $2
        WHERE id = $1 AND quantity + $2 >= 0
        RETURNING quantity`

	var quantity int
	err := ex.QueryRowContext(ctx, query, id, delta).Scan(&quantity)
	if err == nil {
		return quantity, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("adjust item %d: %w", id, mapError(err))
	}

	// No row updated: either the item is gone or the change would go below zero.
	var exists bool
	if err := ex.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("adjust item %d: %w", id, mapError(err))
	}
	if !exists {
		return 0, fmt.Errorf("item %d: %w", id, domainErr.ErrNotFound)
	}
	return 0, fmt.Errorf("item %d change %d: %w", id, delta, domainErr.ErrInsufficientStock)
}

func (s *PostgresItemStore) DeleteItem(ctx context.Context, id int64) error {
	res, err := executorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, mapError(err))
	}
	return requireAffected(res, "item", id)
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, domainErr.ErrNotFound)
	}
	return nil
}
