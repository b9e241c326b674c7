// services/store-service/internal/infra/postgres/sell_history_store.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/sellhistory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
)

var _ repository.SellHistoryStore = (*PostgresSellHistoryStore)(nil)

const saleColumns = `id, account_id, item_id, quantity, unit_price, currency, sold_at, reversed_at`

type PostgresSellHistoryStore struct {
	db *sql.DB
}

func NewPostgresSellHistoryStore(db *sql.DB) *PostgresSellHistoryStore {
	return &PostgresSellHistoryStore{db: db}
}

func scanSale(row rowScanner) (sellhistory.SellHistory, error) {
	var (
		sale     sellhistory.SellHistory
		reversed sql.NullTime
	)
	err := row.Scan(&sale.ID, &sale.AccountID, &sale.ItemID, &sale.Quantity,
		&sale.UnitPrice, &sale.Currency, &sale.SoldAt, &reversed)
	if reversed.Valid {
		at := reversed.Time
		sale.ReversedAt = &at
	}
	return sale, err
}

func (s *PostgresSellHistoryStore) CreateSale(ctx context.Context, sale *sellhistory.SellHistory) (int64, error) {
	query := `
        INSERT INTO sell_history (account_id, item_id, quantity, unit_price, currency, sold_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := executorFrom(ctx, s.db).QueryRowContext(ctx, query,
		sale.AccountID, sale.ItemID, sale.Quantity, sale.UnitPrice, sale.Currency, sale.SoldAt,
	).Scan(&sale.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sale: %w", mapError(err))
	}
	return sale.ID, nil
}

func (s *PostgresSellHistoryStore) GetSale(ctx context.Context, id int64) (*sellhistory.SellHistory, error) {
	return s.getSale(ctx, id, "")
}

func (s *PostgresSellHistoryStore) GetSaleForUpdate(ctx context.Context, id int64) (*sellhistory.SellHistory, error) {
	return s.getSale(ctx, id, " FOR UPDATE")
}

func (s *PostgresSellHistoryStore) getSale(ctx context.Context, id int64, lock string) (*sellhistory.SellHistory, error) {
	query := "SELECT " + saleColumns + " FROM sell_history WHERE id = $1" + lock

	sale, err := scanSale(executorFrom(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("sale %d: %w", id, mapError(err))
	}
	return &sale, nil
}

func (s *PostgresSellHistoryStore) MarkReversed(ctx context.Context, id int64, at time.Time) error {
	ex := executorFrom(ctx, s.db)
	res, err := ex.ExecContext(ctx,
		`UPDATE sell_history SET reversed_at = $2 WHERE id = $1 AND reversed_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("reverse sale %d: %w", id, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 1 {
		return nil
	}

	if _, err := s.GetSale(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("sale %d: %w", id, domainErr.ErrSaleAlreadyReversed)
}

func (s *PostgresSellHistoryStore) ListByAccount(ctx context.Context, accountID int64) ([]sellhistory.SellHistory, error) {
	query := "SELECT " + saleColumns + " FROM sell_history WHERE account_id = $1 ORDER BY sold_at ASC, id ASC"

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list sales of account %d: %w", accountID, mapError(err))
	}
	defer rows.Close()

	sales := []sellhistory.SellHistory{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// TopSpenders prices every sale at its recorded unit price.
func (s *PostgresSellHistoryStore) TopSpenders(ctx context.Context, n int) ([]sellhistory.SpenderTotal, error) {
	query := `
        SELECT account_id, SUM(unit_price * quantity) AS total
        FROM sell_history
        WHERE reversed_at IS NULL
        GROUP BY account_id
        ORDER BY total DESC, account_id ASC
        LIMIT $1`

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("top spenders: %w", mapError(err))
	}
	defer rows.Close()

	totals := []sellhistory.SpenderTotal{}
	for rows.Next() {
		var st sellhistory.SpenderTotal
		if err := rows.Scan(&st.AccountID, &st.Total); err != nil {
			return nil, err
		}
		totals = append(totals, st)
	}
	return totals, rows.Err()
}

func (s *PostgresSellHistoryStore) ItemsBoughtBy(ctx context.Context, accountID int64) ([]item.Item, error) {
	query := `
        SELECT i.id, i.model, i.brand, i.attributes, i.price, i.currency, i.quantity
        FROM items i
        WHERE EXISTS (
            SELECT 1 FROM sell_history sh
            WHERE sh.item_id = i.id AND sh.account_id = $1 AND sh.reversed_at IS NULL
        )
        ORDER BY i.id ASC`

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("items bought by %d: %w", accountID, mapError(err))
	}
	return collectItems(rows)
}
