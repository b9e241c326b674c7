// services/store-service/internal/infra/postgres/account_store.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
)

var _ repository.AccountStore = (*PostgresAccountStore)(nil)

const accountColumns = `id, email, password, name, surname, birthday, country, gender, city, address, phone_number, image`

type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

func scanAccount(row rowScanner) (account.Account, error) {
	var (
		acc      account.Account
		birthday sql.NullTime
	)
	err := row.Scan(&acc.ID, &acc.Email, &acc.Password, &acc.Name, &acc.Surname, &birthday,
		&acc.Country, &acc.Gender, &acc.City, &acc.Address, &acc.PhoneNumber, &acc.Image)
	if birthday.Valid {
		acc.Birthday = birthday.Time
	}
	return acc, err
}

// nullDate stores a zero birthday as NULL.
func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func (s *PostgresAccountStore) CreateAccount(ctx context.Context, acc *account.Account) (int64, error) {
	query := `
        INSERT INTO personal_accounts
        (email, password, name, surname, birthday, country, gender, city, address, phone_number, image)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id`

	err := executorFrom(ctx, s.db).QueryRowContext(ctx, query,
		acc.Email, acc.Password, acc.Name, acc.Surname, nullDate(acc.Birthday),
		acc.Country, acc.Gender, acc.City, acc.Address, acc.PhoneNumber, acc.Image,
	).Scan(&acc.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert account: %w", mapError(err))
	}
	return acc.ID, nil
}

func (s *PostgresAccountStore) GetAccount(ctx context.Context, id int64) (*account.Account, error) {
	query := "SELECT " + accountColumns + " FROM personal_accounts WHERE id = $1"

	acc, err := scanAccount(executorFrom(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", id, mapError(err))
	}
	return &acc, nil
}

func (s *PostgresAccountStore) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := "SELECT " + accountColumns + " FROM personal_accounts WHERE email = $1"

	acc, err := scanAccount(executorFrom(ctx, s.db).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("account by email: %w", mapError(err))
	}
	return &acc, nil
}

func (s *PostgresAccountStore) ListAccounts(ctx context.Context, filter account.Filter) ([]account.Account, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Gender != "" {
		args = append(args, string(filter.Gender))
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}
	if filter.Country != "" {
		args = append(args, string(filter.Country))
		conds = append(conds, fmt.Sprintf("country = $%d", len(args)))
	}
	query := "SELECT " + accountColumns + " FROM personal_accounts"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", mapError(err))
	}
	defer rows.Close()

	accounts := []account.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (s *PostgresAccountStore) UpdateAccount(ctx context.Context, acc *account.Account) error {
	query := `
        UPDATE personal_accounts
        SET email = $2, password = $3, name = $4, surname = $5, birthday = $6,
            country = $7, gender = $8, city = $9, address = $10, phone_number = $11, image = $12
        WHERE id = $1`

	res, err := executorFrom(ctx, s.db).ExecContext(ctx, query,
		acc.ID, acc.Email, acc.Password, acc.Name, acc.Surname, nullDate(acc.Birthday),
		acc.Country, acc.Gender, acc.City, acc.Address, acc.PhoneNumber, acc.Image)
	if err != nil {
		return fmt.Errorf("update account %d: %w", acc.ID, mapError(err))
	}
	return requireAffected(res, "account", acc.ID)
}

// DeleteAccount relies on the schema: sell_history restricts, premium_users cascades.
func (s *PostgresAccountStore) DeleteAccount(ctx context.Context, id int64) error {
	res, err := executorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM personal_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account %d: %w", id, mapError(err))
	}
	return requireAffected(res, "account", id)
}
