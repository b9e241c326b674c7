// services/store-service/internal/infra/postgres/schema.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent. Sell history blocks deletes of the rows it points
// to; a premium tier is removed together with its account.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id          BIGSERIAL PRIMARY KEY,
		model       TEXT           NOT NULL,
		brand       TEXT           NOT NULL,
		attributes  TEXT           NOT NULL DEFAULT '',
		price       NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
		currency    TEXT           NOT NULL,
		quantity    INTEGER        NOT NULL CHECK (quantity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS personal_accounts (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password      TEXT NOT NULL,
		name          TEXT NOT NULL,
		surname       TEXT NOT NULL DEFAULT '',
		birthday      DATE,
		country       TEXT NOT NULL DEFAULT '',
		gender        TEXT NOT NULL DEFAULT '',
		city          TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		phone_number  TEXT NOT NULL DEFAULT '',
		image         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS sell_history (
		id          BIGSERIAL PRIMARY KEY,
		account_id  BIGINT         NOT NULL REFERENCES personal_accounts (id) ON DELETE RESTRICT,
		item_id     BIGINT         NOT NULL REFERENCES items (id) ON DELETE RESTRICT,
		quantity    INTEGER        NOT NULL CHECK (quantity > 0),
		unit_price  NUMERIC(14, 2) NOT NULL,
		currency    TEXT           NOT NULL,
		sold_at     TIMESTAMPTZ    NOT NULL,
		reversed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS sell_history_account_idx ON sell_history (account_id)`,
	`CREATE INDEX IF NOT EXISTS sell_history_item_idx ON sell_history (item_id)`,
	`CREATE TABLE IF NOT EXISTS premium_users (
		account_id  BIGINT  PRIMARY KEY REFERENCES personal_accounts (id) ON DELETE CASCADE,
		discount    INTEGER NOT NULL CHECK (discount IN (5, 10, 15, 20, 25))
	)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
