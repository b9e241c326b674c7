// services/store-service/internal/infra/postgres/open.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	// Both drivers register with database/sql; DB_DRIVER picks one.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

var log = logging.Logger("postgres")

const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects with the chosen driver, applies pool limits and pings the server.
func Open(ctx context.Context, driverName, dsn string, pool PoolOptions) (*sql.DB, error) {
	if driverName != DriverPQ && driverName != DriverPGX {
		return nil, fmt.Errorf("unsupported db driver %q", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres db: %w", err)
	}

	log.Infof("connected to postgres using driver %s", driverName)
	return db, nil
}
