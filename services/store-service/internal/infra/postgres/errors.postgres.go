// services/store-service/internal/infra/postgres/errors.postgres.go
package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes we translate.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// stockConstraint is the default name Postgres gives CHECK (quantity >= 0) on items.
const stockConstraint = "items_quantity_check"

// sqlState extracts the SQLSTATE and constraint name from either driver's error type.
func sqlState(err error) (code, constraint string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// mapError translates driver errors into domain sentinels, keeping the
// original error in the chain for logs. Unknown errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domainErr.ErrNotFound
	}

	code, constraint := sqlState(err)
	switch code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %v", domainErr.ErrDuplicateEmail, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %v", domainErr.ErrReferentialIntegrity, err)
	case codeCheckViolation:
		if constraint == stockConstraint {
			return fmt.Errorf("%w: %v", domainErr.ErrInsufficientStock, err)
		}
		return fmt.Errorf("%w: %v", domainErr.ErrInvalidArgument, err)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %v", domainErr.ErrTransient, err)
	}

	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", domainErr.ErrTransient, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	//Connection Refused / Reset
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
