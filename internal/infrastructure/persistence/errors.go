package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories translate
const (
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgUniqueViolation     = "23505"
	pgConnectionClass     = "08"
	pgAdminShutdown       = "57P01"
	pgCrashShutdown       = "57P02"
	pgCannotConnectNow    = "57P03"
)

// translateError maps driver and GORM errors onto the domain taxonomy.
// Errors it does not recognize are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.WrapDomainError(shared.CodeNotFound, "Resource not found", err)
	}

	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return constraintViolation(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError(shared.CodeAlreadyExists, "Resource already exists", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgForeignKeyViolation, pgErr.Code == pgNotNullViolation, pgErr.Code == pgCheckViolation:
			return constraintViolation(err)
		case pgErr.Code == pgUniqueViolation:
			return shared.WrapDomainError(shared.CodeAlreadyExists, "Resource already exists", err)
		case strings.HasPrefix(pgErr.Code, pgConnectionClass),
			pgErr.Code == pgAdminShutdown, pgErr.Code == pgCrashShutdown, pgErr.Code == pgCannotConnectNow:
			return storeUnavailable(err)
		}
		return err
	}

	if isConnectionError(err) {
		return storeUnavailable(err)
	}

	// sqlite reports constraint failures only through the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return constraintViolation(err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return shared.WrapDomainError(shared.CodeAlreadyExists, "Resource already exists", err)
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func constraintViolation(err error) error {
	return shared.WrapDomainError(shared.CodeConstraintViolation, "Write violates a data constraint", err)
}

func storeUnavailable(err error) error {
	return shared.WrapDomainError(shared.CodeStoreUnavailable, "Data store is unavailable", err)
}
